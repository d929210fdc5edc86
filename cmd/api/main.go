package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/mhcho/manualhub/internal/adapters/http"
	"github.com/mhcho/manualhub/internal/bootstrap"
	"github.com/mhcho/manualhub/internal/config"
	"github.com/mhcho/manualhub/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("manualhub-api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpadapter.NewRouter(
		"api",
		app.RegistrarUC,
		app.ChatUC,
		app.ModelsUC,
		app.CatalogUC,
		app.ManualsUC,
		app.Users,
		app.Metrics,
	).Handler()
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
		// Uploads are relayed to the processing service synchronously, so
		// the write timeout must cover a full processing round trip.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api_server_failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_error", "error", err)
	}
}
