package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mhcho/manualhub/internal/config"
	"github.com/mhcho/manualhub/internal/core/ports"
	"github.com/mhcho/manualhub/internal/core/usecase"
	"github.com/mhcho/manualhub/internal/infrastructure/inspect"
	"github.com/mhcho/manualhub/internal/infrastructure/mlserver"
	"github.com/mhcho/manualhub/internal/infrastructure/repository/postgres"
	"github.com/mhcho/manualhub/internal/infrastructure/resilience"
	"github.com/mhcho/manualhub/internal/infrastructure/storage/localfs"
	"github.com/mhcho/manualhub/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Users   ports.UserRepository
	Metrics *metrics.HTTPServerMetrics

	RegistrarUC *usecase.RegisterModelUseCase
	ChatUC      *usecase.ChatUseCase
	ModelsUC    *usecase.ManageModelsUseCase
	CatalogUC   *usecase.ManageCatalogUseCase
	ManualsUC   *usecase.ManageManualsUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	models := postgres.NewModelRepository(db)
	manuals := postgres.NewManualRepository(db)
	brands := postgres.NewBrandRepository(db)
	categories := postgres.NewCategoryRepository(db)
	users := postgres.NewUserRepository(db)

	store, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init manual storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.Config{
		BreakerEnabled:          cfg.BreakerEnabled,
		BreakerMinRequests:      uint32(cfg.BreakerMinRequests),
		BreakerFailureRatio:     cfg.BreakerFailureRatio,
		BreakerOpenTimeout:      cfg.BreakerOpenTimeout,
		BreakerHalfOpenMaxCalls: uint32(cfg.BreakerHalfOpenMaxCalls),
	})
	processor := mlserver.New(cfg.MLServerURL, cfg.MLServerAPIKey, executor)
	inspector := inspect.NewPDFInspector()

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := usecase.EnsureDefaultAdmin(ctx, users, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("provision default admin: %w", err)
		}
	} else {
		slog.Warn("default_admin_skipped", "reason", "ADMIN_EMAIL or ADMIN_PASSWORD not set")
	}

	return &App{
		Config:  cfg,
		Users:   users,
		Metrics: metrics.NewHTTPServerMetrics("api"),

		RegistrarUC: usecase.NewRegisterModelUseCase(models, manuals, categories, users, store, processor, inspector),
		ChatUC:      usecase.NewChatUseCase(models, processor),
		ModelsUC:    usecase.NewManageModelsUseCase(models, manuals, categories, users, store),
		CatalogUC:   usecase.NewManageCatalogUseCase(brands, categories, models, manuals, store),
		ManualsUC:   usecase.NewManageManualsUseCase(manuals, users, store),

		closeFn: func() {
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
