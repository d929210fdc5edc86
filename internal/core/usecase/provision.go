package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mhcho/manualhub/internal/core/domain"
	"github.com/mhcho/manualhub/internal/core/ports"
)

// EnsureDefaultAdmin provisions the configured administrator account if it
// does not exist yet. It runs once at startup, before the server accepts
// traffic, and is idempotent across restarts.
func EnsureDefaultAdmin(ctx context.Context, users ports.UserRepository, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("admin email and password must be configured")
	}

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	slog.Info("default_admin_created", "email", email)
	return nil
}
