package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gauss2302/jobhub/internal/config"
	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/password"
	"github.com/gauss2302/jobhub/internal/repository"
)

// EnsureAdmin creates the platform superuser on startup when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured. A no-op otherwise.
func EnsureAdmin(lc fx.Lifecycle, cfg config.Config, users repository.UserRepository, node *snowflake.Node, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureAdmin(ctx, cfg, users, node, logger)
		},
	})
}

func ensureAdmin(ctx context.Context, cfg config.Config, users repository.UserRepository, node *snowflake.Node, logger *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || strings.TrimSpace(cfg.AdminPassword) == "" {
		return nil
	}

	if existing, err := users.GetByEmail(ctx, email); err == nil {
		if !existing.IsSuperuser {
			existing.IsSuperuser = true
			if _, err := users.Update(ctx, existing); err != nil {
				return fmt.Errorf("bootstrap promote admin: %w", err)
			}
		}
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("bootstrap lookup user: %w", err)
	}

	hashed, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap hash password: %w", err)
	}

	created, err := users.Create(ctx, domain.User{
		ID:           node.Generate().Int64(),
		Email:        email,
		FullName:     "Admin",
		PasswordHash: hashed,
		IsActive:     true,
		IsSuperuser:  true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap create user: %w", err)
	}

	if logger != nil {
		logger.Info("bootstrap admin user created",
			zap.String("email", created.Email),
			zap.Int64("user_id", created.ID),
		)
	}
	return nil
}
