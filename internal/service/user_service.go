package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/repository"
)

// UserService covers profile reads and lifecycle operations.
type UserService struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenStore
	logger *zap.Logger
	tracer trace.Tracer
}

// NewUserService wires dependencies.
func NewUserService(users repository.UserRepository, tokens repository.RefreshTokenStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger,
		tracer: otel.Tracer("github.com/gauss2302/jobhub/internal/service"),
	}
}

// Get loads one user by ID.
func (s *UserService) Get(ctx context.Context, userID int64) (domain.User, error) {
	ctx, span := s.span(ctx, "UserService.Get")
	defer span.End()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, newAPIError("not_found", "User not found.", http.StatusNotFound)
		}
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, update domain.UserUpdate) (domain.User, error) {
	ctx, span := s.span(ctx, "UserService.UpdateProfile")
	defer span.End()

	user, err := s.Get(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// SetActive toggles account availability. Deactivation drops every live
// refresh session so outstanding tokens die at access-token expiry.
func (s *UserService) SetActive(ctx context.Context, userID int64, active bool) error {
	ctx, span := s.span(ctx, "UserService.SetActive")
	defer span.End()

	if err := s.users.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return newAPIError("not_found", "User not found.", http.StatusNotFound)
		}
		span.RecordError(err)
		return fmt.Errorf("set active: %w", err)
	}
	if !active {
		if _, err := s.tokens.RevokeAll(ctx, userID); err != nil {
			s.logger.Warn("revoke sessions on deactivate", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	s.logger.Info("audit",
		zap.String("event", "user.set_active"),
		zap.Int64("user_id", userID),
		zap.Bool("active", active),
	)
	return nil
}

// Delete removes the account and all of its sessions.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	ctx, span := s.span(ctx, "UserService.Delete")
	defer span.End()

	// Sessions go only once the row is gone, so a failed delete leaves the
	// account fully intact.
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return newAPIError("not_found", "User not found.", http.StatusNotFound)
		}
		span.RecordError(err)
		return fmt.Errorf("delete user: %w", err)
	}
	if _, err := s.tokens.RevokeAll(ctx, userID); err != nil {
		s.logger.Warn("revoke sessions on delete", zap.Int64("user_id", userID), zap.Error(err))
	}
	s.logger.Info("audit", zap.String("event", "user.delete"), zap.Int64("user_id", userID))
	return nil
}

func (s *UserService) span(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}
