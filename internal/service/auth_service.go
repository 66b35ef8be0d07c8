package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/gauss2302/jobhub/internal/config"
	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/jwt"
	pw "github.com/gauss2302/jobhub/internal/password"
	"github.com/gauss2302/jobhub/internal/repository"
)

// AuthResult bundles the issued credentials with the authenticated profile.
type AuthResult struct {
	User   domain.User
	Tokens domain.TokenPair
}

// AuthService encapsulates local credential flows and refresh-token rotation.
type AuthService struct {
	users      repository.UserRepository
	recruiters repository.RecruiterRepository
	tokens     repository.RefreshTokenStore
	snowflake  *snowflake.Node
	jwt        *jwt.Generator
	cfg        config.Config
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, recruiters repository.RecruiterRepository, tokens repository.RefreshTokenStore, node *snowflake.Node, generator *jwt.Generator, cfg config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		recruiters: recruiters,
		tokens:     tokens,
		snowflake:  node,
		jwt:        generator,
		cfg:        cfg,
		logger:     logger,
		tracer:     otel.Tracer("github.com/gauss2302/jobhub/internal/service"),
	}
}

// Register creates a local email/password account and signs the user in.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	normalized := normalizeIdentifier(email)
	if normalized == "" {
		return AuthResult{}, newAPIError("invalid_request", "Email is required.", http.StatusBadRequest)
	}
	if problems := pw.ValidateStrength(password); len(problems) > 0 {
		return AuthResult{}, newAPIError("invalid_request", strings.Join(problems, " "), http.StatusBadRequest)
	}

	if _, err := s.users.GetByEmail(ctx, normalized); err == nil {
		return AuthResult{}, newAPIError("invalid_request", "Email already registered.", http.StatusBadRequest)
	} else if !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return AuthResult{}, fmt.Errorf("check existing user: %w", err)
	}

	hashed, err := pw.Hash(password)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, domain.User{
		ID:           s.snowflake.Generate().Int64(),
		Email:        normalized,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hashed,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return AuthResult{}, newAPIError("invalid_request", "Email already registered.", http.StatusBadRequest)
		}
		span.RecordError(err)
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.IssueTokens(ctx, created, "")
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}

	s.audit("auth.register.success", "user_id", created.ID)
	return AuthResult{User: created, Tokens: tokens}, nil
}

// Login authenticates with email/password.
func (s *AuthService) Login(ctx context.Context, email, password, deviceID string) (AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, normalizeIdentifier(email))
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, newAPIError("invalid_grant", "Wrong email or password.", http.StatusUnauthorized)
	}
	if user.PasswordHash == "" {
		return AuthResult{}, newAPIError("invalid_grant", "Account uses social login.", http.StatusUnauthorized)
	}

	valid, err := pw.Verify(password, user.PasswordHash)
	if err != nil || !valid {
		span.RecordError(fmt.Errorf("invalid password"))
		return AuthResult{}, newAPIError("invalid_grant", "Wrong email or password.", http.StatusUnauthorized)
	}
	if !user.IsActive {
		return AuthResult{}, newAPIError("invalid_grant", "Account is deactivated.", http.StatusForbidden)
	}

	tokens, err := s.IssueTokens(ctx, user, deviceID)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log().Warn("update last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	s.audit("auth.password_login.success", "user_id", user.ID)
	return AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh rotates a refresh token: the presented token is validated against
// the tracked session, burned onto the blacklist, and a fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Refresh")
	defer span.End()

	if strings.TrimSpace(refreshToken) == "" {
		return AuthResult{}, newAPIError("invalid_grant", "Refresh token missing.", http.StatusBadRequest)
	}

	std, custom, err := s.jwt.ValidateToken(refreshToken, jwt.UseRefresh)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, newAPIError("invalid_grant", "Invalid refresh token.", http.StatusUnauthorized)
	}
	userID, err := jwt.Subject(std)
	if err != nil {
		return AuthResult{}, newAPIError("invalid_grant", "Invalid refresh token.", http.StatusUnauthorized)
	}

	if blacklisted, err := s.tokens.IsBlacklisted(ctx, refreshToken); err != nil {
		span.RecordError(err)
		return AuthResult{}, fmt.Errorf("check blacklist: %w", err)
	} else if blacklisted {
		s.audit("auth.refresh.replayed", "user_id", userID)
		return AuthResult{}, newAPIError("invalid_grant", "Refresh token revoked.", http.StatusUnauthorized)
	}

	active, err := s.tokens.IsActive(ctx, userID, custom.DeviceID, refreshToken)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, fmt.Errorf("check session: %w", err)
	}
	if !active {
		return AuthResult{}, newAPIError("invalid_grant", "Refresh token revoked.", http.StatusUnauthorized)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, newAPIError("invalid_grant", "Account not found.", http.StatusUnauthorized)
	}
	if !user.IsActive {
		return AuthResult{}, newAPIError("invalid_grant", "Account is deactivated.", http.StatusForbidden)
	}

	tokens, err := s.IssueTokens(ctx, user, custom.DeviceID)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}

	if err := s.tokens.Blacklist(ctx, refreshToken, remainingLifetime(std)); err != nil {
		s.log().Warn("blacklist rotated token", zap.Int64("user_id", userID), zap.Error(err))
	}

	s.audit("auth.refresh.success", "user_id", user.ID)
	return AuthResult{User: user, Tokens: tokens}, nil
}

// Logout revokes the session the refresh token belongs to.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := s.startSpan(ctx, "AuthService.Logout")
	defer span.End()

	std, custom, err := s.jwt.ValidateToken(refreshToken, jwt.UseRefresh)
	if err != nil {
		return newAPIError("invalid_grant", "Invalid refresh token.", http.StatusUnauthorized)
	}
	userID, err := jwt.Subject(std)
	if err != nil {
		return newAPIError("invalid_grant", "Invalid refresh token.", http.StatusUnauthorized)
	}

	if err := s.tokens.Revoke(ctx, userID, custom.DeviceID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("revoke session: %w", err)
	}
	if err := s.tokens.Blacklist(ctx, refreshToken, remainingLifetime(std)); err != nil {
		s.log().Warn("blacklist on logout", zap.Int64("user_id", userID), zap.Error(err))
	}

	s.audit("auth.logout.success", "user_id", userID)
	return nil
}

// LogoutDevice revokes one tracked session by its device slot. It covers
// logout calls that carry no refresh token back; the orphaned token fails
// the active-session check on its next refresh.
func (s *AuthService) LogoutDevice(ctx context.Context, userID int64, deviceID string) error {
	ctx, span := s.startSpan(ctx, "AuthService.LogoutDevice")
	defer span.End()

	if err := s.tokens.Revoke(ctx, userID, deviceID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("revoke session: %w", err)
	}
	s.audit("auth.logout.success", "user_id", userID)
	return nil
}

// LogoutAll drops every tracked session for the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID int64) (int, error) {
	ctx, span := s.startSpan(ctx, "AuthService.LogoutAll")
	defer span.End()

	revoked, err := s.tokens.RevokeAll(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}
	s.audit("auth.logout_all.success", "user_id", userID, "sessions", revoked)
	return revoked, nil
}

// IssueTokens signs an access/refresh pair and tracks the refresh session.
func (s *AuthService) IssueTokens(ctx context.Context, user domain.User, deviceID string) (domain.TokenPair, error) {
	roles, err := s.rolesFor(ctx, user)
	if err != nil {
		return domain.TokenPair{}, err
	}

	accessToken, err := s.jwt.GenerateAccessToken(user, roles)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID, deviceID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokens.Store(ctx, user.ID, deviceID, refreshToken, s.jwt.RefreshTTL()); err != nil {
		return domain.TokenPair{}, fmt.Errorf("track session: %w", err)
	}

	return domain.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "bearer",
		ExpiresIn:        int(s.jwt.AccessTTL().Seconds()),
		RefreshExpiresIn: int(s.jwt.RefreshTTL().Seconds()),
	}, nil
}

func (s *AuthService) rolesFor(ctx context.Context, user domain.User) ([]string, error) {
	roles := []string{domain.RoleUser}
	rec, err := s.recruiters.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		if rec.IsApproved() {
			roles = append(roles, domain.RoleRecruiter)
		}
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("load recruiter profile: %w", err)
	}
	if user.IsSuperuser {
		roles = append(roles, domain.RoleAdmin)
	}
	return roles, nil
}

func remainingLifetime(std *gojwt.Claims) time.Duration {
	if std == nil || std.Expiry == nil {
		return 0
	}
	return time.Until(std.Expiry.Time())
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (s *AuthService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}

func normalizeIdentifier(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
