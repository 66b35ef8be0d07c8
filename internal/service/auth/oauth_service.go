package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	oauthadapter "github.com/gauss2302/jobhub/internal/adapter/oauth"
	"github.com/gauss2302/jobhub/internal/config"
	"github.com/gauss2302/jobhub/internal/domain"
	domainoauth "github.com/gauss2302/jobhub/internal/domain/oauth"
	"github.com/gauss2302/jobhub/internal/repository"
	"github.com/gauss2302/jobhub/internal/service"
)

// TokenIssuer mints first-party token pairs once the provider identity is
// resolved. Satisfied by service.AuthService.
type TokenIssuer interface {
	IssueTokens(ctx context.Context, user domain.User, deviceID string) (domain.TokenPair, error)
}

// OAuthService drives the social-login flows against Google and GitHub.
type OAuthService interface {
	Providers() []string
	StartAuthorization(ctx context.Context, provider string) (*StartAuthorizationOutput, error)
	HandleCallback(ctx context.Context, in CallbackInput) (*service.AuthResult, error)
	LinkIdentity(ctx context.Context, userID int64, in CallbackInput) (domain.User, error)
}

// StartAuthorizationOutput returns the prepared authorization URL.
type StartAuthorizationOutput struct {
	AuthorizationURL string
	State            string
}

// CallbackInput captures the code/state pair returned by the provider,
// whether delivered on the redirect or forwarded by a SPA.
type CallbackInput struct {
	Provider string
	Code     string
	State    string
	DeviceID string
}

type oauthService struct {
	stateStore     repository.OAuthStateStore
	providerClient oauthadapter.ProviderClient
	users          repository.UserRepository
	issuer         TokenIssuer
	snowflake      *snowflake.Node
	cfg            config.Config
	logger         *zap.Logger
}

// NewOAuthService wires the OAuth service implementation.
func NewOAuthService(
	stateStore repository.OAuthStateStore,
	providerClient oauthadapter.ProviderClient,
	users repository.UserRepository,
	issuer TokenIssuer,
	node *snowflake.Node,
	cfg config.Config,
	logger *zap.Logger,
) OAuthService {
	return &oauthService{
		stateStore:     stateStore,
		providerClient: providerClient,
		users:          users,
		issuer:         issuer,
		snowflake:      node,
		cfg:            cfg,
		logger:         logger,
	}
}

const statePrefix = "oauth:state:"

func (s *oauthService) Providers() []string {
	var names []string
	if s.cfg.Google.Enabled() {
		names = append(names, s.cfg.Google.Name)
	}
	if s.cfg.GitHub.Enabled() {
		names = append(names, s.cfg.GitHub.Name)
	}
	return names
}

func (s *oauthService) providerByName(name string) (domainoauth.ProviderConfig, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "google":
		if s.cfg.Google.Enabled() {
			return s.cfg.Google, nil
		}
	case "github":
		if s.cfg.GitHub.Enabled() {
			return s.cfg.GitHub, nil
		}
	}
	return domainoauth.ProviderConfig{}, domainoauth.ErrProviderNotFound
}

func (s *oauthService) StartAuthorization(ctx context.Context, provider string) (*StartAuthorizationOutput, error) {
	cfg, err := s.providerByName(provider)
	if err != nil {
		return nil, err
	}

	state, err := secureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	payload := domainoauth.State{
		State:       state,
		Provider:    cfg.Name,
		RedirectURI: cfg.RedirectURI,
		CreatedAt:   time.Now().UTC().Unix(),
	}

	authURL, err := url.Parse(cfg.AuthURL)
	if err != nil {
		return nil, fmt.Errorf("parse auth url: %w", err)
	}
	params := authURL.Query()
	params.Set("client_id", cfg.ClientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", cfg.RedirectURI)
	params.Set("scope", strings.Join(cfg.Scopes, " "))
	params.Set("state", state)

	if cfg.UsePKCE {
		verifier, err := secureRandomString(64)
		if err != nil {
			return nil, fmt.Errorf("generate pkce verifier: %w", err)
		}
		payload.CodeVerifier = verifier
		params.Set("code_challenge", pkceChallenge(verifier))
		params.Set("code_challenge_method", "S256")
	}
	authURL.RawQuery = params.Encode()

	if err := s.stateStore.SaveState(ctx, statePrefix+state, payload, s.cfg.OAuthStateTTL); err != nil {
		return nil, fmt.Errorf("persist state: %w", err)
	}

	return &StartAuthorizationOutput{AuthorizationURL: authURL.String(), State: state}, nil
}

func (s *oauthService) HandleCallback(ctx context.Context, in CallbackInput) (*service.AuthResult, error) {
	info, cfg, err := s.resolveIdentity(ctx, in)
	if err != nil {
		return nil, err
	}

	user, err := s.ensureUser(ctx, cfg.Name, info)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domainoauth.ErrTokenInvalid
	}

	tokens, err := s.issuer.IssueTokens(ctx, user, in.DeviceID)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log().Warn("update last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	s.log().Info("audit",
		zap.String("event", "auth.oauth_login.success"),
		zap.String("provider", cfg.Name),
		zap.Int64("user_id", user.ID),
	)
	return &service.AuthResult{User: user, Tokens: tokens}, nil
}

// LinkIdentity attaches a provider identity to an existing signed-in account.
func (s *oauthService) LinkIdentity(ctx context.Context, userID int64, in CallbackInput) (domain.User, error) {
	info, cfg, err := s.resolveIdentity(ctx, in)
	if err != nil {
		return domain.User{}, err
	}

	if existing, err := s.users.GetByProviderID(ctx, cfg.Name, info.Subject); err == nil {
		if existing.ID == userID {
			return existing, nil
		}
		return domain.User{}, domainoauth.ErrIdentityTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup identity: %w", err)
	}

	if err := s.users.LinkProvider(ctx, userID, cfg.Name, info.Subject); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.User{}, domainoauth.ErrIdentityTaken
		}
		return domain.User{}, fmt.Errorf("link identity: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}

	s.log().Info("audit",
		zap.String("event", "auth.oauth_link.success"),
		zap.String("provider", cfg.Name),
		zap.Int64("user_id", userID),
	)
	return user, nil
}

// resolveIdentity burns the state, exchanges the code, and fetches the
// provider profile.
func (s *oauthService) resolveIdentity(ctx context.Context, in CallbackInput) (*domainoauth.UserInfo, domainoauth.ProviderConfig, error) {
	if strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.State) == "" {
		return nil, domainoauth.ProviderConfig{}, domainoauth.ErrInvalidRequest
	}

	stateKey := statePrefix + strings.TrimSpace(in.State)
	state, err := s.stateStore.GetState(ctx, stateKey)
	if err != nil {
		return nil, domainoauth.ProviderConfig{}, fmt.Errorf("load state: %w", err)
	}
	if state == nil {
		return nil, domainoauth.ProviderConfig{}, domainoauth.ErrInvalidState
	}
	defer func() {
		if err := s.stateStore.DeleteState(ctx, stateKey); err != nil {
			s.log().Warn("delete oauth state", zap.Error(err))
		}
	}()
	if in.Provider != "" && !strings.EqualFold(state.Provider, in.Provider) {
		return nil, domainoauth.ProviderConfig{}, domainoauth.ErrInvalidState
	}

	cfg, err := s.providerByName(state.Provider)
	if err != nil {
		return nil, domainoauth.ProviderConfig{}, err
	}

	tokenResp, err := s.providerClient.ExchangeCode(ctx, cfg, in.Code, state.CodeVerifier, state.RedirectURI)
	if err != nil {
		return nil, domainoauth.ProviderConfig{}, fmt.Errorf("exchange code: %w", err)
	}
	if strings.TrimSpace(tokenResp.AccessToken) == "" {
		return nil, domainoauth.ProviderConfig{}, domainoauth.ErrTokenInvalid
	}

	info, err := s.providerClient.FetchUserInfo(ctx, cfg, tokenResp.AccessToken)
	if err != nil {
		return nil, domainoauth.ProviderConfig{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	if strings.TrimSpace(info.Subject) == "" || strings.TrimSpace(info.Email) == "" {
		return nil, domainoauth.ProviderConfig{}, domainoauth.ErrTokenInvalid
	}
	return info, cfg, nil
}

// ensureUser finds the account for a provider identity, matching first on
// provider subject, then on email (auto-link), and finally creating a fresh
// account.
func (s *oauthService) ensureUser(ctx context.Context, provider string, info *domainoauth.UserInfo) (domain.User, error) {
	user, err := s.users.GetByProviderID(ctx, provider, info.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("get user by identity: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	user, err = s.users.GetByEmail(ctx, email)
	if err == nil {
		if err := s.users.LinkProvider(ctx, user.ID, provider, info.Subject); err != nil {
			return domain.User{}, fmt.Errorf("link identity: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}

	name := strings.TrimSpace(info.Name)
	if name == "" {
		name = email
	}
	newUser := domain.User{
		ID:        s.snowflake.Generate().Int64(),
		Email:     email,
		FullName:  name,
		AvatarURL: info.Picture,
		IsActive:  true,
	}
	switch provider {
	case "google":
		newUser.GoogleID = info.Subject
	case "github":
		newUser.GitHubID = info.Subject
	}

	created, err := s.users.Create(ctx, newUser)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *oauthService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}

func secureRandomString(size int) (string, error) {
	if size <= 0 {
		size = 32
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func pkceChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
