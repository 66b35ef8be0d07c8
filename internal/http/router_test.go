package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gauss2302/jobhub/internal/config"
	"github.com/gauss2302/jobhub/internal/domain"
	domainoauth "github.com/gauss2302/jobhub/internal/domain/oauth"
	httptransport "github.com/gauss2302/jobhub/internal/http"
	"github.com/gauss2302/jobhub/internal/http/handler"
	httpmiddleware "github.com/gauss2302/jobhub/internal/http/middleware"
	"github.com/gauss2302/jobhub/internal/jwt"
	"github.com/gauss2302/jobhub/internal/service"
	authservice "github.com/gauss2302/jobhub/internal/service/auth"
)

// newTestRouter wires the full route table over in-memory storage.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		ServiceName:     "jobhub-test",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		OAuthStateTTL:   time.Minute,
		Google: domainoauth.ProviderConfig{
			Name:         "google",
			ClientID:     "client",
			ClientSecret: "secret",
			AuthURL:      "https://accounts.example.com/authorize",
			TokenURL:     "https://accounts.example.com/token",
			UserInfoURL:  "https://accounts.example.com/userinfo",
			Scopes:       []string{"openid", "email"},
			UsePKCE:      true,
		},
	}

	users := &stubUserRepo{users: map[int64]domain.User{}}
	recruiters := &stubRecruiterRepo{}
	tokens := &stubTokenStore{active: map[string]string{}, blacklist: map[string]struct{}{}}
	states := &stubStateStore{data: map[string]domainoauth.State{}}

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	generator := jwt.NewGenerator([]byte("0123456789abcdef0123456789abcdef"), cfg.ServiceName, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	logger := zap.NewNop()

	authSvc := service.NewAuthService(users, recruiters, tokens, node, generator, cfg, logger)
	oauthSvc := authservice.NewOAuthService(states, &stubProviderClient{}, users, authSvc, node, cfg, logger)
	userSvc := service.NewUserService(users, tokens, logger)
	companySvc := service.NewCompanyService(&stubCompanyRepo{}, recruiters, node, logger)
	jobSvc := service.NewJobService(&stubJobRepo{}, &stubCompanyRepo{}, recruiters, node, logger)
	appSvc := service.NewApplicationService(&stubApplicationRepo{}, &stubJobRepo{}, recruiters, node, logger)

	handlers := httptransport.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, oauthSvc),
		Users:        handler.NewUserHandler(userSvc),
		Companies:    handler.NewCompanyHandler(companySvc),
		Jobs:         handler.NewJobHandler(jobSvc, appSvc),
		Applications: handler.NewApplicationHandler(appSvc),
	}
	return httptransport.NewRouter(cfg, handlers, &httpmiddleware.Auth{JWT: generator})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, bearer string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRegisterLoginMeFlow(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     "flow@example.com",
		"password":  "Go0dPassword",
		"full_name": "Flow Tester",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var reg struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		User         struct {
			Email       string `json:"email"`
			HasPassword bool   `json:"has_password"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	require.Equal(t, "bearer", reg.TokenType)
	require.Equal(t, "flow@example.com", reg.User.Email)
	require.True(t, reg.User.HasPassword)
	require.NotContains(t, w.Body.String(), "password_hash")

	// profile requires the bearer token
	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", reg.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "flow@example.com")

	// refresh rotates the pair
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": reg.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	require.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)

	// the replaced token is rejected
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": reg.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid_grant")
}

func TestLogoutWithBearerOnly(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "bare@example.com",
		"password": "Go0dPassword",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var reg struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	// no body at all: the bearer token names the session to drop
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", reg.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Logged out.")

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": reg.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid_grant")
}

func TestUpdateProfileAcceptsEmptyBody(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     "noop@example.com",
		"password":  "Go0dPassword",
		"full_name": "No Op",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var reg struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	w = doJSON(t, router, http.MethodPut, "/api/v1/users/me", reg.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "No Op")
}

func TestLoginFailureShape(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "Go0dPassword",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "invalid_grant", body["error"])
	require.NotEmpty(t, body["error_description"])
}

func TestOAuthLoginRedirects(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/auth/google/login", "", nil)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	location := w.Header().Get("Location")
	require.Contains(t, location, "accounts.example.com")
	require.Contains(t, location, "code_challenge")

	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/google/login?redirect=false", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "authorization_url")

	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/gitlab/login", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProvidersEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/auth/providers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "google")
	require.NotContains(t, w.Body.String(), "github")
}

func TestAdminRoutesRequireSuperuser(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "plain@example.com",
		"password": "Go0dPassword",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var reg struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/42", reg.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestJobSearchIsPublic(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/jobs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

// ---- storage stubs ----

type stubUserRepo struct {
	mu    sync.Mutex
	users map[int64]domain.User
}

func (s *stubUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domain.User{}, domain.ErrConflict
		}
	}
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, userID int64) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *stubUserRepo) GetByProviderID(_ context.Context, provider, providerID string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if (provider == "google" && user.GoogleID == providerID) ||
			(provider == "github" && user.GitHubID == providerID) {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *stubUserRepo) Update(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return domain.User{}, domain.ErrNotFound
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) LinkProvider(_ context.Context, userID int64, provider, providerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if provider == "google" {
		user.GoogleID = providerID
	} else {
		user.GitHubID = providerID
	}
	s.users[userID] = user
	return nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, userID int64) error { return nil }

func (s *stubUserRepo) SetActive(_ context.Context, userID int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.IsActive = active
	s.users[userID] = user
	return nil
}

func (s *stubUserRepo) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return nil
}

type stubRecruiterRepo struct{}

func (s *stubRecruiterRepo) Create(_ context.Context, r domain.Recruiter) (domain.Recruiter, error) {
	return r, nil
}

func (s *stubRecruiterRepo) GetByID(context.Context, int64) (domain.Recruiter, error) {
	return domain.Recruiter{}, domain.ErrNotFound
}

func (s *stubRecruiterRepo) GetByUserID(context.Context, int64) (domain.Recruiter, error) {
	return domain.Recruiter{}, domain.ErrNotFound
}

func (s *stubRecruiterRepo) ListByCompany(context.Context, int64) ([]domain.Recruiter, error) {
	return nil, nil
}

func (s *stubRecruiterRepo) Update(_ context.Context, r domain.Recruiter) (domain.Recruiter, error) {
	return r, nil
}

type stubCompanyRepo struct{}

func (s *stubCompanyRepo) Create(_ context.Context, c domain.Company) (domain.Company, error) {
	return c, nil
}

func (s *stubCompanyRepo) GetByID(context.Context, int64) (domain.Company, error) {
	return domain.Company{}, domain.ErrNotFound
}

func (s *stubCompanyRepo) GetBySlug(context.Context, string) (domain.Company, error) {
	return domain.Company{}, domain.ErrNotFound
}

func (s *stubCompanyRepo) Update(_ context.Context, c domain.Company) (domain.Company, error) {
	return c, nil
}

func (s *stubCompanyRepo) Search(context.Context, domain.CompanyFilter) ([]domain.Company, error) {
	return nil, nil
}

type stubJobRepo struct{}

func (s *stubJobRepo) Create(_ context.Context, j domain.Job) (domain.Job, error) { return j, nil }

func (s *stubJobRepo) GetByID(context.Context, int64) (domain.Job, error) {
	return domain.Job{}, domain.ErrNotFound
}

func (s *stubJobRepo) Update(_ context.Context, j domain.Job) (domain.Job, error) { return j, nil }

func (s *stubJobRepo) Delete(context.Context, int64) error { return nil }

func (s *stubJobRepo) Search(context.Context, domain.JobFilter) ([]domain.Job, error) {
	return nil, nil
}

func (s *stubJobRepo) IncrementApplications(context.Context, int64) error { return nil }

type stubApplicationRepo struct{}

func (s *stubApplicationRepo) Create(_ context.Context, a domain.Application) (domain.Application, error) {
	return a, nil
}

func (s *stubApplicationRepo) GetByID(context.Context, int64) (domain.Application, error) {
	return domain.Application{}, domain.ErrNotFound
}

func (s *stubApplicationRepo) ListByUser(context.Context, int64) ([]domain.Application, error) {
	return nil, nil
}

func (s *stubApplicationRepo) ListByCompany(context.Context, int64) ([]domain.Application, error) {
	return nil, nil
}

func (s *stubApplicationRepo) UpdateStatus(context.Context, int64, domain.ApplicationStatus, string) (domain.Application, error) {
	return domain.Application{}, domain.ErrNotFound
}

type stubTokenStore struct {
	mu        sync.Mutex
	active    map[string]string
	blacklist map[string]struct{}
}

func slotKey(userID int64, deviceID string) string {
	if deviceID == "" {
		deviceID = "web"
	}
	return fmt.Sprintf("%d:%s", userID, deviceID)
}

func (s *stubTokenStore) Store(_ context.Context, userID int64, deviceID, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[slotKey(userID, deviceID)] = token
	return nil
}

func (s *stubTokenStore) IsActive(_ context.Context, userID int64, deviceID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[slotKey(userID, deviceID)] == token, nil
}

func (s *stubTokenStore) Revoke(_ context.Context, userID int64, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, slotKey(userID, deviceID))
	return nil
}

func (s *stubTokenStore) RevokeAll(_ context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := fmt.Sprintf("%d:", userID)
	count := 0
	for key := range s.active {
		if strings.HasPrefix(key, prefix) {
			delete(s.active, key)
			count++
		}
	}
	return count, nil
}

func (s *stubTokenStore) Blacklist(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[token] = struct{}{}
	return nil
}

func (s *stubTokenStore) IsBlacklisted(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blacklist[token]
	return ok, nil
}

type stubStateStore struct {
	mu   sync.Mutex
	data map[string]domainoauth.State
}

func (s *stubStateStore) SaveState(_ context.Context, key string, data domainoauth.State, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

func (s *stubStateStore) GetState(_ context.Context, key string) (*domainoauth.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.data[key]; ok {
		copied := state
		return &copied, nil
	}
	return nil, nil
}

func (s *stubStateStore) DeleteState(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

type stubProviderClient struct{}

func (s *stubProviderClient) ExchangeCode(context.Context, domainoauth.ProviderConfig, string, string, string) (*domainoauth.TokenResponse, error) {
	return &domainoauth.TokenResponse{AccessToken: "external"}, nil
}

func (s *stubProviderClient) FetchUserInfo(context.Context, domainoauth.ProviderConfig, string) (*domainoauth.UserInfo, error) {
	return &domainoauth.UserInfo{Subject: "sub-1", Email: "social@example.com"}, nil
}
