package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/service"
)

func newUserHarness(t *testing.T) (*service.UserService, *memoryUserRepo, *memoryTokenStore) {
	t.Helper()
	users := newMemoryUserRepo()
	tokens := newMemoryTokenStore()
	return service.NewUserService(users, tokens, zap.NewNop()), users, tokens
}

func TestUserDeleteRemovesAccountAndSessions(t *testing.T) {
	svc, users, tokens := newUserHarness(t)
	ctx := context.Background()

	_, err := users.Create(ctx, domain.User{ID: 7, Email: "gone@example.com", IsActive: true})
	require.NoError(t, err)
	require.NoError(t, tokens.Store(ctx, 7, "", "refresh-web", 0))
	require.NoError(t, tokens.Store(ctx, 7, "phone-1", "refresh-phone", 0))

	require.NoError(t, svc.Delete(ctx, 7))

	_, err = users.GetByID(ctx, 7)
	require.ErrorIs(t, err, domain.ErrNotFound)
	active, err := tokens.IsActive(ctx, 7, "", "refresh-web")
	require.NoError(t, err)
	require.False(t, active)
	active, err = tokens.IsActive(ctx, 7, "phone-1", "refresh-phone")
	require.NoError(t, err)
	require.False(t, active)
}

func TestUserDeleteFailureKeepsSessions(t *testing.T) {
	svc, _, tokens := newUserHarness(t)
	ctx := context.Background()

	require.NoError(t, tokens.Store(ctx, 7, "", "refresh-web", 0))

	err := svc.Delete(ctx, 7)
	apiErr, ok := err.(*service.APIError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, apiErr.Status)

	// nothing was revoked for the still-existing sessions
	active, err := tokens.IsActive(ctx, 7, "", "refresh-web")
	require.NoError(t, err)
	require.True(t, active)
}
