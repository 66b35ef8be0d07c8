package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gauss2302/jobhub/internal/domain"
	customjwt "github.com/gauss2302/jobhub/internal/jwt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestGeneratorRoundTrip(t *testing.T) {
	generator := customjwt.NewGenerator(testSecret, "jobhub-api", time.Hour, 24*time.Hour)

	user := domain.User{ID: 99, Email: "user@example.com", FullName: "Test User"}

	token, err := generator.GenerateAccessToken(user, []string{"user", "recruiter"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	std, custom, err := generator.ValidateToken(token, customjwt.UseAccess)
	require.NoError(t, err)
	require.Equal(t, "99", std.Subject)
	require.Equal(t, "jobhub-api", std.Issuer)
	require.Equal(t, "user@example.com", custom.Email)
	require.Equal(t, []string{"user", "recruiter"}, custom.Roles)

	subject, err := customjwt.Subject(std)
	require.NoError(t, err)
	require.Equal(t, int64(99), subject)
}

func TestGeneratorRejectsWrongUse(t *testing.T) {
	generator := customjwt.NewGenerator(testSecret, "jobhub-api", time.Hour, 24*time.Hour)

	refresh, err := generator.GenerateRefreshToken(7, "device-1")
	require.NoError(t, err)

	_, _, err = generator.ValidateToken(refresh, customjwt.UseAccess)
	require.Error(t, err)

	std, custom, err := generator.ValidateToken(refresh, customjwt.UseRefresh)
	require.NoError(t, err)
	require.Equal(t, "7", std.Subject)
	require.Equal(t, "device-1", custom.DeviceID)
}

func TestGeneratorRejectsExpired(t *testing.T) {
	generator := customjwt.NewGenerator(testSecret, "jobhub-api", -time.Minute, -time.Minute)

	user := domain.User{ID: 1, Email: "user@example.com"}
	token, err := generator.GenerateAccessToken(user, []string{"user"})
	require.NoError(t, err)

	_, _, err = generator.ValidateToken(token, customjwt.UseAccess)
	require.Error(t, err)
}

func TestGeneratorRejectsWrongIssuer(t *testing.T) {
	generator := customjwt.NewGenerator(testSecret, "jobhub-api", time.Hour, time.Hour)
	other := customjwt.NewGenerator(testSecret, "someone-else", time.Hour, time.Hour)

	token, err := other.GenerateAccessToken(domain.User{ID: 1}, nil)
	require.NoError(t, err)

	_, _, err = generator.ValidateToken(token, customjwt.UseAccess)
	require.Error(t, err)
}

func TestGeneratorRejectsTamperedSecret(t *testing.T) {
	generator := customjwt.NewGenerator(testSecret, "jobhub-api", time.Hour, time.Hour)
	forged := customjwt.NewGenerator([]byte("ffffffffffffffffffffffffffffffff"), "jobhub-api", time.Hour, time.Hour)

	token, err := forged.GenerateAccessToken(domain.User{ID: 1}, nil)
	require.NoError(t, err)

	_, _, err = generator.ValidateToken(token, customjwt.UseAccess)
	require.Error(t, err)
}
