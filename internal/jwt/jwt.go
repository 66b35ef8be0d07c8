package jwt

import (
	"fmt"
	"strconv"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"

	"github.com/gauss2302/jobhub/internal/domain"
)

// Token-use markers distinguishing the two halves of a pair.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Generator signs and validates HMAC tokens with a single service secret.
type Generator struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewGenerator constructs a JWT generator.
func NewGenerator(secret []byte, issuer string, accessTTL, refreshTTL time.Duration) *Generator {
	return &Generator{secret: secret, issuer: issuer, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// AccessTokenClaims represent the custom JWT payload.
type AccessTokenClaims struct {
	TokenUse string   `json:"token_use"`
	Email    string   `json:"email,omitempty"`
	Name     string   `json:"name,omitempty"`
	Picture  string   `json:"picture,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	DeviceID string   `json:"device_id,omitempty"`
}

// GenerateAccessToken produces a signed access JWT for the user.
func (g *Generator) GenerateAccessToken(user domain.User, roles []string) (string, error) {
	custom := AccessTokenClaims{
		TokenUse: UseAccess,
		Email:    user.Email,
		Name:     user.FullName,
		Picture:  user.AvatarURL,
		Roles:    roles,
	}
	return g.sign(user.ID, g.accessTTL, custom)
}

// GenerateRefreshToken produces a signed refresh JWT. Refresh tokens carry no
// profile claims beyond the optional device binding.
func (g *Generator) GenerateRefreshToken(userID int64, deviceID string) (string, error) {
	return g.sign(userID, g.refreshTTL, AccessTokenClaims{TokenUse: UseRefresh, DeviceID: deviceID})
}

func (g *Generator) sign(subject int64, ttl time.Duration, custom AccessTokenClaims) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: g.secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	// A unique jti keeps tokens minted in the same second distinct, which
	// refresh rotation depends on.
	now := time.Now().UTC()
	stdClaims := gojwt.Claims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(subject, 10),
		Issuer:    g.issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		Expiry:    gojwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := gojwt.Signed(signer).Claims(stdClaims).Claims(custom).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize jwt: %w", err)
	}
	return token, nil
}

// ValidateToken verifies signature, expiry, issuer, and token use, returning
// both claim sets.
func (g *Generator) ValidateToken(token, use string) (*gojwt.Claims, *AccessTokenClaims, error) {
	parsed, err := gojwt.ParseSigned(token, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return nil, nil, fmt.Errorf("parse token: %w", err)
	}

	var std gojwt.Claims
	var custom AccessTokenClaims
	if err := parsed.Claims(g.secret, &std, &custom); err != nil {
		return nil, nil, fmt.Errorf("verify token: %w", err)
	}

	if err := std.Validate(gojwt.Expected{Issuer: g.issuer, Time: time.Now()}); err != nil {
		return nil, nil, fmt.Errorf("validate claims: %w", err)
	}
	if custom.TokenUse != use {
		return nil, nil, fmt.Errorf("unexpected token use %q", custom.TokenUse)
	}

	return &std, &custom, nil
}

// Subject parses the numeric user ID out of validated standard claims.
func Subject(std *gojwt.Claims) (int64, error) {
	id, err := strconv.ParseInt(std.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse subject: %w", err)
	}
	return id, nil
}

// AccessTTL exposes the configured access token lifetime.
func (g *Generator) AccessTTL() time.Duration { return g.accessTTL }

// RefreshTTL exposes the configured refresh token lifetime.
func (g *Generator) RefreshTTL() time.Duration { return g.refreshTTL }
