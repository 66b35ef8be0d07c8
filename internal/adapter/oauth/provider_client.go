package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainoauth "github.com/gauss2302/jobhub/internal/domain/oauth"
)

// ProviderClient encapsulates outbound HTTP calls to external IdPs.
type ProviderClient interface {
	ExchangeCode(ctx context.Context, provider domainoauth.ProviderConfig, code, codeVerifier, redirectURI string) (*domainoauth.TokenResponse, error)
	FetchUserInfo(ctx context.Context, provider domainoauth.ProviderConfig, accessToken string) (*domainoauth.UserInfo, error)
}

// HTTPProviderClient is the default HTTP implementation.
type HTTPProviderClient struct {
	httpClient *http.Client
}

// NewHTTPProviderClient constructs the default ProviderClient.
func NewHTTPProviderClient(client *http.Client) *HTTPProviderClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProviderClient{httpClient: client}
}

// ExchangeCode performs the OAuth token exchange.
func (c *HTTPProviderClient) ExchangeCode(ctx context.Context, provider domainoauth.ProviderConfig, code, codeVerifier, redirectURI string) (*domainoauth.TokenResponse, error) {
	if strings.TrimSpace(provider.TokenURL) == "" {
		return nil, fmt.Errorf("token url missing")
	}
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", redirectURI)
	data.Set("client_id", provider.ClientID)
	if provider.ClientSecret != "" {
		data.Set("client_secret", provider.ClientSecret)
	}
	if strings.TrimSpace(codeVerifier) != "" {
		data.Set("code_verifier", codeVerifier)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// GitHub answers form-encoded unless asked for JSON.
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("token exchange failed: status=%d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if errCode := stringValue(raw["error"]); errCode != "" {
		return nil, fmt.Errorf("token exchange failed: %s", errCode)
	}

	token := &domainoauth.TokenResponse{
		AccessToken:  stringValue(raw["access_token"]),
		RefreshToken: stringValue(raw["refresh_token"]),
		TokenType:    stringValue(raw["token_type"]),
		IDToken:      stringValue(raw["id_token"]),
		Scope:        stringValue(raw["scope"]),
		Raw:          raw,
	}
	if exp := raw["expires_in"]; exp != nil {
		token.ExpiresIn = int64Value(exp)
	}
	return token, nil
}

// FetchUserInfo loads the userinfo endpoint profile and normalizes it across
// providers. GitHub numbers its subjects and may hide the primary email
// behind a second endpoint.
func (c *HTTPProviderClient) FetchUserInfo(ctx context.Context, provider domainoauth.ProviderConfig, accessToken string) (*domainoauth.UserInfo, error) {
	if strings.TrimSpace(provider.UserInfoURL) == "" {
		return nil, fmt.Errorf("userinfo url missing")
	}
	raw, err := c.getJSON(ctx, provider.UserInfoURL, accessToken)
	if err != nil {
		return nil, err
	}

	subject := stringValue(raw["sub"])
	if subject == "" {
		if id := int64Value(raw["id"]); id != 0 {
			subject = strconv.FormatInt(id, 10)
		}
	}

	info := &domainoauth.UserInfo{
		Subject: subject,
		Email:   stringValue(coalesce(raw["email"], raw["mail"])),
		Name:    stringValue(coalesce(raw["name"], raw["login"], raw["displayName"])),
		Picture: stringValue(coalesce(raw["picture"], raw["avatar_url"])),
	}

	if info.Email == "" && provider.Name == "github" {
		email, err := c.fetchPrimaryEmail(ctx, provider.UserInfoURL+"/emails", accessToken)
		if err != nil {
			return nil, err
		}
		info.Email = email
	}
	return info, nil
}

func (c *HTTPProviderClient) fetchPrimaryEmail(ctx context.Context, endpoint, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build emails request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("emails request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read emails: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("emails failed: status=%d", resp.StatusCode)
	}

	var entries []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return "", fmt.Errorf("decode emails: %w", err)
	}
	for _, e := range entries {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range entries {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}

func (c *HTTPProviderClient) getJSON(ctx context.Context, endpoint, accessToken string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read userinfo: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("userinfo failed: status=%d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return raw, nil
}

func stringValue(input any) string {
	switch v := input.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func int64Value(input any) int64 {
	switch v := input.(type) {
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func coalesce(values ...any) any {
	for _, v := range values {
		switch val := v.(type) {
		case string:
			if strings.TrimSpace(val) != "" {
				return v
			}
		case nil:
			continue
		default:
			return v
		}
	}
	return nil
}
