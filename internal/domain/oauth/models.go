package oauth

// ProviderConfig is the static configuration for an external identity
// provider (Google, GitHub) assembled from environment settings.
type ProviderConfig struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
	// UsePKCE controls whether a code challenge is attached; GitHub's token
	// endpoint rejects unknown PKCE params for classic OAuth apps.
	UsePKCE bool
}

// Enabled reports whether the provider has credentials configured.
func (c ProviderConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// State captures the state/PKCE tuple persisted in Redis while the user is at
// the provider. Consumed exactly once on callback.
type State struct {
	State        string `json:"state"`
	CodeVerifier string `json:"code_verifier,omitempty"`
	Provider     string `json:"provider"`
	RedirectURI  string `json:"redirect_uri"`
	CreatedAt    int64  `json:"created_at"`
}

// TokenResponse models the provider token endpoint response.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	TokenType    string
	IDToken      string
	Scope        string
	Raw          map[string]any
}

// UserInfo is the normalized profile returned by provider userinfo endpoints.
type UserInfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}
