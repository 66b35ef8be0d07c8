package domain

import "time"

// TokenPair is the credential set returned by every authentication flow.
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
}

// RefreshTokenState is the Redis-tracked session record keyed by user and
// device. Only a hash of the token is stored, never the token itself.
type RefreshTokenState struct {
	TokenHash string    `json:"token_hash"`
	UserID    int64     `json:"user_id"`
	DeviceID  string    `json:"device_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
	IsActive  bool      `json:"is_active"`
}
