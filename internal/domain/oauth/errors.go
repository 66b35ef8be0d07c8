package oauth

import "errors"

var (
	// ErrProviderNotFound signals an unknown or unconfigured provider name.
	ErrProviderNotFound = errors.New("oauth: provider not found")
	// ErrInvalidRequest indicates caller input validation errors.
	ErrInvalidRequest = errors.New("oauth: invalid request")
	// ErrInvalidState indicates a missing, expired, or replayed state value.
	ErrInvalidState = errors.New("oauth: invalid state")
	// ErrTokenInvalid indicates malformed or unverifiable provider tokens.
	ErrTokenInvalid = errors.New("oauth: token invalid")
	// ErrIdentityTaken signals the provider identity is linked to another user.
	ErrIdentityTaken = errors.New("oauth: identity already linked")
)
