package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gauss2302/jobhub/internal/domain"
	domainoauth "github.com/gauss2302/jobhub/internal/domain/oauth"
	"github.com/gauss2302/jobhub/internal/service"
)

// respondError maps service and domain errors onto the wire error shape.
func respondError(c *gin.Context, err error) {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Code, "error_description": apiErr.Description})
		return
	}

	switch {
	case errors.Is(err, domainoauth.ErrProviderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "Unknown OAuth provider."})
	case errors.Is(err, domainoauth.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Missing code or state."})
	case errors.Is(err, domainoauth.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_state", "error_description": "State is missing, expired, or already used."})
	case errors.Is(err, domainoauth.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Provider token could not be verified."})
	case errors.Is(err, domainoauth.ErrIdentityTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "error_description": "Identity already linked to another account."})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "Resource not found."})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "error_description": "Resource already exists."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Internal server error."})
	}
}

// bindOptionalJSON decodes a request body whose fields are all optional.
// An absent body decodes as the zero payload.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return false
	}
	return true
}

// UserView is the public profile shape.
type UserView struct {
	ID           int64      `json:"id,string"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	IsActive     bool       `json:"is_active"`
	IsSuperuser  bool       `json:"is_superuser"`
	HasPassword  bool       `json:"has_password"`
	GoogleLinked bool       `json:"google_linked"`
	GitHubLinked bool       `json:"github_linked"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func newUserView(u domain.User) UserView {
	return UserView{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		AvatarURL:    u.AvatarURL,
		IsActive:     u.IsActive,
		IsSuperuser:  u.IsSuperuser,
		HasPassword:  u.PasswordHash != "",
		GoogleLinked: u.GoogleID != "",
		GitHubLinked: u.GitHubID != "",
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}

// authResponse is the token payload with the embedded profile.
type authResponse struct {
	domain.TokenPair
	User UserView `json:"user"`
}

func newAuthResponse(res service.AuthResult) authResponse {
	return authResponse{TokenPair: res.Tokens, User: newUserView(res.User)}
}
