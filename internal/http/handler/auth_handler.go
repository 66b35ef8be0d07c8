package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gauss2302/jobhub/internal/http/middleware"
	"github.com/gauss2302/jobhub/internal/service"
	authservice "github.com/gauss2302/jobhub/internal/service/auth"
)

// AuthHandler serves the /auth route group.
type AuthHandler struct {
	Auth  *service.AuthService
	OAuth authservice.OAuthService
}

// NewAuthHandler wires the auth handler.
func NewAuthHandler(auth *service.AuthService, oauth authservice.OAuthService) *AuthHandler {
	return &AuthHandler{Auth: auth, OAuth: oauth}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Email and password are required."})
		return
	}

	res, err := h.Auth.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAuthResponse(res))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		DeviceID string `json:"device_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Email and password are required."})
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password, strings.TrimSpace(req.DeviceID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAuthResponse(res))
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	res, err := h.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAuthResponse(res))
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
		Everywhere   bool   `json:"everywhere"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}

	if req.Everywhere {
		revoked, err := h.Auth.LogoutAll(c.Request.Context(), middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out everywhere.", "sessions_revoked": revoked})
		return
	}

	// Without the refresh token back, the bearer claims name the session.
	if req.RefreshToken == "" {
		var deviceID string
		if claims, ok := middleware.GetAccessClaims(c); ok {
			deviceID = claims.DeviceID
		}
		if err := h.Auth.LogoutDevice(c.Request.Context(), middleware.GetUserID(c), deviceID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
		return
	}

	if err := h.Auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// OAuthLogin handles GET /auth/:provider/login.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	out, err := h.OAuth.StartAuthorization(c.Request.Context(), c.Param("provider"))
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("redirect") == "false" {
		c.JSON(http.StatusOK, gin.H{"authorization_url": out.AuthorizationURL, "state": out.State})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, out.AuthorizationURL)
}

// OAuthCallback handles GET /auth/:provider/callback.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	if errCode := c.Query("error"); errCode != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errCode, "error_description": c.Query("error_description")})
		return
	}
	res, err := h.OAuth.HandleCallback(c.Request.Context(), authservice.CallbackInput{
		Provider: c.Param("provider"),
		Code:     c.Query("code"),
		State:    c.Query("state"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAuthResponse(*res))
}

// OAuthToken handles POST /auth/:provider/token for SPA flows where the
// frontend receives the redirect and forwards code/state.
func (h *AuthHandler) OAuthToken(c *gin.Context) {
	var req struct {
		Code     string `json:"code"`
		State    string `json:"state"`
		DeviceID string `json:"device_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	res, err := h.OAuth.HandleCallback(c.Request.Context(), authservice.CallbackInput{
		Provider: c.Param("provider"),
		Code:     req.Code,
		State:    req.State,
		DeviceID: strings.TrimSpace(req.DeviceID),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAuthResponse(*res))
}

// OAuthLink handles POST /auth/:provider/link (bearer).
func (h *AuthHandler) OAuthLink(c *gin.Context) {
	var req struct {
		Code  string `json:"code"`
		State string `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	user, err := h.OAuth.LinkIdentity(c.Request.Context(), middleware.GetUserID(c), authservice.CallbackInput{
		Provider: c.Param("provider"),
		Code:     req.Code,
		State:    req.State,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user))
}

// Providers handles GET /auth/providers.
func (h *AuthHandler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.OAuth.Providers()})
}
