package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/http/middleware"
	"github.com/gauss2302/jobhub/internal/service"
)

// UserHandler serves the /users route group.
type UserHandler struct {
	Users *service.UserService
}

// NewUserHandler wires the user handler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.Users.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user))
}

// UpdateMe handles PUT /users/me.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req struct {
		FullName  *string `json:"full_name"`
		AvatarURL *string `json:"avatar_url"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}

	user, err := h.Users.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), domain.UserUpdate{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user))
}

// DeleteMe handles DELETE /users/me.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted."})
}

// Get handles GET /users/:id (admin).
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.Users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user))
}

// Update handles PUT /users/:id (admin).
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		FullName  *string `json:"full_name"`
		AvatarURL *string `json:"avatar_url"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}

	user, err := h.Users.UpdateProfile(c.Request.Context(), userID, domain.UserUpdate{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user))
}

// Activate handles POST /users/:id/activate (admin).
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate handles POST /users/:id/deactivate (admin).
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Users.SetActive(c.Request.Context(), userID, active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated."})
}

// pathID parses a numeric path parameter, writing the error response itself.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid id."})
		return 0, false
	}
	return id, true
}
