package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/http/middleware"
	"github.com/gauss2302/jobhub/internal/service"
)

// ApplicationHandler serves the /applications route group.
type ApplicationHandler struct {
	Applications *service.ApplicationService
}

// NewApplicationHandler wires the application handler.
func NewApplicationHandler(applications *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Applications: applications}
}

// ListMine handles GET /applications/me.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.Applications.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// ListCompany handles GET /applications/company.
func (h *ApplicationHandler) ListCompany(c *gin.Context) {
	apps, err := h.Applications.ListForCompany(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// Get handles GET /applications/:id.
func (h *ApplicationHandler) Get(c *gin.Context) {
	appID, ok := pathID(c, "id")
	if !ok {
		return
	}
	app, err := h.Applications.Get(c.Request.Context(), middleware.GetUserID(c), appID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// UpdateStatus handles PUT /applications/:id/status.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	appID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status         string `json:"status"`
		RecruiterNotes string `json:"recruiter_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "status is required."})
		return
	}

	app, err := h.Applications.UpdateStatus(c.Request.Context(), middleware.GetUserID(c), appID,
		domain.ApplicationStatus(req.Status), req.RecruiterNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Withdraw handles POST /applications/:id/withdraw.
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	appID, ok := pathID(c, "id")
	if !ok {
		return
	}
	app, err := h.Applications.Withdraw(c.Request.Context(), middleware.GetUserID(c), appID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
