package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/http/middleware"
	"github.com/gauss2302/jobhub/internal/service"
)

// CompanyHandler serves the /companies route group.
type CompanyHandler struct {
	Companies *service.CompanyService
}

// NewCompanyHandler wires the company handler.
func NewCompanyHandler(companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{Companies: companies}
}

// Create handles POST /companies.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		Website      string `json:"website"`
		Industry     string `json:"industry"`
		Size         string `json:"size"`
		Headquarters string `json:"headquarters"`
		LogoURL      string `json:"logo_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	company, err := h.Companies.Create(c.Request.Context(), middleware.GetUserID(c), service.CompanyCreate{
		Name:         req.Name,
		Description:  req.Description,
		Website:      req.Website,
		Industry:     req.Industry,
		Size:         domain.CompanySize(req.Size),
		Headquarters: req.Headquarters,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

// Get handles GET /companies/:id.
func (h *CompanyHandler) Get(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	company, err := h.Companies.Get(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// GetBySlug handles GET /companies/slug/:slug.
func (h *CompanyHandler) GetBySlug(c *gin.Context) {
	company, err := h.Companies.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// Search handles GET /companies.
func (h *CompanyHandler) Search(c *gin.Context) {
	companies, err := h.Companies.Search(c.Request.Context(), domain.CompanyFilter{
		Query:    c.Query("query"),
		Industry: c.Query("industry"),
		Page:     queryInt(c, "page", 1),
		PerPage:  queryInt(c, "per_page", 20),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// Update handles PUT /companies/:id.
func (h *CompanyHandler) Update(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name         *string `json:"name"`
		Description  *string `json:"description"`
		Website      *string `json:"website"`
		Industry     *string `json:"industry"`
		Size         *string `json:"size"`
		Headquarters *string `json:"headquarters"`
		LogoURL      *string `json:"logo_url"`
		IsHiring     *bool   `json:"is_hiring"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	update := service.CompanyUpdate{
		Name:         req.Name,
		Description:  req.Description,
		Website:      req.Website,
		Industry:     req.Industry,
		Headquarters: req.Headquarters,
		LogoURL:      req.LogoURL,
		IsHiring:     req.IsHiring,
	}
	if req.Size != nil {
		size := domain.CompanySize(*req.Size)
		update.Size = &size
	}

	company, err := h.Companies.Update(c.Request.Context(), middleware.GetUserID(c), companyID, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// Verify handles POST /companies/:id/verify (admin).
func (h *CompanyHandler) Verify(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Approve *bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Approve == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "approve is required."})
		return
	}

	company, err := h.Companies.Verify(c.Request.Context(), middleware.GetUserID(c), companyID, *req.Approve)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// ApplyRecruiter handles POST /companies/:id/recruiters.
func (h *CompanyHandler) ApplyRecruiter(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Position   string `json:"position"`
		Department string `json:"department"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	rec, err := h.Companies.ApplyRecruiter(c.Request.Context(), middleware.GetUserID(c), companyID, service.RecruiterApply{
		Position:   req.Position,
		Department: req.Department,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// ListRecruiters handles GET /companies/:id/recruiters.
func (h *CompanyHandler) ListRecruiters(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	roster, err := h.Companies.ListRecruiters(c.Request.Context(), middleware.GetUserID(c), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recruiters": roster})
}

// DecideRecruiter handles POST /companies/:id/recruiters/:rid/approve.
func (h *CompanyHandler) DecideRecruiter(c *gin.Context) {
	recruiterID, ok := pathID(c, "rid")
	if !ok {
		return
	}
	var req struct {
		Approve *bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Approve == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "approve is required."})
		return
	}

	rec, err := h.Companies.DecideRecruiter(c.Request.Context(), middleware.GetUserID(c), recruiterID, *req.Approve)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
