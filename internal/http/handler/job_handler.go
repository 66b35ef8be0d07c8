package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/http/middleware"
	"github.com/gauss2302/jobhub/internal/service"
)

// JobHandler serves the /jobs route group.
type JobHandler struct {
	Jobs         *service.JobService
	Applications *service.ApplicationService
}

// NewJobHandler wires the job handler.
func NewJobHandler(jobs *service.JobService, applications *service.ApplicationService) *JobHandler {
	return &JobHandler{Jobs: jobs, Applications: applications}
}

type jobPayload struct {
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	Location            *string    `json:"location"`
	Level               *string    `json:"level"`
	Type                *string    `json:"type"`
	WorkingType         *string    `json:"working_type"`
	SalaryMin           *int       `json:"salary_min"`
	SalaryMax           *int       `json:"salary_max"`
	SalaryCurrency      *string    `json:"salary_currency"`
	Status              *string    `json:"status"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
}

// Create handles POST /jobs.
func (h *JobHandler) Create(c *gin.Context) {
	var req jobPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	in := service.JobCreate{
		SalaryMin:           req.SalaryMin,
		SalaryMax:           req.SalaryMax,
		ApplicationDeadline: req.ApplicationDeadline,
	}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Location != nil {
		in.Location = *req.Location
	}
	if req.Level != nil {
		in.Level = *req.Level
	}
	if req.Type != nil {
		in.Type = domain.JobType(*req.Type)
	}
	if req.WorkingType != nil {
		in.WorkingType = domain.WorkingType(*req.WorkingType)
	}
	if req.SalaryCurrency != nil {
		in.SalaryCurrency = *req.SalaryCurrency
	}

	job, err := h.Jobs.Create(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// Get handles GET /jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}
	job, err := h.Jobs.Get(c.Request.Context(), middleware.GetUserID(c), jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Search handles GET /jobs.
func (h *JobHandler) Search(c *gin.Context) {
	var companyID int64
	if raw := c.Query("company_id"); raw != "" {
		companyID, _ = strconv.ParseInt(raw, 10, 64)
	}

	jobs, err := h.Jobs.Search(c.Request.Context(), domain.JobFilter{
		Query:       c.Query("query"),
		Location:    c.Query("location"),
		Level:       c.Query("level"),
		Type:        domain.JobType(c.Query("type")),
		WorkingType: domain.WorkingType(c.Query("working_type")),
		CompanyID:   companyID,
		Page:        queryInt(c, "page", 1),
		PerPage:     queryInt(c, "per_page", 20),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// ListMine handles GET /jobs/company for a recruiter's own postings.
func (h *JobHandler) ListMine(c *gin.Context) {
	jobs, err := h.Jobs.ListCompanyJobs(c.Request.Context(), middleware.GetUserID(c),
		domain.JobStatus(c.Query("status")), queryInt(c, "page", 1), queryInt(c, "per_page", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// Update handles PUT /jobs/:id.
func (h *JobHandler) Update(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req jobPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	update := service.JobUpdate{
		Title:               req.Title,
		Description:         req.Description,
		Location:            req.Location,
		Level:               req.Level,
		SalaryMin:           req.SalaryMin,
		SalaryMax:           req.SalaryMax,
		SalaryCurrency:      req.SalaryCurrency,
		ApplicationDeadline: req.ApplicationDeadline,
	}
	if req.Type != nil {
		jobType := domain.JobType(*req.Type)
		update.Type = &jobType
	}
	if req.WorkingType != nil {
		workingType := domain.WorkingType(*req.WorkingType)
		update.WorkingType = &workingType
	}
	if req.Status != nil {
		status := domain.JobStatus(*req.Status)
		update.Status = &status
	}

	job, err := h.Jobs.Update(c.Request.Context(), middleware.GetUserID(c), jobID, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Publish handles POST /jobs/:id/publish.
func (h *JobHandler) Publish(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}
	job, err := h.Jobs.Publish(c.Request.Context(), middleware.GetUserID(c), jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Delete handles DELETE /jobs/:id.
func (h *JobHandler) Delete(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Jobs.Delete(c.Request.Context(), middleware.GetUserID(c), jobID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted."})
}

// Apply handles POST /jobs/:id/apply.
func (h *JobHandler) Apply(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		CoverLetter string `json:"cover_letter"`
		ResumeURL   string `json:"resume_url"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}

	app, err := h.Applications.Apply(c.Request.Context(), middleware.GetUserID(c), jobID, service.ApplicationSubmit{
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}
