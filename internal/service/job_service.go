package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/repository"
)

// JobCreate is the payload for drafting a posting.
type JobCreate struct {
	Title               string
	Description         string
	Location            string
	Level               string
	Type                domain.JobType
	WorkingType         domain.WorkingType
	SalaryMin           *int
	SalaryMax           *int
	SalaryCurrency      string
	ApplicationDeadline *time.Time
}

// JobUpdate carries mutable posting fields. Nil means unchanged.
type JobUpdate struct {
	Title               *string
	Description         *string
	Location            *string
	Level               *string
	Type                *domain.JobType
	WorkingType         *domain.WorkingType
	SalaryMin           *int
	SalaryMax           *int
	SalaryCurrency      *string
	Status              *domain.JobStatus
	ApplicationDeadline *time.Time
}

// JobService covers the posting lifecycle.
type JobService struct {
	jobs       repository.JobRepository
	companies  repository.CompanyRepository
	recruiters repository.RecruiterRepository
	snowflake  *snowflake.Node
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewJobService wires dependencies.
func NewJobService(jobs repository.JobRepository, companies repository.CompanyRepository, recruiters repository.RecruiterRepository, node *snowflake.Node, logger *zap.Logger) *JobService {
	return &JobService{
		jobs:       jobs,
		companies:  companies,
		recruiters: recruiters,
		snowflake:  node,
		logger:     logger,
		tracer:     otel.Tracer("github.com/gauss2302/jobhub/internal/service"),
	}
}

// Create drafts a posting for the recruiter's company. Only verified
// companies may draft jobs.
func (s *JobService) Create(ctx context.Context, userID int64, in JobCreate) (domain.Job, error) {
	ctx, span := s.span(ctx, "JobService.Create")
	defer span.End()

	rec, err := s.requirePoster(ctx, userID)
	if err != nil {
		return domain.Job{}, err
	}
	company, err := s.companies.GetByID(ctx, rec.CompanyID)
	if err != nil {
		span.RecordError(err)
		return domain.Job{}, fmt.Errorf("load company: %w", err)
	}
	if !company.IsVerified() {
		return domain.Job{}, newAPIError("forbidden", "Company is not verified.", http.StatusForbidden)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Job{}, newAPIError("invalid_request", "Job title is required.", http.StatusBadRequest)
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		return domain.Job{}, newAPIError("invalid_request", "salary_min exceeds salary_max.", http.StatusBadRequest)
	}

	currency := strings.ToUpper(strings.TrimSpace(in.SalaryCurrency))
	if currency == "" {
		currency = "USD"
	}

	job, err := s.jobs.Create(ctx, domain.Job{
		ID:                  s.snowflake.Generate().Int64(),
		CompanyID:           rec.CompanyID,
		Title:               title,
		Description:         in.Description,
		Location:            strings.TrimSpace(in.Location),
		Level:               strings.TrimSpace(in.Level),
		Type:                in.Type,
		WorkingType:         in.WorkingType,
		SalaryMin:           in.SalaryMin,
		SalaryMax:           in.SalaryMax,
		SalaryCurrency:      currency,
		Status:              domain.JobDraft,
		ApplicationDeadline: in.ApplicationDeadline,
		CreatedBy:           userID,
	})
	if err != nil {
		span.RecordError(err)
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info("audit",
		zap.String("event", "job.create"),
		zap.Int64("job_id", job.ID),
		zap.Int64("company_id", rec.CompanyID),
		zap.Int64("user_id", userID),
	)
	return job, nil
}

// Get loads one posting. Unpublished postings are visible only to the
// owning company's recruiters; viewerID 0 means anonymous.
func (s *JobService) Get(ctx context.Context, viewerID, jobID int64) (domain.Job, error) {
	ctx, span := s.span(ctx, "JobService.Get")
	defer span.End()

	job, err := s.load(ctx, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	if job.Status == domain.JobActive {
		return job, nil
	}
	if viewerID != 0 {
		if rec, err := s.recruiters.GetByUserID(ctx, viewerID); err == nil && rec.CompanyID == job.CompanyID && rec.IsApproved() {
			return job, nil
		}
	}
	return domain.Job{}, newAPIError("not_found", "Job not found.", http.StatusNotFound)
}

// Search lists published postings matching the filter.
func (s *JobService) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	ctx, span := s.span(ctx, "JobService.Search")
	defer span.End()

	filter.Status = domain.JobActive
	jobs, err := s.jobs.Search(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	return jobs, nil
}

// ListCompanyJobs lists postings of the recruiter's own company in any state.
func (s *JobService) ListCompanyJobs(ctx context.Context, userID int64, status domain.JobStatus, page, perPage int) ([]domain.Job, error) {
	ctx, span := s.span(ctx, "JobService.ListCompanyJobs")
	defer span.End()

	rec, err := s.requireRecruiter(ctx, userID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.Search(ctx, domain.JobFilter{
		CompanyID: rec.CompanyID,
		Status:    status,
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list company jobs: %w", err)
	}
	return jobs, nil
}

// Update applies posting changes on behalf of the owning recruiter.
func (s *JobService) Update(ctx context.Context, userID, jobID int64, in JobUpdate) (domain.Job, error) {
	ctx, span := s.span(ctx, "JobService.Update")
	defer span.End()

	job, err := s.loadOwned(ctx, userID, jobID)
	if err != nil {
		return domain.Job{}, err
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		job.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		job.Description = *in.Description
	}
	if in.Location != nil {
		job.Location = *in.Location
	}
	if in.Level != nil {
		job.Level = *in.Level
	}
	if in.Type != nil {
		job.Type = *in.Type
	}
	if in.WorkingType != nil {
		job.WorkingType = *in.WorkingType
	}
	if in.SalaryMin != nil {
		job.SalaryMin = in.SalaryMin
	}
	if in.SalaryMax != nil {
		job.SalaryMax = in.SalaryMax
	}
	if in.SalaryCurrency != nil {
		job.SalaryCurrency = strings.ToUpper(strings.TrimSpace(*in.SalaryCurrency))
	}
	if in.Status != nil {
		job.Status = *in.Status
	}
	if in.ApplicationDeadline != nil {
		job.ApplicationDeadline = in.ApplicationDeadline
	}
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return domain.Job{}, newAPIError("invalid_request", "salary_min exceeds salary_max.", http.StatusBadRequest)
	}

	updated, err := s.jobs.Update(ctx, job)
	if err != nil {
		span.RecordError(err)
		return domain.Job{}, fmt.Errorf("update job: %w", err)
	}
	return updated, nil
}

// Publish moves a draft posting live and stamps posted_at.
func (s *JobService) Publish(ctx context.Context, userID, jobID int64) (domain.Job, error) {
	ctx, span := s.span(ctx, "JobService.Publish")
	defer span.End()

	job, err := s.loadOwned(ctx, userID, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	switch job.Status {
	case domain.JobDraft, domain.JobPaused:
	default:
		return domain.Job{}, newAPIError("invalid_request", "Only draft or paused jobs can be published.", http.StatusBadRequest)
	}

	now := time.Now().UTC()
	job.Status = domain.JobActive
	if job.PostedAt == nil {
		job.PostedAt = &now
	}

	updated, err := s.jobs.Update(ctx, job)
	if err != nil {
		span.RecordError(err)
		return domain.Job{}, fmt.Errorf("publish job: %w", err)
	}

	s.logger.Info("audit",
		zap.String("event", "job.publish"),
		zap.Int64("job_id", jobID),
		zap.Int64("user_id", userID),
	)
	return updated, nil
}

// Delete removes a posting.
func (s *JobService) Delete(ctx context.Context, userID, jobID int64) error {
	ctx, span := s.span(ctx, "JobService.Delete")
	defer span.End()

	if _, err := s.loadOwned(ctx, userID, jobID); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, jobID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete job: %w", err)
	}

	s.logger.Info("audit",
		zap.String("event", "job.delete"),
		zap.Int64("job_id", jobID),
		zap.Int64("user_id", userID),
	)
	return nil
}

func (s *JobService) load(ctx context.Context, jobID int64) (domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Job{}, newAPIError("not_found", "Job not found.", http.StatusNotFound)
		}
		return domain.Job{}, fmt.Errorf("load job: %w", err)
	}
	return job, nil
}

func (s *JobService) loadOwned(ctx context.Context, userID, jobID int64) (domain.Job, error) {
	job, err := s.load(ctx, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	rec, err := s.requirePoster(ctx, userID)
	if err != nil {
		return domain.Job{}, err
	}
	if rec.CompanyID != job.CompanyID {
		return domain.Job{}, newAPIError("forbidden", "Job belongs to another company.", http.StatusForbidden)
	}
	return job, nil
}

func (s *JobService) requireRecruiter(ctx context.Context, userID int64) (domain.Recruiter, error) {
	rec, err := s.recruiters.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Recruiter{}, newAPIError("forbidden", "Recruiter profile required.", http.StatusForbidden)
		}
		return domain.Recruiter{}, fmt.Errorf("load recruiter: %w", err)
	}
	if !rec.IsApproved() {
		return domain.Recruiter{}, newAPIError("forbidden", "Recruiter profile required.", http.StatusForbidden)
	}
	return rec, nil
}

func (s *JobService) requirePoster(ctx context.Context, userID int64) (domain.Recruiter, error) {
	rec, err := s.requireRecruiter(ctx, userID)
	if err != nil {
		return domain.Recruiter{}, err
	}
	if !rec.CanPostJobs {
		return domain.Recruiter{}, newAPIError("forbidden", "Posting permission required.", http.StatusForbidden)
	}
	return rec, nil
}

func (s *JobService) span(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}
