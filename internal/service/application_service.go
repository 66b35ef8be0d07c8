package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/repository"
)

// ApplicationSubmit is the payload for applying to a job.
type ApplicationSubmit struct {
	CoverLetter string
	ResumeURL   string
}

// ApplicationService covers the applicant pipeline.
type ApplicationService struct {
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	recruiters   repository.RecruiterRepository
	snowflake    *snowflake.Node
	logger       *zap.Logger
	tracer       trace.Tracer
}

// NewApplicationService wires dependencies.
func NewApplicationService(applications repository.ApplicationRepository, jobs repository.JobRepository, recruiters repository.RecruiterRepository, node *snowflake.Node, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		jobs:         jobs,
		recruiters:   recruiters,
		snowflake:    node,
		logger:       logger,
		tracer:       otel.Tracer("github.com/gauss2302/jobhub/internal/service"),
	}
}

// Apply submits an application against an open posting. One application per
// user per job.
func (s *ApplicationService) Apply(ctx context.Context, userID, jobID int64, in ApplicationSubmit) (domain.Application, error) {
	ctx, span := s.span(ctx, "ApplicationService.Apply")
	defer span.End()

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Application{}, newAPIError("not_found", "Job not found.", http.StatusNotFound)
		}
		span.RecordError(err)
		return domain.Application{}, fmt.Errorf("load job: %w", err)
	}
	if !job.IsOpen() {
		return domain.Application{}, newAPIError("invalid_request", "Job is not accepting applications.", http.StatusBadRequest)
	}

	// Recruiters cannot apply to their own company's postings.
	if rec, err := s.recruiters.GetByUserID(ctx, userID); err == nil && rec.CompanyID == job.CompanyID {
		return domain.Application{}, newAPIError("forbidden", "Cannot apply to your own company.", http.StatusForbidden)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return domain.Application{}, fmt.Errorf("check recruiter: %w", err)
	}

	created, err := s.applications.Create(ctx, domain.Application{
		ID:          s.snowflake.Generate().Int64(),
		UserID:      userID,
		JobID:       jobID,
		CompanyID:   job.CompanyID,
		CoverLetter: in.CoverLetter,
		ResumeURL:   strings.TrimSpace(in.ResumeURL),
		Status:      domain.ApplicationPending,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Application{}, newAPIError("conflict", "Already applied to this job.", http.StatusConflict)
		}
		span.RecordError(err)
		return domain.Application{}, fmt.Errorf("create application: %w", err)
	}

	if err := s.jobs.IncrementApplications(ctx, jobID); err != nil {
		s.logger.Warn("increment applications", zap.Int64("job_id", jobID), zap.Error(err))
	}

	s.logger.Info("audit",
		zap.String("event", "application.submit"),
		zap.Int64("application_id", created.ID),
		zap.Int64("job_id", jobID),
		zap.Int64("user_id", userID),
	)
	return created, nil
}

// ListMine returns the caller's applications, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, userID int64) ([]domain.Application, error) {
	ctx, span := s.span(ctx, "ApplicationService.ListMine")
	defer span.End()

	apps, err := s.applications.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// ListForCompany returns the pipeline visible to a company recruiter.
func (s *ApplicationService) ListForCompany(ctx context.Context, userID int64) ([]domain.Application, error) {
	ctx, span := s.span(ctx, "ApplicationService.ListForCompany")
	defer span.End()

	rec, err := s.requireRecruiter(ctx, userID)
	if err != nil {
		return nil, err
	}
	apps, err := s.applications.ListByCompany(ctx, rec.CompanyID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// Get loads one application for either the applicant or a recruiter of the
// hiring company.
func (s *ApplicationService) Get(ctx context.Context, viewerID, appID int64) (domain.Application, error) {
	ctx, span := s.span(ctx, "ApplicationService.Get")
	defer span.End()

	app, err := s.load(ctx, appID)
	if err != nil {
		return domain.Application{}, err
	}
	if app.UserID == viewerID {
		return app, nil
	}
	if rec, err := s.recruiters.GetByUserID(ctx, viewerID); err == nil && rec.CompanyID == app.CompanyID && rec.IsApproved() {
		return app, nil
	}
	return domain.Application{}, newAPIError("not_found", "Application not found.", http.StatusNotFound)
}

// UpdateStatus moves an application through the pipeline on behalf of a
// recruiter of the hiring company.
func (s *ApplicationService) UpdateStatus(ctx context.Context, userID, appID int64, status domain.ApplicationStatus, notes string) (domain.Application, error) {
	ctx, span := s.span(ctx, "ApplicationService.UpdateStatus")
	defer span.End()

	if !domain.ValidApplicationStatus(status) || status == domain.ApplicationWithdrawn {
		return domain.Application{}, newAPIError("invalid_request", "Invalid application status.", http.StatusBadRequest)
	}

	app, err := s.load(ctx, appID)
	if err != nil {
		return domain.Application{}, err
	}
	rec, err := s.requireRecruiter(ctx, userID)
	if err != nil {
		return domain.Application{}, err
	}
	if rec.CompanyID != app.CompanyID {
		return domain.Application{}, newAPIError("forbidden", "Application belongs to another company.", http.StatusForbidden)
	}
	if app.IsClosed() {
		return domain.Application{}, newAPIError("invalid_request", "Application already closed.", http.StatusBadRequest)
	}

	updated, err := s.applications.UpdateStatus(ctx, appID, status, notes)
	if err != nil {
		span.RecordError(err)
		return domain.Application{}, fmt.Errorf("update application: %w", err)
	}

	s.logger.Info("audit",
		zap.String("event", "application.status"),
		zap.Int64("application_id", appID),
		zap.Int64("user_id", userID),
		zap.String("status", string(status)),
	)
	return updated, nil
}

// Withdraw lets the applicant pull an open application.
func (s *ApplicationService) Withdraw(ctx context.Context, userID, appID int64) (domain.Application, error) {
	ctx, span := s.span(ctx, "ApplicationService.Withdraw")
	defer span.End()

	app, err := s.load(ctx, appID)
	if err != nil {
		return domain.Application{}, err
	}
	if app.UserID != userID {
		return domain.Application{}, newAPIError("not_found", "Application not found.", http.StatusNotFound)
	}
	if app.IsClosed() {
		return domain.Application{}, newAPIError("invalid_request", "Application already closed.", http.StatusBadRequest)
	}

	updated, err := s.applications.UpdateStatus(ctx, appID, domain.ApplicationWithdrawn, app.RecruiterNotes)
	if err != nil {
		span.RecordError(err)
		return domain.Application{}, fmt.Errorf("withdraw application: %w", err)
	}

	s.logger.Info("audit",
		zap.String("event", "application.withdraw"),
		zap.Int64("application_id", appID),
		zap.Int64("user_id", userID),
	)
	return updated, nil
}

func (s *ApplicationService) load(ctx context.Context, appID int64) (domain.Application, error) {
	app, err := s.applications.GetByID(ctx, appID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Application{}, newAPIError("not_found", "Application not found.", http.StatusNotFound)
		}
		return domain.Application{}, fmt.Errorf("load application: %w", err)
	}
	return app, nil
}

func (s *ApplicationService) requireRecruiter(ctx context.Context, userID int64) (domain.Recruiter, error) {
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

func (s *ApplicationService) span(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}
