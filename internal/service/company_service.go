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

// CompanyCreate is the payload for registering a company.
type CompanyCreate struct {
	Name         string
	Description  string
	Website      string
	Industry     string
	Size         domain.CompanySize
	Headquarters string
	LogoURL      string
}

// CompanyUpdate carries mutable company fields. Nil means unchanged.
type CompanyUpdate struct {
	Name         *string
	Description  *string
	Website      *string
	Industry     *string
	Size         *domain.CompanySize
	Headquarters *string
	LogoURL      *string
	IsHiring     *bool
}

// RecruiterApply is the payload for joining a company as a recruiter.
type RecruiterApply struct {
	Position   string
	Department string
}

// CompanyService covers company registration, verification, and the
// recruiter roster.
type CompanyService struct {
	companies  repository.CompanyRepository
	recruiters repository.RecruiterRepository
	snowflake  *snowflake.Node
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewCompanyService wires dependencies.
func NewCompanyService(companies repository.CompanyRepository, recruiters repository.RecruiterRepository, node *snowflake.Node, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		companies:  companies,
		recruiters: recruiters,
		snowflake:  node,
		logger:     logger,
		tracer:     otel.Tracer("github.com/gauss2302/jobhub/internal/service"),
	}
}

// Create registers a company in pending status. The creator becomes its
// first recruiter with full permissions.
func (s *CompanyService) Create(ctx context.Context, userID int64, in CompanyCreate) (domain.Company, error) {
	ctx, span := s.span(ctx, "CompanyService.Create")
	defer span.End()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Company{}, newAPIError("invalid_request", "Company name is required.", http.StatusBadRequest)
	}
	if _, err := s.recruiters.GetByUserID(ctx, userID); err == nil {
		return domain.Company{}, newAPIError("conflict", "User already belongs to a company.", http.StatusConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return domain.Company{}, fmt.Errorf("check recruiter: %w", err)
	}

	company, err := s.companies.Create(ctx, domain.Company{
		ID:           s.snowflake.Generate().Int64(),
		Name:         name,
		Slug:         Slugify(name),
		Description:  strings.TrimSpace(in.Description),
		Website:      strings.TrimSpace(in.Website),
		Industry:     strings.TrimSpace(in.Industry),
		Size:         in.Size,
		Headquarters: strings.TrimSpace(in.Headquarters),
		LogoURL:      strings.TrimSpace(in.LogoURL),
		Status:       domain.CompanyPending,
		IsActive:     true,
		IsHiring:     false,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Company{}, newAPIError("conflict", "Company name already taken.", http.StatusConflict)
		}
		span.RecordError(err)
		return domain.Company{}, fmt.Errorf("create company: %w", err)
	}

	now := time.Now().UTC()
	if _, err := s.recruiters.Create(ctx, domain.Recruiter{
		ID:               s.snowflake.Generate().Int64(),
		UserID:           userID,
		CompanyID:        company.ID,
		Position:         "Founder",
		Status:           domain.RecruiterApproved,
		ApprovedBy:       &userID,
		ApprovedAt:       &now,
		CanPostJobs:      true,
		CanManageCompany: true,
		IsActive:         true,
	}); err != nil {
		span.RecordError(err)
		return domain.Company{}, fmt.Errorf("create founding recruiter: %w", err)
	}

	s.logger.Info("audit",
		zap.String("event", "company.create"),
		zap.Int64("company_id", company.ID),
		zap.Int64("user_id", userID),
	)
	return company, nil
}

// Get loads one company by ID.
func (s *CompanyService) Get(ctx context.Context, companyID int64) (domain.Company, error) {
	ctx, span := s.span(ctx, "CompanyService.Get")
	defer span.End()
	return s.load(ctx, companyID)
}

// GetBySlug loads one company by slug.
func (s *CompanyService) GetBySlug(ctx context.Context, slug string) (domain.Company, error) {
	ctx, span := s.span(ctx, "CompanyService.GetBySlug")
	defer span.End()

	company, err := s.companies.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Company{}, newAPIError("not_found", "Company not found.", http.StatusNotFound)
		}
		span.RecordError(err)
		return domain.Company{}, fmt.Errorf("load company: %w", err)
	}
	return company, nil
}

// Search lists active companies matching the filter.
func (s *CompanyService) Search(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	ctx, span := s.span(ctx, "CompanyService.Search")
	defer span.End()

	companies, err := s.companies.Search(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("search companies: %w", err)
	}
	return companies, nil
}

// Update applies company changes on behalf of a managing recruiter.
func (s *CompanyService) Update(ctx context.Context, userID, companyID int64, in CompanyUpdate) (domain.Company, error) {
	ctx, span := s.span(ctx, "CompanyService.Update")
	defer span.End()

	if _, err := s.requireManager(ctx, userID, companyID); err != nil {
		return domain.Company{}, err
	}
	company, err := s.load(ctx, companyID)
	if err != nil {
		return domain.Company{}, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		company.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		company.Description = *in.Description
	}
	if in.Website != nil {
		company.Website = *in.Website
	}
	if in.Industry != nil {
		company.Industry = *in.Industry
	}
	if in.Size != nil {
		company.Size = *in.Size
	}
	if in.Headquarters != nil {
		company.Headquarters = *in.Headquarters
	}
	if in.LogoURL != nil {
		company.LogoURL = *in.LogoURL
	}
	if in.IsHiring != nil {
		company.IsHiring = *in.IsHiring
	}

	updated, err := s.companies.Update(ctx, company)
	if err != nil {
		span.RecordError(err)
		return domain.Company{}, fmt.Errorf("update company: %w", err)
	}
	return updated, nil
}

// Verify is the platform-admin decision on a pending company.
func (s *CompanyService) Verify(ctx context.Context, adminID, companyID int64, approve bool) (domain.Company, error) {
	ctx, span := s.span(ctx, "CompanyService.Verify")
	defer span.End()

	company, err := s.load(ctx, companyID)
	if err != nil {
		return domain.Company{}, err
	}

	now := time.Now().UTC()
	if approve {
		company.Status = domain.CompanyVerified
		company.VerifiedAt = &now
		company.VerifiedBy = &adminID
	} else {
		company.Status = domain.CompanyRejected
	}

	updated, err := s.companies.Update(ctx, company)
	if err != nil {
		span.RecordError(err)
		return domain.Company{}, fmt.Errorf("verify company: %w", err)
	}

	s.logger.Info("audit",
		zap.String("event", "company.verify"),
		zap.Int64("company_id", companyID),
		zap.Int64("admin_id", adminID),
		zap.Bool("approved", approve),
	)
	return updated, nil
}

// ApplyRecruiter files a pending recruiter application for the company.
func (s *CompanyService) ApplyRecruiter(ctx context.Context, userID, companyID int64, in RecruiterApply) (domain.Recruiter, error) {
	ctx, span := s.span(ctx, "CompanyService.ApplyRecruiter")
	defer span.End()

	if _, err := s.load(ctx, companyID); err != nil {
		return domain.Recruiter{}, err
	}
	if _, err := s.recruiters.GetByUserID(ctx, userID); err == nil {
		return domain.Recruiter{}, newAPIError("conflict", "User already belongs to a company.", http.StatusConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return domain.Recruiter{}, fmt.Errorf("check recruiter: %w", err)
	}

	created, err := s.recruiters.Create(ctx, domain.Recruiter{
		ID:         s.snowflake.Generate().Int64(),
		UserID:     userID,
		CompanyID:  companyID,
		Position:   strings.TrimSpace(in.Position),
		Department: strings.TrimSpace(in.Department),
		Status:     domain.RecruiterPending,
		IsActive:   true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Recruiter{}, newAPIError("conflict", "Recruiter application already exists.", http.StatusConflict)
		}
		span.RecordError(err)
		return domain.Recruiter{}, fmt.Errorf("create recruiter: %w", err)
	}

	s.logger.Info("audit",
		zap.String("event", "recruiter.apply"),
		zap.Int64("company_id", companyID),
		zap.Int64("user_id", userID),
	)
	return created, nil
}

// ListRecruiters returns the company roster to a managing recruiter.
func (s *CompanyService) ListRecruiters(ctx context.Context, userID, companyID int64) ([]domain.Recruiter, error) {
	ctx, span := s.span(ctx, "CompanyService.ListRecruiters")
	defer span.End()

	if _, err := s.requireManager(ctx, userID, companyID); err != nil {
		return nil, err
	}
	roster, err := s.recruiters.ListByCompany(ctx, companyID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list recruiters: %w", err)
	}
	return roster, nil
}

// DecideRecruiter approves or rejects a pending recruiter application.
func (s *CompanyService) DecideRecruiter(ctx context.Context, actorID, recruiterID int64, approve bool) (domain.Recruiter, error) {
	ctx, span := s.span(ctx, "CompanyService.DecideRecruiter")
	defer span.End()

	rec, err := s.recruiters.GetByID(ctx, recruiterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Recruiter{}, newAPIError("not_found", "Recruiter not found.", http.StatusNotFound)
		}
		span.RecordError(err)
		return domain.Recruiter{}, fmt.Errorf("load recruiter: %w", err)
	}
	if _, err := s.requireManager(ctx, actorID, rec.CompanyID); err != nil {
		return domain.Recruiter{}, err
	}
	if rec.Status != domain.RecruiterPending {
		return domain.Recruiter{}, newAPIError("invalid_request", "Application already decided.", http.StatusBadRequest)
	}

	now := time.Now().UTC()
	if approve {
		rec.Status = domain.RecruiterApproved
		rec.ApprovedBy = &actorID
		rec.ApprovedAt = &now
		rec.CanPostJobs = true
	} else {
		rec.Status = domain.RecruiterRejected
	}

	updated, err := s.recruiters.Update(ctx, rec)
	if err != nil {
		span.RecordError(err)
		return domain.Recruiter{}, fmt.Errorf("update recruiter: %w", err)
	}

	s.logger.Info("audit",
		zap.String("event", "recruiter.decide"),
		zap.Int64("recruiter_id", recruiterID),
		zap.Int64("actor_id", actorID),
		zap.Bool("approved", approve),
	)
	return updated, nil
}

func (s *CompanyService) load(ctx context.Context, companyID int64) (domain.Company, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Company{}, newAPIError("not_found", "Company not found.", http.StatusNotFound)
		}
		return domain.Company{}, fmt.Errorf("load company: %w", err)
	}
	return company, nil
}

func (s *CompanyService) requireManager(ctx context.Context, userID, companyID int64) (domain.Recruiter, error) {
	rec, err := s.recruiters.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Recruiter{}, newAPIError("forbidden", "Not a recruiter for this company.", http.StatusForbidden)
		}
		return domain.Recruiter{}, fmt.Errorf("load recruiter: %w", err)
	}
	if rec.CompanyID != companyID || !rec.CanAdminister() {
		return domain.Recruiter{}, newAPIError("forbidden", "Not a recruiter for this company.", http.StatusForbidden)
	}
	return rec, nil
}

func (s *CompanyService) span(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

// Slugify lowercases and dash-joins a name for URL use.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
