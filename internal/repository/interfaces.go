package repository

import (
	"context"
	"time"

	"github.com/gauss2302/jobhub/internal/domain"
	domainoauth "github.com/gauss2302/jobhub/internal/domain/oauth"
)

// UserRepository exposes persistence for platform users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, userID int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByProviderID(ctx context.Context, provider, providerID string) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	LinkProvider(ctx context.Context, userID int64, provider, providerID string) error
	UpdateLastLogin(ctx context.Context, userID int64) error
	SetActive(ctx context.Context, userID int64, active bool) error
	Delete(ctx context.Context, userID int64) error
}

// CompanyRepository exposes persistence for companies.
type CompanyRepository interface {
	Create(ctx context.Context, company domain.Company) (domain.Company, error)
	GetByID(ctx context.Context, companyID int64) (domain.Company, error)
	GetBySlug(ctx context.Context, slug string) (domain.Company, error)
	Update(ctx context.Context, company domain.Company) (domain.Company, error)
	Search(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error)
}

// RecruiterRepository exposes persistence for recruiter profiles.
type RecruiterRepository interface {
	Create(ctx context.Context, recruiter domain.Recruiter) (domain.Recruiter, error)
	GetByID(ctx context.Context, recruiterID int64) (domain.Recruiter, error)
	GetByUserID(ctx context.Context, userID int64) (domain.Recruiter, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.Recruiter, error)
	Update(ctx context.Context, recruiter domain.Recruiter) (domain.Recruiter, error)
}

// JobRepository exposes persistence for job postings.
type JobRepository interface {
	Create(ctx context.Context, job domain.Job) (domain.Job, error)
	GetByID(ctx context.Context, jobID int64) (domain.Job, error)
	Update(ctx context.Context, job domain.Job) (domain.Job, error)
	Delete(ctx context.Context, jobID int64) error
	Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	IncrementApplications(ctx context.Context, jobID int64) error
}

// ApplicationRepository exposes persistence for job applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app domain.Application) (domain.Application, error)
	GetByID(ctx context.Context, appID int64) (domain.Application, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Application, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.Application, error)
	UpdateStatus(ctx context.Context, appID int64, status domain.ApplicationStatus, notes string) (domain.Application, error)
}

// OAuthStateStore persists single-use OAuth state while the user is at the
// identity provider.
type OAuthStateStore interface {
	SaveState(ctx context.Context, key string, data domainoauth.State, ttl time.Duration) error
	GetState(ctx context.Context, key string) (*domainoauth.State, error)
	DeleteState(ctx context.Context, key string) error
}

// RefreshTokenStore tracks active refresh-token hashes and the rotation
// blacklist in Redis.
type RefreshTokenStore interface {
	Store(ctx context.Context, userID int64, deviceID, token string, ttl time.Duration) error
	IsActive(ctx context.Context, userID int64, deviceID, token string) (bool, error)
	Revoke(ctx context.Context, userID int64, deviceID string) error
	RevokeAll(ctx context.Context, userID int64) (int, error)
	Blacklist(ctx context.Context, token string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
