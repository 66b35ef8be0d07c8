package domain

import "time"

// RecruiterStatus tracks the approval state of a recruiter profile.
type RecruiterStatus string

const (
	RecruiterPending   RecruiterStatus = "pending"
	RecruiterApproved  RecruiterStatus = "approved"
	RecruiterRejected  RecruiterStatus = "rejected"
	RecruiterSuspended RecruiterStatus = "suspended"
)

// Recruiter links a user to a company with posting/management permissions.
// A user can hold at most one recruiter profile.
type Recruiter struct {
	ID               int64           `json:"id,string"`
	UserID           int64           `json:"user_id,string"`
	CompanyID        int64           `json:"company_id,string"`
	Position         string          `json:"position,omitempty"`
	Department       string          `json:"department,omitempty"`
	Status           RecruiterStatus `json:"status"`
	ApprovedBy       *int64          `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	CanPostJobs      bool            `json:"can_post_jobs"`
	CanManageCompany bool            `json:"can_manage_company"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// IsApproved reports whether the recruiter may act on behalf of the company.
func (r Recruiter) IsApproved() bool {
	return r.Status == RecruiterApproved && r.IsActive
}

// CanAdminister reports whether the recruiter manages company settings and
// other recruiters.
func (r Recruiter) CanAdminister() bool {
	return r.IsApproved() && r.CanManageCompany
}
