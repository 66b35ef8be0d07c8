package domain

import "time"

// ApplicationStatus models the hiring-pipeline state of one application.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationScreening   ApplicationStatus = "screening"
	ApplicationInterviewed ApplicationStatus = "interviewed"
	ApplicationOffered     ApplicationStatus = "offered"
	ApplicationAccepted    ApplicationStatus = "accepted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationWithdrawn   ApplicationStatus = "withdrawn"
)

// Application is a user's submission against a job posting. A user can apply
// to a given job at most once.
type Application struct {
	ID              int64             `json:"id,string"`
	UserID          int64             `json:"user_id,string"`
	JobID           int64             `json:"job_id,string"`
	CompanyID       int64             `json:"company_id,string"`
	CoverLetter     string            `json:"cover_letter,omitempty"`
	ResumeURL       string            `json:"resume_url,omitempty"`
	Status          ApplicationStatus `json:"status"`
	RecruiterNotes  string            `json:"recruiter_notes,omitempty"`
	AppliedAt       time.Time         `json:"applied_at"`
	StatusUpdatedAt *time.Time        `json:"status_updated_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsClosed reports whether the application reached a final state.
func (a Application) IsClosed() bool {
	switch a.Status {
	case ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	}
	return false
}

// ValidApplicationStatus reports whether s is a known pipeline state.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationPending, ApplicationScreening, ApplicationInterviewed,
		ApplicationOffered, ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	}
	return false
}
