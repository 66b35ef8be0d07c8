package domain

import "time"

// JobStatus models the posting lifecycle.
type JobStatus string

const (
	JobDraft     JobStatus = "draft"
	JobPending   JobStatus = "pending"
	JobActive    JobStatus = "active"
	JobPaused    JobStatus = "paused"
	JobFilled    JobStatus = "filled"
	JobCancelled JobStatus = "cancelled"
)

// JobType is the employment arrangement.
type JobType string

const (
	JobFullTime   JobType = "full_time"
	JobPartTime   JobType = "part_time"
	JobContract   JobType = "contract"
	JobInternship JobType = "internship"
	JobTemporary  JobType = "temporary"
)

// WorkingType is the on-site arrangement.
type WorkingType string

const (
	WorkOnsite WorkingType = "onsite"
	WorkRemote WorkingType = "remote"
	WorkHybrid WorkingType = "hybrid"
)

// Job is a posting owned by a company and authored by a recruiter.
type Job struct {
	ID                  int64       `json:"id,string"`
	CompanyID           int64       `json:"company_id,string"`
	Title               string      `json:"title"`
	Description         string      `json:"description,omitempty"`
	Location            string      `json:"location,omitempty"`
	Level               string      `json:"level,omitempty"`
	Type                JobType     `json:"type,omitempty"`
	WorkingType         WorkingType `json:"working_type,omitempty"`
	SalaryMin           *int        `json:"salary_min,omitempty"`
	SalaryMax           *int        `json:"salary_max,omitempty"`
	SalaryCurrency      string      `json:"salary_currency,omitempty"`
	Status              JobStatus   `json:"status"`
	PostedAt            *time.Time  `json:"posted_at,omitempty"`
	ApplicationDeadline *time.Time  `json:"application_deadline,omitempty"`
	ApplicationsCount   int         `json:"applications_count"`
	CreatedBy           int64       `json:"created_by,string"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// IsOpen reports whether the posting accepts applications.
func (j Job) IsOpen() bool {
	if j.Status != JobActive || j.PostedAt == nil {
		return false
	}
	if j.ApplicationDeadline != nil && time.Now().After(*j.ApplicationDeadline) {
		return false
	}
	return true
}

// JobFilter narrows job searches. Zero values are ignored.
type JobFilter struct {
	Query       string
	Location    string
	Level       string
	Type        JobType
	WorkingType WorkingType
	CompanyID   int64
	Status      JobStatus
	Page        int
	PerPage     int
}
