package domain

import "time"

// CompanyStatus tracks the verification lifecycle of a company.
type CompanyStatus string

const (
	CompanyPending   CompanyStatus = "pending"
	CompanyVerified  CompanyStatus = "verified"
	CompanySuspended CompanyStatus = "suspended"
	CompanyRejected  CompanyStatus = "rejected"
)

// CompanySize buckets headcount.
type CompanySize string

const (
	SizeStartup    CompanySize = "startup"
	SizeSmall      CompanySize = "small"
	SizeMedium     CompanySize = "medium"
	SizeLarge      CompanySize = "large"
	SizeEnterprise CompanySize = "enterprise"
)

// Company is an employer entity that recruiters belong to.
type Company struct {
	ID           int64         `json:"id,string"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	Description  string        `json:"description,omitempty"`
	Website      string        `json:"website,omitempty"`
	Industry     string        `json:"industry,omitempty"`
	Size         CompanySize   `json:"size,omitempty"`
	Headquarters string        `json:"headquarters,omitempty"`
	LogoURL      string        `json:"logo_url,omitempty"`
	Status       CompanyStatus `json:"status"`
	VerifiedAt   *time.Time    `json:"verified_at,omitempty"`
	VerifiedBy   *int64        `json:"verified_by,omitempty"`
	IsActive     bool          `json:"is_active"`
	IsHiring     bool          `json:"is_hiring"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsVerified reports whether the company passed verification and is active.
func (c Company) IsVerified() bool {
	return c.Status == CompanyVerified && c.IsActive
}

// CompanyFilter narrows company searches.
type CompanyFilter struct {
	Query    string
	Industry string
	Page     int
	PerPage  int
}
