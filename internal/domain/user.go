package domain

import "time"

// User is the base account record used for authentication. Profile data tied
// to recruiting lives on the recruiter side; applicants apply as plain users.
type User struct {
	ID           int64
	Email        string
	FullName     string
	AvatarURL    string
	PasswordHash string
	GoogleID     string
	GitHubID     string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

// Role names carried in access-token claims.
const (
	RoleUser      = "user"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// UserUpdate carries the mutable profile fields. Nil means "leave unchanged".
type UserUpdate struct {
	FullName  *string
	AvatarURL *string
}
