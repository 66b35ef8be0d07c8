package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gauss2302/jobhub/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository        = (*PostgresUserRepo)(nil)
	_ CompanyRepository     = (*PostgresCompanyRepo)(nil)
	_ RecruiterRepository   = (*PostgresRecruiterRepo)(nil)
	_ JobRepository         = (*PostgresJobRepo)(nil)
	_ ApplicationRepository = (*PostgresApplicationRepo)(nil)
)

// mapErr translates driver errors into domain sentinels so services never
// import pgx.
func mapErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23503":
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// PostgresUserRepo implements UserRepository.
type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

const userColumns = `id, email, full_name, avatar_url, password_hash, google_id, github_id, is_active, is_superuser, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.AvatarURL,
		&u.PasswordHash,
		&u.GoogleID,
		&u.GitHubID,
		&u.IsActive,
		&u.IsSuperuser,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `INSERT INTO users (id, email, full_name, avatar_url, password_hash, google_id, github_id, is_active, is_superuser)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		user.AvatarURL,
		user.PasswordHash,
		user.GoogleID,
		user.GitHubID,
		user.IsActive,
		user.IsSuperuser,
	))
	if err != nil {
		return domain.User{}, mapErr("create user", err)
	}
	return created, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return domain.User{}, mapErr("get user by id", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return domain.User{}, mapErr("get user by email", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) GetByProviderID(ctx context.Context, provider, providerID string) (domain.User, error) {
	column, err := providerColumn(provider)
	if err != nil {
		return domain.User{}, err
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, providerID))
	if err != nil {
		return domain.User{}, mapErr("get user by provider id", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) Update(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `UPDATE users
SET full_name = $2, avatar_url = $3, password_hash = $4, is_active = $5, is_superuser = $6, updated_at = now()
WHERE id = $1
RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.AvatarURL,
		user.PasswordHash,
		user.IsActive,
		user.IsSuperuser,
	))
	if err != nil {
		return domain.User{}, mapErr("update user", err)
	}
	return updated, nil
}

func (r *PostgresUserRepo) LinkProvider(ctx context.Context, userID int64, provider, providerID string) error {
	column, err := providerColumn(provider)
	if err != nil {
		return err
	}
	query := `UPDATE users SET ` + column + ` = $2, updated_at = now() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, userID, providerID)
	if err != nil {
		return mapErr("link provider", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("link provider: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresUserRepo) UpdateLastLogin(ctx context.Context, userID int64) error {
	const query = `UPDATE users SET last_login = now() WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return mapErr("update last login", err)
	}
	return nil
}

func (r *PostgresUserRepo) SetActive(ctx context.Context, userID int64, active bool) error {
	const query = `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, userID, active)
	if err != nil {
		return mapErr("set user active", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set user active: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresUserRepo) Delete(ctx context.Context, userID int64) error {
	const query = `DELETE FROM users WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return mapErr("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete user: %w", domain.ErrNotFound)
	}
	return nil
}

func providerColumn(provider string) (string, error) {
	switch provider {
	case "google":
		return "google_id", nil
	case "github":
		return "github_id", nil
	default:
		return "", fmt.Errorf("unknown oauth provider %q", provider)
	}
}

// PostgresCompanyRepo implements CompanyRepository.
type PostgresCompanyRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCompanyRepo(pool *pgxpool.Pool) *PostgresCompanyRepo {
	return &PostgresCompanyRepo{db: pool}
}

const companyColumns = `id, name, slug, description, website, industry, size, headquarters, logo_url, status, verified_at, verified_by, is_active, is_hiring, created_at, updated_at`

func scanCompany(row pgx.Row) (domain.Company, error) {
	var c domain.Company
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.Website,
		&c.Industry,
		&c.Size,
		&c.Headquarters,
		&c.LogoURL,
		&c.Status,
		&c.VerifiedAt,
		&c.VerifiedBy,
		&c.IsActive,
		&c.IsHiring,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *PostgresCompanyRepo) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	const query = `INSERT INTO companies (id, name, slug, description, website, industry, size, headquarters, logo_url, status, is_active, is_hiring)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + companyColumns

	created, err := scanCompany(r.db.QueryRow(ctx, query,
		company.ID,
		company.Name,
		company.Slug,
		company.Description,
		company.Website,
		company.Industry,
		company.Size,
		company.Headquarters,
		company.LogoURL,
		company.Status,
		company.IsActive,
		company.IsHiring,
	))
	if err != nil {
		return domain.Company{}, mapErr("create company", err)
	}
	return created, nil
}

func (r *PostgresCompanyRepo) GetByID(ctx context.Context, companyID int64) (domain.Company, error) {
	const query = `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	c, err := scanCompany(r.db.QueryRow(ctx, query, companyID))
	if err != nil {
		return domain.Company{}, mapErr("get company", err)
	}
	return c, nil
}

func (r *PostgresCompanyRepo) GetBySlug(ctx context.Context, slug string) (domain.Company, error) {
	const query = `SELECT ` + companyColumns + ` FROM companies WHERE slug = $1`
	c, err := scanCompany(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		return domain.Company{}, mapErr("get company by slug", err)
	}
	return c, nil
}

func (r *PostgresCompanyRepo) Update(ctx context.Context, company domain.Company) (domain.Company, error) {
	const query = `UPDATE companies
SET name = $2, description = $3, website = $4, industry = $5, size = $6, headquarters = $7, logo_url = $8,
    status = $9, verified_at = $10, verified_by = $11, is_active = $12, is_hiring = $13, updated_at = now()
WHERE id = $1
RETURNING ` + companyColumns

	updated, err := scanCompany(r.db.QueryRow(ctx, query,
		company.ID,
		company.Name,
		company.Description,
		company.Website,
		company.Industry,
		company.Size,
		company.Headquarters,
		company.LogoURL,
		company.Status,
		company.VerifiedAt,
		company.VerifiedBy,
		company.IsActive,
		company.IsHiring,
	))
	if err != nil {
		return domain.Company{}, mapErr("update company", err)
	}
	return updated, nil
}

func (r *PostgresCompanyRepo) Search(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	var (
		where = []string{"is_active = TRUE"}
		args  []any
	)
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if filter.Industry != "" {
		args = append(args, filter.Industry)
		where = append(where, fmt.Sprintf("industry = $%d", len(args)))
	}

	query := `SELECT ` + companyColumns + ` FROM companies WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC` + paginate(&args, filter.Page, filter.PerPage)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr("search companies", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, mapErr("search companies", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("search companies", err)
	}
	return companies, nil
}

// PostgresRecruiterRepo implements RecruiterRepository.
type PostgresRecruiterRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRecruiterRepo(pool *pgxpool.Pool) *PostgresRecruiterRepo {
	return &PostgresRecruiterRepo{db: pool}
}

const recruiterColumns = `id, user_id, company_id, position, department, status, approved_by, approved_at, can_post_jobs, can_manage_company, is_active, created_at, updated_at`

func scanRecruiter(row pgx.Row) (domain.Recruiter, error) {
	var rec domain.Recruiter
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.CompanyID,
		&rec.Position,
		&rec.Department,
		&rec.Status,
		&rec.ApprovedBy,
		&rec.ApprovedAt,
		&rec.CanPostJobs,
		&rec.CanManageCompany,
		&rec.IsActive,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

func (r *PostgresRecruiterRepo) Create(ctx context.Context, recruiter domain.Recruiter) (domain.Recruiter, error) {
	const query = `INSERT INTO recruiters (id, user_id, company_id, position, department, status, can_post_jobs, can_manage_company, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + recruiterColumns

	created, err := scanRecruiter(r.db.QueryRow(ctx, query,
		recruiter.ID,
		recruiter.UserID,
		recruiter.CompanyID,
		recruiter.Position,
		recruiter.Department,
		recruiter.Status,
		recruiter.CanPostJobs,
		recruiter.CanManageCompany,
		recruiter.IsActive,
	))
	if err != nil {
		return domain.Recruiter{}, mapErr("create recruiter", err)
	}
	return created, nil
}

func (r *PostgresRecruiterRepo) GetByID(ctx context.Context, recruiterID int64) (domain.Recruiter, error) {
	const query = `SELECT ` + recruiterColumns + ` FROM recruiters WHERE id = $1`
	rec, err := scanRecruiter(r.db.QueryRow(ctx, query, recruiterID))
	if err != nil {
		return domain.Recruiter{}, mapErr("get recruiter", err)
	}
	return rec, nil
}

func (r *PostgresRecruiterRepo) GetByUserID(ctx context.Context, userID int64) (domain.Recruiter, error) {
	const query = `SELECT ` + recruiterColumns + ` FROM recruiters WHERE user_id = $1`
	rec, err := scanRecruiter(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return domain.Recruiter{}, mapErr("get recruiter by user", err)
	}
	return rec, nil
}

func (r *PostgresRecruiterRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.Recruiter, error) {
	const query = `SELECT ` + recruiterColumns + ` FROM recruiters WHERE company_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, mapErr("list recruiters", err)
	}
	defer rows.Close()

	var recruiters []domain.Recruiter
	for rows.Next() {
		rec, err := scanRecruiter(rows)
		if err != nil {
			return nil, mapErr("list recruiters", err)
		}
		recruiters = append(recruiters, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list recruiters", err)
	}
	return recruiters, nil
}

func (r *PostgresRecruiterRepo) Update(ctx context.Context, recruiter domain.Recruiter) (domain.Recruiter, error) {
	const query = `UPDATE recruiters
SET position = $2, department = $3, status = $4, approved_by = $5, approved_at = $6,
    can_post_jobs = $7, can_manage_company = $8, is_active = $9, updated_at = now()
WHERE id = $1
RETURNING ` + recruiterColumns

	updated, err := scanRecruiter(r.db.QueryRow(ctx, query,
		recruiter.ID,
		recruiter.Position,
		recruiter.Department,
		recruiter.Status,
		recruiter.ApprovedBy,
		recruiter.ApprovedAt,
		recruiter.CanPostJobs,
		recruiter.CanManageCompany,
		recruiter.IsActive,
	))
	if err != nil {
		return domain.Recruiter{}, mapErr("update recruiter", err)
	}
	return updated, nil
}

// PostgresJobRepo implements JobRepository.
type PostgresJobRepo struct {
	db *pgxpool.Pool
}

func NewPostgresJobRepo(pool *pgxpool.Pool) *PostgresJobRepo {
	return &PostgresJobRepo{db: pool}
}

// created_by goes NULL when the authoring account is deleted; zero stands in
// for "no author" on the Go side.
const jobColumns = `id, company_id, title, description, location, level, job_type, working_type, salary_min, salary_max, salary_currency, status, posted_at, application_deadline, applications_count, COALESCE(created_by, 0) AS created_by, created_at, updated_at`

func scanJob(row pgx.Row) (domain.Job, error) {
	var j domain.Job
	err := row.Scan(
		&j.ID,
		&j.CompanyID,
		&j.Title,
		&j.Description,
		&j.Location,
		&j.Level,
		&j.Type,
		&j.WorkingType,
		&j.SalaryMin,
		&j.SalaryMax,
		&j.SalaryCurrency,
		&j.Status,
		&j.PostedAt,
		&j.ApplicationDeadline,
		&j.ApplicationsCount,
		&j.CreatedBy,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	return j, err
}

func (r *PostgresJobRepo) Create(ctx context.Context, job domain.Job) (domain.Job, error) {
	const query = `INSERT INTO jobs (id, company_id, title, description, location, level, job_type, working_type, salary_min, salary_max, salary_currency, status, application_deadline, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + jobColumns

	created, err := scanJob(r.db.QueryRow(ctx, query,
		job.ID,
		job.CompanyID,
		job.Title,
		job.Description,
		job.Location,
		job.Level,
		job.Type,
		job.WorkingType,
		job.SalaryMin,
		job.SalaryMax,
		job.SalaryCurrency,
		job.Status,
		job.ApplicationDeadline,
		job.CreatedBy,
	))
	if err != nil {
		return domain.Job{}, mapErr("create job", err)
	}
	return created, nil
}

func (r *PostgresJobRepo) GetByID(ctx context.Context, jobID int64) (domain.Job, error) {
	const query = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	j, err := scanJob(r.db.QueryRow(ctx, query, jobID))
	if err != nil {
		return domain.Job{}, mapErr("get job", err)
	}
	return j, nil
}

func (r *PostgresJobRepo) Update(ctx context.Context, job domain.Job) (domain.Job, error) {
	const query = `UPDATE jobs
SET title = $2, description = $3, location = $4, level = $5, job_type = $6, working_type = $7,
    salary_min = $8, salary_max = $9, salary_currency = $10, status = $11, posted_at = $12,
    application_deadline = $13, updated_at = now()
WHERE id = $1
RETURNING ` + jobColumns

	updated, err := scanJob(r.db.QueryRow(ctx, query,
		job.ID,
		job.Title,
		job.Description,
		job.Location,
		job.Level,
		job.Type,
		job.WorkingType,
		job.SalaryMin,
		job.SalaryMax,
		job.SalaryCurrency,
		job.Status,
		job.PostedAt,
		job.ApplicationDeadline,
	))
	if err != nil {
		return domain.Job{}, mapErr("update job", err)
	}
	return updated, nil
}

func (r *PostgresJobRepo) Delete(ctx context.Context, jobID int64) error {
	const query = `DELETE FROM jobs WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, jobID)
	if err != nil {
		return mapErr("delete job", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete job: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresJobRepo) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	var (
		where []string
		args  []any
	)
	status := filter.Status
	if status == "" {
		status = domain.JobActive
	}
	args = append(args, status)
	where = append(where, fmt.Sprintf("status = $%d", len(args)))

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		where = append(where, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if filter.Level != "" {
		args = append(args, filter.Level)
		where = append(where, fmt.Sprintf("level = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("job_type = $%d", len(args)))
	}
	if filter.WorkingType != "" {
		args = append(args, filter.WorkingType)
		where = append(where, fmt.Sprintf("working_type = $%d", len(args)))
	}
	if filter.CompanyID != 0 {
		args = append(args, filter.CompanyID)
		where = append(where, fmt.Sprintf("company_id = $%d", len(args)))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY posted_at DESC NULLS LAST, created_at DESC` + paginate(&args, filter.Page, filter.PerPage)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr("search jobs", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, mapErr("search jobs", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("search jobs", err)
	}
	return jobs, nil
}

func (r *PostgresJobRepo) IncrementApplications(ctx context.Context, jobID int64) error {
	const query = `UPDATE jobs SET applications_count = applications_count + 1, updated_at = now() WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, jobID); err != nil {
		return mapErr("increment applications", err)
	}
	return nil
}

// PostgresApplicationRepo implements ApplicationRepository.
type PostgresApplicationRepo struct {
	db *pgxpool.Pool
}

func NewPostgresApplicationRepo(pool *pgxpool.Pool) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: pool}
}

const applicationColumns = `id, user_id, job_id, company_id, cover_letter, resume_url, status, recruiter_notes, applied_at, status_updated_at, created_at, updated_at`

func scanApplication(row pgx.Row) (domain.Application, error) {
	var a domain.Application
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.JobID,
		&a.CompanyID,
		&a.CoverLetter,
		&a.ResumeURL,
		&a.Status,
		&a.RecruiterNotes,
		&a.AppliedAt,
		&a.StatusUpdatedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *PostgresApplicationRepo) Create(ctx context.Context, app domain.Application) (domain.Application, error) {
	const query = `INSERT INTO applications (id, user_id, job_id, company_id, cover_letter, resume_url, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + applicationColumns

	created, err := scanApplication(r.db.QueryRow(ctx, query,
		app.ID,
		app.UserID,
		app.JobID,
		app.CompanyID,
		app.CoverLetter,
		app.ResumeURL,
		app.Status,
	))
	if err != nil {
		return domain.Application{}, mapErr("create application", err)
	}
	return created, nil
}

func (r *PostgresApplicationRepo) GetByID(ctx context.Context, appID int64) (domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	a, err := scanApplication(r.db.QueryRow(ctx, query, appID))
	if err != nil {
		return domain.Application{}, mapErr("get application", err)
	}
	return a, nil
}

func (r *PostgresApplicationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1 ORDER BY applied_at DESC`
	return r.list(ctx, query, userID)
}

func (r *PostgresApplicationRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE company_id = $1 ORDER BY applied_at DESC`
	return r.list(ctx, query, companyID)
}

func (r *PostgresApplicationRepo) list(ctx context.Context, query string, arg any) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, mapErr("list applications", err)
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, mapErr("list applications", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list applications", err)
	}
	return apps, nil
}

func (r *PostgresApplicationRepo) UpdateStatus(ctx context.Context, appID int64, status domain.ApplicationStatus, notes string) (domain.Application, error) {
	const query = `UPDATE applications
SET status = $2, recruiter_notes = $3, status_updated_at = now(), updated_at = now()
WHERE id = $1
RETURNING ` + applicationColumns

	updated, err := scanApplication(r.db.QueryRow(ctx, query, appID, status, notes))
	if err != nil {
		return domain.Application{}, mapErr("update application status", err)
	}
	return updated, nil
}

// paginate appends LIMIT/OFFSET placeholders for page/perPage, clamping to
// sane bounds.
func paginate(args *[]any, page, perPage int) string {
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	if page < 1 {
		page = 1
	}
	*args = append(*args, perPage)
	limit := len(*args)
	*args = append(*args, (page-1)*perPage)
	offset := len(*args)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", limit, offset)
}
