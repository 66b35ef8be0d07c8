package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/gauss2302/jobhub/internal/domain"
)

// ---- In-memory fakes backing the service tests ----

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[int64]domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[int64]domain.User{}}
}

func (m *memoryUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return domain.User{}, domain.ErrConflict
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, userID int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memoryUserRepo) GetByProviderID(_ context.Context, provider, providerID string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		switch strings.ToLower(provider) {
		case "google":
			if user.GoogleID == providerID {
				return user, nil
			}
		case "github":
			if user.GitHubID == providerID {
				return user, nil
			}
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memoryUserRepo) Update(_ context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return domain.User{}, domain.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryUserRepo) LinkProvider(_ context.Context, userID int64, provider, providerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	switch strings.ToLower(provider) {
	case "google":
		user.GoogleID = providerID
	case "github":
		user.GitHubID = providerID
	}
	m.users[userID] = user
	return nil
}

func (m *memoryUserRepo) UpdateLastLogin(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	user.LastLogin = &now
	m.users[userID] = user
	return nil
}

func (m *memoryUserRepo) SetActive(_ context.Context, userID int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.IsActive = active
	m.users[userID] = user
	return nil
}

func (m *memoryUserRepo) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, userID)
	return nil
}

type memoryCompanyRepo struct {
	mu        sync.Mutex
	companies map[int64]domain.Company
}

func newMemoryCompanyRepo() *memoryCompanyRepo {
	return &memoryCompanyRepo{companies: map[int64]domain.Company{}}
}

func (m *memoryCompanyRepo) Create(_ context.Context, company domain.Company) (domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.companies {
		if existing.Slug == company.Slug {
			return domain.Company{}, domain.ErrConflict
		}
	}
	company.CreatedAt = time.Now()
	company.UpdatedAt = company.CreatedAt
	m.companies[company.ID] = company
	return company, nil
}

func (m *memoryCompanyRepo) GetByID(_ context.Context, companyID int64) (domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	company, ok := m.companies[companyID]
	if !ok {
		return domain.Company{}, domain.ErrNotFound
	}
	return company, nil
}

func (m *memoryCompanyRepo) GetBySlug(_ context.Context, slug string) (domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, company := range m.companies {
		if company.Slug == slug {
			return company, nil
		}
	}
	return domain.Company{}, domain.ErrNotFound
}

func (m *memoryCompanyRepo) Update(_ context.Context, company domain.Company) (domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[company.ID]; !ok {
		return domain.Company{}, domain.ErrNotFound
	}
	company.UpdatedAt = time.Now()
	m.companies[company.ID] = company
	return company, nil
}

func (m *memoryCompanyRepo) Search(_ context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Company
	for _, company := range m.companies {
		if filter.Query != "" && !strings.Contains(strings.ToLower(company.Name), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, company)
	}
	return out, nil
}

type memoryRecruiterRepo struct {
	mu         sync.Mutex
	recruiters map[int64]domain.Recruiter
}

func newMemoryRecruiterRepo() *memoryRecruiterRepo {
	return &memoryRecruiterRepo{recruiters: map[int64]domain.Recruiter{}}
}

func (m *memoryRecruiterRepo) Create(_ context.Context, recruiter domain.Recruiter) (domain.Recruiter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.recruiters {
		if existing.UserID == recruiter.UserID {
			return domain.Recruiter{}, domain.ErrConflict
		}
	}
	recruiter.CreatedAt = time.Now()
	recruiter.UpdatedAt = recruiter.CreatedAt
	m.recruiters[recruiter.ID] = recruiter
	return recruiter, nil
}

func (m *memoryRecruiterRepo) GetByID(_ context.Context, recruiterID int64) (domain.Recruiter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recruiter, ok := m.recruiters[recruiterID]
	if !ok {
		return domain.Recruiter{}, domain.ErrNotFound
	}
	return recruiter, nil
}

func (m *memoryRecruiterRepo) GetByUserID(_ context.Context, userID int64) (domain.Recruiter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, recruiter := range m.recruiters {
		if recruiter.UserID == userID {
			return recruiter, nil
		}
	}
	return domain.Recruiter{}, domain.ErrNotFound
}

func (m *memoryRecruiterRepo) ListByCompany(_ context.Context, companyID int64) ([]domain.Recruiter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Recruiter
	for _, recruiter := range m.recruiters {
		if recruiter.CompanyID == companyID {
			out = append(out, recruiter)
		}
	}
	return out, nil
}

func (m *memoryRecruiterRepo) Update(_ context.Context, recruiter domain.Recruiter) (domain.Recruiter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recruiters[recruiter.ID]; !ok {
		return domain.Recruiter{}, domain.ErrNotFound
	}
	recruiter.UpdatedAt = time.Now()
	m.recruiters[recruiter.ID] = recruiter
	return recruiter, nil
}

type memoryJobRepo struct {
	mu   sync.Mutex
	jobs map[int64]domain.Job
}

func newMemoryJobRepo() *memoryJobRepo {
	return &memoryJobRepo{jobs: map[int64]domain.Job{}}
}

func (m *memoryJobRepo) Create(_ context.Context, job domain.Job) (domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	m.jobs[job.ID] = job
	return job, nil
}

func (m *memoryJobRepo) GetByID(_ context.Context, jobID int64) (domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	return job, nil
}

func (m *memoryJobRepo) Update(_ context.Context, job domain.Job) (domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	job.UpdatedAt = time.Now()
	m.jobs[job.ID] = job
	return job, nil
}

func (m *memoryJobRepo) Delete(_ context.Context, jobID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[jobID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.jobs, jobID)
	return nil
}

func (m *memoryJobRepo) Search(_ context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Job
	for _, job := range m.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.CompanyID != 0 && job.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, job)
	}
	return out, nil
}

func (m *memoryJobRepo) IncrementApplications(_ context.Context, jobID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	job.ApplicationsCount++
	m.jobs[jobID] = job
	return nil
}

type memoryApplicationRepo struct {
	mu   sync.Mutex
	apps map[int64]domain.Application
}

func newMemoryApplicationRepo() *memoryApplicationRepo {
	return &memoryApplicationRepo{apps: map[int64]domain.Application{}}
}

func (m *memoryApplicationRepo) Create(_ context.Context, app domain.Application) (domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.apps {
		if existing.UserID == app.UserID && existing.JobID == app.JobID {
			return domain.Application{}, domain.ErrConflict
		}
	}
	app.AppliedAt = time.Now()
	app.CreatedAt = app.AppliedAt
	app.UpdatedAt = app.AppliedAt
	m.apps[app.ID] = app
	return app, nil
}

func (m *memoryApplicationRepo) GetByID(_ context.Context, appID int64) (domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[appID]
	if !ok {
		return domain.Application{}, domain.ErrNotFound
	}
	return app, nil
}

func (m *memoryApplicationRepo) ListByUser(_ context.Context, userID int64) ([]domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Application
	for _, app := range m.apps {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (m *memoryApplicationRepo) ListByCompany(_ context.Context, companyID int64) ([]domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Application
	for _, app := range m.apps {
		if app.CompanyID == companyID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (m *memoryApplicationRepo) UpdateStatus(_ context.Context, appID int64, status domain.ApplicationStatus, notes string) (domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[appID]
	if !ok {
		return domain.Application{}, domain.ErrNotFound
	}
	now := time.Now()
	app.Status = status
	if notes != "" {
		app.RecruiterNotes = notes
	}
	app.StatusUpdatedAt = &now
	app.UpdatedAt = now
	m.apps[appID] = app
	return app, nil
}

// memoryTokenStore mirrors the Redis refresh-token semantics: one active
// token hash per user/device slot plus a rotation blacklist.
type memoryTokenStore struct {
	mu        sync.Mutex
	active    map[string]string
	blacklist map[string]struct{}
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{active: map[string]string{}, blacklist: map[string]struct{}{}}
}

func tokenSlot(userID int64, deviceID string) string {
	if deviceID == "" {
		return hex.EncodeToString([]byte{byte(userID)}) + ":web"
	}
	return hex.EncodeToString([]byte{byte(userID)}) + ":" + deviceID
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (m *memoryTokenStore) Store(_ context.Context, userID int64, deviceID, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[tokenSlot(userID, deviceID)] = hashToken(token)
	return nil
}

func (m *memoryTokenStore) IsActive(_ context.Context, userID int64, deviceID, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[tokenSlot(userID, deviceID)] == hashToken(token), nil
}

func (m *memoryTokenStore) Revoke(_ context.Context, userID int64, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, tokenSlot(userID, deviceID))
	return nil
}

func (m *memoryTokenStore) RevokeAll(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := hex.EncodeToString([]byte{byte(userID)}) + ":"
	count := 0
	for slot := range m.active {
		if strings.HasPrefix(slot, prefix) {
			delete(m.active, slot)
			count++
		}
	}
	return count, nil
}

func (m *memoryTokenStore) Blacklist(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blacklist[hashToken(token)] = struct{}{}
	return nil
}

func (m *memoryTokenStore) IsBlacklisted(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blacklist[hashToken(token)]
	return ok, nil
}
