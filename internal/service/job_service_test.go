package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/service"
)

type jobHarness struct {
	service    *service.JobService
	jobs       *memoryJobRepo
	companies  *memoryCompanyRepo
	recruiters *memoryRecruiterRepo
}

// newJobHarness seeds a verified company (ID 1) with an approved posting
// recruiter (user 100).
func newJobHarness(t *testing.T) *jobHarness {
	t.Helper()
	jobs := newMemoryJobRepo()
	companies := newMemoryCompanyRepo()
	recruiters := newMemoryRecruiterRepo()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = companies.Create(ctx, domain.Company{
		ID:       1,
		Name:     "Acme",
		Slug:     "acme",
		Status:   domain.CompanyVerified,
		IsActive: true,
	})
	require.NoError(t, err)
	_, err = recruiters.Create(ctx, domain.Recruiter{
		ID:          10,
		UserID:      100,
		CompanyID:   1,
		Status:      domain.RecruiterApproved,
		CanPostJobs: true,
		IsActive:    true,
	})
	require.NoError(t, err)

	svc := service.NewJobService(jobs, companies, recruiters, node, zap.NewNop())
	return &jobHarness{service: svc, jobs: jobs, companies: companies, recruiters: recruiters}
}

func TestJobCreateDraftsForVerifiedCompany(t *testing.T) {
	h := newJobHarness(t)
	ctx := context.Background()

	job, err := h.service.Create(ctx, 100, service.JobCreate{Title: "Go Engineer"})
	require.NoError(t, err)
	require.Equal(t, domain.JobDraft, job.Status)
	require.Equal(t, "USD", job.SalaryCurrency)
	require.Equal(t, int64(1), job.CompanyID)
	require.Nil(t, job.PostedAt)
}

func TestJobCreateRequiresVerifiedCompany(t *testing.T) {
	h := newJobHarness(t)
	ctx := context.Background()

	_, err := h.companies.Create(ctx, domain.Company{ID: 2, Name: "Pending Co", Slug: "pending-co", Status: domain.CompanyPending, IsActive: true})
	require.NoError(t, err)
	_, err = h.recruiters.Create(ctx, domain.Recruiter{ID: 11, UserID: 200, CompanyID: 2, Status: domain.RecruiterApproved, CanPostJobs: true, IsActive: true})
	require.NoError(t, err)

	_, err = h.service.Create(ctx, 200, service.JobCreate{Title: "Go Engineer"})
	require.Error(t, err)
	apiErr, ok := err.(*service.APIError)
	require.True(t, ok)
	require.Equal(t, 403, apiErr.Status)
}

func TestJobCreateRejectsNonRecruiter(t *testing.T) {
	h := newJobHarness(t)

	_, err := h.service.Create(context.Background(), 999, service.JobCreate{Title: "Go Engineer"})
	require.Error(t, err)
}

func TestJobCreateValidatesSalaryRange(t *testing.T) {
	h := newJobHarness(t)

	low, high := 50000, 90000
	_, err := h.service.Create(context.Background(), 100, service.JobCreate{Title: "Engineer", SalaryMin: &high, SalaryMax: &low})
	require.Error(t, err)

	_, err = h.service.Create(context.Background(), 100, service.JobCreate{Title: "Engineer", SalaryMin: &low, SalaryMax: &high})
	require.NoError(t, err)
}

func TestJobPublishStampsPostedAt(t *testing.T) {
	h := newJobHarness(t)
	ctx := context.Background()

	job, err := h.service.Create(ctx, 100, service.JobCreate{Title: "Engineer"})
	require.NoError(t, err)

	published, err := h.service.Publish(ctx, 100, job.ID)
	require.NoError(t, err)
	require.Equal(t, domain.JobActive, published.Status)
	require.NotNil(t, published.PostedAt)
	require.True(t, published.IsOpen())

	// republishing an active posting is rejected
	_, err = h.service.Publish(ctx, 100, job.ID)
	require.Error(t, err)
}

func TestJobGetHidesDraftsFromOutsiders(t *testing.T) {
	h := newJobHarness(t)
	ctx := context.Background()

	job, err := h.service.Create(ctx, 100, service.JobCreate{Title: "Engineer"})
	require.NoError(t, err)

	// anonymous viewer
	_, err = h.service.Get(ctx, 0, job.ID)
	require.Error(t, err)
	apiErr, ok := err.(*service.APIError)
	require.True(t, ok)
	require.Equal(t, 404, apiErr.Status)

	// owning recruiter sees the draft
	got, err := h.service.Get(ctx, 100, job.ID)
	require.NoError(t, err)
	require.Equal(t, job.ID, got.ID)

	// published postings are public
	_, err = h.service.Publish(ctx, 100, job.ID)
	require.NoError(t, err)
	_, err = h.service.Get(ctx, 0, job.ID)
	require.NoError(t, err)
}

func TestJobSearchOnlyReturnsActive(t *testing.T) {
	h := newJobHarness(t)
	ctx := context.Background()

	draft, err := h.service.Create(ctx, 100, service.JobCreate{Title: "Draft Role"})
	require.NoError(t, err)
	live, err := h.service.Create(ctx, 100, service.JobCreate{Title: "Live Role"})
	require.NoError(t, err)
	_, err = h.service.Publish(ctx, 100, live.ID)
	require.NoError(t, err)

	results, err := h.service.Search(ctx, domain.JobFilter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, live.ID, results[0].ID)
	require.NotEqual(t, draft.ID, results[0].ID)
}

func TestJobUpdateOwnership(t *testing.T) {
	h := newJobHarness(t)
	ctx := context.Background()

	job, err := h.service.Create(ctx, 100, service.JobCreate{Title: "Engineer"})
	require.NoError(t, err)

	title := "Senior Engineer"
	_, err = h.service.Update(ctx, 999, job.ID, service.JobUpdate{Title: &title})
	require.Error(t, err)

	updated, err := h.service.Update(ctx, 100, job.ID, service.JobUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Senior Engineer", updated.Title)
}

func TestJobDelete(t *testing.T) {
	h := newJobHarness(t)
	ctx := context.Background()

	job, err := h.service.Create(ctx, 100, service.JobCreate{Title: "Engineer"})
	require.NoError(t, err)

	require.NoError(t, h.service.Delete(ctx, 100, job.ID))

	_, err = h.service.Get(ctx, 100, job.ID)
	require.Error(t, err)
}

func TestJobIsOpenRespectsDeadline(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	now := time.Now()
	job := domain.Job{Status: domain.JobActive, PostedAt: &now, ApplicationDeadline: &past}
	require.False(t, job.IsOpen())
}
