package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"jobportal_web/internal/apiclient"
	"jobportal_web/internal/models"
	"jobportal_web/internal/services"
	"jobportal_web/pkg/apperrors"
	"jobportal_web/test/fakeapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(fb *fakeapi.FakeBackend) *apiclient.Client {
	return apiclient.New(apiclient.Config{BaseURL: fb.URL(), Timeout: 5 * time.Second, RatePerSecond: 1000, Burst: 100})
}

func seedJobs(fb *fakeapi.FakeBackend, n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, fb.AddJob(fmt.Sprintf("Engineer %d", i+1), "Acme", "Engineering", "Full-Time", "1-3 Years"))
	}
	return ids
}

func TestSearch_ClientSidePagination(t *testing.T) {
	// Arrange: backend отдаёт полный массив
	fb := fakeapi.NewFakeBackend(t)
	seedJobs(fb, 14)
	svc := services.NewJobsService(newClient(fb))

	// Act
	res, err := svc.Search(context.Background(), models.JobFilter{Page: 3})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 14, res.TotalJobs)
	assert.Equal(t, 3, res.TotalPages) // ceil(14/6)
	assert.Equal(t, 3, res.Page)
	assert.Len(t, res.Jobs, 2)
	assert.Equal(t, "Engineer 13", res.Jobs[0].Title)
	assert.True(t, res.HasPrev())
	assert.False(t, res.HasNext())
	assert.Equal(t, "/jobs?page=2", res.PrevURL())
}

func TestSearch_ClientSidePageClamped(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	seedJobs(fb, 7)
	svc := services.NewJobsService(newClient(fb))

	res, err := svc.Search(context.Background(), models.JobFilter{Page: 9})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Page)
	assert.Len(t, res.Jobs, 1)
}

func TestSearch_ServerPagination(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	fb.Paginate = true
	seedJobs(fb, 14)
	svc := services.NewJobsService(newClient(fb))

	res, err := svc.Search(context.Background(), models.JobFilter{Page: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 2, res.Page)
	assert.Len(t, res.Jobs, services.JobsPerPage)

	calls := fb.CallsTo("GET", "/jobs")
	require.Len(t, calls, 1)
	assert.Equal(t, "2", calls[0].Query.Get("page"))
	assert.Equal(t, "6", calls[0].Query.Get("limit"))
}

func TestSearch_ServerPageBeyondEndRefetchesLast(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	fb.Paginate = true
	seedJobs(fb, 8)
	svc := services.NewJobsService(newClient(fb))

	res, err := svc.Search(context.Background(), models.JobFilter{Page: 5})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Page)
	assert.Len(t, res.Jobs, 2)
}

func TestSearch_EmptyResult(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	seedJobs(fb, 3)
	svc := services.NewJobsService(newClient(fb))

	res, err := svc.Search(context.Background(), models.JobFilter{Keyword: "astronaut"})

	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, 0, res.TotalPages)
}

func TestSearch_CardsCarryPlainExcerpt(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	seedJobs(fb, 1)
	svc := services.NewJobsService(newClient(fb))

	res, err := svc.Search(context.Background(), models.JobFilter{})

	require.NoError(t, err)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "Build great things with Engineer 1", res.Jobs[0].Excerpt)
}

func TestSimilar_ExcludesCurrentJob(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	ids := seedJobs(fb, 6)
	fb.AddJob("Designer", "Acme", "Design", "Contract", "Senior Level")
	svc := services.NewJobsService(newClient(fb))

	similar, err := svc.Similar(context.Background(), ids[0], "Engineering")

	require.NoError(t, err)
	assert.Len(t, similar, services.SimilarJobsLimit)
	for _, j := range similar {
		assert.NotEqual(t, ids[0], j.ID)
		assert.Equal(t, "Engineering", j.Category)
	}
}

func TestSimilar_FailureIsIndependent(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	ids := seedJobs(fb, 2)
	fb.FailSimilar.Store(true)
	svc := services.NewJobsService(newClient(fb))

	job, err := svc.Get(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Engineer 1", job.Title)

	_, err = svc.Similar(context.Background(), ids[0], job.Category)
	require.Error(t, err)
	assert.Equal(t, "similar jobs unavailable", apperrors.MessageOf(err, ""))
}

func TestGet_NotFound(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	svc := services.NewJobsService(newClient(fb))

	_, err := svc.Get(context.Background(), "missing")

	assert.True(t, apperrors.IsNotFound(err))
}

func TestApply_ConcurrentClicksCollapse(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	fb.Latency = 50 * time.Millisecond
	token := fb.AddUser("Ana", "ana@example.com", fakeapi.FakePassword)
	id := seedJobs(fb, 1)[0]
	svc := services.NewJobsService(newClient(fb))

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Apply(context.Background(), token, id)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, fb.CallsTo("POST", "/jobs/"+id+"/apply"), 1)
}

func TestApply_DuplicateReportsBackendMessage(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	token := fb.AddUser("Ana", "ana@example.com", fakeapi.FakePassword)
	id := seedJobs(fb, 1)[0]
	svc := services.NewJobsService(newClient(fb))

	msg, err := svc.Apply(context.Background(), token, id)
	require.NoError(t, err)
	assert.Equal(t, "Application submitted successfully!", msg)

	_, err = svc.Apply(context.Background(), token, id)
	require.Error(t, err)
	assert.Equal(t, "You have already applied for this job", apperrors.MessageOf(err, ""))
}

func TestRecommended_LimitedToFour(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	seedJobs(fb, 9)
	svc := services.NewJobsService(newClient(fb))

	jobs, err := svc.Recommended(context.Background())

	require.NoError(t, err)
	assert.Len(t, jobs, services.RecommendedJobsLimit)
}
