package integration_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"jobportal_web/test/fakeapi"
	"jobportal_web/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedJobs(ts *helpers.TestServer) map[string]string {
	return map[string]string{
		"backend":  ts.Backend.AddJob("Go Backend Engineer", "Acme", "Engineering", "Contract", "Senior Level"),
		"frontend": ts.Backend.AddJob("Frontend Developer", "Acme", "Engineering", "Full-Time", "Senior Level"),
		"intern":   ts.Backend.AddJob("Sales Intern", "Globex", "Sales", "Internship", "Fresher"),
		"sre":      ts.Backend.AddJob("Site Reliability Engineer", "Initech", "IT", "Contract", "Mid Level"),
	}
}

// Выбор Contract и Senior Level: страница сразу показывает загрузку,
// результаты приходят отдельным запросом с обоими фильтрами
func TestJobFilters_ToggleLoadsMatchingResults(t *testing.T) {
	ts := helpers.NewTestServer(t)
	seedJobs(ts)
	b := ts.NewBrowser(t)

	_, body := b.Get(t, "/jobs")
	_, body = b.Get(t, linkByText(t, body, "a[data-filter]", "Contract"))
	res, body := b.Get(t, linkByText(t, body, "a[data-filter]", "Senior Level"))

	q := res.Request.URL.Query()
	assert.Equal(t, "Contract", q.Get("jobType"))
	assert.Equal(t, "Senior Level", q.Get("experience"))

	// оболочка: индикатор загрузки и адрес панели, backend ещё не спрошен
	assert.Contains(t, body, `class="spinner"`)
	panel := fragmentURL(t, body)
	assert.True(t, strings.HasPrefix(panel, "/fragments/jobs?"), panel)
	assert.Empty(t, ts.Backend.CallsTo("GET", "/jobs"))

	panelURL, err := url.Parse(panel)
	require.NoError(t, err)
	assert.Equal(t, "Contract", panelURL.Query().Get("jobType"))
	assert.Equal(t, "Senior Level", panelURL.Query().Get("experience"))

	res, body = b.Get(t, panel)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "no-store", res.Header.Get("Cache-Control"))

	calls := ts.Backend.CallsTo("GET", "/jobs")
	require.Len(t, calls, 1)
	assert.Equal(t, "Contract", calls[0].Query.Get("jobType"))
	assert.Equal(t, "Senior Level", calls[0].Query.Get("experience"))

	assert.Contains(t, body, "Go Backend Engineer")
	assert.NotContains(t, body, "Frontend Developer")
	assert.NotContains(t, body, "Site Reliability Engineer")
	assert.NotContains(t, body, "Sales Intern")
	assert.NotContains(t, body, "<html")
}

func TestJobFilters_ToggleOffRemovesValue(t *testing.T) {
	ts := helpers.NewTestServer(t)
	seedJobs(ts)
	b := ts.NewBrowser(t)

	_, body := b.Get(t, "/jobs?jobType=Contract,Internship")
	res, _ := b.Get(t, linkByText(t, body, "a[data-filter]", "Contract"))
	assert.Equal(t, "Internship", res.Request.URL.Query().Get("jobType"))
}

func TestJobFilters_UnknownValueRejected(t *testing.T) {
	ts := helpers.NewTestServer(t)
	b := ts.NewBrowser(t)

	res, body := b.Get(t, "/jobs?jobType=Freelance")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "Unknown job filter value")
	assert.Empty(t, ts.Backend.Calls())
}

func TestJobResults_EmptyState(t *testing.T) {
	ts := helpers.NewTestServer(t)
	seedJobs(ts)
	b := ts.NewBrowser(t)

	_, body := b.Get(t, "/fragments/jobs?keyword=cobol")
	assert.Contains(t, body, "No jobs match your search")
}

func TestJobResults_Pagination(t *testing.T) {
	for _, paged := range []bool{false, true} {
		name := "array response"
		if paged {
			name = "paged response"
		}
		t.Run(name, func(t *testing.T) {
			ts := helpers.NewTestServer(t)
			ts.Backend.Paginate = paged
			for i := 0; i < 8; i++ {
				ts.Backend.AddJob("Engineer", "Acme", "IT", "Full-Time", "Mid Level")
			}
			b := ts.NewBrowser(t)

			_, body := b.Get(t, "/fragments/jobs")
			doc := parseHTML(t, body)
			assert.Equal(t, 6, doc.Find(".job-card").Length())
			assert.Contains(t, body, "8 jobs found")
			// номер страницы и "Next"
			assert.Equal(t, 2, doc.Find(`.pagination a[href="/jobs?page=2"]`).Length())

			_, body = b.Get(t, "/fragments/jobs?page=2")
			assert.Equal(t, 2, parseHTML(t, body).Find(".job-card").Length())
		})
	}
}

func TestJobResults_BackendDown(t *testing.T) {
	ts := helpers.NewTestServer(t)
	ts.Backend.Server.Close()
	b := ts.NewBrowser(t)

	res, body := b.Get(t, "/fragments/jobs?keyword=go")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Failed to fetch jobs")
	assert.NotContains(t, body, ts.Backend.URL())
	assert.Contains(t, body, `data-retry="/fragments/jobs?keyword=go"`)
}

func TestHome_RecommendedPanel(t *testing.T) {
	ts := helpers.NewTestServer(t)
	seedJobs(ts)
	ts.Backend.AddJob("Designer", "Hooli", "Design", "Part-Time", "Entry Level")
	b := ts.NewBrowser(t)

	_, body := b.Get(t, "/")
	assert.Equal(t, "/fragments/recommended", fragmentURL(t, body))
	for _, c := range []string{"Engineering", "Sales", "IT", "Design"} {
		assert.Contains(t, body, `href="/jobs?category=`+c+`"`)
	}

	_, body = b.Get(t, "/fragments/recommended")
	assert.Equal(t, 4, parseHTML(t, body).Find(".job-card").Length())
}

// Гость видит вакансию, но вместо отклика - вход с возвратом на неё же
func TestJobDetail_GuestLogsInAndReturns(t *testing.T) {
	ts := withJane(t)
	ids := seedJobs(ts)
	b := ts.NewBrowser(t)
	jobPath := "/jobs/" + ids["backend"]

	res, body := b.Get(t, jobPath)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Go Backend Engineer")
	assert.Contains(t, body, "Log in to apply")
	assert.Contains(t, body, `href="/login?next=%2Fjobs%2F`+ids["backend"]+`"`)
	assert.NotContains(t, body, `action="`+jobPath+`/apply"`)
	// описание - санитизированный HTML
	assert.Contains(t, body, "<b>great</b>")

	_, body = b.Get(t, linkByText(t, body, "a[data-login-prompt]", "Log in to apply"))
	assert.Contains(t, body, `name="next" value="`+jobPath+`"`)

	res, body = b.Login(t, janeEmail, fakeapi.FakePassword, jobPath)
	assert.Equal(t, jobPath, res.Request.URL.Path)
	assert.Contains(t, body, "Apply now")
	assert.NotContains(t, body, "Log in to apply")
}

func TestJobDetail_NotFound(t *testing.T) {
	ts := helpers.NewTestServer(t)
	b := ts.NewBrowser(t)

	res, body := b.Get(t, "/jobs/missing")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "Job not found")
	assert.NotContains(t, body, "data-fragment")
}

func TestJobDetail_SimilarJobs(t *testing.T) {
	ts := helpers.NewTestServer(t)
	ids := seedJobs(ts)
	b := ts.NewBrowser(t)

	_, body := b.Get(t, "/jobs/"+ids["backend"])
	panel := fragmentURL(t, body)
	assert.Equal(t, "/fragments/jobs/"+ids["backend"]+"/similar?category=Engineering", panel)

	_, body = b.Get(t, panel)
	assert.Contains(t, body, "Frontend Developer")
	assert.NotContains(t, body, "Go Backend Engineer")
	assert.NotContains(t, body, "Sales Intern")
}

// Ошибка похожих вакансий не ломает саму вакансию
func TestJobDetail_SimilarFailureStaysInPanel(t *testing.T) {
	ts := helpers.NewTestServer(t)
	ids := seedJobs(ts)
	ts.Backend.FailSimilar.Store(true)
	b := ts.NewBrowser(t)

	res, body := b.Get(t, "/jobs/"+ids["backend"])
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Go Backend Engineer")

	res, body = b.Get(t, fragmentURL(t, body))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "similar jobs unavailable")
	assert.Contains(t, body, "data-retry")
}

func TestApply_FlowAndApplicationsList(t *testing.T) {
	ts := withJane(t)
	ids := seedJobs(ts)
	b := loggedIn(t, ts)
	jobPath := "/jobs/" + ids["backend"]

	_, body := b.Get(t, "/applications")
	assert.Contains(t, body, "applied to any jobs yet")

	res, body := b.PostForm(t, jobPath+"/apply", nil)
	assert.Equal(t, jobPath, res.Request.URL.Path)
	assert.Contains(t, body, "Application submitted successfully!")
	assert.Contains(t, body, `disabled>Applied</button>`)
	assert.NotContains(t, body, "Apply now")

	applyCalls := ts.Backend.CallsTo("POST", jobPath+"/apply")
	require.Len(t, applyCalls, 1)
	assert.Equal(t, "Bearer tok-u1", applyCalls[0].Auth)

	ts.Backend.SetApplicationStatus(janeEmail, ids["backend"], "shortlisted")
	_, body = b.Get(t, "/applications")
	assert.Contains(t, body, "Go Backend Engineer")
	assert.Contains(t, body, "badge-blue")
}

func TestApply_DuplicateShowsBackendMessage(t *testing.T) {
	ts := withJane(t)
	ids := seedJobs(ts)
	b := loggedIn(t, ts)
	path := "/jobs/" + ids["intern"] + "/apply"

	b.PostForm(t, path, nil)
	_, body := b.PostForm(t, path, nil)
	assert.Contains(t, body, "You have already applied for this job")
}

func TestApply_JSONCaller(t *testing.T) {
	ts := withJane(t)
	ids := seedJobs(ts)
	b := loggedIn(t, ts)

	res, body := b.SendRequest(t, http.MethodPost, "/jobs/"+ids["sre"]+"/apply", nil, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"message":"Application submitted successfully!","applied":true}`, body)
}

func TestApply_GuestRedirectedToLogin(t *testing.T) {
	ts := helpers.NewTestServer(t)
	ids := seedJobs(ts)
	b := ts.NewBrowser(t).NoFollow()
	jobPath := "/jobs/" + ids["sre"]

	res, _ := b.PostForm(t, jobPath+"/apply", url.Values{"next": {jobPath}})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/login?next="+url.QueryEscape(jobPath), res.Header.Get("Location"))
	assert.Empty(t, ts.Backend.CallsTo("POST", jobPath+"/apply"))
}
