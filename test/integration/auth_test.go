package integration_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"jobportal_web/internal/config"
	"jobportal_web/test/fakeapi"
	"jobportal_web/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Вход с верными данными: token сохранён, профиль получен, главная с Applications в меню
func TestLogin_LandsOnHomeWithApplicationsLink(t *testing.T) {
	ts := withJane(t)
	b := ts.NewBrowser(t)

	_, body := b.Get(t, "/")
	assert.NotContains(t, body, `data-nav="applications"`)

	res, body := b.Login(t, janeEmail, fakeapi.FakePassword, "/")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "/", res.Request.URL.Path)
	assert.Contains(t, body, `data-nav="applications"`)
	assert.Contains(t, body, janeName)

	// token переживает следующий запрос
	res, _ = b.Get(t, "/applications")
	assert.Equal(t, "/applications", res.Request.URL.Path)
	assert.NotEmpty(t, ts.Backend.CallsTo("GET", "/users/profile"))
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := withJane(t)
	b := ts.NewBrowser(t)

	res, body := b.Login(t, janeEmail, "nope", "/alerts")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "Invalid email or password")
	// поля формы сохраняются
	assert.Contains(t, body, `value="jane@x.com"`)
	assert.Contains(t, body, `name="next" value="/alerts"`)
	assert.NotContains(t, body, `data-nav="applications"`)
}

func TestLogin_InvalidEmailNeverReachesBackend(t *testing.T) {
	ts := withJane(t)
	b := ts.NewBrowser(t)

	res, _ := b.Login(t, "not-an-email", "x", "/")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Empty(t, ts.Backend.CallsTo("POST", "/auth/login"))
}

func TestLogin_IgnoresExternalNext(t *testing.T) {
	ts := withJane(t)
	b := ts.NewBrowser(t).NoFollow()

	res, _ := b.Login(t, janeEmail, fakeapi.FakePassword, "https://evil.example/steal")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))
}

func TestProtectedPages_RedirectToLoginWithNext(t *testing.T) {
	ts := withJane(t)
	b := ts.NewBrowser(t).NoFollow()

	for _, path := range []string{"/applications", "/profile", "/alerts"} {
		res, _ := b.Get(t, path)
		assert.Equal(t, http.StatusSeeOther, res.StatusCode, path)
		assert.Equal(t, "/login?next="+url.QueryEscape(path), res.Header.Get("Location"), path)
	}
}

func TestProtectedAction_JSONCallerGets401(t *testing.T) {
	ts := withJane(t)
	b := ts.NewBrowser(t)

	res, body := b.SendRequest(t, http.MethodDelete, "/alerts/a1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, "Authentication required")
}

func TestLoggedInUser_SkipsLoginPage(t *testing.T) {
	ts := withJane(t)
	b := loggedIn(t, ts).NoFollow()

	res, _ := b.Get(t, "/login?next=%2Fprofile")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/profile", res.Header.Get("Location"))
}

func TestLogout_ForgetsSessionWithoutBackendCall(t *testing.T) {
	ts := withJane(t)
	b := loggedIn(t, ts)
	before := len(ts.Backend.Calls())

	res, body := b.PostForm(t, "/logout", nil)
	assert.Equal(t, "/", res.Request.URL.Path)
	assert.Contains(t, body, "You have been logged out")
	assert.NotContains(t, body, `data-nav="applications"`)

	for _, c := range ts.Backend.Calls()[before:] {
		assert.NotContains(t, c.Path, "logout")
	}

	res, _ = b.NoFollow().Get(t, "/profile")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
}

func TestCookieSessionStore(t *testing.T) {
	ts := helpers.NewTestServer(t, func(cfg *config.Config) { cfg.Session.Store = "cookie" })
	ts.Backend.AddUser(janeName, janeEmail, fakeapi.FakePassword)
	b := ts.NewBrowser(t)

	res, body := b.Login(t, janeEmail, fakeapi.FakePassword, "/applications")
	assert.Equal(t, "/applications", res.Request.URL.Path)
	assert.Contains(t, body, "My applications")
}

func TestGoogleCredential_SignsIn(t *testing.T) {
	ts := helpers.NewTestServer(t, func(cfg *config.Config) { cfg.Google.ClientID = "client-123" })
	b := ts.NewBrowser(t)

	_, body := b.Get(t, "/login")
	assert.Contains(t, body, `data-client_id="client-123"`)

	res, body := b.PostForm(t, "/auth/google/credential", url.Values{
		"credential": {"google:g@x.com"},
		"next":       {"/applications"},
	})
	assert.Equal(t, "/applications", res.Request.URL.Path)
	assert.Contains(t, body, `data-nav="applications"`)
	assert.Len(t, ts.Backend.CallsTo("POST", "/auth/google"), 1)
}

func TestGoogleCredential_Rejected(t *testing.T) {
	ts := helpers.NewTestServer(t, func(cfg *config.Config) { cfg.Google.ClientID = "client-123" })
	b := ts.NewBrowser(t)

	res, body := b.PostForm(t, "/auth/google/credential", url.Values{
		"credential": {"forged"},
		"next":       {"/applications"},
	})
	assert.Equal(t, "/login", res.Request.URL.Path)
	assert.Equal(t, "/applications", res.Request.URL.Query().Get("next"))
	assert.Contains(t, body, "Invalid Google token")
	assert.Contains(t, body, `name="next" value="/applications"`)
}

// X-Forwarded-For от клиента без доверенного прокси не меняет адрес для throttle
func TestLoginThrottle_IgnoresSpoofedForwardedFor(t *testing.T) {
	ts := helpers.NewTestServer(t, func(cfg *config.Config) { cfg.Limits.LoginPerMinute = 2 })
	b := ts.NewBrowser(t)

	statuses := make([]int, 0, 3)
	for _, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/login", strings.NewReader("email=a%40b.c&password=x"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Forwarded-For", ip)
		res, _ := b.NoFollow().Do(t, req)
		statuses = append(statuses, res.StatusCode)
	}

	assert.NotEqual(t, http.StatusTooManyRequests, statuses[0])
	assert.NotEqual(t, http.StatusTooManyRequests, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[2])
}

func TestGoogleRedirectFlow_NotConfigured(t *testing.T) {
	ts := helpers.NewTestServer(t)
	b := ts.NewBrowser(t)

	res, body := b.Get(t, "/auth/google/start")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "Google sign-in is not configured")
}
