package helpers

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"jobportal_web/internal/app"
	"jobportal_web/internal/config"
	"jobportal_web/internal/email"
	"jobportal_web/internal/logger"
	"jobportal_web/test/fakeapi"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitWithWriter("test", io.Discard)
}

// TestServer - сайт поверх поддельного REST backend
type TestServer struct {
	Server  *httptest.Server
	Backend *fakeapi.FakeBackend
	App     *app.App
	Mailer  *email.NoopProvider
}

// NewTestServer поднимает приложение; configure может поправить конфиг
// (по умолчанию сессии хранятся в памяти процесса)
func NewTestServer(t *testing.T, configure ...func(*config.Config)) *TestServer {
	t.Helper()
	fb := fakeapi.NewFakeBackend(t)

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Server.PublicURL = "http://jobs.test"
	cfg.API.BaseURL = fb.URL()
	cfg.API.RatePerSecond = 1000
	cfg.API.Burst = 1000
	cfg.Session.Store = "memory"
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Limits.LoginPerMinute = 1000
	cfg.ApplyDefaults()
	for _, fn := range configure {
		fn(cfg)
	}

	mailer := email.NewNoopProvider()
	application, err := app.New(cfg, app.Deps{Mailer: mailer})
	require.NoError(t, err)

	server := httptest.NewServer(application.Router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:  server,
		Backend: fb,
		App:     application,
		Mailer:  mailer,
	}
}

// Browser - клиент с cookie jar; переходит по редиректам, как браузер
type Browser struct {
	ts     *TestServer
	client *http.Client
}

func (ts *TestServer) NewBrowser(t *testing.T) *Browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Browser{ts: ts, client: &http.Client{Jar: jar}}
}

// NoFollow - тот же браузер (те же cookies), но редиректы не выполняются
func (b *Browser) NoFollow() *Browser {
	c := *b.client
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return &Browser{ts: b.ts, client: &c}
}

func (b *Browser) Get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.ts.Server.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/html")
	return b.Do(t, req)
}

func (b *Browser) PostForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.ts.Server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	return b.Do(t, req)
}

// SendRequest - запрос от скрипта страницы (Accept: application/json)
func (b *Browser) SendRequest(t *testing.T, method, path string, body io.Reader, contentType string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, b.ts.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return b.Do(t, req)
}

func (b *Browser) Do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	res, err := b.client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(data)
}

// Login - вход через форму; возвращает итоговую страницу
func (b *Browser) Login(t *testing.T, email, password, next string) (*http.Response, string) {
	t.Helper()
	return b.PostForm(t, "/login", url.Values{
		"email":    {email},
		"password": {password},
		"next":     {next},
	})
}
