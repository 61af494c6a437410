package views

import (
	"bytes"
	"html/template"
	"io/fs"
	"testing"

	"jobportal_web/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, src string, data any) string {
	t.Helper()
	tmpl, err := template.New("t").Funcs(Funcs()).Parse(src)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, data))
	return buf.String()
}

func TestTemplates_ParseAllPages(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"home.html", "jobs.html", "job.html", "login.html", "register.html",
		"profile.html", "alerts.html", "applications.html", "error.html",
		"fragment_jobs.html", "fragment_similar.html", "fragment_recommended.html",
		"header", "footer", "panel", "panel_error", "job_card",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestTemplates_PanelShowsSpinner(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "panel", "/fragments/recommended"))
	assert.Contains(t, buf.String(), `data-fragment="/fragments/recommended"`)
	assert.Contains(t, buf.String(), `class="spinner"`)
}

// значение next в ссылке кодируется ровно один раз
func TestQueryFunc_NotDoubleEscaped(t *testing.T) {
	out := render(t, `<a href="/login?next={{query .}}">x</a>`, "/jobs/j1?tab=a b")
	assert.Equal(t, `<a href="/login?next=%2Fjobs%2Fj1%3Ftab%3Da&#43;b">x</a>`, out)
}

func TestToggleURL(t *testing.T) {
	f := models.JobFilter{JobTypes: []string{"Contract"}}
	out := render(t, `<a href="{{toggleURL . "experience" "Senior Level"}}">x</a>`, f)
	assert.Equal(t, `<a href="/jobs?experience=Senior&#43;Level&amp;jobType=Contract">x</a>`, out)
}

func TestPreviewURL_OnlyDataImages(t *testing.T) {
	assert.Equal(t, template.URL("data:image/jpeg;base64,AAAA"), previewURL("data:image/jpeg;base64,AAAA"))
	assert.Equal(t, template.URL(""), previewURL("javascript:alert(1)"))
	assert.Equal(t, template.URL(""), previewURL("data:text/html;base64,AAAA"))
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "J", initial("jane"))
	assert.Equal(t, "Ж", initial(" жанна"))
	assert.Equal(t, "?", initial("  "))
}

func TestStatic_ServesAssets(t *testing.T) {
	for _, name := range []string{"app.js", "app.css", "img/avatar.svg"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}
