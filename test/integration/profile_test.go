package integration_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileForm(action string) url.Values {
	return url.Values{
		"name":                  {"Jane Doe"},
		"email":                 {"attacker@x.com"},
		"location":              {"Pune"},
		"experience":            {"2-4 years"},
		"skills":                {" Go, ,SQL ,Docker"},
		"education.id":          {"new_1"},
		"education.level":       {"B.Tech"},
		"education.institution": {"FIIT"},
		"education.startYear":   {"2018"},
		"education.endYear":     {"2022"},
		"action":                {action},
	}
}

func TestProfile_SaveUpdatesBackendAndHeader(t *testing.T) {
	ts := withJane(t)
	b := loggedIn(t, ts)

	_, body := b.Get(t, "/profile")
	assert.Contains(t, body, `name="name" value="Jane"`)
	assert.Contains(t, body, `value="jane@x.com" readonly`)

	res, body := b.PostForm(t, "/profile", profileForm("save"))
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "/profile", res.Request.URL.Path)
	assert.Contains(t, body, "Profile updated successfully")
	// шапка берёт пользователя заново из backend
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, `value="Go, SQL, Docker"`)

	saves := ts.Backend.CallsTo("PUT", "/users/profile")
	require.Len(t, saves, 1)

	user := ts.Backend.User(janeEmail)
	assert.Equal(t, "Jane Doe", user["name"])
	assert.Equal(t, janeEmail, user["email"])
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, user["skills"])
	education, ok := user["education"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, education, 1)
	assert.Equal(t, "FIIT", education[0]["institution"])
}

// Добавление записи - только перерисовка, в backend ничего не уходит
func TestProfile_AddEducationIsLocal(t *testing.T) {
	ts := withJane(t)
	b := loggedIn(t, ts)

	form := profileForm("add-education")
	res, body := b.PostForm(t, "/profile", form)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, ts.Backend.CallsTo("PUT", "/users/profile"))

	doc := parseHTML(t, body)
	assert.Equal(t, 2, doc.Find(`input[name="education.id"]`).Length())
	assert.Contains(t, body, `value="FIIT"`)
	assert.Contains(t, body, `value="Jane Doe"`)
}

func TestProfile_RemoveEducationIsLocal(t *testing.T) {
	ts := withJane(t)
	b := loggedIn(t, ts)

	_, body := b.PostForm(t, "/profile", profileForm("remove-education:new_1"))
	assert.Equal(t, 0, parseHTML(t, body).Find(`input[name="education.id"]`).Length())
	assert.Empty(t, ts.Backend.CallsTo("PUT", "/users/profile"))
}

func TestProfile_ValidationKeepsEdits(t *testing.T) {
	ts := withJane(t)
	b := loggedIn(t, ts)

	form := profileForm("save")
	form.Set("education.institution", "")
	res, body := b.PostForm(t, "/profile", form)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "Please check the form.")
	assert.Contains(t, body, `value="Jane Doe"`)
	assert.Empty(t, ts.Backend.CallsTo("PUT", "/users/profile"))
}

func TestProfile_BackendRejectionKeepsEdits(t *testing.T) {
	ts := withJane(t)
	ts.Backend.FailProfileSave.Store(true)
	b := loggedIn(t, ts)

	res, body := b.PostForm(t, "/profile", profileForm("save"))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "Profile update rejected")
	assert.Contains(t, body, `value="Jane Doe"`)
	assert.Contains(t, body, `value="FIIT"`)
	assert.Equal(t, "Jane", ts.Backend.User(janeEmail)["name"])
}

func TestProfile_MultipartWithResume(t *testing.T) {
	ts := withJane(t)
	b := loggedIn(t, ts)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range profileForm("save") {
		for _, v := range vs {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="resume"; filename="cv.pdf"`)
	h.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake resume"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/profile", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	res, body := b.Do(t, req)

	assert.Equal(t, "/profile", res.Request.URL.Path)
	assert.Contains(t, body, "Profile updated successfully")
	assert.Equal(t, "cv.pdf", ts.Backend.User(janeEmail)["resume"])
}
