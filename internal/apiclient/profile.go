package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"jobportal_web/internal/models"
	"jobportal_web/pkg/apperrors"
)

// FilePart - файл для multipart-запроса
type FilePart struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProfileUpdate - полный снимок формы профиля (одно атомарное обновление)
type ProfileUpdate struct {
	Name       string
	Phone      string
	Location   string
	About      string
	Experience string
	Skills     []string
	Education  []models.Education
	Projects   []models.Project

	ProfileImage *FilePart
	Resume       *FilePart
}

func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	data, err := c.do(ctx, request{
		method:         http.MethodGet,
		path:           "/users/profile",
		token:          token,
		defaultMessage: "Failed to fetch user profile",
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		User json.RawMessage `json:"user"`
	}
	_ = json.Unmarshal(data, &envelope)
	user, err := decodeUser(data, envelope.User)
	if err != nil {
		return nil, apperrors.ErrTransport(err, "Failed to fetch user profile")
	}
	return user, nil
}

// UpdateProfile - PUT /users/profile (multipart: поля + JSON-массивы + файлы)
func (c *Client) UpdateProfile(ctx context.Context, token string, upd ProfileUpdate) (*models.User, error) {
	body, contentType, err := encodeProfile(upd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	data, err := c.do(ctx, request{
		method:         http.MethodPut,
		path:           "/users/profile",
		token:          token,
		raw:            body,
		contentType:    contentType,
		defaultMessage: "Failed to update profile",
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		User json.RawMessage `json:"user"`
	}
	if json.Unmarshal(data, &envelope) != nil {
		return nil, nil
	}
	user, err := decodeUser(data, envelope.User)
	if err != nil || user.ID == "" {
		// ответ без пользователя - не ошибка, сессия перечитает профиль
		return nil, nil
	}
	return user, nil
}

func encodeProfile(upd ProfileUpdate) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", upd.Name},
		{"phone", upd.Phone},
		{"location", upd.Location},
		{"about", upd.About},
		{"experience", upd.Experience},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	skills := upd.Skills
	if skills == nil {
		skills = []string{}
	}
	education := upd.Education
	if education == nil {
		education = []models.Education{}
	}
	projects := upd.Projects
	if projects == nil {
		projects = []models.Project{}
	}
	jsonFields := []struct {
		name  string
		value any
	}{
		{"skills", skills},
		{"education", education},
		{"projects", projects},
	}
	for _, f := range jsonFields {
		raw, err := json.Marshal(f.value)
		if err != nil {
			return nil, "", fmt.Errorf("encode %s: %w", f.name, err)
		}
		if err := w.WriteField(f.name, string(raw)); err != nil {
			return nil, "", err
		}
	}

	files := []struct {
		name string
		part *FilePart
	}{
		{"profileImage", upd.ProfileImage},
		{"resume", upd.Resume},
	}
	for _, f := range files {
		if f.part == nil || f.part.Body == nil {
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.name, f.part.Filename))
		ct := f.part.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(pw, f.part.Body); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", f.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
