package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const stagedPrefix = "staged"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// StagedFile - файл из формы профиля, ожидающий успешного сохранения
type StagedFile struct {
	Key         string
	Filename    string
	ContentType string
	Body        []byte
}

// Stager держит выбранные файлы между попытками сохранения профиля,
// чтобы неудачный save не заставлял выбирать их заново
type Stager struct {
	store Storage
}

func NewStager(store Storage) *Stager {
	return &Stager{store: store}
}

func ownerPrefix(owner string) string {
	return stagedPrefix + "/" + unsafeName.ReplaceAllString(owner, "_") + "/"
}

// ключ из формы приходит от клиента: принимаются только свои
func owns(owner, key string) bool {
	return strings.HasPrefix(key, ownerPrefix(owner)) && !strings.Contains(key, "..")
}

// Stage сохраняет файл; ключ уникален и привязан к владельцу
func (s *Stager) Stage(ctx context.Context, owner, field, filename, contentType string, body []byte) (*StagedFile, error) {
	name := unsafeName.ReplaceAllString(path.Base(filename), "_")
	if name == "" || name == "." || name == "_" {
		name = field
	}
	key := ownerPrefix(owner) + field + "/" + uuid.NewString() + "/" + name
	if err := s.store.Save(ctx, key, bytes.NewReader(body), contentType); err != nil {
		return nil, err
	}
	return &StagedFile{Key: key, Filename: name, ContentType: contentType, Body: body}, nil
}

// Load читает ранее сохранённый файл. Чужие ключи отклоняются.
func (s *Stager) Load(ctx context.Context, owner, key string) (*StagedFile, error) {
	if !owns(owner, key) {
		return nil, fmt.Errorf("staged file %q does not belong to owner", key)
	}
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged file: %w", err)
	}

	name := path.Base(key)
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return &StagedFile{Key: key, Filename: name, ContentType: contentType, Body: body}, nil
}

// Discard удаляет свой файл; чужой ключ - ошибка, файл не трогается
func (s *Stager) Discard(ctx context.Context, owner, key string) error {
	if key == "" {
		return nil
	}
	if !owns(owner, key) {
		return fmt.Errorf("staged file %q does not belong to owner", key)
	}
	return s.store.Delete(ctx, key)
}

// Sweep удаляет файлы брошенных форм: всё под staged/ старше before
func (s *Stager) Sweep(ctx context.Context, before time.Time) (int, error) {
	objects, err := s.store.List(ctx, stagedPrefix+"/")
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, obj := range objects {
		if !obj.ModTime.Before(before) {
			continue
		}
		if err := s.store.Delete(ctx, obj.Key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
