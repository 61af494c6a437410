package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

var ErrNotFound = errors.New("storage: object not found")

// Storage - хранилище загруженных файлов (аватар, резюме), пока профиль не сохранён
type Storage interface {
	// Save кладёт объект по ключу
	Save(ctx context.Context, key string, r io.Reader, contentType string) error

	// Open читает объект; ErrNotFound если его нет
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// List - все объекты под prefix
	List(ctx context.Context, prefix string) ([]Object, error)
}

type Object struct {
	Key     string
	ModTime time.Time
}

type Config struct {
	Type      string // local, s3, cloudflare_r2
	BasePath  string // для local
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // для R2 или S3-совместимого сервера
	UseSSL    bool
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// cleanKey не даёт выйти за пределы корня хранилища
func cleanKey(key string) (string, error) {
	k := strings.TrimPrefix(path.Clean("/"+key), "/")
	if k == "" || k == "." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return k, nil
}
