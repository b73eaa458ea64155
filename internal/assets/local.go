package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quick-video-scribe/internal/models"
)

// LocalStore writes assets under a directory that the HTTP server exposes
// at BaseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := filepath.Clean("/" + path)
	target := filepath.Join(s.dir, clean)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", models.NewExternalError("local_assets", "put", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", models.NewExternalError("local_assets", "put", err)
	}

	return s.baseURL + filepath.ToSlash(clean), nil
}
