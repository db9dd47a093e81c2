// Package storage persists uploaded media and hands back the public URL that
// becomes the durable pointer stored with each record.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore publishes a local media file and returns its public URL.
type BlobStore interface {
	SaveFile(ctx context.Context, name, localPath, contentType string) (string, error)
}

// LocalStore keeps assets in the uploads directory, which the HTTP server
// serves under /uploads/.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// SaveFile copies the file into the uploads directory unless it already lives
// there.
func (s *LocalStore) SaveFile(_ context.Context, name, localPath, _ string) (string, error) {
	dest := filepath.Join(s.dir, name)
	if abs, err := filepath.Abs(localPath); err == nil {
		if destAbs, err := filepath.Abs(dest); err == nil && abs == destAbs {
			return s.publicURL(name), nil
		}
	}

	in, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return s.publicURL(name), nil
}

func (s *LocalStore) publicURL(name string) string {
	return s.baseURL + "/uploads/" + url.PathEscape(name)
}

// Dir returns the directory served under /uploads/.
func (s *LocalStore) Dir() string {
	return s.dir
}
