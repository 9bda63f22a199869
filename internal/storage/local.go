package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps images in a directory served by the static file handler.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: urlPrefix}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, body io.Reader, size int64, _ string) (string, error) {
	if !validName(name) || body == nil || size <= 0 {
		return "", ErrInvalidImage
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close image file: %w", err)
	}

	return joinURL(s.urlPrefix, name), nil
}

// Delete removes the file behind publicURL. URLs outside the store and files
// that are already gone are not errors.
func (s *LocalStore) Delete(_ context.Context, publicURL string) error {
	name := nameFromURL(s.urlPrefix, publicURL)
	if !validName(name) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

func (s *LocalStore) List(_ context.Context) ([]StoredImage, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	images := make([]StoredImage, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		images = append(images, StoredImage{
			Name:       entry.Name(),
			URL:        joinURL(s.urlPrefix, entry.Name()),
			ModifiedAt: info.ModTime(),
		})
	}
	return images, nil
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
