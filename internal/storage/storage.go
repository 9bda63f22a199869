// Package storage persists uploaded ad images and maps them to public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidImage = errors.New("invalid image")

var imageNamePattern = regexp.MustCompile(`^[0-9]+_[A-Za-z0-9._-]+$`)

// StoredImage is one object found in an image store.
type StoredImage struct {
	Name       string
	URL        string
	ModifiedAt time.Time
}

// ImageStore writes image bytes under a caller-chosen name and returns the
// URL clients use to fetch them.
type ImageStore interface {
	Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, publicURL string) error
	List(ctx context.Context) ([]StoredImage, error)
}

func joinURL(base, name string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + "/" + name
}

// nameFromURL returns the object name addressed by publicURL under base, or
// "" when publicURL does not belong to base.
func nameFromURL(base, publicURL string) string {
	prefix := joinURL(base, "")
	if len(publicURL) <= len(prefix) || publicURL[:len(prefix)] != prefix {
		return ""
	}
	return publicURL[len(prefix):]
}

// ImageName builds the object name an upload is saved under. filename must
// already be sanitized.
func ImageName(at time.Time, filename string) string {
	return fmt.Sprintf("%d_%s", at.UnixNano(), filename)
}

// IsImageName reports whether name has the shape produced by ImageName.
// Objects of any other shape were not written by this service.
func IsImageName(name string) bool {
	return imageNamePattern.MatchString(name)
}

// ObjectName returns the name an image URL was saved under: the last path
// segment, independent of the host or prefix the URL was built with.
func ObjectName(publicURL string) string {
	u, err := url.Parse(publicURL)
	if err != nil || strings.HasSuffix(u.Path, "/") {
		return ""
	}
	name := path.Base(u.Path)
	if !validName(name) {
		return ""
	}
	return name
}
