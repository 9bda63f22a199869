package util

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

const maxFilenameLength = 100

// HTTPURLHost parses raw as an absolute http or https URL and returns its
// lower-cased host without port. ok is false for anything else.
func HTTPURLHost(raw string) (host string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	host = strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	return host, true
}

// IsAllowedHost reports whether host exactly matches one of allowed.
// Subdomains of an allowed host do not match.
func IsAllowedHost(host string, allowed []string) bool {
	host = strings.ToLower(host)
	for _, h := range allowed {
		if host == strings.ToLower(h) {
			return true
		}
	}
	return false
}

// SanitizeFilename reduces an uploaded file name to a safe base name made of
// letters, digits, dot, dash and underscore.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, "._")
	if len(name) > maxFilenameLength {
		ext := filepath.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:maxFilenameLength-len(ext)] + ext
	}
	if name == "" {
		return "upload"
	}
	return name
}
