package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPURLHost(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		host   string
		wantOK bool
	}{
		{"https url", "https://minishop.linkprice.com/widget?id=1", "minishop.linkprice.com", true},
		{"http url with port", "http://Minishop.LinkPrice.com:8080/x", "minishop.linkprice.com", true},
		{"surrounding space", "  https://example.com  ", "example.com", true},
		{"relative path", "/widget", "", false},
		{"javascript scheme", "javascript:alert(1)", "", false},
		{"ftp scheme", "ftp://example.com/file", "", false},
		{"missing host", "https:///path", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, ok := HTTPURLHost(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.host, host)
		})
	}
}

func TestIsAllowedHost(t *testing.T) {
	allowed := []string{"minishop.linkprice.com"}

	assert.True(t, IsAllowedHost("minishop.linkprice.com", allowed))
	assert.True(t, IsAllowedHost("MINISHOP.linkprice.com", allowed))
	assert.False(t, IsAllowedHost("evil.minishop.linkprice.com", allowed))
	assert.False(t, IsAllowedHost("minishop.linkprice.com.evil.io", allowed))
	assert.False(t, IsAllowedHost("linkprice.com", allowed))
	assert.False(t, IsAllowedHost("minishop.linkprice.com", nil))
}

func TestSanitizeFilename(t *testing.T) {
	t.Run("keeps safe names", func(t *testing.T) {
		assert.Equal(t, "banner-01.jpg", SanitizeFilename("banner-01.jpg"))
	})

	t.Run("strips directories", func(t *testing.T) {
		assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
		assert.Equal(t, "evil.png", SanitizeFilename(`C:\Users\me\evil.png`))
	})

	t.Run("replaces unsafe characters", func(t *testing.T) {
		assert.Equal(t, "my_banner_.png", SanitizeFilename("my banner!.png"))
	})

	t.Run("drops leading dots", func(t *testing.T) {
		assert.Equal(t, "htaccess", SanitizeFilename(".htaccess"))
	})

	t.Run("falls back for empty names", func(t *testing.T) {
		assert.Equal(t, "upload", SanitizeFilename(""))
		assert.Equal(t, "upload", SanitizeFilename("..."))
	})

	t.Run("truncates long names keeping extension", func(t *testing.T) {
		name := SanitizeFilename(strings.Repeat("a", 300) + ".jpg")
		assert.Len(t, name, maxFilenameLength)
		assert.True(t, strings.HasSuffix(name, ".jpg"))
	})
}
