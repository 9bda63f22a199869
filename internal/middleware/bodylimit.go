package middleware

import (
	"net/http"

	"github.com/admanager/ad-server-go/internal/config"
	apperrors "github.com/admanager/ad-server-go/internal/errors"
	"github.com/admanager/ad-server-go/internal/httputil"
)

// BodyLimitMiddleware rejects requests whose declared length exceeds
// maxSize and caps the rest with http.MaxBytesReader.
type BodyLimitMiddleware struct {
	maxSize int64
}

func NewBodyLimitMiddleware(maxSize int64) *BodyLimitMiddleware {
	if maxSize <= 0 {
		maxSize = config.MaxJSONBodySize
	}
	return &BodyLimitMiddleware{maxSize: maxSize}
}

func (m *BodyLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.ContentLength > m.maxSize {
			httputil.WriteError(w, apperrors.PayloadTooLarge())
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, m.maxSize)
		next.ServeHTTP(w, r)
	})
}
