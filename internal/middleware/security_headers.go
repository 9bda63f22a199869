package middleware

import (
	"net/http"
	"strings"
)

type SecurityHeadersMiddleware struct {
	isProduction bool
	csp          string
}

// NewSecurityHeadersMiddleware builds the header set for the admin pages.
// frameHosts are the hosts iframe ads may load from.
func NewSecurityHeadersMiddleware(isProduction bool, frameHosts []string) *SecurityHeadersMiddleware {
	frameSrc := "'self'"
	for _, host := range frameHosts {
		frameSrc += " https://" + host
	}

	csp := strings.Join([]string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: https:",
		"font-src 'self'",
		"connect-src 'self'",
		"frame-src " + frameSrc,
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}, "; ")

	return &SecurityHeadersMiddleware{isProduction: isProduction, csp: csp}
}

func (m *SecurityHeadersMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if m.isProduction {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		w.Header().Set("Content-Security-Policy", m.csp)

		next.ServeHTTP(w, r)
	})
}
