package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/admanager/ad-server-go/internal/audit"
	apperrors "github.com/admanager/ad-server-go/internal/errors"
	"github.com/admanager/ad-server-go/internal/httputil"
	"github.com/admanager/ad-server-go/internal/model"
	"github.com/admanager/ad-server-go/internal/service"
)

type contextKey string

const AdminSessionContextKey contextKey = "adminSession"

func GetAdminSession(ctx context.Context) *model.AdminSession {
	if session, ok := ctx.Value(AdminSessionContextKey).(*model.AdminSession); ok {
		return session
	}
	return nil
}

func WithAdminSession(ctx context.Context, session *model.AdminSession) context.Context {
	return context.WithValue(ctx, AdminSessionContextKey, session)
}

// SessionResolver looks up the admin behind a session token.
// *service.AuthService implements it.
type SessionResolver interface {
	CurrentAdmin(ctx context.Context, token string) (*service.SessionInfo, error)
}

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AdminSessionMiddleware struct {
	resolver SessionResolver
	cookie   CookieConfig
}

func NewAdminSessionMiddleware(resolver SessionResolver, cookie CookieConfig) *AdminSessionMiddleware {
	return &AdminSessionMiddleware{
		resolver: resolver,
		cookie:   cookie,
	}
}

func (m *AdminSessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r, m.cookie.Name)

		info, err := m.resolver.CurrentAdmin(r.Context(), token)
		if err != nil {
			if apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
				if token != "" {
					audit.LogFromRequest(r, audit.Event{
						Type:    audit.EventAuthFailure,
						Details: map[string]interface{}{"reason": "unknown or expired session", "path": r.URL.Path},
					})
				}
			} else {
				log.Error().Err(err).Msg("admin session middleware: session lookup failed")
			}
			httputil.WriteError(w, err)
			return
		}

		ctx := WithAdminSession(r.Context(), &model.AdminSession{Token: token, LoginID: info.LoginID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionToken returns the session cookie value, or "" when absent.
func SessionToken(r *http.Request, cookieName string) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func SetSessionCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
