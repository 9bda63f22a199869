package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/admanager/ad-server-go/internal/audit"
	apperrors "github.com/admanager/ad-server-go/internal/errors"
	"github.com/admanager/ad-server-go/internal/httputil"
	"github.com/admanager/ad-server-go/internal/middleware"
	"github.com/admanager/ad-server-go/internal/service"
)

type loginRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
}

type AuthHandler struct {
	authService *service.AuthService
	cookie      middleware.CookieConfig
}

func NewAuthHandler(authService *service.AuthService, cookie middleware.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Empty fields are not rejected here; Login reports them as INVALID_CREDENTIALS.
	req.LoginID = strings.TrimSpace(req.LoginID)

	result, err := h.authService.Login(r.Context(), req.LoginID, req.Password)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeInvalidCredentials) {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventLoginFailure,
				LoginID: req.LoginID,
				Details: map[string]interface{}{"reason": loginFailureReason(err)},
			})
		}
		httputil.WriteError(w, err)
		return
	}

	middleware.SetSessionCookie(w, h.cookie, result.Token)
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventLoginSuccess,
		LoginID: result.Account.LoginID,
	})

	httputil.WriteOK(w, "Login successful", service.SessionInfo{LoginID: result.Account.LoginID})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r, h.cookie.Name)
	if token != "" {
		h.authService.Logout(r.Context(), token)
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})
	}

	middleware.ClearSessionCookie(w, h.cookie)
	httputil.WriteOK(w, "Logged out", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, "OK", service.SessionInfo{LoginID: adminLoginID(r)})
}

func loginFailureReason(err error) string {
	switch {
	case errors.Is(err, service.ErrUnknownAccount):
		return "unknown login id"
	case errors.Is(err, service.ErrWrongPassword):
		return "password mismatch"
	default:
		return "invalid credentials"
	}
}
