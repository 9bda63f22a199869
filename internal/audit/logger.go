package audit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventLoginSuccess EventType = "login_success"
	EventLoginFailure EventType = "login_failure"
	EventLogout       EventType = "logout"
	EventAuthFailure  EventType = "auth_failure"
	EventAdCreate     EventType = "ad_create"
	EventAdUpdate     EventType = "ad_update"
	EventAdDelete     EventType = "ad_delete"
	EventImageSweep   EventType = "image_sweep"
)

type Event struct {
	Type      EventType
	LoginID   string
	AdID      int64
	IP        string
	UserAgent string
	Details   map[string]interface{}
}

func Log(ctx context.Context, event Event) {
	child := log.With().
		Str("audit", "security").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.LoginID != "" {
		child = child.With().Str("login_id", event.LoginID).Logger()
	}
	if event.AdID != 0 {
		child = child.With().Int64("ad_id", event.AdID).Logger()
	}
	if event.IP != "" {
		child = child.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		child = child.With().Str("user_agent", event.UserAgent).Logger()
	}

	logEvent := child.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("security audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	case []string:
		return e.Strs(key, v)
	default:
		return e.Interface(key, v)
	}
}

func LogFromRequest(r *http.Request, event Event) {
	event.IP = clientIP(r)
	event.UserAgent = r.UserAgent()
	Log(r.Context(), event)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
