package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/admanager/ad-server-go/internal/config"
	apperrors "github.com/admanager/ad-server-go/internal/errors"
	"github.com/admanager/ad-server-go/internal/middleware"
)

// decodeJSON reads a JSON request body of at most config.MaxJSONBodySize
// bytes into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperrors.PayloadTooLarge()
		}
		return apperrors.ValidationError("Invalid request body")
	}
	return nil
}

func parseAdID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("id", "must be a positive integer")
	}
	return id, nil
}

func adminLoginID(r *http.Request) string {
	if session := middleware.GetAdminSession(r.Context()); session != nil {
		return session.LoginID
	}
	return ""
}
