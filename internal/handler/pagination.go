package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/admanager/ad-server-go/internal/config"
	apperrors "github.com/admanager/ad-server-go/internal/errors"
)

type PageParams struct {
	Page    int
	Size    int
	Keyword string
}

// ParsePageParams reads page, size and keyword from the query string.
// Absent values fall back to page 0 and config.DefaultPageSize; range
// checks are left to the service.
func ParsePageParams(r *http.Request) (PageParams, error) {
	q := r.URL.Query()
	params := PageParams{
		Page:    0,
		Size:    config.DefaultPageSize,
		Keyword: strings.TrimSpace(q.Get("keyword")),
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return PageParams{}, apperrors.ValidationError("page must be an integer")
		}
		params.Page = page
	}

	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return PageParams{}, apperrors.ValidationError("size must be an integer")
		}
		params.Size = size
	}

	return params, nil
}
