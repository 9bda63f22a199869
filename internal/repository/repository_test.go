package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var testAdColumns = []string{
	"id", "ad_type", "title", "description", "image_url", "target_url", "short_url",
	"embed_src", "embed_width", "embed_height", "is_active", "created_at", "updated_at",
}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "postgres"), mock
}

func imageAdRow(rows *sqlmock.Rows, id int64, title string, createdAt time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, "IMAGE", title, "desc", "/static/ads/1_a.jpg", "https://origin.example", "https://buly.kr/x",
		nil, nil, nil, true, createdAt, createdAt,
	)
}
