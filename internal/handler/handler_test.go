package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/admanager/ad-server-go/internal/httputil"
	"github.com/admanager/ad-server-go/internal/middleware"
	"github.com/admanager/ad-server-go/internal/model"
	"github.com/admanager/ad-server-go/internal/repository"
	"github.com/admanager/ad-server-go/internal/service"
	"github.com/admanager/ad-server-go/internal/storage"
)

type mockAdminAccountRepo struct {
	mock.Mock
}

func (m *mockAdminAccountRepo) FindByLoginID(ctx context.Context, loginID string) (*model.AdminAccount, error) {
	args := m.Called(ctx, loginID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminAccount), args.Error(1)
}

type mockAdRepo struct {
	mock.Mock
}

func (m *mockAdRepo) Create(ctx context.Context, params model.CreateAdParams) (*model.Ad, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

func (m *mockAdRepo) FindActiveByID(ctx context.Context, id int64) (*model.Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

func (m *mockAdRepo) Search(ctx context.Context, page, size int, keyword string) ([]model.Ad, int, error) {
	args := m.Called(ctx, page, size, keyword)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Ad), args.Int(1), args.Error(2)
}

func (m *mockAdRepo) Update(ctx context.Context, id int64, update model.AdUpdate) (*model.Ad, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

func (m *mockAdRepo) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAdRepo) ListAllActive(ctx context.Context) ([]model.Ad, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ad), args.Error(1)
}

func (m *mockAdRepo) ListImageURLs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type stubShortener struct {
	shortURL string
	err      error
}

func (s *stubShortener) Shorten(ctx context.Context, longURL string) (string, error) {
	return s.shortURL, s.err
}

var testCookie = middleware.CookieConfig{Name: "admin_session", TTL: time.Hour}

func newTestAuthService(t *testing.T) (*service.AuthService, *mockAdminAccountRepo) {
	t.Helper()
	mini := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { client.Close() })

	accounts := new(mockAdminAccountRepo)
	return service.NewAuthService(accounts, repository.NewSessionStore(client), time.Hour), accounts
}

func newTestAdService(t *testing.T) (*service.AdService, *mockAdRepo, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "ads")
	images, err := storage.NewLocalStore(dir, "/static/ads")
	require.NoError(t, err)

	ads := new(mockAdRepo)
	svc := service.NewAdService(ads, &stubShortener{shortURL: "https://buly.kr/x"}, images, []string{"minishop.linkprice.com"})
	return svc, ads, dir
}

func withAdmin(ctx context.Context, loginID string) context.Context {
	return middleware.WithAdminSession(ctx, &model.AdminSession{Token: "t", LoginID: loginID})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (httputil.Envelope, map[string]any) {
	t.Helper()
	var raw struct {
		httputil.Envelope
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))

	var result map[string]any
	if len(raw.Result) > 0 && string(raw.Result) != "null" {
		require.NoError(t, json.Unmarshal(raw.Result, &result))
	}
	return raw.Envelope, result
}
