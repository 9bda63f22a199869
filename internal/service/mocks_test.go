package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/admanager/ad-server-go/internal/model"
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
	args := m.Called(ctx, id)
	return args.Error(0)
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

type mockShortener struct {
	mock.Mock
}

func (m *mockShortener) Shorten(ctx context.Context, longURL string) (string, error) {
	args := m.Called(ctx, longURL)
	return args.String(0), args.Error(1)
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, name, body, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockImageStore) Delete(ctx context.Context, publicURL string) error {
	args := m.Called(ctx, publicURL)
	return args.Error(0)
}

func (m *mockImageStore) List(ctx context.Context) ([]storage.StoredImage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.StoredImage), args.Error(1)
}
