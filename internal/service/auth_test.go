package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/admanager/ad-server-go/internal/errors"
	"github.com/admanager/ad-server-go/internal/model"
	"github.com/admanager/ad-server-go/internal/repository"
	"github.com/admanager/ad-server-go/internal/util"
)

func setupAuthService(t *testing.T) (*AuthService, *mockAdminAccountRepo, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { client.Close() })

	accounts := new(mockAdminAccountRepo)
	svc := NewAuthService(accounts, repository.NewSessionStore(client), time.Hour)
	return svc, accounts, mini
}

func testAccount(t *testing.T, loginID, password string) *model.AdminAccount {
	t.Helper()
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	return &model.AdminAccount{ID: 1, LoginID: loginID, PasswordHash: hash}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("creates session for valid credentials", func(t *testing.T) {
		svc, accounts, mini := setupAuthService(t)
		accounts.On("FindByLoginID", mock.Anything, "admin").Return(testAccount(t, "admin", "s3cret"), nil)

		result, err := svc.Login(ctx, "admin", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "admin", result.Account.LoginID)
		assert.Len(t, result.Token, 32)
		assert.Equal(t, "admin", mini.HGet("admin_session:"+result.Token, "loginId"))
		assert.Equal(t, time.Hour, mini.TTL("admin_session:"+result.Token))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		svc, accounts, mini := setupAuthService(t)
		accounts.On("FindByLoginID", mock.Anything, "admin").Return(testAccount(t, "admin", "s3cret"), nil)

		result, err := svc.Login(ctx, "admin", "wrong")
		assert.Nil(t, result)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidCredentials))
		assert.True(t, errors.Is(err, ErrWrongPassword))
		assert.Empty(t, mini.Keys())
	})

	t.Run("rejects unknown login id with the same message", func(t *testing.T) {
		svc, accounts, _ := setupAuthService(t)
		accounts.On("FindByLoginID", mock.Anything, "ghost").Return(nil, nil)
		accounts.On("FindByLoginID", mock.Anything, "admin").Return(testAccount(t, "admin", "s3cret"), nil)

		_, unknownErr := svc.Login(ctx, "ghost", "s3cret")
		_, wrongErr := svc.Login(ctx, "admin", "nope")

		unknown, ok := apperrors.AsAppError(unknownErr)
		require.True(t, ok)
		wrong, ok := apperrors.AsAppError(wrongErr)
		require.True(t, ok)

		assert.Equal(t, wrong.Code, unknown.Code)
		assert.Equal(t, wrong.Message, unknown.Message)
		assert.True(t, errors.Is(unknownErr, ErrUnknownAccount))
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		svc, accounts, _ := setupAuthService(t)
		accounts.On("FindByLoginID", mock.Anything, "admin").Return(nil, errors.New("db down"))

		_, err := svc.Login(ctx, "admin", "s3cret")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabase))
	})

	t.Run("fails when session store is unreachable", func(t *testing.T) {
		svc, accounts, mini := setupAuthService(t)
		accounts.On("FindByLoginID", mock.Anything, "admin").Return(testAccount(t, "admin", "s3cret"), nil)
		mini.Close()

		_, err := svc.Login(ctx, "admin", "s3cret")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInternal))
	})
}

func TestAuthService_CurrentAdmin(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _ := setupAuthService(t)
	accounts.On("FindByLoginID", mock.Anything, "admin").Return(testAccount(t, "admin", "s3cret"), nil)

	result, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)

	t.Run("returns login id for live session", func(t *testing.T) {
		info, err := svc.CurrentAdmin(ctx, result.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin", info.LoginID)
	})

	t.Run("empty token is unauthorized", func(t *testing.T) {
		_, err := svc.CurrentAdmin(ctx, "")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnauthorized))
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		_, err := svc.CurrentAdmin(ctx, "0123456789abcdef0123456789abcdef")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnauthorized))
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, accounts, mini := setupAuthService(t)
	accounts.On("FindByLoginID", mock.Anything, "admin").Return(testAccount(t, "admin", "s3cret"), nil)

	result, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)

	svc.Logout(ctx, result.Token)

	_, err = svc.CurrentAdmin(ctx, result.Token)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnauthorized))

	t.Run("repeated and empty logouts are harmless", func(t *testing.T) {
		svc.Logout(ctx, result.Token)
		svc.Logout(ctx, "")
	})

	t.Run("store errors are swallowed", func(t *testing.T) {
		mini.Close()
		assert.NotPanics(t, func() { svc.Logout(ctx, result.Token) })
	})
}

func TestAuthService_SessionExpiry(t *testing.T) {
	ctx := context.Background()
	svc, accounts, mini := setupAuthService(t)
	accounts.On("FindByLoginID", mock.Anything, "admin").Return(testAccount(t, "admin", "s3cret"), nil)

	result, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)

	mini.FastForward(svc.SessionTTL() + time.Second)

	_, err = svc.CurrentAdmin(ctx, result.Token)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnauthorized))
}
