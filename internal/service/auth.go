package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/admanager/ad-server-go/internal/errors"
	"github.com/admanager/ad-server-go/internal/model"
	"github.com/admanager/ad-server-go/internal/repository"
	"github.com/admanager/ad-server-go/internal/util"
)

var (
	ErrUnknownAccount = errors.New("unknown login id")
	ErrWrongPassword  = errors.New("password mismatch")
)

// dummyPasswordHash is compared against when the login id is unknown so a
// miss costs the same bcrypt work as a wrong password.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := util.HashPassword("dummy-password-for-timing")
	if err != nil {
		panic(err)
	}
	return hash
})

type LoginResult struct {
	Account *model.AdminAccount
	Token   string
}

type SessionInfo struct {
	LoginID string `json:"loginId"`
}

type AuthService struct {
	accountRepo repository.AdminAccountRepository
	sessions    repository.SessionStore
	sessionTTL  time.Duration
}

func NewAuthService(
	accountRepo repository.AdminAccountRepository,
	sessions repository.SessionStore,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		sessions:    sessions,
		sessionTTL:  sessionTTL,
	}
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Authenticate verifies a login id and password. Unknown accounts and wrong
// passwords return the same InvalidCredentials error; the cause tells them
// apart for logging.
func (s *AuthService) Authenticate(ctx context.Context, loginID, password string) (*model.AdminAccount, error) {
	account, err := s.accountRepo.FindByLoginID(ctx, loginID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	if account == nil {
		util.CheckPasswordHash(password, dummyPasswordHash())
		log.Warn().Str("loginId", loginID).Msg("login rejected: unknown login id")
		return nil, apperrors.InvalidCredentials().WithCause(ErrUnknownAccount)
	}

	if !util.CheckPasswordHash(password, account.PasswordHash) {
		log.Warn().Str("loginId", loginID).Msg("login rejected: password mismatch")
		return nil, apperrors.InvalidCredentials().WithCause(ErrWrongPassword)
	}

	return account, nil
}

func (s *AuthService) Login(ctx context.Context, loginID, password string) (*LoginResult, error) {
	account, err := s.Authenticate(ctx, loginID, password)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Create(ctx, account.LoginID, s.sessionTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to create session", err)
	}

	log.Info().Str("loginId", account.LoginID).Msg("admin logged in")

	return &LoginResult{Account: account, Token: token}, nil
}

// Logout ends the session behind token. It never fails: a store error
// leaves the session to expire by TTL.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		log.Error().Err(err).Msg("failed to delete admin session")
	}
}

func (s *AuthService) CurrentAdmin(ctx context.Context, token string) (*SessionInfo, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("Login required")
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to read session", err)
	}
	if session == nil {
		return nil, apperrors.Unauthorized("Login required")
	}

	return &SessionInfo{LoginID: session.LoginID}, nil
}
