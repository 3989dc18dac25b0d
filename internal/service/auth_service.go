package service

import (
	"errors"
	"strings"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"
	"github.com/AgnesMuita/asset-maintenance-api/internal/security"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrRefreshTokenExpired is kept distinct from ErrInvalidRefreshToken so
	// the HTTP layer can tell clients whether a silent re-login is worth
	// attempting.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type RegisterInput struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Department string
}

// AuthService owns the session lifecycle: credential verification, token
// issuance and the ledger-backed rotation flow.
type AuthService struct {
	accounts repository.AccountRepository
	tokens   repository.TokenRepository
	jwtMgr   *security.JWTManager
	pepper   string
}

func NewAuthService(accounts repository.AccountRepository, tokens repository.TokenRepository, jwtMgr *security.JWTManager, pepper string) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens, jwtMgr: jwtMgr, pepper: pepper}
}

func (s *AuthService) Register(in RegisterInput) (*domain.Account, TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.accounts.FindByEmail(email); err == nil {
		return nil, TokenPair{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, TokenPair{}, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	// Self-registration never grants privileges; elevation goes through the
	// account management surface.
	account := &domain.Account{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleBasic,
		Department:   in.Department,
		Active:       true,
	}
	if err := s.accounts.Create(account); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issue(account)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return account, pair, nil
}

// Login verifies the credential pair and mints a fresh session. A missing
// account and a wrong password surface as different errors on purpose; the
// HTTP layer maps them to 404 and 403.
func (s *AuthService) Login(email, password string) (*domain.Account, TokenPair, error) {
	account, err := s.accounts.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, TokenPair{}, ErrAccountNotFound
		}
		return nil, TokenPair{}, err
	}
	if !security.VerifyPassword(account.PasswordHash, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.issue(account)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return account, pair, nil
}

// Refresh rotates a session: verify signature and expiry, look the ledger
// record up by the embedded session id, compare hashes, then consume the old
// record and mint a new pair. The consume step is a conditional update; when
// two requests race on the same token only the one that flips the revoked
// flag proceeds.
func (s *AuthService) Refresh(rawRefresh string) (TokenPair, error) {
	claims, err := s.jwtMgr.ParseRefreshToken(rawRefresh)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return TokenPair{}, ErrRefreshTokenExpired
		}
		return TokenPair{}, ErrInvalidRefreshToken
	}

	record, err := s.tokens.FindBySessionID(claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, err
	}
	if record.Revoked {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if !security.HashesEqual(record.TokenHash, security.HashRefreshToken(rawRefresh, s.pepper)) {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	accountID, err := claims.AccountID()
	if err != nil || accountID != record.AccountID {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	account, err := s.accounts.FindByID(accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, err
	}

	consumed, err := s.tokens.Invalidate(claims.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if !consumed {
		// Lost the race against a concurrent refresh or an explicit revoke.
		return TokenPair{}, ErrInvalidRefreshToken
	}

	return s.issue(account)
}

// RevokeAll signs the account out everywhere.
func (s *AuthService) RevokeAll(accountID uint) (int64, error) {
	return s.tokens.RevokeAllForAccount(accountID)
}

func (s *AuthService) issue(account *domain.Account) (TokenPair, error) {
	sessionID := security.NewSessionID()
	refresh, err := s.jwtMgr.SignRefreshToken(account.ID, sessionID)
	if err != nil {
		return TokenPair{}, err
	}
	access, err := s.jwtMgr.SignAccessToken(account.ID, string(account.Role))
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.tokens.Record(&domain.RefreshSession{
		SessionID: sessionID,
		TokenHash: security.HashRefreshToken(refresh, s.pepper),
		AccountID: account.ID,
	}); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
