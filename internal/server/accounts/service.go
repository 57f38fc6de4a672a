// Package accounts holds the identity model and the authentication gate:
// registration, login, and master-password verification for an account.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sbuga/passvault/internal/common"
	"github.com/sbuga/passvault/internal/cryptox"
	"github.com/sbuga/passvault/internal/logging"
	"github.com/sbuga/passvault/internal/server/auth"
	"github.com/sbuga/passvault/internal/server/config"
)

// MinSecretLength is the minimum length for both the account password and
// the master password at registration.
const MinSecretLength = 8

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Service is the authentication gate over accounts. A single attempt either
// validates the credentials and issues a token or rejects them.
type Service struct {
	repo          Repository
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
}

func NewService(repo Repository, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		repo:          repo,
		logger:        logger.With("module", "accounts"),
		jwtSecret:     []byte(cfg.TokenSecret),
		tokenValidity: cfg.TokenValidity,
		bcryptCost:    cfg.BcryptCost,
	}
}

// RegisterRequest carries the registration form. Both secrets arrive as
// plaintext and are hashed exactly once here; nothing downstream ever sees
// them again.
type RegisterRequest struct {
	Email          string
	Password       string
	MasterPassword string
	FirstName      string
	LastName       string
}

// AuthResult is a verified identity plus its freshly issued bearer token.
type AuthResult struct {
	Account *Account
	Token   string
}

// NormalizeEmail lowercases and trims an email for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the request, hashes both secrets with the adaptive
// policy and creates the account. Duplicate emails (case-insensitive)
// return common.ErrDuplicateEmail; all other rejections are
// common.ErrValidation.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := NormalizeEmail(req.Email)

	if email == "" || req.Password == "" || req.MasterPassword == "" ||
		strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, fmt.Errorf("%w: all fields are required: email, password, firstName, lastName, masterPassword", common.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if len(req.Password) < MinSecretLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", common.ErrValidation, MinSecretLength)
	}
	if len(req.MasterPassword) < MinSecretLength {
		return nil, fmt.Errorf("%w: master password must be at least %d characters long", common.ErrValidation, MinSecretLength)
	}
	if req.Password == req.MasterPassword {
		return nil, fmt.Errorf("%w: master password must differ from the account password", common.ErrValidation)
	}

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrNotFound):
		return nil, common.ErrInternal
	}

	passwordHash, err := cryptox.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, common.ErrInternal
	}
	masterHash, err := cryptox.HashPassword(req.MasterPassword, s.bcryptCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	account := &Account{
		Email:              email,
		PasswordHash:       passwordHash,
		MasterPasswordHash: masterHash,
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
	}

	account, err = s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		s.logger.Error(ctx, "account create failed", "error", err.Error())
		return nil, common.ErrInternal
	}

	token, err := s.issueToken(account)
	if err != nil {
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID)
	return &AuthResult{Account: account, Token: token}, nil
}

// Login authenticates by normalized email and password. Unknown email and
// wrong password both return common.ErrInvalidCredentials; the caller must
// never be able to tell which factor failed. Last-login is stamped only on
// success.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if !cryptox.CheckPassword(password, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, account.ID, now); err != nil {
		s.logger.Error(ctx, "last-login update failed", "error", err.Error())
		return nil, common.ErrInternal
	}
	account.LastLogin = &now

	token, err := s.issueToken(account)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &AuthResult{Account: account, Token: token}, nil
}

// GetProfile returns the account behind an authenticated request.
func (s *Service) GetProfile(ctx context.Context, accountID string) (*Account, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return account, nil
}

// VerifyMasterPassword checks the per-account master password (the second
// independent secret) against its adaptive digest.
func (s *Service) VerifyMasterPassword(ctx context.Context, accountID, plaintext string) (bool, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, common.ErrNotFound
		}
		return false, common.ErrInternal
	}
	return cryptox.CheckPassword(plaintext, account.MasterPasswordHash), nil
}

func (s *Service) issueToken(account *Account) (string, error) {
	return auth.GenerateToken(auth.Identity{
		AccountID: account.ID,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
	}, s.jwtSecret, s.tokenValidity)
}
