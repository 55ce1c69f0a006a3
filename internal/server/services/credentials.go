// Package services contains server-side business logic: admin credentials
// and sessions, site content, the contact inbox and uploads.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/dmitrijs2005/studiosite/internal/dbx"
	"github.com/dmitrijs2005/studiosite/internal/logging"
	"github.com/dmitrijs2005/studiosite/internal/server/auth"
	"github.com/dmitrijs2005/studiosite/internal/server/models"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studiosite/internal/timex"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// Session is a freshly issued bearer token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	AdminID   int64
	Username  string
}

type loginInput struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

type passwordInput struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// CredentialService verifies admin passwords and issues session tokens.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	log         logging.Logger
	now         timex.Clock
}

func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService, log logging.Logger) *CredentialService {
	return &CredentialService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		log:         log,
		now:         timex.UTC,
	}
}

// Verify returns the account when password matches. Malformed input,
// unknown users and wrong passwords all yield common.ErrInvalidCredentials.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (*models.Admin, error) {
	if err := validateStruct(loginInput{Username: username, Password: password}); err != nil {
		auth.BurnPasswordCheck(password)
		s.log.Debug(ctx, "malformed login", "error", err)
		return nil, common.ErrInvalidCredentials
	}

	admin, err := s.repomanager.Admins(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			auth.BurnPasswordCheck(password)
			s.log.Debug(ctx, "login for unknown user", "username", username)
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(admin.PasswordHash, password) {
		s.log.Debug(ctx, "wrong password", "username", username)
		return nil, common.ErrInvalidCredentials
	}
	return admin, nil
}

// Login verifies the credentials and issues a token for the account.
func (s *CredentialService) Login(ctx context.Context, username, password string) (*Session, error) {
	admin, err := s.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, expires, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info(ctx, "admin logged in", "username", admin.Username)
	return &Session{Token: token, ExpiresAt: expires, AdminID: admin.ID, Username: admin.Username}, nil
}

// Authenticate checks a bearer token.
func (s *CredentialService) Authenticate(token string) (*auth.Identity, error) {
	return s.tokens.Verify(token)
}

// SetPassword stores a new hash for username, creating the account when it
// does not exist. Tokens issued earlier stay valid until they expire.
func (s *CredentialService) SetPassword(ctx context.Context, username, password string) error {
	hash, err := hashNewPassword(username, password)
	if err != nil {
		return err
	}

	if _, err := s.repomanager.Admins(s.db).Upsert(ctx, username, hash, s.now()); err != nil {
		return err
	}
	s.log.Info(ctx, "admin password set", "username", username)
	return nil
}

// EnsureAdmin creates the account only if it is missing. It never replaces
// an existing password.
func (s *CredentialService) EnsureAdmin(ctx context.Context, db dbx.DBTX, username, password string) (bool, error) {
	hash, err := hashNewPassword(username, password)
	if err != nil {
		return false, err
	}
	return s.repomanager.Admins(db).CreateIfAbsent(ctx, username, hash, s.now())
}

func hashNewPassword(username, password string) (string, error) {
	if err := validateStruct(passwordInput{Username: username, Password: password}); err != nil {
		return "", err
	}
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, maxPasswordBytes)
	}
	return auth.HashPassword(password)
}
