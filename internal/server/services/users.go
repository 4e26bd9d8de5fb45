// Package services contains server-side business logic. This file implements
// UserService, which registers accounts and logs users in by issuing a signed
// session token.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/dmitrijs2005/filmvault/internal/dbx"
	"github.com/dmitrijs2005/filmvault/internal/server/auth"
	"github.com/dmitrijs2005/filmvault/internal/server/models"
	"github.com/dmitrijs2005/filmvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
	MaxPasswordBytes = 72
)

// Credentials is the email/password pair of a register or login request.
// It is never stored or logged.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the outcome of a successful login.
type Session struct {
	Token    string
	UserID   string
	Email    string
	Lifetime time.Duration
}

// TokenSigner issues session tokens.
type TokenSigner interface {
	Sign(id auth.Identity) (string, error)
	Lifetime() time.Duration
}

// UserService provides authentication-related operations:
// - Register: validate and create users
// - Login: verify credentials and mint a session token
type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      TokenSigner
	newID       func() string
	dummyHash   string
}

// NewUserService precomputes a throwaway digest at the hasher's cost so that
// logins for unknown emails do the same amount of work as real ones.
func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens TokenSigner) (*UserService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		newID:       uuid.NewString,
		dummyHash:   dummy,
	}, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckPasswordPolicy returns common.ErrWeakPassword for passwords shorter
// than MinPasswordLength characters or longer than MaxPasswordBytes bytes.
func CheckPasswordPolicy(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength || len(password) > MaxPasswordBytes {
		return common.ErrWeakPassword
	}
	return nil
}

// Register creates an account. Validation stops at the first failure:
// ErrMissingFields, then ErrWeakPassword, then ErrDuplicateEmail. A duplicate
// that slips past the lookup is still reported as ErrDuplicateEmail since the
// repository enforces uniqueness.
func (s *UserService) Register(ctx context.Context, c Credentials) (*models.User, error) {
	email := NormalizeEmail(c.Email)
	if email == "" || c.Password == "" {
		return nil, common.ErrMissingFields
	}
	if err := CheckPasswordPolicy(c.Password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := s.hasher.Hash(c.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{ID: s.newID(), Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and signs a session token. Unknown email
// and wrong password both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, c Credentials) (*Session, error) {
	email := NormalizeEmail(c.Email)
	if email == "" || c.Password == "" {
		return nil, common.ErrMissingFields
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(c.Password, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(c.Password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}

	return &Session{Token: token, UserID: user.ID, Email: user.Email, Lifetime: s.tokens.Lifetime()}, nil
}
