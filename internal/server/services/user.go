package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
)

// AuthResult is returned by Signup and Signin.
type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
// - Signup: create an account and mint tokens
// - Signin: verify credentials and mint tokens
// - Refresh: trade a refresh token for a new access token
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	hasher      *auth.Hasher
}

// NewUserService constructs a UserService from its collaborators.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService, hasher *auth.Hasher) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
	}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new user. A second account for the same normalized
// email fails with common.ErrorConflict, including when two signups race:
// the unique index on users.email decides the loser.
func (s *UserService) Signup(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, internalError("hash password", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return common.ErrorConflict
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		user, err = repo.Create(ctx, &models.User{Email: email, PasswordHash: hash, Name: name})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, internalError("create user", err)
	}

	return s.authResult(user)
}

// Signin checks the credentials. An unknown email and a wrong password
// produce the same common.ErrorUnauthorized after one bcrypt comparison each.
func (s *UserService) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, common.ErrorUnauthorized
		}
		return nil, internalError("find user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return s.authResult(user)
}

// Refresh validates a refresh token and returns a new access token for the
// same user. The refresh token itself stays valid until it expires.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	id, ok := s.tokens.VerifyRefresh(refreshToken)
	if !ok {
		return "", common.ErrorUnauthorized
	}

	access, err := s.tokens.IssueAccess(id.UserID())
	if err != nil {
		return "", internalError("issue access token", err)
	}
	return access, nil
}

// Me returns the account behind id.
func (s *UserService) Me(ctx context.Context, id auth.Identity) (*models.User, error) {
	if id.IsZero() {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id.UserID())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, internalError("find user", err)
	}
	return user, nil
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, internalError("issue access token", err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, internalError("issue refresh token", err)
	}
	return &AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}
