package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

// AuthService defines account operations for the CLI.
//
// Passwords arrive as byte slices read from the terminal; callers wipe them.
type AuthService interface {
	Signup(ctx context.Context, email string, password []byte, name string) (*models.User, error)
	Signin(ctx context.Context, email string, password []byte) (*models.User, error)
	Signout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
	CurrentUser() *models.User
}

type authService struct {
	client  client.Client
	session *Session
}

// NewAuthService binds an AuthService to c and the shared session.
func NewAuthService(c client.Client, session *Session) AuthService {
	return &authService{client: c, session: session}
}

func (a *authService) Signup(ctx context.Context, email string, password []byte, name string) (*models.User, error) {
	s, err := a.client.Signup(ctx, strings.TrimSpace(email), string(password), name)
	if err != nil {
		return nil, err
	}
	a.session.set(s.User, s.AccessToken, s.RefreshToken)
	return &s.User, nil
}

func (a *authService) Signin(ctx context.Context, email string, password []byte) (*models.User, error) {
	s, err := a.client.Signin(ctx, strings.TrimSpace(email), string(password))
	if err != nil {
		return nil, err
	}
	a.session.set(s.User, s.AccessToken, s.RefreshToken)
	return &s.User, nil
}

// Signout tells the server and drops the local tokens. The local session is
// cleared even if the server call fails.
func (a *authService) Signout(ctx context.Context) error {
	defer a.session.clear()
	return withAccess(ctx, a.client, a.session, func(access string) error {
		return a.client.Signout(ctx, access)
	})
}

func (a *authService) Me(ctx context.Context) (*models.User, error) {
	var u *models.User
	err := withAccess(ctx, a.client, a.session, func(access string) error {
		var err error
		u, err = a.client.Me(ctx, access)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.session.setUser(*u)
	return u, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) CurrentUser() *models.User {
	return a.session.User()
}
