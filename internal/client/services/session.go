// Package services contains application services for the todo CLI.
//
// AuthService owns the in-memory session (current user and token pair).
// TaskService borrows that session for every call and retries once with a
// refreshed access token when the server rejects the current one.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

// ErrNotSignedIn is returned by calls that need a session when there is none.
var ErrNotSignedIn = errors.New("not signed in")

// Session is the token pair and account of the signed-in user. The zero value
// is a signed-out session. Tokens live in memory only.
type Session struct {
	mu      sync.RWMutex
	user    *models.User
	access  string
	refresh string
}

func (s *Session) set(user models.User, access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.access = access
	s.refresh = refresh
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.access = ""
	s.refresh = ""
}

func (s *Session) tokens() (access, refresh string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.refresh
}

func (s *Session) setUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.access != "" {
		s.user = &user
	}
}

func (s *Session) setAccess(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
}

// User returns a copy of the signed-in account, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// withAccess runs call with the current access token. If the server answers
// 401 and a refresh token is held, the access token is renewed and call runs
// once more. A rejected refresh token ends the session.
func withAccess(ctx context.Context, c client.Client, s *Session, call func(access string) error) error {
	access, refresh := s.tokens()
	if access == "" {
		return ErrNotSignedIn
	}

	err := call(access)
	if !errors.Is(err, client.ErrUnauthorized) || refresh == "" {
		return err
	}

	renewed, rerr := c.Refresh(ctx, refresh)
	if rerr != nil {
		if errors.Is(rerr, client.ErrUnauthorized) {
			s.clear()
			return ErrNotSignedIn
		}
		return rerr
	}
	s.setAccess(renewed)

	return call(renewed)
}
