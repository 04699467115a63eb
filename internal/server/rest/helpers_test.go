package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/stretchr/testify/require"
)

const testOrigin = "http://localhost:3000"

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// stubAccounts returns canned results and records its inputs.
type stubAccounts struct {
	signupRes  *services.AuthResult
	signupErr  error
	signinRes  *services.AuthResult
	signinErr  error
	refreshOut string
	refreshErr error
	meOut      *models.User
	meErr      error

	gotEmail, gotPassword, gotName, gotRefresh string
	gotIdentity                                auth.Identity
}

func (s *stubAccounts) Signup(_ context.Context, email, password, name string) (*services.AuthResult, error) {
	s.gotEmail, s.gotPassword, s.gotName = email, password, name
	return s.signupRes, s.signupErr
}

func (s *stubAccounts) Signin(_ context.Context, email, password string) (*services.AuthResult, error) {
	s.gotEmail, s.gotPassword = email, password
	return s.signinRes, s.signinErr
}

func (s *stubAccounts) Refresh(_ context.Context, token string) (string, error) {
	s.gotRefresh = token
	return s.refreshOut, s.refreshErr
}

func (s *stubAccounts) Me(_ context.Context, id auth.Identity) (*models.User, error) {
	s.gotIdentity = id
	return s.meOut, s.meErr
}

// stubTasks records the owner and task ID of the last call.
type stubTasks struct {
	task  *models.Task
	list  []*models.Task
	err   error
	calls []string

	owner       auth.Identity
	id          int64
	title       string
	description *string
}

func (s *stubTasks) Create(_ context.Context, owner auth.Identity, title string, description *string) (*models.Task, error) {
	s.calls = append(s.calls, "create")
	s.owner, s.title, s.description = owner, title, description
	return s.task, s.err
}

func (s *stubTasks) List(_ context.Context, owner auth.Identity) ([]*models.Task, error) {
	s.calls = append(s.calls, "list")
	s.owner = owner
	return s.list, s.err
}

func (s *stubTasks) Get(_ context.Context, owner auth.Identity, id int64) (*models.Task, error) {
	s.calls = append(s.calls, "get")
	s.owner, s.id = owner, id
	return s.task, s.err
}

func (s *stubTasks) Update(_ context.Context, owner auth.Identity, id int64, title string, description *string) (*models.Task, error) {
	s.calls = append(s.calls, "update")
	s.owner, s.id, s.title, s.description = owner, id, title, description
	return s.task, s.err
}

func (s *stubTasks) Toggle(_ context.Context, owner auth.Identity, id int64) (*models.Task, error) {
	s.calls = append(s.calls, "toggle")
	s.owner, s.id = owner, id
	return s.task, s.err
}

func (s *stubTasks) Delete(_ context.Context, owner auth.Identity, id int64) error {
	s.calls = append(s.calls, "delete")
	s.owner, s.id = owner, id
	return s.err
}

type testEnv struct {
	handler  http.Handler
	accounts *stubAccounts
	tasks    *stubTasks
	tokens   *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), "HS256", 15*time.Minute, time.Hour)
	require.NoError(t, err)

	env := &testEnv{accounts: &stubAccounts{}, tasks: &stubTasks{}, tokens: tokens}
	env.handler = NewAPI(env.accounts, env.tasks, tokens, nopLogger{}).Handler(testOrigin)
	return env
}

func (e *testEnv) accessToken(t *testing.T, userID int64) string {
	t.Helper()
	tok, err := e.tokens.IssueAccess(userID)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorResponse](t, rec).Detail
}
