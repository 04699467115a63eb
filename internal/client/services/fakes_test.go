package services

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

// fakeClient accepts exactly one access token at a time. Refresh swaps it
// for a new one, so stale tokens are answered with 401.
type fakeClient struct {
	validAccess  string
	validRefresh string
	refreshCalls int
	pingErr      error
	signinErr    error

	lastInput  models.TaskInput
	signedOut  bool
	tasks      map[int64]*models.Task
	nextAccess string
}

var _ client.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{
		validAccess:  "access-1",
		validRefresh: "refresh-1",
		nextAccess:   "access-2",
		tasks:        map[int64]*models.Task{},
	}
}

func (f *fakeClient) check(access string) error {
	if access != f.validAccess {
		return &client.APIError{Status: 401, Detail: "Invalid or expired token"}
	}
	return nil
}

func (f *fakeClient) session() *models.Session {
	return &models.Session{
		User:         models.User{ID: 1, Email: "ann@example.com", Name: "Ann"},
		AccessToken:  f.validAccess,
		RefreshToken: f.validRefresh,
	}
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) Signup(_ context.Context, email, _, name string) (*models.Session, error) {
	s := f.session()
	s.User.Email, s.User.Name = email, name
	return s, nil
}

func (f *fakeClient) Signin(context.Context, string, string) (*models.Session, error) {
	if f.signinErr != nil {
		return nil, f.signinErr
	}
	return f.session(), nil
}

func (f *fakeClient) Refresh(_ context.Context, refresh string) (string, error) {
	f.refreshCalls++
	if refresh != f.validRefresh {
		return "", &client.APIError{Status: 401}
	}
	f.validAccess = f.nextAccess
	return f.validAccess, nil
}

func (f *fakeClient) Signout(_ context.Context, access string) error {
	if err := f.check(access); err != nil {
		return err
	}
	f.signedOut = true
	return nil
}

func (f *fakeClient) Me(_ context.Context, access string) (*models.User, error) {
	if err := f.check(access); err != nil {
		return nil, err
	}
	return &models.User{ID: 1, Email: "ann@example.com", Name: "Ann B."}, nil
}

func (f *fakeClient) ListTasks(_ context.Context, access string) ([]*models.Task, error) {
	if err := f.check(access); err != nil {
		return nil, err
	}
	out := []*models.Task{}
	for _, t := range f.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeClient) CreateTask(_ context.Context, access string, in models.TaskInput) (*models.Task, error) {
	if err := f.check(access); err != nil {
		return nil, err
	}
	f.lastInput = in
	t := &models.Task{ID: int64(len(f.tasks) + 1), Title: in.Title, Description: in.Description, UserID: 1}
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeClient) GetTask(_ context.Context, access string, id int64) (*models.Task, error) {
	if err := f.check(access); err != nil {
		return nil, err
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, &client.APIError{Status: 404, Detail: "Task not found"}
	}
	return t, nil
}

func (f *fakeClient) UpdateTask(ctx context.Context, access string, id int64, in models.TaskInput) (*models.Task, error) {
	t, err := f.GetTask(ctx, access, id)
	if err != nil {
		return nil, err
	}
	f.lastInput = in
	t.Title, t.Description = in.Title, in.Description
	return t, nil
}

func (f *fakeClient) ToggleTask(ctx context.Context, access string, id int64) (*models.Task, error) {
	t, err := f.GetTask(ctx, access, id)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	return t, nil
}

func (f *fakeClient) DeleteTask(ctx context.Context, access string, id int64) error {
	if _, err := f.GetTask(ctx, access, id); err != nil {
		return err
	}
	delete(f.tasks, id)
	return nil
}
