package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/config"
	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

type fakeAuth struct {
	user     *models.User
	email    string
	name     string
	password []byte
	err      error
	signouts int

	mu      sync.Mutex
	pingErr error
}

func (f *fakeAuth) Signup(_ context.Context, email string, password []byte, name string) (*models.User, error) {
	f.email, f.name, f.password = email, name, append([]byte(nil), password...)
	if f.err != nil {
		return nil, f.err
	}
	f.user = &models.User{ID: 1, Email: email, Name: name}
	return f.user, nil
}

func (f *fakeAuth) Signin(_ context.Context, email string, password []byte) (*models.User, error) {
	f.email, f.password = email, append([]byte(nil), password...)
	if f.err != nil {
		return nil, f.err
	}
	f.user = &models.User{ID: 1, Email: email, Name: "Ann"}
	return f.user, nil
}

func (f *fakeAuth) Signout(context.Context) error {
	f.signouts++
	f.user = nil
	return f.err
}

func (f *fakeAuth) Me(context.Context) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeAuth) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeAuth) CurrentUser() *models.User { return f.user }

type fakeTasks struct {
	tasks   map[int64]*models.Task
	lastID  int64
	lastDsc string
	err     error
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{tasks: map[int64]*models.Task{}}
}

func (f *fakeTasks) List(context.Context) ([]*models.Task, error) {
	out := []*models.Task{}
	for id := int64(1); id <= int64(len(f.tasks)); id++ {
		if t, ok := f.tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out, f.err
}

func (f *fakeTasks) Create(_ context.Context, title, description string) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := int64(len(f.tasks) + 1)
	t := &models.Task{ID: id, Title: title, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if description != "" {
		t.Description = &description
	}
	f.tasks[id] = t
	f.lastDsc = description
	return t, nil
}

func (f *fakeTasks) Get(_ context.Context, id int64) (*models.Task, error) {
	f.lastID = id
	t, ok := f.tasks[id]
	if !ok {
		return nil, &client.APIError{Status: 404, Detail: "Task not found"}
	}
	return t, nil
}

func (f *fakeTasks) Update(ctx context.Context, id int64, title, description string) (*models.Task, error) {
	t, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Title = title
	t.Description = nil
	if description != "" {
		t.Description = &description
	}
	f.lastDsc = description
	return t, nil
}

func (f *fakeTasks) Toggle(ctx context.Context, id int64) (*models.Task, error) {
	t, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	return t, nil
}

func (f *fakeTasks) Delete(ctx context.Context, id int64) error {
	if _, err := f.Get(ctx, id); err != nil {
		return err
	}
	delete(f.tasks, id)
	return nil
}

// testApp builds an App reading input and writing to the returned buffer.
func testApp(t *testing.T, input string) (*App, *fakeAuth, *fakeTasks, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	fa := &fakeAuth{}
	ft := newFakeTasks()
	out := &bytes.Buffer{}
	return newApp(cfg, fa, ft, strings.NewReader(input), out), fa, ft, out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			parts = append(parts, strings.TrimSpace(fmt.Sprint(v)))
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}
