package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	taskrepo "github.com/dmitrijs2005/todokeeper/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService(testSecret, "HS256", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	return ts
}

func newHasher(t *testing.T) *auth.Hasher {
	t.Helper()
	h, err := auth.NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	return h
}

// identityFor obtains an Identity the only way production code can: by
// verifying an access token.
func identityFor(t *testing.T, ts *auth.TokenService, userID int64) auth.Identity {
	t.Helper()
	tok, err := ts.IssueAccess(userID)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	id, ok := ts.VerifyAccess(tok)
	if !ok {
		t.Fatalf("VerifyAccess rejected a fresh token")
	}
	return id
}

// fakeUsersRepo behaves like the users table: IDs are sequential and the
// email column is unique.
type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]*models.User

	// hideExisting makes GetByEmail miss, so Create is the first place a
	// duplicate is detected.
	hideExisting bool
	getErr       error
	createErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byMail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byMail[u.Email]; ok {
		return nil, common.ErrorConflict
	}
	f.nextID++
	now := time.Now().UTC()
	stored := *u
	stored.ID, stored.CreatedAt, stored.UpdatedAt = f.nextID, now, now
	f.byMail[u.Email] = &stored
	out := stored
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byMail[email]
	if !ok || f.hideExisting {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byMail {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

// fakeTasksRepo filters every access by (id, user_id) like the SQL does.
type fakeTasksRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Task
	err    error
}

func newFakeTasksRepo() *fakeTasksRepo {
	return &fakeTasksRepo{rows: map[int64]*models.Task{}}
}

func (f *fakeTasksRepo) owned(id, userID int64) (*models.Task, bool) {
	t, ok := f.rows[id]
	if !ok || t.UserID != userID {
		return nil, false
	}
	return t, true
}

func bump(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

func copyTask(t *models.Task) *models.Task {
	out := *t
	if t.Description != nil {
		d := *t.Description
		out.Description = &d
	}
	return &out
}

func (f *fakeTasksRepo) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	now := time.Now().UTC()
	stored := copyTask(t)
	stored.ID, stored.Completed, stored.CreatedAt, stored.UpdatedAt = f.nextID, false, now, now
	f.rows[stored.ID] = stored
	return copyTask(stored), nil
}

func (f *fakeTasksRepo) ListByOwner(_ context.Context, userID int64) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Task, 0)
	for id := f.nextID; id > 0; id-- {
		if t, ok := f.owned(id, userID); ok {
			out = append(out, copyTask(t))
		}
	}
	return out, nil
}

func (f *fakeTasksRepo) GetByIDAndOwner(_ context.Context, id, userID int64) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.owned(id, userID)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyTask(t), nil
}

func (f *fakeTasksRepo) Update(_ context.Context, in *models.Task) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.owned(in.ID, in.UserID)
	if !ok {
		return nil, common.ErrorNotFound
	}
	t.Title, t.Description, t.UpdatedAt = in.Title, in.Description, bump(t.UpdatedAt)
	return copyTask(t), nil
}

func (f *fakeTasksRepo) Toggle(_ context.Context, id, userID int64) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.owned(id, userID)
	if !ok {
		return nil, common.ErrorNotFound
	}
	t.Completed, t.UpdatedAt = !t.Completed, bump(t.UpdatedAt)
	return copyTask(t), nil
}

func (f *fakeTasksRepo) Delete(_ context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.owned(id, userID); !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), t: newFakeTasksRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) taskrepo.Repository        { return m.t }
