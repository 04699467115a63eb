package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *fakeRepoManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	return NewUserService(db, rm, newTokens(t), newHasher(t)), rm, mock
}

func TestSignup_Success(t *testing.T) {
	s, rm, mock := newUserService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := s.Signup(context.Background(), "  A@X.com ", "password123", " Ann ")
	require.NoError(t, err)

	assert.NotZero(t, res.User.ID)
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.Equal(t, "Ann", res.User.Name)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	stored := rm.u.byMail["a@x.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2a$"))

	id, ok := s.tokens.VerifyAccess(res.AccessToken)
	require.True(t, ok)
	assert.Equal(t, res.User.ID, id.UserID())
	id, ok = s.tokens.VerifyRefresh(res.RefreshToken)
	require.True(t, ok)
	assert.Equal(t, res.User.ID, id.UserID())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignup_DuplicateEmailCaseInsensitive(t *testing.T) {
	s, _, mock := newUserService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Signup(context.Background(), "a@x.com", "password123", "Ann")
	require.NoError(t, err)

	_, err = s.Signup(context.Background(), "A@X.com", "password456", "Other Ann")
	assert.ErrorIs(t, err, common.ErrorConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignup_ConstraintViolationIsConflict(t *testing.T) {
	s, rm, mock := newUserService(t)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Signup(context.Background(), "a@x.com", "password123", "Ann")
	require.NoError(t, err)

	// The existence check misses, as it would for a signup racing the first one.
	rm.u.hideExisting = true
	_, err = s.Signup(context.Background(), "a@x.com", "password123", "Ann")
	assert.ErrorIs(t, err, common.ErrorConflict)
	assert.NotErrorIs(t, err, common.ErrorInternal)
}

func TestSignup_Concurrent(t *testing.T) {
	s, _, mock := newUserService(t)
	s.db.SetMaxOpenConns(1)

	const n = 6
	mock.ExpectBegin()
	mock.ExpectCommit()
	for i := 1; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		conflict int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "race@x.com"
			if i%2 == 1 {
				email = "RACE@x.com"
			}
			_, err := s.Signup(context.Background(), email, "password123", "Racer")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, common.ErrorConflict):
				conflict++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflict)
}

func TestSignup_StorageFailure(t *testing.T) {
	s, rm, mock := newUserService(t)
	rm.u.createErr = errors.New("db down")
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Signup(context.Background(), "a@x.com", "password123", "Ann")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Contains(t, err.Error(), "db down")
}

func TestSignup_BeginFailure(t *testing.T) {
	s, _, mock := newUserService(t)
	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	_, err := s.Signup(context.Background(), "a@x.com", "password123", "Ann")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestSignup_PasswordTooLong(t *testing.T) {
	s, _, _ := newUserService(t)

	_, err := s.Signup(context.Background(), "a@x.com", strings.Repeat("p", 80), "Ann")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestSignin(t *testing.T) {
	s, _, mock := newUserService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	created, err := s.Signup(context.Background(), "a@x.com", "password123", "Ann")
	require.NoError(t, err)

	res, err := s.Signin(context.Background(), "A@x.COM", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, res.User.ID)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
}

func TestSignin_FailuresAreIndistinguishable(t *testing.T) {
	s, _, mock := newUserService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := s.Signup(context.Background(), "a@x.com", "password123", "Ann")
	require.NoError(t, err)

	_, wrongPassword := s.Signin(context.Background(), "a@x.com", "wrong")
	_, unknownEmail := s.Signin(context.Background(), "nobody@x.com", "password123")

	require.ErrorIs(t, wrongPassword, common.ErrorUnauthorized)
	require.ErrorIs(t, unknownEmail, common.ErrorUnauthorized)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestSignin_StorageFailure(t *testing.T) {
	s, rm, _ := newUserService(t)
	rm.u.getErr = errors.New("timeout")

	_, err := s.Signin(context.Background(), "a@x.com", "password123")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefresh(t *testing.T) {
	s, _, mock := newUserService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := s.Signup(context.Background(), "a@x.com", "password123", "Ann")
	require.NoError(t, err)

	access, err := s.Refresh(context.Background(), res.RefreshToken)
	require.NoError(t, err)
	id, ok := s.tokens.VerifyAccess(access)
	require.True(t, ok)
	assert.Equal(t, res.User.ID, id.UserID())

	_, err = s.Refresh(context.Background(), res.RefreshToken)
	assert.NoError(t, err, "refresh token is not rotated")
}

func TestRefresh_Rejects(t *testing.T) {
	s, _, mock := newUserService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := s.Signup(context.Background(), "a@x.com", "password123", "Ann")
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"access token": res.AccessToken,
		"garbage":      "abc.def.ghi",
		"empty":        "",
	} {
		_, err := s.Refresh(context.Background(), tok)
		assert.ErrorIs(t, err, common.ErrorUnauthorized, name)
	}
}

func TestMe(t *testing.T) {
	s, _, mock := newUserService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := s.Signup(context.Background(), "a@x.com", "password123", "Ann")
	require.NoError(t, err)

	u, err := s.Me(context.Background(), identityFor(t, s.tokens, res.User.ID))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	_, err = s.Me(context.Background(), identityFor(t, s.tokens, 999))
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
