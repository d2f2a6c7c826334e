package accounts

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badreads/badreads/internal/database/dbtest"
	"github.com/badreads/badreads/internal/entities"
	"github.com/badreads/badreads/internal/errors"
)

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func plainVerifier(password, hash string) error {
	if "hashed:"+password != hash {
		return stderrors.New("mismatch")
	}
	return nil
}

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	db := dbtest.New(t)
	return NewRepository(db, func() time.Time { return fixedNow })
}

func alice() NewAccount {
	return NewAccount{
		Username:     "alice",
		Name:         "Alice Liddell",
		Email:        "alice@example.com",
		PasswordHash: "hashed:rabbit-hole-123",
	}
}

func TestRepository_CreateAccount(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	user, err := repo.CreateAccount(ctx, alice())

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, fixedNow, user.CreatedAt)
	assert.Nil(t, user.LastAccessed)
}

func TestRepository_CreateAccount_Duplicates(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	_, err := repo.CreateAccount(ctx, alice())
	require.NoError(t, err)

	t.Run("same username", func(t *testing.T) {
		dup := alice()
		dup.Email = "other@example.com"

		_, err := repo.CreateAccount(ctx, dup)

		assert.True(t, errors.Is(err, &errors.Error{Code: errors.CodeConflict, Reason: errors.ReasonDuplicateUsername}))
	})

	t.Run("same email", func(t *testing.T) {
		dup := alice()
		dup.Username = "alice2"

		_, err := repo.CreateAccount(ctx, dup)

		assert.True(t, errors.Is(err, &errors.Error{Code: errors.CodeConflict, Reason: errors.ReasonDuplicateEmail}))
	})

	assert.Equal(t, int64(1), dbtest.Count(t, repo.db, &entities.User{}, ""))
}

func TestRepository_CreateAccount_ConcurrentSameUsername(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := alice()
			in.Email = fmt.Sprintf("alice%d@example.com", i)
			_, err := repo.CreateAccount(ctx, in)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, &errors.Error{Code: errors.CodeConflict, Reason: errors.ReasonDuplicateUsername}):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, int64(1), dbtest.Count(t, repo.db, &entities.User{}, ""))
}

func TestRepository_Login(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	_, err := repo.CreateAccount(ctx, alice())
	require.NoError(t, err)

	t.Run("wrong password mutates nothing", func(t *testing.T) {
		_, err := repo.Login(ctx, "alice", "wrong", plainVerifier)

		assert.True(t, errors.Is(err, errors.ErrBadCredentials))
		user, err := repo.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Nil(t, user.LastAccessed)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.Login(ctx, "nobody", "whatever", plainVerifier)

		assert.True(t, errors.Is(err, errors.ErrBadCredentials))
	})

	t.Run("success stamps last accessed", func(t *testing.T) {
		user, err := repo.Login(ctx, "alice", "rabbit-hole-123", plainVerifier)

		require.NoError(t, err)
		require.NotNil(t, user.LastAccessed)
		assert.Equal(t, fixedNow, *user.LastAccessed)

		stored, err := repo.GetUser(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, stored.LastAccessed)
		assert.True(t, fixedNow.Equal(*stored.LastAccessed))
	})
}

func TestRepository_Login_CancelledContext(t *testing.T) {
	repo := setupTestRepo(t)
	_, err := repo.CreateAccount(context.Background(), alice())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.Login(ctx, "alice", "rabbit-hole-123", plainVerifier)

	assert.Error(t, err)
	user, err := repo.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Nil(t, user.LastAccessed)
}

func TestRepository_GetUser(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetUser(ctx, "ghost")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	exists, err := repo.Exists(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}
