package reading

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/badreads/badreads/internal/database/collections"
	"github.com/badreads/badreads/internal/database/dbtest"
	"github.com/badreads/badreads/internal/entities"
	"github.com/badreads/badreads/internal/errors"
)

var fixedNow = time.Date(2026, time.May, 2, 20, 0, 0, 0, time.UTC)

// fixedRandom always returns the same index, clamped to n.
type fixedRandom struct{ n int }

func (f fixedRandom) IntN(n int) int {
	if f.n >= n {
		return n - 1
	}
	return f.n
}

func setupTestRepo(t *testing.T, rnd Random) (*Repository, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t)
	dbtest.User(t, db, "alice")
	for _, b := range []dbtest.Book{
		{ISBN: "100", Title: "Piranesi", Length: 272},
		{ISBN: "200", Title: "Circe", Length: 393},
		{ISBN: "300", Title: "Beloved", Length: 324},
	} {
		dbtest.InsertBook(t, db, b)
	}
	repo := NewRepository(db, Options{
		Clock:  func() time.Time { return fixedNow },
		Random: rnd,
		Range:  DurationRange{Min: 15 * time.Minute, Max: 300 * time.Minute},
	})
	return repo, db
}

func TestRepository_RateBook(t *testing.T) {
	repo, db := setupTestRepo(t, fixedRandom{})
	ctx := context.Background()

	require.NoError(t, repo.RateBook(ctx, "alice", "100", 3))
	require.NoError(t, repo.RateBook(ctx, "alice", "100", 5))

	var ratings []entities.Rating
	require.NoError(t, db.Where("username = ? AND isbn = ?", "alice", "100").Find(&ratings).Error)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Stars)

	err := repo.RateBook(ctx, "alice", "100", 6)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	err = repo.RateBook(ctx, "alice", "100", 0)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	require.NoError(t, db.Where("username = ? AND isbn = ?", "alice", "100").Find(&ratings).Error)
	assert.Equal(t, 5, ratings[0].Stars)

	err = repo.RateBook(ctx, "alice", "999", 4)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestRepository_RateBook_Concurrent(t *testing.T) {
	repo, db := setupTestRepo(t, fixedRandom{})
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(stars int) {
			defer wg.Done()
			if err := repo.RateBook(ctx, "alice", "200", stars); err != nil {
				t.Errorf("RateBook(%d): %v", stars, err)
			}
		}(i%MaxStars + 1)
	}
	wg.Wait()

	var ratings []entities.Rating
	require.NoError(t, db.Where("username = ? AND isbn = ?", "alice", "200").Find(&ratings).Error)
	require.Len(t, ratings, 1)
	assert.GreaterOrEqual(t, ratings[0].Stars, MinStars)
	assert.LessOrEqual(t, ratings[0].Stars, MaxStars)
}

func TestRepository_ReadBook(t *testing.T) {
	repo, db := setupTestRepo(t, fixedRandom{n: 45})
	ctx := context.Background()

	session, err := repo.ReadBook(ctx, "alice", "100", 10, 50)

	require.NoError(t, err)
	assert.Equal(t, fixedNow, session.StartTime)
	assert.Equal(t, fixedNow.Add(60*time.Minute), session.EndTime)
	assert.Equal(t, 10, session.StartPage)
	assert.Equal(t, 50, session.EndPage)

	_, err = repo.ReadBook(ctx, "alice", "100", 50, 10)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = repo.ReadBook(ctx, "alice", "999", 1, 2)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	assert.Equal(t, int64(1), dbtest.Count(t, db, &entities.Reading{}, ""))
}

func TestRepository_Duration(t *testing.T) {
	low, _ := setupTestRepo(t, fixedRandom{n: 0})
	assert.Equal(t, 15*time.Minute, low.Duration())

	high, _ := setupTestRepo(t, fixedRandom{n: 1 << 30})
	assert.Equal(t, 300*time.Minute, high.Duration())

	repo, _ := setupTestRepo(t, NewRandom())
	for i := 0; i < 50; i++ {
		d := repo.Duration()
		assert.GreaterOrEqual(t, d, 15*time.Minute)
		assert.LessOrEqual(t, d, 300*time.Minute)
	}
}

func TestRepository_ReadRandomFromCollection(t *testing.T) {
	repo, db := setupTestRepo(t, fixedRandom{n: 1})
	ctx := context.Background()
	colls := collections.NewRepository(db, nil)

	_, err := colls.CreateCollection(ctx, "alice", "empty", nil)
	require.NoError(t, err)
	_, err = colls.CreateCollection(ctx, "alice", "shelf", []string{"300", "100", "200"})
	require.NoError(t, err)

	t.Run("empty collection logs nothing", func(t *testing.T) {
		_, err := repo.ReadRandomFromCollection(ctx, "alice", "empty", 0, 10)

		assert.True(t, errors.Is(err, errors.ErrNotFound))
		assert.Zero(t, dbtest.Count(t, db, &entities.Reading{}, ""))
	})

	t.Run("missing collection", func(t *testing.T) {
		_, err := repo.ReadRandomFromCollection(ctx, "alice", "nope", 0, 10)

		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})

	t.Run("picks by isbn order", func(t *testing.T) {
		got, err := repo.ReadRandomFromCollection(ctx, "alice", "shelf", 0, 10)

		require.NoError(t, err)
		assert.Equal(t, "Circe", got.Title)
		assert.Equal(t, "200", got.Session.ISBN)
		assert.Equal(t, int64(1), dbtest.Count(t, db, &entities.Reading{}, "isbn = ?", "200"))
	})
}

func TestRepository_GetTopBooks(t *testing.T) {
	repo, _ := setupTestRepo(t, fixedRandom{})
	ctx := context.Background()

	for _, r := range []struct {
		isbn       string
		start, end int
	}{
		{"100", 0, 30},
		{"100", 30, 50},
		{"200", 0, 50},
		{"300", 0, 80},
	} {
		_, err := repo.ReadBook(ctx, "alice", r.isbn, r.start, r.end)
		require.NoError(t, err)
	}

	top, err := repo.GetTopBooks(ctx, "alice", 0)

	require.NoError(t, err)
	assert.Equal(t, []entities.BookPages{
		{ISBN: "300", Title: "Beloved", PagesRead: 80},
		{ISBN: "200", Title: "Circe", PagesRead: 50},
		{ISBN: "100", Title: "Piranesi", PagesRead: 50},
	}, top)

	limited, err := repo.GetTopBooks(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := repo.GetTopBooks(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}
