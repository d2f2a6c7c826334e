// Package dbtest provides throwaway SQLite databases and fixtures for
// repository and handler tests.
package dbtest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/badreads/badreads/internal/database"
	"github.com/badreads/badreads/internal/entities"
)

// New opens a migrated database in the test's temp dir and closes it on cleanup.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(path, 5*time.Second, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// User inserts a user with a placeholder hash.
func User(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()

	user := &entities.User{
		Username:     username,
		Name:         username,
		Email:        username + "@example.com",
		PasswordHash: "hash-" + username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Book describes a catalog fixture.
type Book struct {
	ISBN        string
	Title       string
	Length      int
	Audience    entities.Audience
	ReleaseDate time.Time
	Authors     []string
	Publishers  []string
	Genres      []string
}

// InsertBook inserts a book along with its contributors and genres.
func InsertBook(t *testing.T, db *gorm.DB, b Book) {
	t.Helper()

	require.NoError(t, db.Create(&entities.Book{
		ISBN:        b.ISBN,
		Title:       b.Title,
		Length:      b.Length,
		Audience:    int(b.Audience),
		ReleaseDate: b.ReleaseDate.UTC(),
	}).Error)

	for _, name := range b.Authors {
		c := contributor(t, db, name)
		require.NoError(t, db.Create(&entities.Authorship{ISBN: b.ISBN, ContributorID: c.ID}).Error)
	}
	for _, name := range b.Publishers {
		c := contributor(t, db, name)
		require.NoError(t, db.Create(&entities.Publication{ISBN: b.ISBN, ContributorID: c.ID}).Error)
	}
	for _, name := range b.Genres {
		g := entities.Genre{Name: name}
		require.NoError(t, db.Where("name = ?", name).FirstOrCreate(&g).Error)
		require.NoError(t, db.Create(&entities.Category{ISBN: b.ISBN, GenreID: g.ID}).Error)
	}
}

func contributor(t *testing.T, db *gorm.DB, name string) entities.Contributor {
	t.Helper()

	c := entities.Contributor{Name: name}
	require.NoError(t, db.Where("name = ?", name).FirstOrCreate(&c).Error)
	return c
}

// Date returns midnight UTC for the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Count returns the number of rows in a table matching an optional condition.
func Count(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()

	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
