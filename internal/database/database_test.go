package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badreads/badreads/internal/config"
	"github.com/badreads/badreads/internal/entities"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(config.Database{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		BusyTimeout: time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"app.db?_journal=WAL&_busy_timeout=2000&_foreign_keys=on&_txlock=immediate",
		DSN("app.db", 2*time.Second))
	assert.Equal(t,
		"file:app.db?mode=rwc&_journal=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate",
		DSN("file:app.db?mode=rwc", 0))
}

func TestDatabaseInitialization(t *testing.T) {
	db := setupTestDB(t)

	for _, model := range Models {
		assert.True(t, db.DB.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.NoError(t, db.Ping())

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping())
}

func TestForeignKeysEnforced(t *testing.T) {
	db := setupTestDB(t)

	err := db.DB.Create(&entities.Follow{Follower: "ghost", Followee: "nobody"}).Error
	assert.Error(t, err)
}

func foreignKeyTargets(t *testing.T, db *Database, table string) []string {
	t.Helper()

	var targets []string
	require.NoError(t, db.DB.Raw(`SELECT "table" FROM pragma_foreign_key_list(?) ORDER BY "table"`, table).Scan(&targets).Error)
	return targets
}

func TestSchemaForeignKeys(t *testing.T) {
	db := setupTestDB(t)

	// Parent tables reference nothing.
	assert.Empty(t, foreignKeyTargets(t, db, "users"))
	assert.Empty(t, foreignKeyTargets(t, db, "book"))

	tests := []struct {
		table string
		want  []string
	}{
		{"reads", []string{"book", "users"}},
		{"rates", []string{"book", "users"}},
		{"follows", []string{"users", "users"}},
		{"collections", []string{"users"}},
		{"creates", []string{"collections", "users"}},
		{"belongs_to", []string{"book", "collections"}},
		{"authors", []string{"book", "contributor"}},
		{"publishes", []string{"book", "contributor"}},
		{"category", []string{"book", "genre"}},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.want, foreignKeyTargets(t, db, tt.table))
		})
	}
}

func TestInsertParentsAndChildren(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.DB.Create(&entities.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}).Error)
	require.NoError(t, db.DB.Create(&entities.Book{ISBN: "0001", Title: "Dune"}).Error)
	require.NoError(t, db.DB.Create(&entities.Rating{Username: "alice", ISBN: "0001", Stars: 4}).Error)
	require.NoError(t, db.DB.Create(&entities.Reading{
		Username: "alice", ISBN: "0001",
		StartTime: time.Now(), EndTime: time.Now().Add(time.Hour),
		StartPage: 1, EndPage: 20,
	}).Error)

	err := db.DB.Create(&entities.Rating{Username: "ghost", ISBN: "0001", Stars: 4}).Error
	assert.Error(t, err, "rating for an unknown user must violate the foreign key")
}

func TestUniqueViolation(t *testing.T) {
	db := setupTestDB(t)

	user := entities.User{Username: "alice", Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.DB.Create(&user).Error)

	dupEmail := entities.User{Username: "alice2", Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	err := db.DB.Create(&dupEmail).Error
	require.Error(t, err)

	cols, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Contains(t, cols, "users.email")
	assert.True(t, ViolatesColumn(err, "users", "email"))
	assert.False(t, ViolatesColumn(err, "users", "username"))

	_, ok = UniqueViolation(assert.AnError)
	assert.False(t, ok)
}
