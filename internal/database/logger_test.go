package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/badreads/badreads/internal/entities"
)

func setupLoggedDB(t *testing.T) (*gorm.DB, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	db, err := Open(filepath.Join(t.TempDir(), "logged.db"), time.Second, zap.New(core))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db, logs
}

func TestGormLogger_SkipsExpectedErrors(t *testing.T) {
	db, logs := setupLoggedDB(t)

	user := entities.User{Username: "alice", Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	dup := entities.User{Username: "alice", Name: "Alice", Email: "other@example.com", PasswordHash: "x"}
	require.Error(t, db.Create(&dup).Error)

	var missing entities.User
	require.ErrorIs(t, db.First(&missing, "username = ?", "nobody").Error, gorm.ErrRecordNotFound)

	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestGormLogger_LogsUnexpectedErrors(t *testing.T) {
	db, logs := setupLoggedDB(t)

	require.Error(t, db.Exec("SELECT * FROM no_such_table").Error)

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "query failed", entries[0].Message)
	assert.Equal(t, "gorm", entries[0].LoggerName)
}

func TestGormLogger_LogMode(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core))

	l.LogMode(0).Warn(context.Background(), "hidden")
	assert.Zero(t, logs.Len())

	l.Warn(context.Background(), "shown %d", 1)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown 1", logs.All()[0].Message)
}
