package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/badreads/badreads/internal/config"
	"github.com/badreads/badreads/internal/entities"
)

// Models lists every table in migration order.
var Models = []any{
	&entities.User{},
	&entities.Follow{},
	&entities.Contributor{},
	&entities.Genre{},
	&entities.Book{},
	&entities.Authorship{},
	&entities.Publication{},
	&entities.Category{},
	&entities.Collection{},
	&entities.Creates{},
	&entities.BelongsTo{},
	&entities.Rating{},
	&entities.Reading{},
}

type Database struct {
	DB *gorm.DB
}

// DSN builds the SQLite connection string. Transactions take the write lock
// at BEGIN so check-then-write units of work serialize instead of failing on
// lock upgrade.
func DSN(path string, busyTimeout time.Duration) string {
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_journal=WAL&_busy_timeout=%d&_foreign_keys=on&_txlock=immediate",
		path, sep, busyTimeout.Milliseconds())
}

// NewDatabase opens the database and migrates the schema.
func NewDatabase(cfg config.Database, log *zap.Logger) (*Database, error) {
	db, err := Open(cfg.Path, cfg.BusyTimeout, log)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if log != nil {
		log.Info("Database initialized", zap.String("path", cfg.Path))
	}

	return &Database{DB: db}, nil
}

// Open connects to SQLite without migrating. gorm logs through log; nil
// discards its output.
func Open(path string, busyTimeout time.Duration, log *zap.Logger) (*gorm.DB, error) {
	dialector := sqlite.New(sqlite.Config{
		DriverName: DriverName,
		DSN:        DSN(path, busyTimeout),
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks connectivity.
func (d *Database) Ping() error {
	return d.PingContext(context.Background())
}

// PingContext checks connectivity, giving up when ctx is done.
func (d *Database) PingContext(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// MissingTables lists the tables of Models that do not exist yet.
func (d *Database) MissingTables(ctx context.Context) ([]string, error) {
	migrator := d.DB.WithContext(ctx).Migrator()
	var missing []string
	for _, model := range Models {
		stmt := &gorm.Statement{DB: d.DB}
		if err := stmt.Parse(model); err != nil {
			return nil, err
		}
		if !migrator.HasTable(stmt.Table) {
			missing = append(missing, stmt.Table)
		}
	}
	return missing, nil
}
