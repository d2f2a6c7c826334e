// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, DSN, migrations
//	├── constraint.go    # SQLite constraint-violation inspection
//	├── dbtest/          # Throwaway SQLite databases and fixtures for tests
//	├── accounts/        # Users, credential check and touch
//	├── social/          # Follow edges
//	├── catalog/         # Books, contributors, genres, search
//	├── collections/     # Owned book collections and membership
//	├── reading/         # Ratings and the reading log
//	└── reports/         # Aggregations over the stores above
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(cfg.Database, logger)
//
//	books := catalog.NewRepository(db.DB)
//	shelves := collections.NewRepository(db.DB, time.Now)
//
//	detail, err := books.GetBook(ctx, "9780441013593", "alice")
//
// Every method takes a context.Context and runs with db.WithContext(ctx).
// Multi-statement mutations run inside a single db.Transaction so a failure
// or cancellation leaves no partial rows behind.
//
// # Errors
//
// Repositories return errors from internal/errors: NOT_FOUND, VALIDATION and
// CONFLICT for domain outcomes, STORAGE for driver failures. Constraint
// violations are translated with UniqueViolation.
//
// # Interface Implementations
//
// The interfaces the HTTP layer consumes live in internal/services and the
// compile-time checks in internal/interfaces.
package database
