// Package services declares the store interfaces the presentation layer
// consumes. Concrete implementations live under internal/database and
// internal/auth; internal/interfaces checks them at compile time.
package services

import (
	"context"

	"github.com/badreads/badreads/internal/auth"
	"github.com/badreads/badreads/internal/database/catalog"
	"github.com/badreads/badreads/internal/database/reading"
	"github.com/badreads/badreads/internal/database/reports"
	"github.com/badreads/badreads/internal/entities"
)

// Authenticator creates accounts and opens and closes sessions.
type Authenticator interface {
	CreateAccount(ctx context.Context, username, name, email, password string) (auth.Session, *entities.User, error)
	Login(ctx context.Context, username, password string) (auth.Session, error)
	Logout(session auth.Session) error
}

// UserReader looks up profiles.
type UserReader interface {
	GetUser(ctx context.Context, username string) (*entities.User, error)
}

// SocialGraph manages follow edges.
type SocialGraph interface {
	Follow(ctx context.Context, follower, followee string) error
	Unfollow(ctx context.Context, follower, followee string) error
	ListFollowers(ctx context.Context, username string) ([]string, error)
	ListFollowing(ctx context.Context, username string) ([]string, error)
}

// Catalog provides book lookup and search.
type Catalog interface {
	GetBook(ctx context.Context, isbn, viewer string) (*entities.BookDetail, error)
	SearchBooks(ctx context.Context, q catalog.SearchQuery) ([]entities.BookDetail, error)
}

// CatalogImporter loads books in bulk.
type CatalogImporter interface {
	ImportBooks(ctx context.Context, records []catalog.BookRecord) (int, error)
}

// Collections manages a user's named book sets.
type Collections interface {
	CreateCollection(ctx context.Context, owner, name string, isbns []string) (*entities.Collection, error)
	AddBooks(ctx context.Context, owner, name string, isbns []string) error
	RemoveBooks(ctx context.Context, owner, name string, isbns []string) error
	RenameCollection(ctx context.Context, owner, current, next string) error
	DeleteCollection(ctx context.Context, owner, name string) error
	ListCollections(ctx context.Context, username string) ([]entities.CollectionSummary, error)
	GetCollectionContents(ctx context.Context, owner, name string) ([]entities.BookDetail, error)
}

// ReadingLog records ratings and reading sessions.
type ReadingLog interface {
	RateBook(ctx context.Context, username, isbn string, stars int) error
	ReadBook(ctx context.Context, username, isbn string, startPage, endPage int) (*entities.Reading, error)
	ReadRandomFromCollection(ctx context.Context, owner, name string, startPage, endPage int) (*reading.RandomRead, error)
	GetTopBooks(ctx context.Context, username string, limit int) ([]entities.BookPages, error)
}

// Aggregator produces the cross-cutting rankings.
type Aggregator interface {
	TopRecentBooks(ctx context.Context, scope reports.Scope, windowDays, limit int) ([]entities.BookPages, error)
	TopNewReleases(ctx context.Context, limit int) ([]entities.RankedBook, error)
	Recommendations(ctx context.Context, username string, limit int) ([]entities.RankedBook, error)
}
