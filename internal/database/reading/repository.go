// Package reading stores ratings and the append-only reading-session log.
//
// # Usage
//
//	repo := reading.NewRepository(db, reading.Options{
//	    Clock:  time.Now,
//	    Random: reading.NewRandom(),
//	    Range:  reading.DurationRange{Min: 15 * time.Minute, Max: 300 * time.Minute},
//	})
//	session, err := repo.ReadBook(ctx, username, isbn, 10, 42)
package reading

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/badreads/badreads/internal/database/catalog"
	"github.com/badreads/badreads/internal/database/collections"
	"github.com/badreads/badreads/internal/entities"
	"github.com/badreads/badreads/internal/errors"
)

const (
	MinStars = 1
	MaxStars = 5

	// DefaultTopBooksLimit applies when GetTopBooks is called with limit <= 0.
	DefaultTopBooksLimit = 10
)

// Random picks an integer in [0, n).
type Random interface {
	IntN(n int) int
}

type lockedRandom struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom returns a goroutine-safe Random seeded from the runtime.
func NewRandom() Random {
	return &lockedRandom{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

func (l *lockedRandom) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.IntN(n)
}

// DurationRange bounds the length of a logged reading session.
type DurationRange struct {
	Min time.Duration
	Max time.Duration
}

// Options configures a Repository. Zero values fall back to time.Now, a
// runtime-seeded Random and 15 to 300 minutes.
type Options struct {
	Clock  func() time.Time
	Random Random
	Range  DurationRange
}

type Repository struct {
	db     *gorm.DB
	clock  func() time.Time
	random Random
	rng    DurationRange
}

func NewRepository(db *gorm.DB, opts Options) *Repository {
	r := &Repository{db: db, clock: opts.Clock, random: opts.Random, rng: opts.Range}
	if r.clock == nil {
		r.clock = time.Now
	}
	if r.random == nil {
		r.random = NewRandom()
	}
	if r.rng.Min <= 0 && r.rng.Max <= 0 {
		r.rng = DurationRange{Min: 15 * time.Minute, Max: 300 * time.Minute}
	}
	if r.rng.Max < r.rng.Min {
		r.rng.Max = r.rng.Min
	}
	return r
}

// RateBook inserts or overwrites username's rating for isbn.
func (r *Repository) RateBook(ctx context.Context, username, isbn string, stars int) error {
	if stars < MinStars || stars > MaxStars {
		return errors.Validation("stars must be between %d and %d, got %d", MinStars, MaxStars, stars)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireBook(tx, isbn); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}, {Name: "isbn"}},
			DoUpdates: clause.AssignmentColumns([]string{"stars", "updated_at"}),
		}).Create(&entities.Rating{
			Username:  username,
			ISBN:      isbn,
			Stars:     stars,
			UpdatedAt: r.clock().UTC(),
		}).Error
	})
	return errors.Storage(err)
}

// ReadBook appends a reading session for isbn starting now.
func (r *Repository) ReadBook(ctx context.Context, username, isbn string, startPage, endPage int) (*entities.Reading, error) {
	if err := validatePages(startPage, endPage); err != nil {
		return nil, err
	}

	var session *entities.Reading
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireBook(tx, isbn); err != nil {
			return err
		}
		var err error
		session, err = r.logSession(tx, username, isbn, startPage, endPage)
		return err
	})
	if err != nil {
		return nil, errors.Storage(err)
	}
	return session, nil
}

// RandomRead is the outcome of ReadRandomFromCollection.
type RandomRead struct {
	Title   string            `json:"title"`
	Session *entities.Reading `json:"session"`
}

// ReadRandomFromCollection picks one member of owner's collection uniformly
// at random and logs a session for it. The pick is only reported if the
// session row commits.
func (r *Repository) ReadRandomFromCollection(ctx context.Context, owner, name string, startPage, endPage int) (*RandomRead, error) {
	if err := validatePages(startPage, endPage); err != nil {
		return nil, err
	}

	var result RandomRead
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := collections.FindOwned(tx, owner, name)
		if err != nil {
			return err
		}

		var members []entities.Book
		err = tx.Model(&entities.Book{}).
			Joins("JOIN belongs_to ON belongs_to.isbn = book.isbn").
			Where("belongs_to.collection_id = ?", c.ID).
			Order("book.isbn ASC").
			Find(&members).Error
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return errors.NotFound("books in collection", name)
		}

		pick := members[r.random.IntN(len(members))]
		session, err := r.logSession(tx, owner, pick.ISBN, startPage, endPage)
		if err != nil {
			return err
		}
		result = RandomRead{Title: pick.Title, Session: session}
		return nil
	})
	if err != nil {
		return nil, errors.Storage(err)
	}
	return &result, nil
}

// GetTopBooks ranks the books username has read by total pages, ties by
// title then isbn.
func (r *Repository) GetTopBooks(ctx context.Context, username string, limit int) ([]entities.BookPages, error) {
	if limit <= 0 {
		limit = DefaultTopBooksLimit
	}

	rows := []entities.BookPages{}
	err := r.db.WithContext(ctx).
		Table("reads").
		Select("book.isbn AS isbn, book.title AS title, SUM(reads.end_page - reads.start_page) AS pages_read").
		Joins("JOIN book ON book.isbn = reads.isbn").
		Where("reads.username = ?", username).
		Group("book.isbn, book.title").
		Order("pages_read DESC, book.title ASC, book.isbn ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Storage(err)
	}
	return rows, nil
}

// Duration draws a session length: Min plus a whole number of minutes, so
// the result never exceeds Max.
func (r *Repository) Duration() time.Duration {
	span := int((r.rng.Max - r.rng.Min) / time.Minute)
	return r.rng.Min + time.Duration(r.random.IntN(span+1))*time.Minute
}

func (r *Repository) logSession(tx *gorm.DB, username, isbn string, startPage, endPage int) (*entities.Reading, error) {
	start := r.clock().UTC()
	session := &entities.Reading{
		Username:  username,
		ISBN:      isbn,
		StartTime: start,
		EndTime:   start.Add(r.Duration()),
		StartPage: startPage,
		EndPage:   endPage,
	}
	if err := tx.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func validatePages(startPage, endPage int) error {
	if startPage < 0 {
		return errors.Validation("start page must not be negative")
	}
	if startPage > endPage {
		return errors.Validation("start page %d is after end page %d", startPage, endPage)
	}
	return nil
}

func requireBook(tx *gorm.DB, isbn string) error {
	missing, err := catalog.MissingISBNs(tx, []string{isbn})
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return errors.NotFound("book", isbn)
	}
	return nil
}
