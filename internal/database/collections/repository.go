// Package collections manages named, owned sets of books.
//
// Every mutation runs in one transaction. A failure at any step rolls back
// the collection row, the ownership link and every membership row together.
package collections

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/badreads/badreads/internal/database"
	"github.com/badreads/badreads/internal/database/catalog"
	"github.com/badreads/badreads/internal/entities"
	"github.com/badreads/badreads/internal/errors"
)

// MaxNameLength bounds collection names.
const MaxNameLength = 128

type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB, now func() time.Time) *Repository {
	if now == nil {
		now = time.Now
	}
	return &Repository{db: db, now: now}
}

// CreateCollection creates name for owner with the initial isbns.
func (r *Repository) CreateCollection(ctx context.Context, owner, name string, isbns []string) (*entities.Collection, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	isbns = dedupe(isbns)

	collection := &entities.Collection{Name: name, Owner: owner, CreatedAt: r.now().UTC()}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireBooks(tx, isbns); err != nil {
			return err
		}
		if err := tx.Create(collection).Error; err != nil {
			if _, dup := database.UniqueViolation(err); dup {
				return duplicateName(name)
			}
			return err
		}
		if err := tx.Create(&entities.Creates{CollectionID: collection.ID, Username: owner}).Error; err != nil {
			return err
		}
		return insertMembers(tx, collection.ID, isbns)
	})
	if err != nil {
		return nil, errors.Storage(err)
	}
	return collection, nil
}

// AddBooks adds isbns to owner's collection. Books that are already members
// are left alone. An unknown isbn aborts the whole call.
func (r *Repository) AddBooks(ctx context.Context, owner, name string, isbns []string) error {
	isbns = dedupe(isbns)
	if len(isbns) == 0 {
		return errors.Validation("no books given")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findOwned(tx, owner, name)
		if err != nil {
			return err
		}
		if err := requireBooks(tx, isbns); err != nil {
			return err
		}
		return insertMembers(tx, c.ID, isbns)
	})
	return errors.Storage(err)
}

// RemoveBooks removes isbns from owner's collection. If any isbn is not a
// member nothing is removed.
func (r *Repository) RemoveBooks(ctx context.Context, owner, name string, isbns []string) error {
	isbns = dedupe(isbns)
	if len(isbns) == 0 {
		return errors.Validation("no books given")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findOwned(tx, owner, name)
		if err != nil {
			return err
		}

		var members []string
		err = tx.Model(&entities.BelongsTo{}).
			Where("collection_id = ? AND isbn IN ?", c.ID, isbns).
			Pluck("isbn", &members).Error
		if err != nil {
			return err
		}
		if len(members) != len(isbns) {
			return errors.NotFound("collection member", firstAbsent(isbns, members))
		}
		return tx.Where("collection_id = ? AND isbn IN ?", c.ID, isbns).Delete(&entities.BelongsTo{}).Error
	})
	return errors.Storage(err)
}

// RenameCollection renames owner's collection from current to next.
func (r *Repository) RenameCollection(ctx context.Context, owner, current, next string) error {
	if err := validateName(next); err != nil {
		return err
	}
	if current == next {
		return errors.Conflict(errors.ReasonSameName, "collection is already named %q", next)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findOwned(tx, owner, current)
		if err != nil {
			return err
		}
		err = tx.Model(&entities.Collection{}).Where("id = ?", c.ID).Update("name", next).Error
		if _, dup := database.UniqueViolation(err); dup {
			return duplicateName(next)
		}
		return err
	})
	return errors.Storage(err)
}

// DeleteCollection removes memberships, the ownership link and the collection.
func (r *Repository) DeleteCollection(ctx context.Context, owner, name string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findOwned(tx, owner, name)
		if err != nil {
			return err
		}
		if err := tx.Where("collection_id = ?", c.ID).Delete(&entities.BelongsTo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("collection_id = ?", c.ID).Delete(&entities.Creates{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Collection{}, c.ID).Error
	})
	return errors.Storage(err)
}

// ListCollections returns username's collections with book count and total
// pages, sorted by name. No collections yields an empty slice.
func (r *Repository) ListCollections(ctx context.Context, username string) ([]entities.CollectionSummary, error) {
	summaries := []entities.CollectionSummary{}
	err := r.db.WithContext(ctx).
		Table("collections").
		Select("collections.name AS name, COUNT(book.isbn) AS book_count, COALESCE(SUM(book.length), 0) AS total_pages").
		Joins("LEFT JOIN belongs_to ON belongs_to.collection_id = collections.id").
		Joins("LEFT JOIN book ON book.isbn = belongs_to.isbn").
		Where("collections.owner = ?", username).
		Group("collections.id, collections.name").
		Order("collections.name ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, errors.Storage(err)
	}
	return summaries, nil
}

// GetCollectionContents returns the member books of owner's collection,
// ordered by title then isbn, with the owner's ratings attached.
func (r *Repository) GetCollectionContents(ctx context.Context, owner, name string) ([]entities.BookDetail, error) {
	var details []entities.BookDetail
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findOwned(tx, owner, name)
		if err != nil {
			return err
		}

		var isbns []string
		err = tx.Model(&entities.BelongsTo{}).
			Joins("JOIN book ON book.isbn = belongs_to.isbn").
			Where("belongs_to.collection_id = ?", c.ID).
			Order("book.title ASC, book.isbn ASC").
			Pluck("belongs_to.isbn", &isbns).Error
		if err != nil {
			return err
		}

		details, err = catalog.LoadDetails(tx, isbns, owner)
		return err
	})
	if err != nil {
		return nil, errors.Storage(err)
	}
	return details, nil
}

// FindOwned returns owner's collection called name, or NotFound. It runs on
// tx so other stores can use it inside their own transactions.
func FindOwned(tx *gorm.DB, owner, name string) (*entities.Collection, error) {
	return findOwned(tx, owner, name)
}

func findOwned(tx *gorm.DB, owner, name string) (*entities.Collection, error) {
	var c entities.Collection
	err := tx.Where("owner = ? AND name = ?", owner, name).First(&c).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("collection", name)
		}
		return nil, err
	}
	return &c, nil
}

func requireBooks(tx *gorm.DB, isbns []string) error {
	missing, err := catalog.MissingISBNs(tx, isbns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return errors.NotFound("book", missing[0])
	}
	return nil
}

func insertMembers(tx *gorm.DB, id uint, isbns []string) error {
	if len(isbns) == 0 {
		return nil
	}
	rows := make([]entities.BelongsTo, len(isbns))
	for i, isbn := range isbns {
		rows[i] = entities.BelongsTo{CollectionID: id, ISBN: isbn}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.Validation("collection name is required")
	}
	if trimmed != name {
		return errors.Validation("collection name must not start or end with whitespace")
	}
	if len(name) > MaxNameLength {
		return errors.Validation("collection name exceeds %d characters", MaxNameLength)
	}
	return nil
}

func duplicateName(name string) error {
	return errors.Conflict(errors.ReasonDuplicateCollection, "you already have a collection named %q", name)
}

func dedupe(isbns []string) []string {
	out := make([]string, 0, len(isbns))
	seen := make(map[string]bool, len(isbns))
	for _, isbn := range isbns {
		if !seen[isbn] {
			seen[isbn] = true
			out = append(out, isbn)
		}
	}
	return out
}

func firstAbsent(want, have []string) string {
	present := make(map[string]bool, len(have))
	for _, h := range have {
		present[h] = true
	}
	for _, w := range want {
		if !present[w] {
			return w
		}
	}
	return ""
}
