// Package catalog provides read access to books, contributors and genres,
// book detail assembly and search.
//
// # Usage
//
//	repo := catalog.NewRepository(db)
//	detail, err := repo.GetBook(ctx, isbn, viewer)
//	results, err := repo.SearchBooks(ctx, catalog.SearchQuery{Method: catalog.SearchByName, Value: "dune", Ascending: true})
package catalog

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/badreads/badreads/internal/entities"
	"github.com/badreads/badreads/internal/errors"
)

// Repository handles catalog reads.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBook returns the detail record for isbn, with viewer's rating attached
// when viewer is non-empty.
func (r *Repository) GetBook(ctx context.Context, isbn, viewer string) (*entities.BookDetail, error) {
	details, err := LoadDetails(r.db.WithContext(ctx), []string{isbn}, viewer)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, errors.NotFound("book", isbn)
	}
	return &details[0], nil
}

// Details returns detail records for isbns in the given order. Unknown isbns
// are skipped.
func (r *Repository) Details(ctx context.Context, isbns []string, viewer string) ([]entities.BookDetail, error) {
	return LoadDetails(r.db.WithContext(ctx), isbns, viewer)
}

// SearchBooks runs a search. Results are ordered by the chosen key and then by
// isbn ascending so equal keys have a stable order.
func (r *Repository) SearchBooks(ctx context.Context, q SearchQuery) ([]entities.BookDetail, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&entities.Book{})

	switch q.Method {
	case SearchByName:
		query = query.Where(`unicode_lower(book.title) LIKE ? ESCAPE '\'`, containsPattern(q.Value))
	case SearchByReleaseDate:
		day, err := time.Parse(time.DateOnly, q.Value)
		if err != nil {
			return nil, errors.Validation("release date must be YYYY-MM-DD, got %q", q.Value)
		}
		query = query.Where("book.release_date >= ? AND book.release_date < ?", day, day.AddDate(0, 0, 1))
	case SearchByAuthor:
		query = query.Where("book.isbn IN (?)", db.Table("authors").
			Select("authors.isbn").
			Joins("JOIN contributor ON contributor.id = authors.contributor_id").
			Where("contributor.name = ?", q.Value))
	case SearchByPublisher:
		query = query.Where("book.isbn IN (?)", db.Table("publishes").
			Select("publishes.isbn").
			Joins("JOIN contributor ON contributor.id = publishes.contributor_id").
			Where("contributor.name = ?", q.Value))
	case SearchByGenre:
		query = query.Where("book.isbn IN (?)", db.Table("category").
			Select("category.isbn").
			Joins("JOIN genre ON genre.id = category.genre_id").
			Where("genre.name = ?", q.Value))
	default:
		return nil, errors.Validation("unknown search method %d", int(q.Method))
	}

	var isbns []string
	err := query.
		Order(orderExpr(q.SortBy, q.Ascending)).
		Order("book.isbn ASC").
		Pluck("book.isbn", &isbns).Error
	if err != nil {
		return nil, errors.Storage(err)
	}

	return LoadDetails(db, isbns, q.Viewer)
}

// Exists reports whether a book with isbn is in the catalog.
func (r *Repository) Exists(ctx context.Context, isbn string) (bool, error) {
	missing, err := MissingISBNs(r.db.WithContext(ctx), []string{isbn})
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

// MissingISBNs returns the members of isbns that are not in the catalog, in
// input order. It runs on tx so callers can use it inside a transaction.
func MissingISBNs(tx *gorm.DB, isbns []string) ([]string, error) {
	if len(isbns) == 0 {
		return nil, nil
	}

	var found []string
	if err := tx.Model(&entities.Book{}).Where("isbn IN ?", isbns).Pluck("isbn", &found).Error; err != nil {
		return nil, errors.Storage(err)
	}

	known := make(map[string]bool, len(found))
	for _, isbn := range found {
		known[isbn] = true
	}

	var missing []string
	for _, isbn := range isbns {
		if !known[isbn] {
			missing = append(missing, isbn)
		}
	}
	return missing, nil
}

type nameRow struct {
	ISBN string
	Name string
}

// LoadDetails assembles detail records for isbns, preserving input order.
func LoadDetails(tx *gorm.DB, isbns []string, viewer string) ([]entities.BookDetail, error) {
	if len(isbns) == 0 {
		return []entities.BookDetail{}, nil
	}

	var books []entities.Book
	if err := tx.Where("isbn IN ?", isbns).Find(&books).Error; err != nil {
		return nil, errors.Storage(err)
	}
	byISBN := make(map[string]entities.Book, len(books))
	for _, b := range books {
		byISBN[b.ISBN] = b
	}

	authors, err := loadNames(tx, "authors", "contributor", "contributor_id", isbns)
	if err != nil {
		return nil, err
	}
	publishers, err := loadNames(tx, "publishes", "contributor", "contributor_id", isbns)
	if err != nil {
		return nil, err
	}
	genres, err := loadNames(tx, "category", "genre", "genre_id", isbns)
	if err != nil {
		return nil, err
	}

	ratings := make(map[string]int)
	if viewer != "" {
		var rows []entities.Rating
		if err := tx.Where("username = ? AND isbn IN ?", viewer, isbns).Find(&rows).Error; err != nil {
			return nil, errors.Storage(err)
		}
		for _, row := range rows {
			ratings[row.ISBN] = row.Stars
		}
	}

	details := make([]entities.BookDetail, 0, len(isbns))
	for _, isbn := range isbns {
		b, ok := byISBN[isbn]
		if !ok {
			continue
		}
		detail := entities.BookDetail{
			ISBN:        b.ISBN,
			Title:       b.Title,
			Authors:     sortedUnique(authors[isbn]),
			Publishers:  sortedUnique(publishers[isbn]),
			Genres:      sortedUnique(genres[isbn]),
			Length:      b.Length,
			Audience:    entities.AudienceFromCode(b.Audience),
			ReleaseDate: b.ReleaseDate,
		}
		if stars, ok := ratings[isbn]; ok {
			detail.UserRating = &stars
		}
		details = append(details, detail)
	}
	return details, nil
}

// loadNames maps isbn to the names reachable through a join table.
func loadNames(tx *gorm.DB, joinTable, nameTable, fk string, isbns []string) (map[string][]string, error) {
	var rows []nameRow
	err := tx.Table(joinTable).
		Select(joinTable+".isbn AS isbn, "+nameTable+".name AS name").
		Joins("JOIN "+nameTable+" ON "+nameTable+".id = "+joinTable+"."+fk).
		Where(joinTable+".isbn IN ?", isbns).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Storage(err)
	}

	names := make(map[string][]string)
	for _, row := range rows {
		names[row.ISBN] = append(names[row.ISBN], row.Name)
	}
	return names, nil
}

func sortedUnique(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
