// Package reports implements the cross-cutting rankings: top recent books,
// new releases and recommendations.
//
// Ranking formulas:
//
//   - TopRecentBooks: total pages read in sessions started within the window
//     by readers in scope. Ties by title, then isbn.
//   - TopNewReleases: books released in the current calendar month, by
//     average stars, then number of ratings, then title and isbn. Unrated
//     books come last.
//   - Recommendations: 2 points per followee who rated the book 4+ or read
//     it, plus 1 point per genre of the book that the user has rated a book
//     4+ in. Books the user already read or rated are excluded, as are
//     books scoring zero.
package reports

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/badreads/badreads/internal/database/social"
	"github.com/badreads/badreads/internal/entities"
	"github.com/badreads/badreads/internal/errors"
)

const (
	DefaultWindowDays       = 90
	DefaultTopRecentLimit   = 10
	DefaultNewReleasesLimit = 5
	DefaultRecommendLimit   = 10

	likedStars     = 4
	followeeWeight = 2
)

// Scope selects whose reading counts towards TopRecentBooks.
type Scope struct {
	followersOf string
}

// AllUsers counts every reader.
func AllUsers() Scope { return Scope{} }

// FollowersOf counts only the readers who follow username.
func FollowersOf(username string) Scope { return Scope{followersOf: username} }

// Username returns the followed user, or "" for AllUsers.
func (s Scope) Username() string { return s.followersOf }

type Repository struct {
	db    *gorm.DB
	clock func() time.Time
}

func NewRepository(db *gorm.DB, clock func() time.Time) *Repository {
	if clock == nil {
		clock = time.Now
	}
	return &Repository{db: db, clock: clock}
}

// TopRecentBooks ranks books by pages read within the last windowDays.
func (r *Repository) TopRecentBooks(ctx context.Context, scope Scope, windowDays, limit int) ([]entities.BookPages, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if limit <= 0 {
		limit = DefaultTopRecentLimit
	}
	since := r.clock().UTC().AddDate(0, 0, -windowDays)

	db := r.db.WithContext(ctx)
	query := db.Table("reads").
		Select("book.isbn AS isbn, book.title AS title, SUM(reads.end_page - reads.start_page) AS pages_read").
		Joins("JOIN book ON book.isbn = reads.isbn").
		Where("reads.start_time >= ?", since)
	if scope.followersOf != "" {
		query = query.Where("reads.username IN (?)", social.FollowersOf(db, scope.followersOf))
	}

	rows := []entities.BookPages{}
	err := query.
		Group("book.isbn, book.title").
		Order("pages_read DESC, book.title ASC, book.isbn ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Storage(err)
	}
	return rows, nil
}

// TopNewReleases ranks this month's releases by average rating.
func (r *Repository) TopNewReleases(ctx context.Context, limit int) ([]entities.RankedBook, error) {
	if limit <= 0 {
		limit = DefaultNewReleasesLimit
	}
	now := r.clock().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	rows := []entities.RankedBook{}
	err := r.db.WithContext(ctx).
		Table("book").
		Select("book.isbn AS isbn, book.title AS title, COALESCE(AVG(rates.stars), 0) AS score").
		Joins("LEFT JOIN rates ON rates.isbn = book.isbn").
		Where("book.release_date >= ? AND book.release_date < ?", monthStart, monthStart.AddDate(0, 1, 0)).
		Group("book.isbn, book.title").
		Order("COUNT(rates.stars) = 0 ASC, score DESC, COUNT(rates.stars) DESC, book.title ASC, book.isbn ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Storage(err)
	}
	return rows, nil
}

type isbnCount struct {
	ISBN  string
	Count int64
}

// Recommendations returns books username has not read or rated, scored by
// followee activity and genre affinity.
func (r *Repository) Recommendations(ctx context.Context, username string, limit int) ([]entities.RankedBook, error) {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}
	db := r.db.WithContext(ctx)
	scores := make(map[string]float64)

	var fromFollowees []isbnCount
	err := db.Raw(`
		SELECT isbn, COUNT(DISTINCT username) AS count FROM (
			SELECT username, isbn FROM rates WHERE stars >= ? AND username IN (?)
			UNION
			SELECT username, isbn FROM reads WHERE username IN (?)
		) GROUP BY isbn`,
		likedStars, social.Followees(db, username), social.Followees(db, username)).
		Scan(&fromFollowees).Error
	if err != nil {
		return nil, errors.Storage(err)
	}
	for _, row := range fromFollowees {
		scores[row.ISBN] += followeeWeight * float64(row.Count)
	}

	var affinity []isbnCount
	err = db.Raw(`
		SELECT isbn, COUNT(*) AS count FROM category
		WHERE genre_id IN (
			SELECT DISTINCT category.genre_id FROM category
			JOIN rates ON rates.isbn = category.isbn
			WHERE rates.username = ? AND rates.stars >= ?
		)
		GROUP BY isbn`,
		username, likedStars).
		Scan(&affinity).Error
	if err != nil {
		return nil, errors.Storage(err)
	}
	for _, row := range affinity {
		scores[row.ISBN] += float64(row.Count)
	}

	var seen []string
	err = db.Raw(`SELECT isbn FROM reads WHERE username = ? UNION SELECT isbn FROM rates WHERE username = ?`,
		username, username).Scan(&seen).Error
	if err != nil {
		return nil, errors.Storage(err)
	}
	for _, isbn := range seen {
		delete(scores, isbn)
	}

	candidates := make([]string, 0, len(scores))
	for isbn, score := range scores {
		if score > 0 {
			candidates = append(candidates, isbn)
		}
	}
	if len(candidates) == 0 {
		return []entities.RankedBook{}, nil
	}

	var books []entities.Book
	if err := db.Select("isbn", "title").Where("isbn IN ?", candidates).Find(&books).Error; err != nil {
		return nil, errors.Storage(err)
	}

	ranked := make([]entities.RankedBook, len(books))
	for i, b := range books {
		ranked[i] = entities.RankedBook{ISBN: b.ISBN, Title: b.Title, Score: scores[b.ISBN]}
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ISBN < b.ISBN
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

