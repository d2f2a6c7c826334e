package catalog

import (
	"strings"

	"github.com/badreads/badreads/internal/errors"
)

// SearchMethod selects the search predicate.
type SearchMethod int

const (
	SearchByName SearchMethod = iota
	SearchByReleaseDate
	SearchByAuthor
	SearchByPublisher
	SearchByGenre
)

func (m SearchMethod) String() string {
	switch m {
	case SearchByName:
		return "name"
	case SearchByReleaseDate:
		return "release_date"
	case SearchByAuthor:
		return "author"
	case SearchByPublisher:
		return "publisher"
	case SearchByGenre:
		return "genre"
	default:
		return "unknown"
	}
}

// ParseSearchMethod parses the textual form of a SearchMethod.
func ParseSearchMethod(s string) (SearchMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "title":
		return SearchByName, nil
	case "release_date", "release":
		return SearchByReleaseDate, nil
	case "author":
		return SearchByAuthor, nil
	case "publisher":
		return SearchByPublisher, nil
	case "genre":
		return SearchByGenre, nil
	default:
		return 0, errors.Validation("unknown search method %q", s)
	}
}

// SortKey selects the primary ordering of search results.
type SortKey int

const (
	SortByName SortKey = iota
	SortByPublisher
	SortByGenre
	SortByReleaseYear
)

func (k SortKey) String() string {
	switch k {
	case SortByName:
		return "name"
	case SortByPublisher:
		return "publisher"
	case SortByGenre:
		return "genre"
	case SortByReleaseYear:
		return "release_year"
	default:
		return "unknown"
	}
}

// ParseSortKey parses the textual form of a SortKey. Empty means SortByName.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name", "title":
		return SortByName, nil
	case "publisher":
		return SortByPublisher, nil
	case "genre":
		return SortByGenre, nil
	case "release_year", "year":
		return SortByReleaseYear, nil
	default:
		return 0, errors.Validation("unknown sort key %q", s)
	}
}

// SearchQuery is a fully validated search request.
type SearchQuery struct {
	Method    SearchMethod
	Value     string
	SortBy    SortKey
	Ascending bool
	Viewer    string // username whose ratings are attached; may be empty
}

// orderExpr returns the ORDER BY expression for the sort key. Expressions come
// from this closed set only, never from caller input.
func orderExpr(key SortKey, ascending bool) string {
	dir := " DESC"
	if ascending {
		dir = " ASC"
	}

	switch key {
	case SortByPublisher:
		return "(SELECT MIN(c.name) FROM publishes p JOIN contributor c ON c.id = p.contributor_id WHERE p.isbn = book.isbn)" + dir
	case SortByGenre:
		return "(SELECT MIN(g.name) FROM category cat JOIN genre g ON g.id = cat.genre_id WHERE cat.isbn = book.isbn)" + dir
	case SortByReleaseYear:
		return "CAST(substr(book.release_date, 1, 4) AS INTEGER)" + dir
	default:
		return "book.title" + dir
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching value as a literal substring.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}
