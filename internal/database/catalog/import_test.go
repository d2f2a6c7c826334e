package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badreads/badreads/internal/database/dbtest"
	"github.com/badreads/badreads/internal/entities"
	"github.com/badreads/badreads/internal/errors"
)

func TestRepository_ImportBooks(t *testing.T) {
	db := dbtest.New(t)
	repo := NewRepository(db)
	ctx := context.Background()

	records := []BookRecord{
		{
			ISBN: "9780441013593", Title: "Dune", Length: 412, Audience: "Adults",
			ReleaseDate: "1965-08-01",
			Authors:     []string{"Frank Herbert"},
			Publishers:  []string{"Ace"},
			Genres:      []string{"Science Fiction"},
		},
		{
			ISBN: "9780547928227", Title: "The Hobbit", Length: 300, Audience: "kids",
			Authors:    []string{"J. R. R. Tolkien"},
			Publishers: []string{"Ace"},
		},
	}

	n, err := repo.ImportBooks(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	detail, err := repo.GetBook(ctx, "9780441013593", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Frank Herbert"}, detail.Authors)
	assert.Equal(t, entities.AudienceAdults, detail.Audience)
	assert.Equal(t, 1965, detail.ReleaseDate.Year())

	assert.Equal(t, int64(3), dbtest.Count(t, db, &entities.Contributor{}, ""))

	t.Run("reimport replaces links", func(t *testing.T) {
		records[0].Authors = []string{"Brian Herbert"}
		_, err := repo.ImportBooks(ctx, records[:1])
		require.NoError(t, err)

		detail, err := repo.GetBook(ctx, "9780441013593", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Brian Herbert"}, detail.Authors)
	})

	t.Run("invalid record aborts everything", func(t *testing.T) {
		_, err := repo.ImportBooks(ctx, []BookRecord{
			{ISBN: "1111", Title: "Fine"},
			{ISBN: "2222", Title: "Broken", ReleaseDate: "01/02/2003"},
		})

		assert.True(t, errors.Is(err, errors.ErrValidation))
		exists, err := repo.Exists(ctx, "1111")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestRepository_ImportBooks_TrimsBeforeValidating(t *testing.T) {
	db := dbtest.New(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tests := []struct {
		name   string
		record BookRecord
	}{
		{"blank isbn", BookRecord{ISBN: "   ", Title: "Untitled"}},
		{"blank title", BookRecord{ISBN: "3333", Title: "\t"}},
		{"blank author", BookRecord{ISBN: "3333", Title: "Solaris", Authors: []string{" "}}},
		{"isbn too long once padded", BookRecord{ISBN: "  123456789012345678901  ", Title: "Long"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.ImportBooks(ctx, []BookRecord{tt.record})

			assert.True(t, errors.Is(err, errors.ErrValidation), "got %v", err)
			assert.Zero(t, dbtest.Count(t, db, &entities.Book{}, ""))
			assert.Zero(t, dbtest.Count(t, db, &entities.Contributor{}, ""))
		})
	}

	t.Run("padding is stripped from stored values", func(t *testing.T) {
		records := []BookRecord{{
			ISBN: " 4444 ", Title: "  Solaris ", Length: 204,
			Authors: []string{" Stanisław Lem "},
			Genres:  []string{"Science Fiction  "},
		}}

		_, err := repo.ImportBooks(ctx, records)
		require.NoError(t, err)

		detail, err := repo.GetBook(ctx, "4444", "")
		require.NoError(t, err)
		assert.Equal(t, "Solaris", detail.Title)
		assert.Equal(t, []string{"Stanisław Lem"}, detail.Authors)
		assert.Equal(t, []string{"Science Fiction"}, detail.Genres)
		assert.Equal(t, " 4444 ", records[0].ISBN)
	})
}
