package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/badreads/badreads/internal/entities"
	"github.com/badreads/badreads/internal/errors"
)

// BookRecord is one catalog entry as supplied by an import file.
type BookRecord struct {
	ISBN        string   `json:"isbn" validate:"required,max=20"`
	Title       string   `json:"title" validate:"required,max=512"`
	Length      int      `json:"length" validate:"gte=0"`
	Audience    string   `json:"audience" validate:"omitempty,oneof=Kids Teens Adults Unknown kids teens adults unknown"`
	ReleaseDate string   `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	Authors     []string `json:"authors" validate:"dive,required"`
	Publishers  []string `json:"publishers" validate:"dive,required"`
	Genres      []string `json:"genres" validate:"dive,required"`
}

var validate = validator.New()

// ImportBooks upserts books with their contributors and genres in a single
// transaction. Links of an already-present book are replaced. Any invalid
// record aborts the whole import.
func (r *Repository) ImportBooks(ctx context.Context, records []BookRecord) (int, error) {
	records = normalizeRecords(records)
	for i := range records {
		if err := validate.Struct(records[i]); err != nil {
			return 0, errors.Validation("record %d (%s): %v", i, records[i].ISBN, err)
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			if err := importOne(tx, rec); err != nil {
				return fmt.Errorf("import %s: %w", rec.ISBN, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, errors.Storage(err)
	}
	return len(records), nil
}

// normalizeRecords trims identifiers and names so that whitespace-only
// values fail validation instead of being stored blank. The input is left
// untouched.
func normalizeRecords(records []BookRecord) []BookRecord {
	out := make([]BookRecord, len(records))
	for i, rec := range records {
		rec.ISBN = strings.TrimSpace(rec.ISBN)
		rec.Title = strings.TrimSpace(rec.Title)
		rec.ReleaseDate = strings.TrimSpace(rec.ReleaseDate)
		rec.Authors = trimAll(rec.Authors)
		rec.Publishers = trimAll(rec.Publishers)
		rec.Genres = trimAll(rec.Genres)
		out[i] = rec
	}
	return out
}

func trimAll(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = strings.TrimSpace(name)
	}
	return out
}

func importOne(tx *gorm.DB, rec BookRecord) error {
	var release time.Time
	if rec.ReleaseDate != "" {
		parsed, err := time.Parse(time.DateOnly, rec.ReleaseDate)
		if err != nil {
			return err
		}
		release = parsed
	}

	book := entities.Book{
		ISBN:        rec.ISBN,
		Title:       rec.Title,
		Length:      rec.Length,
		Audience:    int(entities.ParseAudience(rec.Audience)),
		ReleaseDate: release,
	}
	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&book).Error; err != nil {
		return err
	}

	for _, table := range []string{"authors", "publishes", "category"} {
		if err := tx.Exec("DELETE FROM "+table+" WHERE isbn = ?", book.ISBN).Error; err != nil {
			return err
		}
	}

	for _, name := range rec.Authors {
		c, err := contributorByName(tx, name)
		if err != nil {
			return err
		}
		link := entities.Authorship{ISBN: book.ISBN, ContributorID: c.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
	}
	for _, name := range rec.Publishers {
		c, err := contributorByName(tx, name)
		if err != nil {
			return err
		}
		link := entities.Publication{ISBN: book.ISBN, ContributorID: c.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
	}
	for _, name := range rec.Genres {
		g := entities.Genre{Name: name}
		if err := tx.Where("name = ?", g.Name).FirstOrCreate(&g).Error; err != nil {
			return err
		}
		link := entities.Category{ISBN: book.ISBN, GenreID: g.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func contributorByName(tx *gorm.DB, name string) (entities.Contributor, error) {
	c := entities.Contributor{Name: name}
	err := tx.Where("name = ?", c.Name).FirstOrCreate(&c).Error
	return c, err
}
