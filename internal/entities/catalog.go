package entities

import (
	"encoding/json"
	"strings"
	"time"
)

// Audience is the intended readership, stored as a small integer code.
type Audience int

const (
	AudienceUnknown Audience = 0
	AudienceKids    Audience = 1
	AudienceTeens   Audience = 2
	AudienceAdults  Audience = 3
)

// AudienceFromCode maps a stored code to an Audience; unknown codes map to AudienceUnknown.
func AudienceFromCode(code int) Audience {
	switch Audience(code) {
	case AudienceKids, AudienceTeens, AudienceAdults:
		return Audience(code)
	default:
		return AudienceUnknown
	}
}

// ParseAudience parses the textual form produced by String.
func ParseAudience(s string) Audience {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kids":
		return AudienceKids
	case "teens":
		return AudienceTeens
	case "adults":
		return AudienceAdults
	default:
		return AudienceUnknown
	}
}

func (a Audience) String() string {
	switch a {
	case AudienceKids:
		return "Kids"
	case AudienceTeens:
		return "Teens"
	case AudienceAdults:
		return "Adults"
	default:
		return "Unknown"
	}
}

func (a Audience) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Audience) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = ParseAudience(s)
	return nil
}

type Book struct {
	ISBN        string    `gorm:"primaryKey;size:20" json:"isbn"`
	Title       string    `gorm:"index;size:512;not null" json:"title"`
	Length      int       `json:"length"`
	Audience    int       `gorm:"default:0" json:"audience"`
	ReleaseDate time.Time `gorm:"index" json:"release_date"`

	// Child rows keyed by isbn. The foreign keys live on the child tables.
	Authorships  []Authorship  `gorm:"foreignKey:ISBN;references:ISBN" json:"-"`
	Publications []Publication `gorm:"foreignKey:ISBN;references:ISBN" json:"-"`
	Categories   []Category    `gorm:"foreignKey:ISBN;references:ISBN" json:"-"`
	Memberships  []BelongsTo   `gorm:"foreignKey:ISBN;references:ISBN" json:"-"`
	Ratings      []Rating      `gorm:"foreignKey:ISBN;references:ISBN" json:"-"`
	Readings     []Reading     `gorm:"foreignKey:ISBN;references:ISBN" json:"-"`
}

func (Book) TableName() string {
	return "book"
}

// Contributor is shared by authors and publishers; the join table carries the role.
type Contributor struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:256;not null" json:"name"`
}

func (Contributor) TableName() string {
	return "contributor"
}

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

func (Genre) TableName() string {
	return "genre"
}

// Authorship links a book to one of its authors.
type Authorship struct {
	ISBN          string `gorm:"primaryKey;size:20"`
	ContributorID uint   `gorm:"primaryKey;autoIncrement:false;index"`

	Contributor Contributor `gorm:"foreignKey:ContributorID"`
}

func (Authorship) TableName() string {
	return "authors"
}

// Publication links a book to one of its publishers.
type Publication struct {
	ISBN          string `gorm:"primaryKey;size:20"`
	ContributorID uint   `gorm:"primaryKey;autoIncrement:false;index"`

	Contributor Contributor `gorm:"foreignKey:ContributorID"`
}

func (Publication) TableName() string {
	return "publishes"
}

// Category links a book to a genre.
type Category struct {
	ISBN    string `gorm:"primaryKey;size:20"`
	GenreID uint   `gorm:"primaryKey;autoIncrement:false;index"`

	Genre Genre `gorm:"foreignKey:GenreID"`
}

func (Category) TableName() string {
	return "category"
}

// BookDetail is the assembled read model returned by the catalog.
type BookDetail struct {
	ISBN        string    `json:"isbn"`
	Title       string    `json:"title"`
	Authors     []string  `json:"authors"`
	Publishers  []string  `json:"publishers"`
	Genres      []string  `json:"genres"`
	Length      int       `json:"length"`
	Audience    Audience  `json:"audience"`
	ReleaseDate time.Time `json:"release_date"`
	UserRating  *int      `json:"user_rating"`
}
