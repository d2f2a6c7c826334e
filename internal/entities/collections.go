package entities

import "time"

// Collection is a named set of books. Names are unique per owner.
type Collection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null;uniqueIndex:idx_collections_owner_name" json:"name"`
	Owner     string    `gorm:"size:64;not null;uniqueIndex:idx_collections_owner_name" json:"owner"`
	CreatedAt time.Time `json:"created_at"`

	OwnerUser User `gorm:"foreignKey:Owner;references:Username" json:"-"`
}

func (Collection) TableName() string {
	return "collections"
}

// Creates links a collection to the user who owns it.
type Creates struct {
	CollectionID uint   `gorm:"primaryKey;autoIncrement:false"`
	Username     string `gorm:"size:64;not null;index"`

	Collection Collection `gorm:"foreignKey:CollectionID"`
}

func (Creates) TableName() string {
	return "creates"
}

// BelongsTo is a collection membership row.
type BelongsTo struct {
	CollectionID uint   `gorm:"primaryKey;autoIncrement:false"`
	ISBN         string `gorm:"primaryKey;size:20"`

	Collection Collection `gorm:"foreignKey:CollectionID"`
}

func (BelongsTo) TableName() string {
	return "belongs_to"
}

// CollectionSummary is one row of a user's collection listing.
type CollectionSummary struct {
	Name       string `json:"name"`
	BookCount  int64  `json:"book_count"`
	TotalPages int64  `json:"total_pages"`
}
