package entities

import "time"

type Rating struct {
	Username  string    `gorm:"primaryKey;size:64" json:"username"`
	ISBN      string    `gorm:"primaryKey;size:20" json:"isbn"`
	Stars     int       `gorm:"not null;check:stars BETWEEN 1 AND 5" json:"stars"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rating) TableName() string {
	return "rates"
}

// Reading is one logged reading session. Rows are never updated or deleted.
type Reading struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;not null;index" json:"username"`
	ISBN      string    `gorm:"size:20;not null;index" json:"isbn"`
	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	StartPage int       `gorm:"not null" json:"start_page"`
	EndPage   int       `gorm:"not null;check:end_page >= start_page" json:"end_page"`
}

func (Reading) TableName() string {
	return "reads"
}

// BookPages is a book ranked by total pages read.
type BookPages struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	PagesRead int64  `json:"pages_read"`
}

// RankedBook is an aggregation result entry.
type RankedBook struct {
	ISBN  string  `json:"isbn"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}
