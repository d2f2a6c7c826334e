package entities

import "time"

type User struct {
	Username     string     `gorm:"primaryKey;size:64" json:"username"`
	Name         string     `gorm:"size:128" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"-"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`

	// Child rows keyed by username. The foreign keys live on the child tables.
	Ratings  []Rating  `gorm:"foreignKey:Username;references:Username" json:"-"`
	Readings []Reading `gorm:"foreignKey:Username;references:Username" json:"-"`
	Creates  []Creates `gorm:"foreignKey:Username;references:Username" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Follow is a directed edge: Follower follows Followee.
type Follow struct {
	Follower  string    `gorm:"primaryKey;size:64;check:follower <> followee" json:"follower"`
	Followee  string    `gorm:"primaryKey;size:64;index" json:"followee"`
	CreatedAt time.Time `json:"created_at"`

	FollowerUser User `gorm:"foreignKey:Follower;references:Username" json:"-"`
	FolloweeUser User `gorm:"foreignKey:Followee;references:Username" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
