// Package social stores the directed follow graph between accounts.
package social

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/badreads/badreads/internal/database"
	"github.com/badreads/badreads/internal/entities"
	"github.com/badreads/badreads/internal/errors"
)

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

// Follow adds the edge follower -> followee.
func (r *Repository) Follow(ctx context.Context, follower, followee string) error {
	if follower == followee {
		return errors.Validation("cannot follow yourself")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entities.User{}).Where("username = ?", followee).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return errors.NotFound("user", followee)
		}

		err := tx.Create(&entities.Follow{
			Follower:  follower,
			Followee:  followee,
			CreatedAt: r.now().UTC(),
		}).Error
		if _, dup := database.UniqueViolation(err); dup {
			return errors.Conflict(errors.ReasonDuplicateFollow, "%s already follows %s", follower, followee)
		}
		return err
	})
	return errors.Storage(err)
}

// Unfollow removes the edge follower -> followee.
func (r *Repository) Unfollow(ctx context.Context, follower, followee string) error {
	res := r.db.WithContext(ctx).
		Where("follower = ? AND followee = ?", follower, followee).
		Delete(&entities.Follow{})
	if res.Error != nil {
		return errors.Storage(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("follow", follower+" -> "+followee)
	}
	return nil
}

// ListFollowers returns who follows username, sorted ascending.
func (r *Repository) ListFollowers(ctx context.Context, username string) ([]string, error) {
	return r.list(ctx, username, "followee", "follower")
}

// ListFollowing returns who username follows, sorted ascending.
func (r *Repository) ListFollowing(ctx context.Context, username string) ([]string, error) {
	return r.list(ctx, username, "follower", "followee")
}

func (r *Repository) list(ctx context.Context, username, matchCol, selectCol string) ([]string, error) {
	db := r.db.WithContext(ctx)

	var user entities.User
	if err := db.Select("username").Where("username = ?", username).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("user", username)
		}
		return nil, errors.Storage(err)
	}

	names := []string{}
	err := db.Model(&entities.Follow{}).
		Where(matchCol+" = ?", username).
		Order(selectCol+" ASC").
		Pluck(selectCol, &names).Error
	if err != nil {
		return nil, errors.Storage(err)
	}
	return names, nil
}

// Followees returns usernames that username follows, for use inside another
// query as a subquery.
func Followees(tx *gorm.DB, username string) *gorm.DB {
	return tx.Model(&entities.Follow{}).Select("followee").Where("follower = ?", username)
}

// FollowersOf returns a subquery selecting the usernames following username.
func FollowersOf(tx *gorm.DB, username string) *gorm.DB {
	return tx.Model(&entities.Follow{}).Select("follower").Where("followee = ?", username)
}
