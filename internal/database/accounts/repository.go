// Package accounts provides database operations for user accounts.
//
// # Usage
//
//	repo := accounts.NewRepository(db, time.Now)
//	user, err := repo.CreateAccount(ctx, accounts.NewAccount{...})
//	user, err := repo.Login(ctx, username, password, auth.CheckPassword)
package accounts

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/badreads/badreads/internal/database"
	"github.com/badreads/badreads/internal/entities"
	"github.com/badreads/badreads/internal/errors"
)

// Verifier checks a plaintext password against a stored hash. It returns a
// non-nil error on mismatch.
type Verifier func(password, hash string) error

// NewAccount is the input to CreateAccount. PasswordHash is already computed.
type NewAccount struct {
	Username     string
	Name         string
	Email        string
	PasswordHash string
}

// Repository handles all account database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new accounts repository. A nil clock means time.Now.
func NewRepository(db *gorm.DB, now func() time.Time) *Repository {
	if now == nil {
		now = time.Now
	}
	return &Repository{db: db, now: now}
}

// CreateAccount inserts a user row. Username and email collisions are
// reported as distinct conflicts.
func (r *Repository) CreateAccount(ctx context.Context, in NewAccount) (*entities.User, error) {
	user := &entities.User{
		Username:     in.Username,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		CreatedAt:    r.now().UTC(),
	}

	err := r.db.WithContext(ctx).Create(user).Error
	switch {
	case err == nil:
		return user, nil
	case database.ViolatesColumn(err, "users", "email"):
		return nil, errors.Conflict(errors.ReasonDuplicateEmail, "email %q is already registered", in.Email)
	case database.ViolatesColumn(err, "users", "username"):
		return nil, errors.Conflict(errors.ReasonDuplicateUsername, "username %q is taken", in.Username)
	default:
		return nil, errors.Storage(err)
	}
}

// Login verifies the password and stamps last_accessed in one transaction.
// The update is guarded by the hash that was verified, so a concurrent
// credential change makes the login fail rather than touch a stale row.
// A failed attempt changes nothing.
func (r *Repository) Login(ctx context.Context, username, password string, verify Verifier) (*entities.User, error) {
	var user entities.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrBadCredentials
			}
			return err
		}
		if err := verify(password, user.PasswordHash); err != nil {
			return errors.ErrBadCredentials
		}

		now := r.now().UTC()
		res := tx.Model(&entities.User{}).
			Where("username = ? AND password_hash = ?", username, user.PasswordHash).
			Update("last_accessed", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return errors.ErrBadCredentials
		}
		user.LastAccessed = &now
		return nil
	})
	if err != nil {
		return nil, errors.Storage(err)
	}
	return &user, nil
}

// GetUser retrieves a user by username.
func (r *Repository) GetUser(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("user", username)
		}
		return nil, errors.Storage(err)
	}
	return &user, nil
}

// Exists reports whether username is registered.
func (r *Repository) Exists(ctx context.Context, username string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entities.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return false, errors.Storage(err)
	}
	return n > 0, nil
}
