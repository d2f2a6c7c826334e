package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/badreads/badreads/internal/database/accounts"
	"github.com/badreads/badreads/internal/entities"
	"github.com/badreads/badreads/internal/errors"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Session identifies the user an operation acts for. The zero value is
// "not logged in".
type Session struct {
	Username  string    `json:"username"`
	StartedAt time.Time `json:"started_at"`
}

// Active reports whether the session belongs to a user.
func (s Session) Active() bool {
	return s.Username != ""
}

// AccountStore is the persistence the service needs.
type AccountStore interface {
	CreateAccount(ctx context.Context, in accounts.NewAccount) (*entities.User, error)
	Login(ctx context.Context, username, password string, verify accounts.Verifier) (*entities.User, error)
}

// Service handles account creation, login and logout.
type Service struct {
	accounts   AccountStore
	bcryptCost int
	now        func() time.Time
}

// NewService creates a new authentication service.
func NewService(store AccountStore, bcryptCost int, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{accounts: store, bcryptCost: bcryptCost, now: now}
}

// CreateAccount validates input, hashes the password and stores the user.
// The returned session is already active.
func (s *Service) CreateAccount(ctx context.Context, username, name, email, password string) (Session, *entities.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if !usernamePattern.MatchString(username) {
		return Session{}, nil, errors.Validation("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	}
	// RFC 5321 limit is 254
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return Session{}, nil, errors.Validation("invalid email format")
	}
	if strings.TrimSpace(name) == "" {
		name = username
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return Session{}, nil, err
	}

	user, err := s.accounts.CreateAccount(ctx, accounts.NewAccount{
		Username:     username,
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return Session{}, nil, err
	}
	return Session{Username: user.Username, StartedAt: s.now().UTC()}, user, nil
}

// Login checks credentials and returns a new session.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	if username == "" || password == "" {
		return Session{}, errors.ErrBadCredentials
	}
	user, err := s.accounts.Login(ctx, username, password, CheckPassword)
	if err != nil {
		return Session{}, err
	}
	return Session{Username: user.Username, StartedAt: s.now().UTC()}, nil
}

// Logout ends session. It fails if there is no active session.
func (s *Service) Logout(session Session) error {
	if !session.Active() {
		return errors.ErrNoActiveSession
	}
	return nil
}
