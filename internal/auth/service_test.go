package auth

import (
	"context"
	"testing"
	"time"

	"github.com/badreads/badreads/internal/database/accounts"
	"github.com/badreads/badreads/internal/database/dbtest"
	"github.com/badreads/badreads/internal/errors"
)

var serviceNow = time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)

func setupService(t *testing.T) *Service {
	t.Helper()
	db := dbtest.New(t)
	store := accounts.NewRepository(db, func() time.Time { return serviceNow })
	return NewService(store, 4, func() time.Time { return serviceNow })
}

func TestService_CreateAccount(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid user", username: "alice", email: "alice@example.com", password: "password12345"},
		{name: "short username", username: "al", email: "al@example.com", password: "password12345", wantErr: errors.ErrValidation},
		{name: "bad characters", username: "al ice", email: "al@example.com", password: "password12345", wantErr: errors.ErrValidation},
		{name: "bad email", username: "carol", email: "carol-at-example", password: "password12345", wantErr: errors.ErrValidation},
		{name: "short password", username: "dave", email: "dave@example.com", password: "short", wantErr: errors.ErrValidation},
		{
			name: "duplicate username", username: "alice", email: "alice2@example.com", password: "password12345",
			wantErr: &errors.Error{Code: errors.CodeConflict, Reason: errors.ReasonDuplicateUsername},
		},
		{
			name: "duplicate email", username: "alice2", email: "alice@example.com", password: "password12345",
			wantErr: &errors.Error{Code: errors.CodeConflict, Reason: errors.ReasonDuplicateEmail},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, user, err := svc.CreateAccount(ctx, tt.username, "", tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateAccount() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateAccount() unexpected error = %v", err)
			}
			if session.Username != tt.username || !session.Active() {
				t.Errorf("session = %+v, want active session for %s", session, tt.username)
			}
			if user.PasswordHash == tt.password {
				t.Error("password stored in plaintext")
			}
			if user.Name != tt.username {
				t.Errorf("empty display name should default to username, got %q", user.Name)
			}
		})
	}
}

func TestService_LoginAndSession(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	if _, _, err := svc.CreateAccount(ctx, "alice", "Alice", "alice@example.com", "password12345"); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	session, err := svc.Login(ctx, "alice", "password12345")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.Username != "alice" {
		t.Errorf("session username = %q, want alice", session.Username)
	}
	if !session.StartedAt.Equal(serviceNow) {
		t.Errorf("session started at %v, want %v", session.StartedAt, serviceNow)
	}

	for _, bad := range []struct{ user, pass string }{
		{"alice", "wrongpassword1"},
		{"bob", "password12345"},
		{"", ""},
	} {
		if _, err := svc.Login(ctx, bad.user, bad.pass); !errors.Is(err, errors.ErrBadCredentials) {
			t.Errorf("Login(%q) error = %v, want bad credentials", bad.user, err)
		}
	}
}

func TestService_Logout(t *testing.T) {
	svc := setupService(t)

	if err := svc.Logout(Session{Username: "alice"}); err != nil {
		t.Errorf("Logout() of active session error = %v", err)
	}
	if err := svc.Logout(Session{}); !errors.Is(err, errors.ErrNoActiveSession) {
		t.Errorf("Logout() without session error = %v, want %v", err, errors.ErrNoActiveSession)
	}
}
