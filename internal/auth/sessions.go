package auth

import (
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/badreads/badreads/internal/config"
)

// Session data keys
const (
	SessionKeyUsername  = "username"
	SessionKeyStartedAt = "started_at"
)

func init() {
	gob.Register(time.Time{})
}

// SessionManager keeps a Session in a cookie-backed scs session.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a session manager storing data in the sessions
// table of sqlDB. Expired rows are ignored on read; there is no background
// cleanup goroutine.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.NewWithCleanupInterval(sqlDB, 0)
	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "badreads_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// Start binds session to the request's cookie, renewing the token to prevent
// fixation.
func (sm *SessionManager) Start(r *http.Request, session Session) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	sm.Put(r.Context(), SessionKeyUsername, session.Username)
	sm.Put(r.Context(), SessionKeyStartedAt, session.StartedAt)
	return nil
}

// Current returns the session carried by the request, or the zero Session.
func (sm *SessionManager) Current(r *http.Request) Session {
	username := sm.GetString(r.Context(), SessionKeyUsername)
	if username == "" {
		return Session{}
	}
	startedAt, _ := sm.Get(r.Context(), SessionKeyStartedAt).(time.Time)
	return Session{Username: username, StartedAt: startedAt}
}

// End destroys the request's session.
func (sm *SessionManager) End(r *http.Request) error {
	return sm.Destroy(r.Context())
}
