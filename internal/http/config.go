package http

import (
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/auth"
	"github.com/badreads/badreads/internal/database"
	"github.com/badreads/badreads/internal/ratelimit"
	"github.com/badreads/badreads/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Logger   *zap.Logger

	// Accounts and sessions
	Authenticator  services.Authenticator
	Users          services.UserReader
	SessionManager *auth.SessionManager
	LoginLimiter   *ratelimit.KeyedRateLimiter // nil disables login throttling

	// CSRF protection; empty disables it
	CSRFSecret    []byte
	SecureCookies bool

	// Stores
	Social      services.SocialGraph
	Catalog     services.Catalog
	Collections services.Collections
	Reading     services.ReadingLog
	Reports     services.Aggregator

	// Report defaults
	RecentWindowDays int
	NewReleasesLimit int
	TopBooksLimit    int

	// Application info
	Version string
}
