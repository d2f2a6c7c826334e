// Package auth provides account creation, login and logout on top of the
// account store, plus the HTTP session plumbing.
//
// A Session is an explicit value passed to every operation that acts on
// behalf of a user. Over HTTP it is carried in an scs cookie session stored
// in the SQLite sessions table.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # CSRF key; generated per process if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//	AUTH_LOGIN_RATE_PER_MINUTE=5        # Login attempts per IP+username
//	AUTH_LOGIN_BURST=5
//
// # Usage
//
//	svc := auth.NewService(accounts.NewRepository(db, nil), cfg.Auth.BcryptCost, nil)
//	sm, err := auth.NewSessionManager(sqlDB, cfg.Auth)
//	router.Use(sm.LoadSession(), sm.Identify())
//	private := router.Group("/api", auth.RequireSession())
//
// Extract the session in handlers:
//
//	session := auth.CurrentSession(c)
package auth
