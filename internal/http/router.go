package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger(log))
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before the session loader: it replaces c.Request and the
	// session context has to live on the replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.SessionManager.LoadSession())
	router.Use(cfg.SessionManager.Identify())

	health := NewHealthController(cfg.Database, cfg.Version, log)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	accounts := NewAccountsController(cfg.Authenticator, cfg.Users, cfg.SessionManager, cfg.LoginLimiter, log)
	social := NewSocialController(cfg.Social, log)
	books := NewBooksController(cfg.Catalog, log)
	collections := NewCollectionsController(cfg.Collections, log)
	reading := NewReadingController(cfg.Reading, cfg.TopBooksLimit, log)
	reports := NewReportsController(cfg.Reports, cfg.RecentWindowDays, cfg.NewReleasesLimit, log)

	api := router.Group("/api")
	{
		api.GET("/csrf", accounts.CSRFToken)
		api.POST("/accounts", accounts.CreateAccount)
		api.POST("/login", accounts.Login)
		api.GET("/session", accounts.Session)

		api.GET("/users/:username", accounts.GetUser)
		api.GET("/users/:username/followers", social.Followers)
		api.GET("/users/:username/following", social.Following)
		api.GET("/users/:username/collections", collections.List)
		api.GET("/users/:username/collections/:name", collections.Contents)
		api.GET("/users/:username/top-books", reading.TopBooks)

		api.GET("/books", books.Search)
		api.GET("/books/:isbn", books.GetBook)

		api.GET("/reports/top-recent", reports.TopRecent)
		api.GET("/reports/new-releases", reports.NewReleases)
	}

	private := api.Group("", auth.RequireSession())
	{
		private.POST("/logout", accounts.Logout)

		private.POST("/users/:username/follow", social.Follow)
		private.DELETE("/users/:username/follow", social.Unfollow)

		private.PUT("/books/:isbn/rating", reading.RateBook)
		private.POST("/books/:isbn/reads", reading.ReadBook)

		private.POST("/collections", collections.Create)
		private.PATCH("/collections/:name", collections.Rename)
		private.DELETE("/collections/:name", collections.Delete)
		private.POST("/collections/:name/books", collections.AddBooks)
		private.DELETE("/collections/:name/books", collections.RemoveBooks)
		private.POST("/collections/:name/reads/random", reading.ReadRandom)

		private.GET("/reports/recommendations", reports.Recommendations)
	}

	return router
}
