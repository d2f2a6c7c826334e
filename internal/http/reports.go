package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/database/reports"
	"github.com/badreads/badreads/internal/errors"
	"github.com/badreads/badreads/internal/services"
)

type ReportsController struct {
	reports          services.Aggregator
	windowDays       int
	newReleasesLimit int
	log              *zap.Logger
}

func NewReportsController(r services.Aggregator, windowDays, newReleasesLimit int, log *zap.Logger) *ReportsController {
	return &ReportsController{reports: r, windowDays: windowDays, newReleasesLimit: newReleasesLimit, log: log}
}

// TopRecent ranks books by pages read inside the window.
// GET /api/reports/top-recent?scope=all|followers&user=alice&days=90&limit=10
//
// scope=followers restricts to followers of ?user, or of the session user
// when ?user is absent.
func (rc *ReportsController) TopRecent(c *gin.Context) {
	days, ok := parseIntQuery(c, "days", rc.windowDays)
	if !ok {
		return
	}
	limit, ok := parseIntQuery(c, "limit", 0)
	if !ok {
		return
	}

	var scope reports.Scope
	switch c.DefaultQuery("scope", "all") {
	case "all":
		scope = reports.AllUsers()
	case "followers":
		username := c.Query("user")
		if username == "" {
			username = sessionUser(c)
		}
		if username == "" {
			respondDomainError(c, rc.log, errors.ErrNoActiveSession, "top recent")
			return
		}
		scope = reports.FollowersOf(username)
	default:
		respondBadRequest(c, "scope must be all or followers")
		return
	}

	books, err := rc.reports.TopRecentBooks(c.Request.Context(), scope, days, limit)
	if err != nil {
		respondDomainError(c, rc.log, err, "top recent")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// NewReleases ranks this month's releases by average rating.
// GET /api/reports/new-releases?limit=5
func (rc *ReportsController) NewReleases(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", rc.newReleasesLimit)
	if !ok {
		return
	}

	books, err := rc.reports.TopNewReleases(c.Request.Context(), limit)
	if err != nil {
		respondDomainError(c, rc.log, err, "new releases")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// Recommendations suggests unseen books for the session user.
// GET /api/reports/recommendations?limit=10
func (rc *ReportsController) Recommendations(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", 0)
	if !ok {
		return
	}

	books, err := rc.reports.Recommendations(c.Request.Context(), sessionUser(c), limit)
	if err != nil {
		respondDomainError(c, rc.log, err, "recommendations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}
