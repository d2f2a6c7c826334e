package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/database"
)

const readinessTimeout = 2 * time.Second

// HealthResponse reports each readiness check by name. A check is "ok",
// "skipped" or the reason it failed.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// readinessCheck returns nil when the dependency can serve requests.
type readinessCheck struct {
	name string
	run  func(ctx context.Context) error
}

type HealthController struct {
	checks  []readinessCheck
	version string
	log     *zap.Logger
	now     func() time.Time
}

// NewHealthController checks that the store is reachable and fully migrated.
// Without a database both checks report "skipped" and the service stays ready.
func NewHealthController(db *database.Database, version string, log *zap.Logger) *HealthController {
	if log == nil {
		log = zap.NewNop()
	}
	h := &HealthController{version: version, log: log, now: time.Now}
	if db == nil {
		h.checks = []readinessCheck{{name: "database"}, {name: "schema"}}
		return h
	}
	h.checks = []readinessCheck{
		{name: "database", run: db.PingContext},
		{name: "schema", run: func(ctx context.Context) error {
			missing, err := db.MissingTables(ctx)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				return fmt.Errorf("missing tables: %s", strings.Join(missing, ", "))
			}
			return nil
		}},
	}
	return h
}

// Status runs every readiness check and answers 503 if any failed.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Time:    h.now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string, len(h.checks)),
	}
	for _, check := range h.checks {
		if check.run == nil {
			resp.Checks[check.name] = "skipped"
			continue
		}
		if err := check.run(ctx); err != nil {
			h.log.Warn("Readiness check failed", zap.String("check", check.name), zap.Error(err))
			resp.Checks[check.name] = "failed: " + err.Error()
			resp.Status = "unhealthy"
			continue
		}
		resp.Checks[check.name] = "ok"
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// Ping answers liveness without touching the store.
// GET /ping
func (h *HealthController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
