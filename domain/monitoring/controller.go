package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/akeren/innr-waitlist/config/router"
	"github.com/akeren/innr-waitlist/internal/log"
	"gorm.io/gorm"
)

const checkTimeout = 2 * time.Second

type ComponentStatus string

const (
	StatusUp       ComponentStatus = "up"
	StatusDown     ComponentStatus = "down"
	StatusDisabled ComponentStatus = "disabled"
)

type Cache interface {
	Ping(ctx context.Context) error
}

// SchoolDirectory is the part of the school directory the health check reports on.
type SchoolDirectory interface {
	Len() int
}

// HealthStatus reports the waitlist store, the optional leaderboard cache and the loaded directory.
type HealthStatus struct {
	Database      ComponentStatus `json:"database"`
	Cache         ComponentStatus `json:"cache"`
	KnownSchools  int             `json:"known_schools"`
	UptimeSeconds int64           `json:"uptime_seconds"`
}

// Healthy ignores the cache: the leaderboard reads the store directly when it is down.
func (h HealthStatus) Healthy() bool {
	return h.Database == StatusUp
}

type MonitoringController struct {
	db        *gorm.DB
	logger    *log.Logger
	cache     Cache
	schools   SchoolDirectory
	startTime time.Time
}

func NewMonitoringController(db *gorm.DB, logger *log.Logger, cache Cache, schools SchoolDirectory) *router.RESTController {
	ctrl := &MonitoringController{
		db:        db,
		logger:    logger,
		cache:     cache,
		schools:   schools,
		startTime: time.Now(),
	}

	return router.NewRESTController("MonitoringController", "/", func(rs *router.RouterService, c *router.RESTController) {
		rs.AddGetHandler(c, "", ctrl.root)
		rs.AddGetHandler(c, "health", ctrl.health)
		rs.AddHeadHandler(c, "health", ctrl.health)
	})
}

func (ctrl *MonitoringController) root(c *router.RequestContext) *router.ServiceResult {
	return router.OKResult("innr waitlist is accepting signups", "Monitoring successful")
}

func (ctrl *MonitoringController) health(c *router.RequestContext) *router.ServiceResult {
	status := ctrl.check(c.Request.Context(), router.GetLogger(c))

	if !status.Healthy() {
		return router.ErrorResult(http.StatusServiceUnavailable, "Waitlist store is unreachable", status)
	}
	return router.OKResult(status, "Health check completed")
}

func (ctrl *MonitoringController) check(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Database:      probe(ctx, ctrl.pingDatabase),
		Cache:         StatusDisabled,
		UptimeSeconds: int64(time.Since(ctrl.startTime).Seconds()),
	}

	if ctrl.cache != nil {
		status.Cache = probe(ctx, ctrl.cache.Ping)
	}
	if ctrl.schools != nil {
		status.KnownSchools = ctrl.schools.Len()
	}

	if status.Database != StatusUp || status.Cache == StatusDown {
		logger.Warn("Health check degraded", "database", status.Database, "cache", status.Cache)
	} else {
		logger.Debug("Health check passed", "cache", status.Cache)
	}

	return status
}

func probe(ctx context.Context, ping func(context.Context) error) ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		return StatusDown
	}
	return StatusUp
}

func (ctrl *MonitoringController) pingDatabase(ctx context.Context) error {
	if ctrl.db == nil {
		return gorm.ErrInvalidDB
	}

	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
