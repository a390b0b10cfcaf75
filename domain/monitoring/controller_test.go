package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akeren/innr-waitlist/config/router"
	"github.com/akeren/innr-waitlist/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubCache struct {
	err error
}

func (s stubCache) Ping(ctx context.Context) error { return s.err }

type stubDirectory int

func (s stubDirectory) Len() int { return int(s) }

type healthResponse struct {
	Code    int          `json:"code"`
	Data    HealthStatus `json:"data"`
	Message string       `json:"message"`
}

func newRouter(t *testing.T, db *gorm.DB, cache Cache) *router.RouterService {
	t.Helper()
	t.Setenv("METRICS_ENABLED", "false")

	logger := log.NewLoggerWithJSONOutput()
	rs := router.CreateRouterService(logger, &router.RouterConfig{RequestTimeout: 5 * time.Second})
	rs.MountController(NewMonitoringControllerFactory(db, logger, cache, stubDirectory(15)).CreateController())
	return rs
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func getHealth(t *testing.T, rs *router.RouterService) (int, healthResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthCheck_HealthyWithCache(t *testing.T) {
	rs := newRouter(t, openDB(t), stubCache{})

	code, resp := getHealth(t, rs)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Health check completed", resp.Message)
	assert.Equal(t, StatusUp, resp.Data.Database)
	assert.Equal(t, StatusUp, resp.Data.Cache)
	assert.Equal(t, 15, resp.Data.KnownSchools)
}

func TestHealthCheck_CacheFailureDegradesOnly(t *testing.T) {
	rs := newRouter(t, openDB(t), stubCache{err: errors.New("connection refused")})

	code, resp := getHealth(t, rs)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Data.Database)
	assert.Equal(t, StatusDown, resp.Data.Cache)
}

func TestHealthCheck_NoCacheConfigured(t *testing.T) {
	rs := newRouter(t, openDB(t), nil)

	code, resp := getHealth(t, rs)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusDisabled, resp.Data.Cache)
}

func TestHealthCheck_DatabaseDownIsUnavailable(t *testing.T) {
	db := openDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rs := newRouter(t, db, nil)

	code, resp := getHealth(t, rs)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusDown, resp.Data.Database)
	assert.Equal(t, "Waitlist store is unreachable", resp.Message)
}

func TestHealthCheck_NilDatabaseIsUnavailable(t *testing.T) {
	rs := newRouter(t, nil, stubCache{})

	code, resp := getHealth(t, rs)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusDown, resp.Data.Database)
	assert.Equal(t, StatusUp, resp.Data.Cache)
}

func TestHealthCheck_HeadHasNoBody(t *testing.T) {
	rs := newRouter(t, openDB(t), nil)

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestMonitor_Root(t *testing.T) {
	rs := newRouter(t, openDB(t), nil)

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Monitoring successful")
}
