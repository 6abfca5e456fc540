package bootstrap_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursereview/internal/bootstrap"
	"github.com/yigit/coursereview/internal/config"
	"github.com/yigit/coursereview/internal/pkg/cache"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("does-not-exist.yaml")
	require.NoError(t, err)
	return cfg
}

func TestSetupCache(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Cache.Enabled = false
		assert.IsType(t, cache.Noop{}, bootstrap.SetupCache(cfg, zerolog.Nop()))
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Cache.Enabled = true
		cfg.Cache.URL = "redis://127.0.0.1:1/0"
		assert.IsType(t, cache.Noop{}, bootstrap.SetupCache(cfg, zerolog.Nop()))
	})
}

func TestBuildDependenciesAndRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.Server.Mode = "production"
	cfg.Jobs.OrphanReportEnabled = true

	deps, err := bootstrap.BuildDependencies(cfg, nil, cache.Noop{}, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, deps.CourseService)
	assert.NotNil(t, deps.ReviewService)
	assert.NotNil(t, deps.Jobs)

	router := bootstrap.SetupRouter(cfg, deps, zerolog.Nop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")

	// Served without touching the store
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reviews/tags", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "homework-heavy")
}
