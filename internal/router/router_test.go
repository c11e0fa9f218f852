package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/middleware"
)

type noRoutes struct{}

func (noRoutes) RegisterRoutes(*gin.RouterGroup) {}

type panicRoutes struct{}

func (panicRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/boom", func(*gin.Context) {
		panic("kaboom")
	})
}

// Each router registers its metrics under its prefix, so every test needs
// a distinct one.
func newTestRouter(doctorH Handler, prefix string) *Router {
	r := NewRouter(
		middleware.NewAuthMiddleware(nil),
		noRoutes{},
		doctorH,
		noRoutes{},
		noRoutes{},
		handler.NewHandler(),
		RouterConfig{
			RateLimit:     rate.Limit(100),
			RateBurst:     100,
			Timeout:       2 * time.Second,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: prefix,
		},
	)
	r.Setup()
	return r
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestMetricsExposedOnBothPaths(t *testing.T) {
	r := newTestRouter(noRoutes{}, "routertest_alias")

	live := get(r.Engine(), "/api/v1/health/live")
	require.Equal(t, http.StatusOK, live.Code)

	root := get(r.Engine(), "/metrics")
	require.Equal(t, http.StatusOK, root.Code)
	assert.Contains(t, root.Body.String(), "routertest_alias_requests_total")

	versioned := get(r.Engine(), "/api/v1/health/metrics")
	assert.Equal(t, http.StatusOK, versioned.Code)
}

func TestReadinessReportsUptime(t *testing.T) {
	r := newTestRouter(noRoutes{}, "routertest_ready")

	w := get(r.Engine(), "/api/v1/health/ready")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uptime")
}

func TestPanicAnswersInternalError(t *testing.T) {
	r := newTestRouter(panicRoutes{}, "routertest_panic")

	w := get(r.Engine(), "/api/v1/boom")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))
}
