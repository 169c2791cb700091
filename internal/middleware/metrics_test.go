package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/ttcore/internal/metrics"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := metrics.NewService()

	r := gin.New()
	r.Use(Metrics(svc))
	r.GET("/ping", func(c *gin.Context) { c.Status(200) })

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)

	scrape := httptest.NewRecorder()
	svc.Handler().ServeHTTP(scrape, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `path="/ping"`)
}

func TestMetricsMiddlewareNilServiceIsNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/ping", func(c *gin.Context) { c.Status(200) })

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	assert.NotPanics(t, func() { r.ServeHTTP(w, req) })
	assert.Equal(t, 200, w.Code)
}
