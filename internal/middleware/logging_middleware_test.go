package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MetricsMiddleware())
	router.GET("/widgets/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/widgets/:id", "204")
	unmatched := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(counter)
	beforeUnmatched := testutil.ToFloat64(unmatched)

	for _, path := range []string{"/widgets/1", "/widgets/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
}
