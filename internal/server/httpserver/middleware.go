package httpserver

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/filmvault/internal/logging"
	"github.com/dmitrijs2005/filmvault/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

// accessLog records method, path, status and latency. Bodies are never logged.
func accessLog(l logging.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		l.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", elapsed.Milliseconds(),
		)

		if m != nil {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			m.RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
		}
	}
}
