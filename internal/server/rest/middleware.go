package rest

import (
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

// requestLogging logs one line per request after it has been served.
func requestLogging(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		l.Info(c.Request.Context(), "http.request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}
