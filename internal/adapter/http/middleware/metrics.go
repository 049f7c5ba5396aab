package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"todohub/pkg/metrics"
)

func Metrics(m *metrics.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()

		if path == "" {
			path = "unmatched"
		}

		m.RecordRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
