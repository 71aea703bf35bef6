package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02ggang9/Homepage-Back/pkg/metrics"
)

// Metrics HTTP 指标中间件
// path 标签使用路由模板，未匹配的请求统一记为 "unmatched"
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.RequestStarted()
		start := time.Now()

		c.Next()

		done()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
