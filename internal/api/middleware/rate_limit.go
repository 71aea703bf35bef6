package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/02ggang9/Homepage-Back/pkg/errors"
	"github.com/02ggang9/Homepage-Back/pkg/response"
)

// RateLimiter 滑动窗口限流器
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 速率限制中间件
// 已认证请求按会员限流，否则按客户端 IP
// limiter 为 nil 或出错时降级放行
func RateLimit(limiter RateLimiter, advisor *response.Advisor, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		allowed, err := limiter.CheckRateLimit(c.Request.Context(), rateLimitKey(c), limit, window)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			advisor.Fail(c, pkgerrors.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	if id := c.GetInt64(ContextMemberIDKey); id > 0 {
		return fmt.Sprintf("rate_limit:member:%d:%s %s", id, c.Request.Method, c.FullPath())
	}
	return fmt.Sprintf("rate_limit:ip:%s:%s %s", c.ClientIP(), c.Request.Method, c.FullPath())
}
