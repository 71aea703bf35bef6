package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/02ggang9/Homepage-Back/pkg/response"
)

// Recovery 捕获 panic，记录堆栈并返回统一的未知错误响应
func Recovery(advisor *response.Advisor, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("请求处理发生 panic",
					zap.String("request_id", GetRequestID(c)),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				advisor.Fail(c, fmt.Errorf("panic: %v", r))
			}
		}()
		c.Next()
	}
}
