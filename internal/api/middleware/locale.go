package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/02ggang9/Homepage-Back/pkg/response"
)

// LocaleMatcher 将 Accept-Language 匹配为受支持的语言
type LocaleMatcher interface {
	Match(acceptLanguage string) string
}

// Locale 语言协商中间件，结果写入 response.LocaleKey
func Locale(matcher LocaleMatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.LocaleKey, matcher.Match(c.GetHeader("Accept-Language")))
		c.Next()
	}
}
