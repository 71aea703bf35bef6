package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/02ggang9/Homepage-Back/pkg/errors"
	"github.com/02ggang9/Homepage-Back/pkg/jwt"
	"github.com/02ggang9/Homepage-Back/pkg/response"
)

// gin.Context 中的认证信息键
const (
	ContextMemberIDKey = "member_id"
	ContextRoleKey     = "role"
	ContextTokenIDKey  = "jti"
)

// TokenParser 解析并校验 Access Token
type TokenParser interface {
	ParseToken(tokenString string) (*jwt.Claims, error)
}

// TokenBlacklist 已注销 Token 查询
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 读取 Token，校验通过后注入 member_id / role
// blacklist 为 nil 或 Redis 出错时跳过黑名单检查
func JWTAuth(parser TokenParser, blacklist TokenBlacklist, advisor *response.Advisor) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			advisor.Fail(c, pkgerrors.ErrAuthenticationEntryPoint)
			return
		}

		claims, err := parser.ParseToken(strings.TrimSpace(token))
		if err != nil {
			advisor.Fail(c, pkgerrors.Wrap(pkgerrors.KindAuthenticationEntryPoint, err))
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				advisor.Fail(c, pkgerrors.ErrAuthenticationEntryPoint)
				return
			}
		}

		c.Set(ContextMemberIDKey, claims.MemberID)
		c.Set(ContextRoleKey, claims.Role)
		c.Set(ContextTokenIDKey, claims.ID)
		c.Next()
	}
}

// RoleAuth 角色校验中间件，须挂在 JWTAuth 之后
func RoleAuth(advisor *response.Advisor, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextRoleKey)
		if role == "" {
			advisor.Fail(c, pkgerrors.ErrAuthenticationEntryPoint)
			return
		}
		if _, ok := allowed[role]; !ok {
			advisor.Fail(c, pkgerrors.ErrAccessDenied)
			return
		}
		c.Next()
	}
}
