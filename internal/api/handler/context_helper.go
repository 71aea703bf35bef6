package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/02ggang9/Homepage-Back/internal/api/middleware"
	pkgerrors "github.com/02ggang9/Homepage-Back/pkg/errors"
	"github.com/02ggang9/Homepage-Back/pkg/response"
)

// MustGetMemberID 从 Gin 上下文中安全提取 member_id。
// 如果 JWT 中间件未正确注入 member_id，写入 401 响应并返回 false。
// 调用方应在 ok=false 时直接 return。
func MustGetMemberID(c *gin.Context, advisor *response.Advisor) (int64, bool) {
	id := c.GetInt64(middleware.ContextMemberIDKey)
	if id <= 0 {
		advisor.Fail(c, pkgerrors.ErrAuthenticationEntryPoint)
		return 0, false
	}
	return id, true
}

// parseIDParam 解析路径中的正整数 ID
// 非数字返回 *strconv.NumError，由 Advisor 归类为参数类型错误
func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, pkgerrors.ErrArgumentTypeMismatch
	}
	return id, nil
}

// parseRequiredQueryID 解析必填的正整数查询参数
func parseRequiredQueryID(c *gin.Context, name string) (int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, pkgerrors.ErrMissingParameter
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, pkgerrors.ErrArgumentTypeMismatch
	}
	return id, nil
}
