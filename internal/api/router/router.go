package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/02ggang9/Homepage-Back/config"
	"github.com/02ggang9/Homepage-Back/internal/api/handler"
	"github.com/02ggang9/Homepage-Back/internal/api/middleware"
	"github.com/02ggang9/Homepage-Back/internal/model"
	"github.com/02ggang9/Homepage-Back/pkg/metrics"
	"github.com/02ggang9/Homepage-Back/pkg/response"
)

// Deps 路由依赖
// Blacklist / Limiter 可为 nil（Redis 不可用时降级）
type Deps struct {
	Advisor   *response.Advisor
	Locales   middleware.LocaleMatcher
	Tokens    middleware.TokenParser
	Blacklist middleware.TokenBlacklist
	Limiter   middleware.RateLimiter
	Logger    *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps) *gin.Engine {
	response.UseJSONFieldNames()

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Advisor, deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	r.Use(middleware.Locale(deps.Locales))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 公开日历订阅
		v1.GET("/seminars/calendar.ics", h.Calendar.SeminarCalendar)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(deps.Tokens, deps.Blacklist, deps.Advisor))
		{
			members := authorized.Group("/members/me")
			{
				members.GET("", h.Member.GetMe)
				members.GET("/seminar-attendances", h.Member.ListMySeminarAttendances)
			}

			// 研讨会出勤管理（书记 / 会长）
			limit := middleware.RateLimit(deps.Limiter, deps.Advisor, cfg.RateLimit.Requests, cfg.RateLimit.Window)
			seminars := authorized.Group("/admin/clerk/seminars")
			seminars.Use(middleware.RoleAuth(deps.Advisor, model.RolePresident, model.RoleClerk, model.RoleAdmin))
			{
				seminars.GET("", h.Seminar.ListSeminars)
				seminars.POST("", limit, h.Seminar.CreateSeminar)
				seminars.GET("/attendances", h.Seminar.ListSeminarAttendances)
				seminars.GET("/statuses", h.Seminar.ListAttendanceStatuses)
				seminars.GET("/:seminarId/attendances", h.Seminar.ListAttendancesByStatus)
				seminars.PATCH("/:seminarId/attendances/:memberId", limit, h.Seminar.UpdateAttendanceStatus)
				seminars.GET("/:seminarId/export", h.Export.ExportSeminarAttendance)
			}
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, http.StatusNotFound, "not found")
	})

	return r
}
