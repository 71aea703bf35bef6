package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/02ggang9/Homepage-Back/internal/dto"
	"github.com/02ggang9/Homepage-Back/internal/service"
	"github.com/02ggang9/Homepage-Back/pkg/response"
)

// SeminarHandler 研讨会出勤 HTTP 处理器（书记 / 会长）
type SeminarHandler struct {
	seminarSvc service.SeminarService
	advisor    *response.Advisor
}

// NewSeminarHandler 创建 SeminarHandler
func NewSeminarHandler(seminarSvc service.SeminarService, advisor *response.Advisor) *SeminarHandler {
	return &SeminarHandler{seminarSvc: seminarSvc, advisor: advisor}
}

// ListSeminars 全部研讨会
// GET /api/v1/admin/clerk/seminars
func (h *SeminarHandler) ListSeminars(c *gin.Context) {
	list, err := h.seminarSvc.ListSeminars(c.Request.Context())
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}
	response.OK(c, list)
}

// CreateSeminar 创建研讨会并生成出勤名单
// POST /api/v1/admin/clerk/seminars
func (h *SeminarHandler) CreateSeminar(c *gin.Context) {
	var req dto.CreateSeminarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.advisor.Fail(c, err)
		return
	}

	result, err := h.seminarSvc.CreateSeminar(c.Request.Context(), *req.OpenTime)
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}
	response.Created(c, result)
}

// ListSeminarAttendances 分页查询研讨会及其出勤名单
// GET /api/v1/admin/clerk/seminars/attendances?page=1&page_size=10
func (h *SeminarHandler) ListSeminarAttendances(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.advisor.Fail(c, err)
		return
	}

	list, total, err := h.seminarSvc.ListSeminarAttendances(c.Request.Context(), &req)
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListAttendanceStatuses 出勤状态列表
// GET /api/v1/admin/clerk/seminars/statuses
func (h *SeminarHandler) ListAttendanceStatuses(c *gin.Context) {
	list, err := h.seminarSvc.ListAttendanceStatuses(c.Request.Context())
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}
	response.OK(c, list)
}

// UpdateAttendanceStatus 修改会员的出勤状态
// PATCH /api/v1/admin/clerk/seminars/:seminarId/attendances/:memberId
func (h *SeminarHandler) UpdateAttendanceStatus(c *gin.Context) {
	seminarID, err := parseIDParam(c, "seminarId")
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}
	memberID, err := parseIDParam(c, "memberId")
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}

	var req dto.UpdateAttendanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.advisor.Fail(c, err)
		return
	}

	result, err := h.seminarSvc.UpdateAttendanceStatus(
		c.Request.Context(), seminarID, memberID, *req.SeminarAttendanceStatusID, req.AbsenceExcuse,
	)
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}
	response.OK(c, result)
}

// ListAttendancesByStatus 研讨会中处于指定状态的出勤记录
// GET /api/v1/admin/clerk/seminars/:seminarId/attendances?status_id=3
func (h *SeminarHandler) ListAttendancesByStatus(c *gin.Context) {
	seminarID, err := parseIDParam(c, "seminarId")
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}
	statusID, err := parseRequiredQueryID(c, "status_id")
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}

	list, err := h.seminarSvc.ListAttendancesByStatus(c.Request.Context(), seminarID, statusID)
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}
	response.OK(c, list)
}
