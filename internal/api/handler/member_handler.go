package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/02ggang9/Homepage-Back/internal/service"
	"github.com/02ggang9/Homepage-Back/pkg/response"
)

// MemberHandler 会员本人信息 HTTP 处理器
type MemberHandler struct {
	memberSvc service.MemberService
	advisor   *response.Advisor
}

// NewMemberHandler 创建 MemberHandler
func NewMemberHandler(memberSvc service.MemberService, advisor *response.Advisor) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc, advisor: advisor}
}

// GetMe 当前会员资料（含奖惩分）
// GET /api/v1/members/me
func (h *MemberHandler) GetMe(c *gin.Context) {
	memberID, ok := MustGetMemberID(c, h.advisor)
	if !ok {
		return
	}

	profile, err := h.memberSvc.GetProfile(c.Request.Context(), memberID)
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}
	response.OK(c, profile)
}

// ListMySeminarAttendances 当前会员的研讨会出勤记录
// GET /api/v1/members/me/seminar-attendances
func (h *MemberHandler) ListMySeminarAttendances(c *gin.Context) {
	memberID, ok := MustGetMemberID(c, h.advisor)
	if !ok {
		return
	}

	summary, err := h.memberSvc.ListMyAttendances(c.Request.Context(), memberID)
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}
	response.OK(c, summary)
}
