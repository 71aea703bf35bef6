package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02ggang9/Homepage-Back/internal/service"
	"github.com/02ggang9/Homepage-Back/pkg/response"
)

// CalendarHandler 研讨会日历订阅
type CalendarHandler struct {
	calendarSvc service.CalendarService
	advisor     *response.Advisor
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService, advisor *response.Advisor) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc, advisor: advisor}
}

// SeminarCalendar 输出 iCalendar 订阅源
// GET /api/v1/seminars/calendar.ics
func (h *CalendarHandler) SeminarCalendar(c *gin.Context) {
	body, err := h.calendarSvc.SeminarCalendar(c.Request.Context())
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="seminars.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
