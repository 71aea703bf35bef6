package handler

import (
	"github.com/02ggang9/Homepage-Back/internal/service"
	"github.com/02ggang9/Homepage-Back/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Seminar  *SeminarHandler
	Member   *MemberHandler
	Export   *ExportHandler
	Calendar *CalendarHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, advisor *response.Advisor) *Handler {
	return &Handler{
		Seminar:  NewSeminarHandler(svc.Seminar, advisor),
		Member:   NewMemberHandler(svc.Member, advisor),
		Export:   NewExportHandler(svc.Export, advisor),
		Calendar: NewCalendarHandler(svc.Calendar, advisor),
	}
}
