package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/02ggang9/Homepage-Back/internal/service"
	"github.com/02ggang9/Homepage-Back/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
	advisor   *response.Advisor
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, advisor *response.Advisor) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, advisor: advisor}
}

// ExportSeminarAttendance 导出研讨会出勤表
// GET /api/v1/admin/clerk/seminars/:seminarId/export
func (h *ExportHandler) ExportSeminarAttendance(c *gin.Context) {
	seminarID, err := parseIDParam(c, "seminarId")
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportSeminarAttendance(c.Request.Context(), seminarID)
	if err != nil {
		h.advisor.Fail(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
