package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/02ggang9/Homepage-Back/internal/api/middleware"
	"github.com/02ggang9/Homepage-Back/internal/dto"
	pkgerrors "github.com/02ggang9/Homepage-Back/pkg/errors"
	"github.com/02ggang9/Homepage-Back/pkg/i18n"
	"github.com/02ggang9/Homepage-Back/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	response.UseJSONFieldNames()
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock SeminarService ──

type updateCall struct {
	seminarID, memberID, statusID int64
	excuse                        *string
}

type mockSeminarService struct {
	listResult     []dto.SeminarResponse
	listErr        error
	pageResult     []dto.SeminarAttendanceResponse
	pageTotal      int64
	pageErr        error
	pageReq        *dto.PaginationRequest
	createResult   *dto.SeminarCreateResponse
	createErr      error
	createOpenTime time.Time
	updateResult   *dto.AttendanceUpdateResponse
	updateErr      error
	updateCalls    []updateCall
	statusesResult []dto.AttendanceStatusResponse
	statusesErr    error
	byStatusResult []dto.AttendanceResponse
	byStatusErr    error
}

func (m *mockSeminarService) ListSeminars(_ context.Context) ([]dto.SeminarResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockSeminarService) ListSeminarAttendances(_ context.Context, req *dto.PaginationRequest) ([]dto.SeminarAttendanceResponse, int64, error) {
	m.pageReq = req
	return m.pageResult, m.pageTotal, m.pageErr
}
func (m *mockSeminarService) CreateSeminar(_ context.Context, openTime time.Time) (*dto.SeminarCreateResponse, error) {
	m.createOpenTime = openTime
	return m.createResult, m.createErr
}
func (m *mockSeminarService) UpdateAttendanceStatus(_ context.Context, seminarID, memberID, statusID int64, excuse *string) (*dto.AttendanceUpdateResponse, error) {
	m.updateCalls = append(m.updateCalls, updateCall{seminarID, memberID, statusID, excuse})
	return m.updateResult, m.updateErr
}
func (m *mockSeminarService) ListAttendanceStatuses(_ context.Context) ([]dto.AttendanceStatusResponse, error) {
	return m.statusesResult, m.statusesErr
}
func (m *mockSeminarService) ListAttendancesByStatus(_ context.Context, _, _ int64) ([]dto.AttendanceResponse, error) {
	return m.byStatusResult, m.byStatusErr
}

// ── Mock MemberService ──

type mockMemberService struct {
	profile    *dto.MemberProfileResponse
	profileErr error
	summary    *dto.MemberAttendanceSummary
	summaryErr error
	calledWith int64
}

func (m *mockMemberService) GetProfile(_ context.Context, memberID int64) (*dto.MemberProfileResponse, error) {
	m.calledWith = memberID
	return m.profile, m.profileErr
}
func (m *mockMemberService) ListMyAttendances(_ context.Context, memberID int64) (*dto.MemberAttendanceSummary, error) {
	m.calledWith = memberID
	return m.summary, m.summaryErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportSeminarAttendance(_ context.Context, _ int64) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock CalendarService ──

type mockCalendarService struct {
	body string
	err  error
}

func (m *mockCalendarService) SeminarCalendar(_ context.Context) (string, error) {
	return m.body, m.err
}

// ═══════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════

func newTestAdvisor(t *testing.T) *response.Advisor {
	t.Helper()
	catalog, err := i18n.NewCatalog("zh")
	if err != nil {
		t.Fatalf("创建消息目录失败: %v", err)
	}
	return response.NewAdvisor(catalog, zap.NewNop())
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v, body=%s", err, w.Body.String())
	}
	return resp
}

func newSeminarRouter(t *testing.T, svc *mockSeminarService) *gin.Engine {
	t.Helper()
	h := NewSeminarHandler(svc, newTestAdvisor(t))
	r := gin.New()
	g := r.Group("/seminars")
	g.GET("", h.ListSeminars)
	g.POST("", h.CreateSeminar)
	g.GET("/attendances", h.ListSeminarAttendances)
	g.GET("/statuses", h.ListAttendanceStatuses)
	g.PATCH("/:seminarId/attendances/:memberId", h.UpdateAttendanceStatus)
	g.GET("/:seminarId/attendances", h.ListAttendancesByStatus)
	return r
}

// ═══════════════════════════════════════════════════════════
// SeminarHandler
// ═══════════════════════════════════════════════════════════

func TestSeminarHandler_CreateSeminar_Success(t *testing.T) {
	openTime := time.Date(2024, 3, 4, 19, 0, 0, 0, time.UTC)
	svc := &mockSeminarService{createResult: &dto.SeminarCreateResponse{ID: 1, OpenTime: openTime, RosterCount: 12}}
	r := newSeminarRouter(t, svc)

	w := serve(r, http.MethodPost, "/seminars", strings.NewReader(`{"open_time":"2024-03-04T19:00:00Z"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201, 实际 %d, body=%s", w.Code, w.Body.String())
	}
	if !svc.createOpenTime.Equal(openTime) {
		t.Errorf("open_time 传递错误: %v", svc.createOpenTime)
	}
	if resp := parseResponse(t, w); !resp.Success || resp.Code != 0 {
		t.Errorf("期望成功响应, 实际 %+v", resp)
	}
}

func TestSeminarHandler_CreateSeminar_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{"missing open_time", `{}`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"malformed json", `{"open_time":`, http.StatusBadRequest},
		{"bad time", `{"open_time":"yesterday"}`, -1001},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockSeminarService{}
			w := serve(newSeminarRouter(t, svc), http.MethodPost, "/seminars", strings.NewReader(tc.body))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("期望 400, 实际 %d", w.Code)
			}
			if resp := parseResponse(t, w); resp.Code != tc.code {
				t.Errorf("期望 code %d, 实际 %d (%s)", tc.code, resp.Code, resp.Message)
			}
		})
	}
}

func TestSeminarHandler_CreateSeminar_ValidationMessage(t *testing.T) {
	w := serve(newSeminarRouter(t, &mockSeminarService{}), http.MethodPost, "/seminars", strings.NewReader(`{}`))
	resp := parseResponse(t, w)
	if resp.Message != "[open_time] input: null / must not be null" {
		t.Errorf("校验消息不符: %q", resp.Message)
	}
}

func TestSeminarHandler_UpdateAttendanceStatus_Success(t *testing.T) {
	svc := &mockSeminarService{updateResult: &dto.AttendanceUpdateResponse{AttendanceID: 9, Demerit: 3}}
	r := newSeminarRouter(t, svc)

	w := serve(r, http.MethodPatch, "/seminars/5/attendances/7", jsonBody(map[string]interface{}{
		"seminar_attendance_status_id": 4,
		"absence_excuse":               "병원",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d, body=%s", w.Code, w.Body.String())
	}
	if len(svc.updateCalls) != 1 {
		t.Fatalf("期望调用 1 次, 实际 %d", len(svc.updateCalls))
	}
	call := svc.updateCalls[0]
	if call.seminarID != 5 || call.memberID != 7 || call.statusID != 4 {
		t.Errorf("参数传递错误: %+v", call)
	}
	if call.excuse == nil || *call.excuse != "병원" {
		t.Errorf("excuse 传递错误: %v", call.excuse)
	}
}

func TestSeminarHandler_UpdateAttendanceStatus_BadInput(t *testing.T) {
	cases := []struct {
		name string
		path string
		body string
		code int
	}{
		{"non numeric seminar id", "/seminars/abc/attendances/7", `{"seminar_attendance_status_id":1}`, -1001},
		{"non numeric member id", "/seminars/5/attendances/x", `{"seminar_attendance_status_id":1}`, -1001},
		{"zero seminar id", "/seminars/0/attendances/7", `{"seminar_attendance_status_id":1}`, -1001},
		{"missing status id", "/seminars/5/attendances/7", `{}`, http.StatusBadRequest},
		{"status id wrong type", "/seminars/5/attendances/7", `{"seminar_attendance_status_id":"abc"}`, -1001},
		{"excuse too long", "/seminars/5/attendances/7", `{"seminar_attendance_status_id":4,"absence_excuse":"` + strings.Repeat("가", 201) + `"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockSeminarService{}
			w := serve(newSeminarRouter(t, svc), http.MethodPatch, tc.path, strings.NewReader(tc.body))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("期望 400, 实际 %d", w.Code)
			}
			if resp := parseResponse(t, w); resp.Code != tc.code {
				t.Errorf("期望 code %d, 实际 %d (%s)", tc.code, resp.Code, resp.Message)
			}
			if len(svc.updateCalls) != 0 {
				t.Error("参数错误时不应调用 service")
			}
		})
	}
}

func TestSeminarHandler_UpdateAttendanceStatus_ServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"excuse missing", pkgerrors.ErrAbsenceExcuseIsNull, http.StatusBadRequest, -13004},
		{"attendance missing", pkgerrors.ErrSeminarAttendanceNotFound, http.StatusBadRequest, -13002},
		{"status missing", pkgerrors.ErrSeminarAttendanceStatusNotFound, http.StatusBadRequest, -13003},
		{"seminar missing", pkgerrors.ErrSeminarNotFound, http.StatusBadRequest, -13001},
		{"member missing", pkgerrors.ErrMemberNotFound, http.StatusInternalServerError, -1000},
		{"concurrent update", pkgerrors.ErrOptimisticLock, http.StatusConflict, -1007},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockSeminarService{updateErr: tc.err}
			w := serve(newSeminarRouter(t, svc), http.MethodPatch, "/seminars/5/attendances/7",
				strings.NewReader(`{"seminar_attendance_status_id":4}`))
			if w.Code != tc.status {
				t.Fatalf("期望 %d, 实际 %d", tc.status, w.Code)
			}
			if resp := parseResponse(t, w); resp.Code != tc.code || resp.Success {
				t.Errorf("期望 code %d, 实际 %+v", tc.code, resp)
			}
		})
	}
}

func TestSeminarHandler_ListSeminarAttendances(t *testing.T) {
	svc := &mockSeminarService{
		pageResult: []dto.SeminarAttendanceResponse{{SeminarResponse: dto.SeminarResponse{ID: 1}}},
		pageTotal:  21,
	}
	r := newSeminarRouter(t, svc)

	w := serve(r, http.MethodGet, "/seminars/attendances?page=3&page_size=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d, body=%s", w.Code, w.Body.String())
	}
	if svc.pageReq == nil || svc.pageReq.GetOffset() != 20 {
		t.Errorf("分页参数传递错误: %+v", svc.pageReq)
	}
	var body struct {
		Data response.PageData `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.TotalPages != 3 || body.Data.Pagination.Page != 3 {
		t.Errorf("分页元数据错误: %+v", body.Data.Pagination)
	}

	w = serve(r, http.MethodGet, "/seminars/attendances?page_size=500", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("page_size 超限期望 400, 实际 %d", w.Code)
	}

	w = serve(r, http.MethodGet, "/seminars/attendances?page=abc", nil)
	if resp := parseResponse(t, w); resp.Code != -1001 {
		t.Errorf("page 非数字期望 code -1001, 实际 %d", resp.Code)
	}
}

func TestSeminarHandler_ListAttendancesByStatus(t *testing.T) {
	svc := &mockSeminarService{byStatusResult: []dto.AttendanceResponse{{ID: 1, MemberID: 7}}}
	r := newSeminarRouter(t, svc)

	w := serve(r, http.MethodGet, "/seminars/5/attendances?status_id=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}

	w = serve(r, http.MethodGet, "/seminars/5/attendances", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺少 status_id 期望 400, 实际 %d", w.Code)
	}
	if resp := parseResponse(t, w); resp.Code != -1002 {
		t.Errorf("期望 code -1002, 实际 %d", resp.Code)
	}

	w = serve(r, http.MethodGet, "/seminars/5/attendances?status_id=late", nil)
	if resp := parseResponse(t, w); resp.Code != -1001 {
		t.Errorf("期望 code -1001, 实际 %d", resp.Code)
	}
}

func TestSeminarHandler_ListSeminarsAndStatuses(t *testing.T) {
	svc := &mockSeminarService{
		listResult:     []dto.SeminarResponse{{ID: 2}, {ID: 1}},
		statusesResult: []dto.AttendanceStatusResponse{{ID: 1, Type: "ATTENDANCE"}},
	}
	r := newSeminarRouter(t, svc)

	if w := serve(r, http.MethodGet, "/seminars", nil); w.Code != http.StatusOK {
		t.Errorf("期望 200, 实际 %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/seminars/statuses", nil); w.Code != http.StatusOK {
		t.Errorf("期望 200, 实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// MemberHandler
// ═══════════════════════════════════════════════════════════

func TestMemberHandler_GetMe(t *testing.T) {
	svc := &mockMemberService{profile: &dto.MemberProfileResponse{ID: 7, Demerit: 3}}
	h := NewMemberHandler(svc, newTestAdvisor(t))

	r := gin.New()
	r.GET("/anon", h.GetMe)
	authed := r.Group("", func(c *gin.Context) { c.Set(middleware.ContextMemberIDKey, int64(7)) })
	authed.GET("/me", h.GetMe)
	authed.GET("/me/seminar-attendances", h.ListMySeminarAttendances)

	w := serve(r, http.MethodGet, "/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	if svc.calledWith != 7 {
		t.Errorf("member id 传递错误: %d", svc.calledWith)
	}

	w = serve(r, http.MethodGet, "/anon", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("未认证期望 401, 实际 %d", w.Code)
	}

	svc.summaryErr = pkgerrors.ErrMemberNotFound
	w = serve(r, http.MethodGet, "/me/seminar-attendances", nil)
	if resp := parseResponse(t, w); resp.Code != -1000 {
		t.Errorf("期望 code -1000, 实际 %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler / CalendarHandler
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportSeminarAttendance(t *testing.T) {
	svc := &mockExportService{buf: bytes.NewBufferString("xlsx"), filename: "研讨会出勤_2024-03-04.xlsx"}
	h := NewExportHandler(svc, newTestAdvisor(t))
	r := gin.New()
	r.GET("/seminars/:seminarId/export", h.ExportSeminarAttendance)

	w := serve(r, http.MethodGet, "/seminars/5/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type 错误: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment; filename*=UTF-8''") || !strings.HasSuffix(cd, ".xlsx") {
		t.Errorf("Content-Disposition 错误: %s", cd)
	}
	if w.Body.String() != "xlsx" {
		t.Errorf("文件内容错误: %q", w.Body.String())
	}

	svc.err = pkgerrors.ErrSeminarNotFound
	w = serve(r, http.MethodGet, "/seminars/5/export", nil)
	if resp := parseResponse(t, w); resp.Code != -13001 {
		t.Errorf("期望 code -13001, 实际 %d", resp.Code)
	}
}

func TestCalendarHandler_SeminarCalendar(t *testing.T) {
	h := NewCalendarHandler(&mockCalendarService{body: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}, newTestAdvisor(t))
	r := gin.New()
	r.GET("/calendar.ics", h.SeminarCalendar)

	w := serve(r, http.MethodGet, "/calendar.ics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Errorf("Content-Type 错误: %s", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Errorf("日历内容错误: %q", w.Body.String())
	}
}
