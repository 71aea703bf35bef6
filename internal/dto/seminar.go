package dto

import "time"

// ── 研讨会模块 DTO ──

// CreateSeminarRequest 创建研讨会请求
type CreateSeminarRequest struct {
	OpenTime *time.Time `json:"open_time" binding:"required"`
}

// UpdateAttendanceStatusRequest 修改出勤状态请求
// absence_excuse 仅在目标状态为 PERSONAL 时必填
type UpdateAttendanceStatusRequest struct {
	SeminarAttendanceStatusID *int64  `json:"seminar_attendance_status_id" binding:"required,gt=0"`
	AbsenceExcuse             *string `json:"absence_excuse"               binding:"omitempty,max=200"`
}

// SeminarResponse 研讨会信息
type SeminarResponse struct {
	ID       int64     `json:"id"`
	Name     *string   `json:"name"`
	OpenTime time.Time `json:"open_time"`
}

// SeminarCreateResponse 创建研讨会响应
type SeminarCreateResponse struct {
	ID          int64     `json:"id"`
	OpenTime    time.Time `json:"open_time"`
	RosterCount int       `json:"roster_count"`
}

// AttendanceStatusResponse 出勤状态
type AttendanceStatusResponse struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// AttendanceResponse 出勤名单中的一条记录
type AttendanceResponse struct {
	ID                int64                    `json:"id"`
	MemberID          int64                    `json:"member_id"`
	RealName          string                   `json:"real_name"`
	Generation        float64                  `json:"generation"`
	Status            AttendanceStatusResponse `json:"status"`
	AbsenceExcuse     *string                  `json:"absence_excuse"`
	SeminarAttendTime time.Time                `json:"seminar_attend_time"`
}

// SeminarAttendanceResponse 研讨会及其出勤名单
type SeminarAttendanceResponse struct {
	SeminarResponse
	Attendances []AttendanceResponse `json:"attendances"`
}

// AttendanceUpdateResponse 出勤状态修改结果
type AttendanceUpdateResponse struct {
	AttendanceID  int64                    `json:"attendance_id"`
	SeminarID     int64                    `json:"seminar_id"`
	MemberID      int64                    `json:"member_id"`
	Status        AttendanceStatusResponse `json:"status"`
	AbsenceExcuse *string                  `json:"absence_excuse"`
	Demerit       int                      `json:"demerit"`
}
