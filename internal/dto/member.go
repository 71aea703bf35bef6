package dto

import "time"

// ── 会员模块 DTO ──

// MemberProfileResponse 会员本人信息
type MemberProfileResponse struct {
	ID           int64   `json:"id"`
	LoginID      string  `json:"login_id"`
	RealName     string  `json:"real_name"`
	NickName     string  `json:"nick_name"`
	EmailAddress string  `json:"email_address"`
	MemberType   string  `json:"member_type"`
	Role         string  `json:"role"`
	Generation   float64 `json:"generation"`
	Point        int     `json:"point"`
	Merit        int     `json:"merit"`
	Demerit      int     `json:"demerit"`
}

// MemberAttendanceResponse 会员本人的一条出勤记录
type MemberAttendanceResponse struct {
	SeminarID     int64     `json:"seminar_id"`
	SeminarName   *string   `json:"seminar_name"`
	OpenTime      time.Time `json:"open_time"`
	Status        string    `json:"status"`
	AbsenceExcuse *string   `json:"absence_excuse"`
}

// MemberAttendanceSummary 会员出勤记录与按状态统计
type MemberAttendanceSummary struct {
	Demerit     int                        `json:"demerit"`
	Counts      map[string]int             `json:"counts"`
	Attendances []MemberAttendanceResponse `json:"attendances"`
}
