package model

import "time"

// AttendanceType 出勤状态类型标签
type AttendanceType string

const (
	AttendanceTypeAttendance       AttendanceType = "ATTENDANCE"
	AttendanceTypeLateness         AttendanceType = "LATENESS"
	AttendanceTypeAbsence          AttendanceType = "ABSENCE"
	AttendanceTypePersonal         AttendanceType = "PERSONAL"
	AttendanceTypeBeforeAttendance AttendanceType = "BEFORE_ATTENDANCE"
)

// 出勤状态 ID（seminar_attendance_statuses 参考数据，由迁移写入，运行期只读）
const (
	AttendanceStatusAttendanceID       int64 = 1
	AttendanceStatusLatenessID         int64 = 2
	AttendanceStatusAbsenceID          int64 = 3
	AttendanceStatusPersonalID         int64 = 4
	AttendanceStatusBeforeAttendanceID int64 = 5
)

// SeminarAttendanceStatus 出勤状态表，对应 seminar_attendance_statuses
type SeminarAttendanceStatus struct {
	ID   int64          `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Type AttendanceType `gorm:"type:varchar(45);not null" json:"type"`
}

// TableName 指定表名
func (SeminarAttendanceStatus) TableName() string { return "seminar_attendance_statuses" }

// SeminarAttendance 研讨会出勤记录表，对应 seminar_attendances
// 每个 (seminar_id, member_id) 唯一；记录只改状态不删除
type SeminarAttendance struct {
	ID                        int64     `gorm:"primaryKey;autoIncrement"                           json:"id"`
	SeminarID                 int64     `gorm:"not null;uniqueIndex:uk_seminar_member"             json:"seminar_id"`
	MemberID                  int64     `gorm:"not null;uniqueIndex:uk_seminar_member;index"       json:"member_id"`
	SeminarAttendanceStatusID int64     `gorm:"column:seminar_attendance_status_id;not null;index" json:"seminar_attendance_status_id"`
	SeminarAttendTime         time.Time `gorm:"not null"                                           json:"seminar_attend_time"`

	// 关联
	Seminar *Seminar                 `gorm:"foreignKey:SeminarID;references:ID"                 json:"seminar,omitempty"`
	Member  *Member                  `gorm:"foreignKey:MemberID;references:ID"                  json:"member,omitempty"`
	Status  *SeminarAttendanceStatus `gorm:"foreignKey:SeminarAttendanceStatusID;references:ID" json:"status,omitempty"`
	Excuse  *SeminarAttendanceExcuse `gorm:"foreignKey:SeminarAttendanceID;references:ID"       json:"excuse,omitempty"`
}

// TableName 指定表名
func (SeminarAttendance) TableName() string { return "seminar_attendances" }

// SeminarAttendanceExcuse 请假事由表，对应 seminar_attendance_excuses
// 仅在出勤状态为 PERSONAL 时存在
type SeminarAttendanceExcuse struct {
	SeminarAttendanceID int64  `gorm:"primaryKey;autoIncrement:false" json:"seminar_attendance_id"`
	AbsenceExcuse       string `gorm:"type:text;not null" json:"absence_excuse"`
}

// TableName 指定表名
func (SeminarAttendanceExcuse) TableName() string { return "seminar_attendance_excuses" }

var attendanceTypeByID = map[int64]AttendanceType{
	AttendanceStatusAttendanceID:       AttendanceTypeAttendance,
	AttendanceStatusLatenessID:         AttendanceTypeLateness,
	AttendanceStatusAbsenceID:          AttendanceTypeAbsence,
	AttendanceStatusPersonalID:         AttendanceTypePersonal,
	AttendanceStatusBeforeAttendanceID: AttendanceTypeBeforeAttendance,
}

// AttendanceTypeOf 出勤状态 ID 对应的类型标签，未知 ID 返回空串
func AttendanceTypeOf(id int64) AttendanceType {
	return attendanceTypeByID[id]
}
