package model

import "time"

// Seminar 研讨会表，对应 seminars
type Seminar struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"            json:"id"`
	Name      *string   `gorm:"type:varchar(100)"                   json:"name,omitempty"`
	OpenTime  time.Time `gorm:"not null"                            json:"open_time"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"  json:"created_at"`

	// 关联
	Attendances []SeminarAttendance `gorm:"foreignKey:SeminarID;references:ID" json:"attendances,omitempty"`
}

// TableName 指定表名
func (Seminar) TableName() string { return "seminars" }
