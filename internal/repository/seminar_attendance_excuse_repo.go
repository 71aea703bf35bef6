package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/02ggang9/Homepage-Back/internal/model"
)

// SeminarAttendanceExcuseRepository 请假事由数据访问接口
type SeminarAttendanceExcuseRepository interface {
	// Upsert 写入或覆盖出勤记录的请假事由
	Upsert(ctx context.Context, excuse *model.SeminarAttendanceExcuse) error
	DeleteByAttendance(ctx context.Context, attendanceID int64) error
}

type seminarAttendanceExcuseRepo struct {
	db *gorm.DB
}

// NewSeminarAttendanceExcuseRepo 创建 SeminarAttendanceExcuseRepository 实例
func NewSeminarAttendanceExcuseRepo(db *gorm.DB) SeminarAttendanceExcuseRepository {
	return &seminarAttendanceExcuseRepo{db: db}
}

func (r *seminarAttendanceExcuseRepo) Upsert(ctx context.Context, excuse *model.SeminarAttendanceExcuse) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seminar_attendance_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"absence_excuse"}),
		}).
		Create(excuse).Error
}

func (r *seminarAttendanceExcuseRepo) DeleteByAttendance(ctx context.Context, attendanceID int64) error {
	return r.db.WithContext(ctx).
		Where("seminar_attendance_id = ?", attendanceID).
		Delete(&model.SeminarAttendanceExcuse{}).Error
}
