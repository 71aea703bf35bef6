package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/02ggang9/Homepage-Back/internal/model"
)

// SeminarAttendanceStatusRepository 出勤状态参考数据访问接口（只读）
type SeminarAttendanceStatusRepository interface {
	GetByID(ctx context.Context, id int64) (*model.SeminarAttendanceStatus, error)
	List(ctx context.Context) ([]model.SeminarAttendanceStatus, error)
}

type seminarAttendanceStatusRepo struct {
	db *gorm.DB
}

// NewSeminarAttendanceStatusRepo 创建 SeminarAttendanceStatusRepository 实例
func NewSeminarAttendanceStatusRepo(db *gorm.DB) SeminarAttendanceStatusRepository {
	return &seminarAttendanceStatusRepo{db: db}
}

func (r *seminarAttendanceStatusRepo) GetByID(ctx context.Context, id int64) (*model.SeminarAttendanceStatus, error) {
	var status model.SeminarAttendanceStatus
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *seminarAttendanceStatusRepo) List(ctx context.Context) ([]model.SeminarAttendanceStatus, error) {
	var statuses []model.SeminarAttendanceStatus
	err := r.db.WithContext(ctx).Order("id ASC").Find(&statuses).Error
	return statuses, err
}
