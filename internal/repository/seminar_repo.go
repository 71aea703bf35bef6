package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/02ggang9/Homepage-Back/internal/model"
)

// SeminarRepository 研讨会数据访问接口
type SeminarRepository interface {
	Create(ctx context.Context, seminar *model.Seminar) error
	GetByID(ctx context.Context, id int64) (*model.Seminar, error)
	// ListAll 按开始时间倒序
	ListAll(ctx context.Context) ([]model.Seminar, error)
	// ListWithAttendances 分页查询研讨会及其出勤名单
	ListWithAttendances(ctx context.Context, offset, limit int) ([]model.Seminar, int64, error)
	// ListOpenSince 查询指定时间之后开始的研讨会，按开始时间升序
	ListOpenSince(ctx context.Context, since time.Time) ([]model.Seminar, error)
}

type seminarRepo struct {
	db *gorm.DB
}

// NewSeminarRepo 创建 SeminarRepository 实例
func NewSeminarRepo(db *gorm.DB) SeminarRepository {
	return &seminarRepo{db: db}
}

func (r *seminarRepo) Create(ctx context.Context, seminar *model.Seminar) error {
	return r.db.WithContext(ctx).Omit("Attendances").Create(seminar).Error
}

func (r *seminarRepo) GetByID(ctx context.Context, id int64) (*model.Seminar, error) {
	var seminar model.Seminar
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&seminar).Error
	if err != nil {
		return nil, err
	}
	return &seminar, nil
}

func (r *seminarRepo) ListAll(ctx context.Context) ([]model.Seminar, error) {
	var seminars []model.Seminar
	err := r.db.WithContext(ctx).
		Order("open_time DESC").
		Find(&seminars).Error
	return seminars, err
}

func (r *seminarRepo) ListWithAttendances(ctx context.Context, offset, limit int) ([]model.Seminar, int64, error) {
	var seminars []model.Seminar
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Seminar{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.
		Preload("Attendances", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("seminar_attendances.id ASC")
		}).
		Preload("Attendances.Member").
		Preload("Attendances.Status").
		Preload("Attendances.Excuse").
		Order("open_time DESC").
		Offset(offset).Limit(limit).
		Find(&seminars).Error; err != nil {
		return nil, 0, err
	}

	return seminars, total, nil
}

func (r *seminarRepo) ListOpenSince(ctx context.Context, since time.Time) ([]model.Seminar, error) {
	var seminars []model.Seminar
	err := r.db.WithContext(ctx).
		Where("open_time >= ?", since).
		Order("open_time ASC").
		Find(&seminars).Error
	return seminars, err
}
