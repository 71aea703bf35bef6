package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/02ggang9/Homepage-Back/internal/model"
)

// batchSize 批量写入每批行数
const batchSize = 100

// SeminarAttendanceRepository 研讨会出勤记录数据访问接口
type SeminarAttendanceRepository interface {
	BatchCreate(ctx context.Context, attendances []model.SeminarAttendance) error
	// GetBySeminarAndMemberForUpdate 加行锁读取，必须在事务中调用
	GetBySeminarAndMemberForUpdate(ctx context.Context, seminarID, memberID int64) (*model.SeminarAttendance, error)
	// CountByMemberAndStatus 统计会员处于某状态的出勤记录数（跨全部研讨会）
	CountByMemberAndStatus(ctx context.Context, memberID, statusID int64) (int64, error)
	UpdateStatus(ctx context.Context, attendance *model.SeminarAttendance) error
	ListBySeminar(ctx context.Context, seminarID int64) ([]model.SeminarAttendance, error)
	ListBySeminarAndStatus(ctx context.Context, seminarID, statusID int64) ([]model.SeminarAttendance, error)
	ListByMember(ctx context.Context, memberID int64) ([]model.SeminarAttendance, error)
}

type seminarAttendanceRepo struct {
	db *gorm.DB
}

// NewSeminarAttendanceRepo 创建 SeminarAttendanceRepository 实例
func NewSeminarAttendanceRepo(db *gorm.DB) SeminarAttendanceRepository {
	return &seminarAttendanceRepo{db: db}
}

func (r *seminarAttendanceRepo) BatchCreate(ctx context.Context, attendances []model.SeminarAttendance) error {
	if len(attendances) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		CreateInBatches(attendances, batchSize).Error
}

func (r *seminarAttendanceRepo) GetBySeminarAndMemberForUpdate(ctx context.Context, seminarID, memberID int64) (*model.SeminarAttendance, error) {
	var attendance model.SeminarAttendance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("seminar_id = ? AND member_id = ?", seminarID, memberID).
		First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *seminarAttendanceRepo) CountByMemberAndStatus(ctx context.Context, memberID, statusID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SeminarAttendance{}).
		Where("member_id = ? AND seminar_attendance_status_id = ?", memberID, statusID).
		Count(&count).Error
	return count, err
}

func (r *seminarAttendanceRepo) UpdateStatus(ctx context.Context, attendance *model.SeminarAttendance) error {
	return r.db.WithContext(ctx).
		Model(&model.SeminarAttendance{}).
		Where("id = ?", attendance.ID).
		Update("seminar_attendance_status_id", attendance.SeminarAttendanceStatusID).Error
}

func (r *seminarAttendanceRepo) ListBySeminar(ctx context.Context, seminarID int64) ([]model.SeminarAttendance, error) {
	var attendances []model.SeminarAttendance
	err := r.withRoster(ctx).
		Where("seminar_id = ?", seminarID).
		Order("id ASC").
		Find(&attendances).Error
	return attendances, err
}

func (r *seminarAttendanceRepo) ListBySeminarAndStatus(ctx context.Context, seminarID, statusID int64) ([]model.SeminarAttendance, error) {
	var attendances []model.SeminarAttendance
	err := r.withRoster(ctx).
		Where("seminar_id = ? AND seminar_attendance_status_id = ?", seminarID, statusID).
		Order("id ASC").
		Find(&attendances).Error
	return attendances, err
}

func (r *seminarAttendanceRepo) ListByMember(ctx context.Context, memberID int64) ([]model.SeminarAttendance, error) {
	var attendances []model.SeminarAttendance
	err := r.db.WithContext(ctx).
		Preload("Seminar").
		Preload("Status").
		Preload("Excuse").
		Joins("JOIN seminars ON seminars.id = seminar_attendances.seminar_id").
		Where("seminar_attendances.member_id = ?", memberID).
		Order("seminars.open_time DESC").
		Find(&attendances).Error
	return attendances, err
}

// withRoster 预加载名单展示所需的关联
func (r *seminarAttendanceRepo) withRoster(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Member").
		Preload("Status").
		Preload("Excuse")
}
