package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/02ggang9/Homepage-Back/internal/model"
	pkgerrors "github.com/02ggang9/Homepage-Back/pkg/errors"
)

// MemberRepository 会员数据访问接口
type MemberRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Member, error)
	// GetByIDForUpdate 加行锁读取，必须在事务中调用
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Member, error)
	ListByType(ctx context.Context, memberTypeID int64) ([]model.Member, error)
	UpdateDemerit(ctx context.Context, member *model.Member) error
}

// memberRepo MemberRepository 的 GORM 实现
type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo 创建 MemberRepository 实例
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Preload("MemberType").
		Where("id = ?", id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListByType 按会员类型查询，按期数升序
func (r *memberRepo) ListByType(ctx context.Context, memberTypeID int64) ([]model.Member, error) {
	var members []model.Member
	err := r.db.WithContext(ctx).
		Where("member_type_id = ?", memberTypeID).
		Order("generation ASC").
		Order("id ASC").
		Find(&members).Error
	return members, err
}

// UpdateDemerit 以 version 作为条件更新罚分
func (r *memberRepo) UpdateDemerit(ctx context.Context, member *model.Member) error {
	oldVersion := member.Version
	result := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ? AND version = ?", member.ID, oldVersion).
		Updates(map[string]interface{}{
			"demerit":    member.Demerit,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	member.Version = oldVersion + 1
	return nil
}
