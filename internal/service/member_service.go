package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/02ggang9/Homepage-Back/internal/dto"
	"github.com/02ggang9/Homepage-Back/internal/model"
	"github.com/02ggang9/Homepage-Back/internal/repository"
	pkgerrors "github.com/02ggang9/Homepage-Back/pkg/errors"
)

// MemberService 会员本人信息业务接口
type MemberService interface {
	GetProfile(ctx context.Context, memberID int64) (*dto.MemberProfileResponse, error)
	// ListMyAttendances 本人出勤记录（按研讨会开始时间倒序）及各状态次数
	ListMyAttendances(ctx context.Context, memberID int64) (*dto.MemberAttendanceSummary, error)
}

type memberService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMemberService 创建 MemberService 实例
func NewMemberService(repo *repository.Repository, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, logger: logger}
}

func (s *memberService) GetProfile(ctx context.Context, memberID int64) (*dto.MemberProfileResponse, error) {
	member, err := s.getMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	resp := &dto.MemberProfileResponse{
		ID:           member.ID,
		LoginID:      member.LoginID,
		RealName:     member.RealName,
		NickName:     member.NickName,
		EmailAddress: member.EmailAddress,
		Role:         member.Role,
		Generation:   member.Generation,
		Point:        member.Point,
		Merit:        member.Merit,
		Demerit:      member.Demerit,
	}
	if member.MemberType != nil {
		resp.MemberType = member.MemberType.Name
	}
	return resp, nil
}

func (s *memberService) ListMyAttendances(ctx context.Context, memberID int64) (*dto.MemberAttendanceSummary, error) {
	member, err := s.getMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	attendances, err := s.repo.SeminarAttendance.ListByMember(ctx, memberID)
	if err != nil {
		s.logger.Error("查询会员出勤记录失败", zap.Int64("member_id", memberID), zap.Error(err))
		return nil, err
	}

	summary := &dto.MemberAttendanceSummary{
		Demerit:     member.Demerit,
		Counts:      make(map[string]int),
		Attendances: make([]dto.MemberAttendanceResponse, 0, len(attendances)),
	}
	for i := range attendances {
		a := &attendances[i]
		statusType := string(model.AttendanceTypeOf(a.SeminarAttendanceStatusID))
		if a.Status != nil {
			statusType = string(a.Status.Type)
		}
		summary.Counts[statusType]++

		item := dto.MemberAttendanceResponse{
			SeminarID: a.SeminarID,
			Status:    statusType,
		}
		if a.Seminar != nil {
			item.SeminarName = a.Seminar.Name
			item.OpenTime = a.Seminar.OpenTime
		}
		if a.Excuse != nil {
			excuse := a.Excuse.AbsenceExcuse
			item.AbsenceExcuse = &excuse
		}
		summary.Attendances = append(summary.Attendances, item)
	}
	return summary, nil
}

func (s *memberService) getMember(ctx context.Context, memberID int64) (*model.Member, error) {
	member, err := s.repo.Member.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrMemberNotFound
		}
		s.logger.Error("查询会员失败", zap.Int64("member_id", memberID), zap.Error(err))
		return nil, err
	}
	return member, nil
}
