package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/02ggang9/Homepage-Back/config"
	"github.com/02ggang9/Homepage-Back/internal/dto"
	"github.com/02ggang9/Homepage-Back/internal/model"
	"github.com/02ggang9/Homepage-Back/internal/repository"
	pkgerrors "github.com/02ggang9/Homepage-Back/pkg/errors"
	"github.com/02ggang9/Homepage-Back/pkg/metrics"
)

const (
	attendanceStatusCacheKey = "seminar:attendance_statuses"
	attendanceStatusCacheTTL = time.Hour
)

// Cache 参考数据缓存（Redis 实现见 pkg/redis）
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// SeminarService 研讨会与出勤业务接口
type SeminarService interface {
	// ListSeminars 全部研讨会，按开始时间倒序
	ListSeminars(ctx context.Context) ([]dto.SeminarResponse, error)
	// ListSeminarAttendances 分页查询研讨会及出勤名单
	ListSeminarAttendances(ctx context.Context, req *dto.PaginationRequest) ([]dto.SeminarAttendanceResponse, int64, error)
	// CreateSeminar 创建研讨会，并为每位正式会员生成一条 ATTENDANCE 出勤记录
	CreateSeminar(ctx context.Context, openTime time.Time) (*dto.SeminarCreateResponse, error)
	// UpdateAttendanceStatus 修改出勤状态并结算罚分
	UpdateAttendanceStatus(ctx context.Context, seminarID, memberID, statusID int64, excuse *string) (*dto.AttendanceUpdateResponse, error)
	// ListAttendanceStatuses 出勤状态参考数据
	ListAttendanceStatuses(ctx context.Context) ([]dto.AttendanceStatusResponse, error)
	// ListAttendancesByStatus 研讨会中处于指定状态的出勤记录
	ListAttendancesByStatus(ctx context.Context, seminarID, statusID int64) ([]dto.AttendanceResponse, error)
}

type seminarService struct {
	repo                *repository.Repository
	cache               Cache
	absenceDemerit      int
	regularMemberTypeID int64
	now                 func() time.Time
	logger              *zap.Logger
}

// NewSeminarService 创建 SeminarService 实例
// cache 可为 nil，此时状态列表每次直接查库
func NewSeminarService(cfg *config.SeminarConfig, repo *repository.Repository, cache Cache, logger *zap.Logger) SeminarService {
	return &seminarService{
		repo:                repo,
		cache:               cache,
		absenceDemerit:      cfg.AbsenceDemerit,
		regularMemberTypeID: cfg.RegularMemberTypeID,
		now:                 time.Now,
		logger:              logger,
	}
}

// ────────────────────── 查询 ──────────────────────

func (s *seminarService) ListSeminars(ctx context.Context) ([]dto.SeminarResponse, error) {
	seminars, err := s.repo.Seminar.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询研讨会列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SeminarResponse, 0, len(seminars))
	for i := range seminars {
		result = append(result, toSeminarResponse(&seminars[i]))
	}
	return result, nil
}

func (s *seminarService) ListSeminarAttendances(ctx context.Context, req *dto.PaginationRequest) ([]dto.SeminarAttendanceResponse, int64, error) {
	seminars, total, err := s.repo.Seminar.ListWithAttendances(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("分页查询研讨会出勤失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SeminarAttendanceResponse, 0, len(seminars))
	for i := range seminars {
		item := dto.SeminarAttendanceResponse{
			SeminarResponse: toSeminarResponse(&seminars[i]),
			Attendances:     make([]dto.AttendanceResponse, 0, len(seminars[i].Attendances)),
		}
		for j := range seminars[i].Attendances {
			item.Attendances = append(item.Attendances, toAttendanceResponse(&seminars[i].Attendances[j]))
		}
		result = append(result, item)
	}
	return result, total, nil
}

func (s *seminarService) ListAttendanceStatuses(ctx context.Context) ([]dto.AttendanceStatusResponse, error) {
	var cached []dto.AttendanceStatusResponse
	if s.cache != nil {
		if err := s.cache.GetJSON(ctx, attendanceStatusCacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	statuses, err := s.repo.SeminarAttendanceStatus.List(ctx)
	if err != nil {
		s.logger.Error("查询出勤状态失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		result = append(result, dto.AttendanceStatusResponse{ID: st.ID, Type: string(st.Type)})
	}

	if s.cache != nil && len(result) > 0 {
		if err := s.cache.SetJSON(ctx, attendanceStatusCacheKey, result, attendanceStatusCacheTTL); err != nil {
			s.logger.Warn("写入出勤状态缓存失败", zap.Error(err))
		}
	}
	return result, nil
}

func (s *seminarService) ListAttendancesByStatus(ctx context.Context, seminarID, statusID int64) ([]dto.AttendanceResponse, error) {
	if _, err := s.repo.Seminar.GetByID(ctx, seminarID); err != nil {
		return nil, s.mapNotFound(err, pkgerrors.ErrSeminarNotFound, "查询研讨会失败")
	}
	if _, err := s.repo.SeminarAttendanceStatus.GetByID(ctx, statusID); err != nil {
		return nil, s.mapNotFound(err, pkgerrors.ErrSeminarAttendanceStatusNotFound, "查询出勤状态失败")
	}

	attendances, err := s.repo.SeminarAttendance.ListBySeminarAndStatus(ctx, seminarID, statusID)
	if err != nil {
		s.logger.Error("按状态查询出勤记录失败",
			zap.Int64("seminar_id", seminarID), zap.Int64("status_id", statusID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceResponse, 0, len(attendances))
	for i := range attendances {
		result = append(result, toAttendanceResponse(&attendances[i]))
	}
	return result, nil
}

// ────────────────────── CreateSeminar ──────────────────────

func (s *seminarService) CreateSeminar(ctx context.Context, openTime time.Time) (*dto.SeminarCreateResponse, error) {
	seminar := &model.Seminar{OpenTime: openTime}
	var roster int

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Seminar.Create(ctx, seminar); err != nil {
			s.logger.Error("创建研讨会失败", zap.Error(err))
			return err
		}

		members, err := tx.Member.ListByType(ctx, s.regularMemberTypeID)
		if err != nil {
			s.logger.Error("查询正式会员失败", zap.Error(err))
			return err
		}

		status, err := tx.SeminarAttendanceStatus.GetByID(ctx, model.AttendanceStatusAttendanceID)
		if err != nil {
			return s.mapNotFound(err, pkgerrors.ErrSeminarAttendanceStatusNotFound, "查询出勤状态失败")
		}

		attendTime := s.now().Truncate(time.Second)
		rows := make([]model.SeminarAttendance, 0, len(members))
		for _, m := range members {
			rows = append(rows, model.SeminarAttendance{
				SeminarID:                 seminar.ID,
				MemberID:                  m.ID,
				SeminarAttendanceStatusID: status.ID,
				SeminarAttendTime:         attendTime,
			})
		}
		if err := tx.SeminarAttendance.BatchCreate(ctx, rows); err != nil {
			s.logger.Error("生成出勤名单失败", zap.Int64("seminar_id", seminar.ID), zap.Error(err))
			return err
		}
		roster = len(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSeminarCreated(roster)
	s.logger.Info("研讨会已创建",
		zap.Int64("seminar_id", seminar.ID),
		zap.Time("open_time", seminar.OpenTime),
		zap.Int("roster", roster),
	)

	return &dto.SeminarCreateResponse{
		ID:          seminar.ID,
		OpenTime:    seminar.OpenTime,
		RosterCount: roster,
	}, nil
}

// ────────────────────── UpdateAttendanceStatus ──────────────────────
//
// 罚分规则（absenceDemerit 默认 3）：
//   - 原状态为 ABSENCE：先撤销该次缺席罚分
//   - 新状态 PERSONAL：请假事由不能为 nil（空串允许），覆盖写入
//   - 新状态 LATENESS：变更前已有奇数条迟到记录，则本次为第偶数次迟到，计一次缺席罚分
//   - 新状态 ABSENCE：原状态为 LATENESS 且迟到记录数为偶数时，罚分已由成对迟到计入，不再重复
//   - 新旧状态相同且不是 PERSONAL 时不做任何修改
//
// 迟到次数跨全部研讨会累计，不按学期清零

func (s *seminarService) UpdateAttendanceStatus(ctx context.Context, seminarID, memberID, statusID int64, excuse *string) (*dto.AttendanceUpdateResponse, error) {
	var (
		resp   *dto.AttendanceUpdateResponse
		before int64
		delta  int
	)

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		member, err := tx.Member.GetByIDForUpdate(ctx, memberID)
		if err != nil {
			return s.mapNotFound(err, pkgerrors.ErrMemberNotFound, "查询会员失败")
		}
		if _, err := tx.Seminar.GetByID(ctx, seminarID); err != nil {
			return s.mapNotFound(err, pkgerrors.ErrSeminarNotFound, "查询研讨会失败")
		}
		attendance, err := tx.SeminarAttendance.GetBySeminarAndMemberForUpdate(ctx, seminarID, memberID)
		if err != nil {
			return s.mapNotFound(err, pkgerrors.ErrSeminarAttendanceNotFound, "查询出勤记录失败")
		}
		status, err := tx.SeminarAttendanceStatus.GetByID(ctx, statusID)
		if err != nil {
			return s.mapNotFound(err, pkgerrors.ErrSeminarAttendanceStatusNotFound, "查询出勤状态失败")
		}

		before = attendance.SeminarAttendanceStatusID
		after := status.ID

		if before == after && after != model.AttendanceStatusPersonalID {
			resp = toAttendanceUpdateResponse(attendance, status, nil, member.Demerit)
			return nil
		}

		if after == model.AttendanceStatusPersonalID && excuse == nil {
			return pkgerrors.ErrAbsenceExcuseIsNull
		}

		delta, err = s.demeritDelta(ctx, tx, memberID, before, after)
		if err != nil {
			return err
		}

		var savedExcuse *string
		switch {
		case after == model.AttendanceStatusPersonalID:
			if err := tx.SeminarAttendanceExcuse.Upsert(ctx, &model.SeminarAttendanceExcuse{
				SeminarAttendanceID: attendance.ID,
				AbsenceExcuse:       *excuse,
			}); err != nil {
				s.logger.Error("写入请假事由失败", zap.Int64("attendance_id", attendance.ID), zap.Error(err))
				return err
			}
			savedExcuse = excuse
		case before == model.AttendanceStatusPersonalID:
			if err := tx.SeminarAttendanceExcuse.DeleteByAttendance(ctx, attendance.ID); err != nil {
				s.logger.Error("删除请假事由失败", zap.Int64("attendance_id", attendance.ID), zap.Error(err))
				return err
			}
		}

		attendance.SeminarAttendanceStatusID = after
		if err := tx.SeminarAttendance.UpdateStatus(ctx, attendance); err != nil {
			s.logger.Error("更新出勤状态失败", zap.Int64("attendance_id", attendance.ID), zap.Error(err))
			return err
		}

		if delta != 0 {
			if delta > 0 {
				member.IncreaseDemerit(delta)
			} else {
				member.DecreaseDemerit(-delta)
			}
			if err := tx.Member.UpdateDemerit(ctx, member); err != nil {
				s.logger.Error("更新会员罚分失败", zap.Int64("member_id", memberID), zap.Error(err))
				return err
			}
		}

		resp = toAttendanceUpdateResponse(attendance, status, savedExcuse, member.Demerit)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if before != statusID {
		metrics.RecordAttendanceTransition(string(model.AttendanceTypeOf(before)), resp.Status.Type)
	}
	metrics.RecordDemeritChange(delta)
	s.logger.Info("出勤状态已更新",
		zap.Int64("seminar_id", seminarID),
		zap.Int64("member_id", memberID),
		zap.Int64("from", before),
		zap.Int64("to", statusID),
		zap.Int("demerit_delta", delta),
	)

	return resp, nil
}

// demeritDelta 计算一次状态变更带来的罚分变化
// 迟到次数必须在写入新状态之前统计
func (s *seminarService) demeritDelta(ctx context.Context, tx *repository.Repository, memberID, before, after int64) (int, error) {
	delta := 0
	if before == model.AttendanceStatusAbsenceID {
		delta -= s.absenceDemerit
	}

	switch after {
	case model.AttendanceStatusLatenessID:
		count, err := s.latenessCount(ctx, tx, memberID)
		if err != nil {
			return 0, err
		}
		if count%2 == 1 {
			delta += s.absenceDemerit
		}
	case model.AttendanceStatusAbsenceID:
		if before == model.AttendanceStatusLatenessID {
			count, err := s.latenessCount(ctx, tx, memberID)
			if err != nil {
				return 0, err
			}
			if count%2 == 0 {
				return delta, nil
			}
		}
		delta += s.absenceDemerit
	}
	return delta, nil
}

func (s *seminarService) latenessCount(ctx context.Context, tx *repository.Repository, memberID int64) (int64, error) {
	count, err := tx.SeminarAttendance.CountByMemberAndStatus(ctx, memberID, model.AttendanceStatusLatenessID)
	if err != nil {
		s.logger.Error("统计迟到次数失败", zap.Int64("member_id", memberID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

// mapNotFound 将记录不存在映射为业务错误，其余错误记录日志后原样返回
func (s *seminarService) mapNotFound(err error, notFound error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

// ────────────────────── 转换 ──────────────────────

func toSeminarResponse(seminar *model.Seminar) dto.SeminarResponse {
	return dto.SeminarResponse{
		ID:       seminar.ID,
		Name:     seminar.Name,
		OpenTime: seminar.OpenTime,
	}
}

func toAttendanceResponse(a *model.SeminarAttendance) dto.AttendanceResponse {
	resp := dto.AttendanceResponse{
		ID:                a.ID,
		MemberID:          a.MemberID,
		SeminarAttendTime: a.SeminarAttendTime,
		Status: dto.AttendanceStatusResponse{
			ID:   a.SeminarAttendanceStatusID,
			Type: string(model.AttendanceTypeOf(a.SeminarAttendanceStatusID)),
		},
	}
	if a.Status != nil {
		resp.Status.Type = string(a.Status.Type)
	}
	if a.Member != nil {
		resp.RealName = a.Member.RealName
		resp.Generation = a.Member.Generation
	}
	if a.Excuse != nil {
		excuse := a.Excuse.AbsenceExcuse
		resp.AbsenceExcuse = &excuse
	}
	return resp
}

func toAttendanceUpdateResponse(a *model.SeminarAttendance, status *model.SeminarAttendanceStatus, excuse *string, demerit int) *dto.AttendanceUpdateResponse {
	return &dto.AttendanceUpdateResponse{
		AttendanceID:  a.ID,
		SeminarID:     a.SeminarID,
		MemberID:      a.MemberID,
		Status:        dto.AttendanceStatusResponse{ID: status.ID, Type: string(status.Type)},
		AbsenceExcuse: excuse,
		Demerit:       demerit,
	}
}
