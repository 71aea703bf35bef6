package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/02ggang9/Homepage-Back/config"
	"github.com/02ggang9/Homepage-Back/internal/repository"
)

const (
	// calendarLookback 日历订阅包含的历史研讨会范围
	calendarLookback = 180 * 24 * time.Hour
	seminarDuration  = 2 * time.Hour
	calendarProdID   = "-//KEEPER//Seminar Calendar//KO"
)

// CalendarService 研讨会日历订阅业务接口
type CalendarService interface {
	// SeminarCalendar 生成 iCalendar 文本（近 180 天及未来的研讨会）
	SeminarCalendar(ctx context.Context) (string, error)
}

type calendarService struct {
	repo    *repository.Repository
	name    string
	baseURL string
	now     func() time.Time
	logger  *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{
		repo:    repo,
		name:    cfg.Seminar.CalendarName,
		baseURL: cfg.Server.BaseURL,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *calendarService) SeminarCalendar(ctx context.Context) (string, error) {
	seminars, err := s.repo.Seminar.ListOpenSince(ctx, s.now().Add(-calendarLookback))
	if err != nil {
		s.logger.Error("查询日历研讨会失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProdID)
	cal.SetName(s.name)
	cal.SetXWRCalName(s.name)

	for i := range seminars {
		seminar := &seminars[i]
		evt := cal.AddEvent(fmt.Sprintf("seminar-%d@keeper", seminar.ID))

		summary := s.name
		if seminar.Name != nil && *seminar.Name != "" {
			summary = *seminar.Name
		}
		evt.SetSummary(summary)
		evt.SetStartAt(seminar.OpenTime)
		evt.SetEndAt(seminar.OpenTime.Add(seminarDuration))
		evt.SetCreatedTime(seminar.CreatedAt)
		evt.SetDtStampTime(seminar.CreatedAt)
		if s.baseURL != "" {
			evt.SetURL(fmt.Sprintf("%s/seminars/%d", s.baseURL, seminar.ID))
		}
	}

	return cal.Serialize(), nil
}
