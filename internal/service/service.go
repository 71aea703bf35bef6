package service

import (
	"go.uber.org/zap"

	"github.com/02ggang9/Homepage-Back/config"
	"github.com/02ggang9/Homepage-Back/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Seminar  SeminarService
	Member   MemberService
	Export   ExportService
	Calendar CalendarService
}

// NewService 创建 Service 聚合
// cache 可为 nil（Redis 不可用时降级）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache Cache,
	logger *zap.Logger,
) *Service {
	return &Service{
		Seminar:  NewSeminarService(&cfg.Seminar, repo, cache, logger),
		Member:   NewMemberService(repo, logger),
		Export:   NewExportService(repo, logger),
		Calendar: NewCalendarService(cfg, repo, logger),
	}
}
