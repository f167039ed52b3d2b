package scheduler

import (
	"context"
	"log/slog"
	"time"

	"studycycle/internal/model"
	"studycycle/internal/pkg/metrics"

	"gorm.io/gorm"
)

// Scheduler 周期性统计已到期的复习并刷新监控指标。
//
// 它不修改任何业务数据，只做读取与上报，崩溃或停止
// 不影响 API 的正确性。
type Scheduler struct {
	db       *gorm.DB
	logger   *slog.Logger
	interval time.Duration
}

// NewScheduler 创建调度器。interval 非正时使用默认的 1 分钟。
func NewScheduler(db *gorm.DB, logger *slog.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		db:       db,
		logger:   logger,
		interval: interval,
	}
}

// Run 启动刷新循环，直到 ctx 取消。
//
// 启动时立即刷新一次，之后每个 interval 刷新一次。
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("due-review gauge refresher started",
		slog.String("interval", s.interval.String()))

	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("due-review gauge refresher stopped")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh 统计一次到期复习数并写入 gauge。
func (s *Scheduler) refresh(ctx context.Context) {
	n, err := s.CountDue(ctx, model.Today())
	if err != nil {
		s.logger.Warn("count due reviews failed", slog.String("error", err.Error()))
		return
	}
	metrics.ReviewsDueGauge.Set(float64(n))
}

// CountDue 统计全部用户在 today 当天已到期且未完成的复习数量。
func (s *Scheduler) CountDue(ctx context.Context, today model.Date) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("status = ? AND due_date <= ?", model.ReviewStatusPending, today).
		Count(&n).Error
	return n, err
}
