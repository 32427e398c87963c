package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/project-service/internal/config"
	"github.com/spec-kit/project-service/internal/service"
)

// ReminderWorker runs the due-soon scan on a cron schedule.
type ReminderWorker struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// StartReminderWorker schedules the scan and returns the running worker.
// Returns nil when the scheduler is disabled or misconfigured.
func StartReminderWorker(cfg config.SchedulerConfig, notifications *service.NotificationService, logger *zap.Logger) *ReminderWorker {
	if !cfg.Enabled || notifications == nil {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.DueSoonCron, func() {
		if err := notifications.RunDueSoonScan(context.Background()); err != nil {
			logger.Error("due-soon scan failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("invalid due-soon cron expression",
			zap.String("cron", cfg.DueSoonCron), zap.Error(err))
		return nil
	}

	c.Start()
	logger.Info("reminder worker started", zap.String("cron", cfg.DueSoonCron))
	return &ReminderWorker{cron: c, logger: logger}
}

// Stop halts the scheduler, waiting for a running scan to finish.
func (w *ReminderWorker) Stop() {
	if w == nil || w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.logger.Info("reminder worker stopped")
}
