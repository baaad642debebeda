package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/hotstock/backend/internal/api/handlers"
	"github.com/wonny/hotstock/backend/internal/notify"
	"github.com/wonny/hotstock/backend/internal/report"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// DailyRunJob executes the recommendation pipeline on schedule,
// persists the outcome and pushes the report to the webhook.
// ⭐ SSOT: 每日推荐任务只在这里
type DailyRunJob struct {
	pipeline handlers.PipelineRunner
	repo     handlers.RunStore
	renderer *report.Renderer
	notifier notify.Notifier
	schedule string
	logger   *logger.Logger
}

// NewDailyRunJob creates the daily recommendation job. repo and notifier
// may be nil when persistence or notification is disabled.
func NewDailyRunJob(
	pipeline handlers.PipelineRunner,
	repo handlers.RunStore,
	renderer *report.Renderer,
	notifier notify.Notifier,
	schedule string,
	log *logger.Logger,
) *DailyRunJob {
	return &DailyRunJob{
		pipeline: pipeline,
		repo:     repo,
		renderer: renderer,
		notifier: notifier,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *DailyRunJob) Name() string {
	return "daily_recommendation"
}

// Schedule returns the configured cron expression
func (j *DailyRunJob) Schedule() string {
	return j.schedule
}

// Run executes one recommendation cycle end to end
func (j *DailyRunJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled recommendation run")

	result, err := j.pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("recommendation run: %w", err)
	}

	if j.repo != nil {
		if err := j.repo.SaveRun(ctx, result); err != nil {
			j.logger.WithError(err).Warn("Failed to persist run result")
		}
	}

	markdown := j.renderer.Render(result)
	if j.notifier != nil {
		// Delivery failures are logged inside the notifier
		_ = j.notifier.NotifyRun(ctx, result, markdown)
	}

	j.logger.WithFields(map[string]interface{}{
		"recommendations": len(result.Recommendations),
		"merged":          result.Stats.Merged,
		"eligible":        result.Stats.Eligible,
	}).Info("Scheduled recommendation run completed")

	return nil
}
