package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"

	"github.com/univade/testgen-ai/internal/config"
	"github.com/univade/testgen-ai/internal/domain/conversation"
	"github.com/univade/testgen-ai/internal/infrastructure/logger"
	"github.com/univade/testgen-ai/internal/utils/platformerrors"
)

const (
	// CronJobTimeout bounds each scheduled job execution.
	CronJobTimeout = 5 * time.Minute
	// DefaultSweepSchedule runs the conversation sweep every five minutes.
	DefaultSweepSchedule = "*/5 * * * *"
)

// Crontab schedules the periodic jobs: the conversation expiry sweep and
// the env reload.
type Crontab struct {
	ctab     *crontab.Crontab
	registry *conversation.Registry
	cfg      *config.Config
}

func NewCrontab(registry *conversation.Registry, cfg *config.Config) *Crontab {
	return &Crontab{
		ctab:     crontab.New(),
		registry: registry,
		cfg:      cfg,
	}
}

// Run registers the jobs and blocks until the context is cancelled.
func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()

	schedule := c.cfg.ConversationSweepSchedule
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	if err := c.ctab.AddJob(schedule, func() {
		_, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
		defer cancel()
		if removed := c.registry.SweepExpired(); removed > 0 {
			log.Info().Int("removed", removed).Msg("conversation sweep finished")
		}
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add conversation sweep job")
	}
	log.Info().Str("schedule", schedule).Msg("conversation sweep scheduled")

	// Reload env-backed config once a minute and push the inactivity
	// threshold into the registry so changes take effect without a
	// restart.
	if err := c.ctab.AddJob("* * * * *", func() {
		cfg, err := config.Load()
		if err != nil {
			log.Error().Err(err).Msg("env reload failed")
			return
		}
		c.registry.SetInactivityThreshold(cfg.ConversationInactivityThreshold)
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add env reload job")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}
