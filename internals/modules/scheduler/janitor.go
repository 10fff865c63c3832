package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"statuspulse/config"
)

type CheckPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type PendingPurger interface {
	DeletePendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Janitor periodically drops observations past retention and subscriptions
// that were never confirmed.
type Janitor struct {
	interval          time.Duration
	checksMaxAge      time.Duration
	pendingMaxAge     time.Duration
	checks            CheckPurger
	pendingSubscriber PendingPurger
	now               func() time.Time
	logger            *zerolog.Logger
}

func NewJanitor(
	retention *config.RetentionConfig,
	checks CheckPurger,
	pendingSubscriber PendingPurger,
	logger *zerolog.Logger,
) *Janitor {
	return &Janitor{
		interval:          retention.Interval,
		checksMaxAge:      retention.ChecksMaxAge,
		pendingMaxAge:     retention.PendingSubscriberMaxAge,
		checks:            checks,
		pendingSubscriber: pendingSubscriber,
		now:               time.Now,
		logger:            logger,
	}
}

// Run sweeps once at start and then every interval until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	if j.interval <= 0 {
		panic("janitor interval must be > 0")
	}
	j.logger.Info().Msg("janitor started")
	ticker := time.NewTicker(j.interval)
	defer func() {
		ticker.Stop()
		j.logger.Info().Msg("janitor stopped")
	}()

	j.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	now := j.now()

	count, err := j.checks.DeleteOlderThan(ctx, now.Add(-j.checksMaxAge))
	if err != nil {
		j.logger.Error().Err(err).Msg("error purging old checks")
	} else if count > 0 {
		j.logger.Info().Int64("count", count).Msg("purged old checks")
	}

	count, err = j.pendingSubscriber.DeletePendingOlderThan(ctx, now.Add(-j.pendingMaxAge))
	if err != nil {
		j.logger.Error().Err(err).Msg("error purging unconfirmed subscribers")
	} else if count > 0 {
		j.logger.Info().Int64("count", count).Msg("purged unconfirmed subscribers")
	}
}
