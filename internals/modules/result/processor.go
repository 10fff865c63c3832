package result

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"statuspulse/internals/modules/monitor"
	"statuspulse/pkg/telemetry"
)

// Tracker consumes reported statuses of visible monitors.
type Tracker interface {
	Track(ctx context.Context, m *monitor.Monitor, status monitor.Status)
}

// StatusCache mirrors the latest status of each monitor for the overview.
type StatusCache interface {
	StoreStatus(ctx context.Context, monitorID int, status string, checkedAt time.Time) error
	GetStatuses(ctx context.Context, monitorIDs []int) (map[int]string, error)
}

// Processor applies the effects of a reported status: observation write,
// cache refresh and incident tracking. Failures are logged, never returned,
// so a broken store cannot stall a monitor's schedule.
type Processor struct {
	repo    Repository
	cache   StatusCache
	tracker Tracker
	metrics *telemetry.Metrics
	now     func() time.Time
	logger  *zerolog.Logger
}

// NewProcessor accepts a nil cache when caching is disabled.
func NewProcessor(repo Repository, cache StatusCache, tracker Tracker, metrics *telemetry.Metrics, logger *zerolog.Logger) *Processor {
	return &Processor{
		repo:    repo,
		cache:   cache,
		tracker: tracker,
		metrics: metrics,
		now:     time.Now,
		logger:  logger,
	}
}

func (p *Processor) Process(ctx context.Context, m *monitor.Monitor, status monitor.Status, value int64) {
	now := p.now()

	p.logger.Debug().
		Int("monitor_id", m.ID).
		Str("status", string(status)).
		Int64("value", value).
		Msg("status reported")

	if err := p.repo.Append(ctx, Observation{
		MonitorID: m.ID,
		Status:    status,
		Value:     value,
		Created:   now,
	}); err != nil {
		p.logger.Error().
			Err(err).
			Int("monitor_id", m.ID).
			Msg("failed to append observation")
	}

	if p.cache != nil {
		if err := p.cache.StoreStatus(ctx, m.ID, string(status), now); err != nil {
			p.logger.Warn().
				Err(err).
				Int("monitor_id", m.ID).
				Msg("failed to cache latest status")
		}
	}

	p.metrics.RecordCheck(ctx, m.ID, string(status))

	if m.Visible {
		p.tracker.Track(ctx, m, status)
	}
}
