package incident

import (
	"context"

	"github.com/rs/zerolog"

	"statuspulse/internals/modules/monitor"
	"statuspulse/pkg/telemetry"
)

// Counters are the consecutive-status counts of one monitor. At most one of
// them is non-zero.
type Counters struct {
	Down     int
	Up       int
	Degraded int
}

// Observe increments the counter matching status and clears the others.
func (c *Counters) Observe(status monitor.Status) {
	switch status {
	case monitor.StatusUp:
		*c = Counters{Up: c.Up + 1}
	case monitor.StatusDegraded:
		*c = Counters{Degraded: c.Degraded + 1}
	case monitor.StatusDown:
		*c = Counters{Down: c.Down + 1}
	}
}

func (c Counters) For(category monitor.Category) int {
	if category == monitor.CategoryDegraded {
		return c.Degraded
	}
	return c.Down
}

// Notifier receives incident transitions. It must not block.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Tracker runs the incident state machine. Counters are created for every
// monitor up front and are only touched by that monitor's scheduling unit,
// so the map itself is never written after construction.
type Tracker struct {
	repo     Repository
	notifier Notifier
	counters map[int]*Counters
	metrics  *telemetry.Metrics
	logger   *zerolog.Logger
}

func NewTracker(monitors []*monitor.Monitor, repo Repository, notifier Notifier, metrics *telemetry.Metrics, logger *zerolog.Logger) *Tracker {
	counters := make(map[int]*Counters, len(monitors))
	for _, m := range monitors {
		counters[m.ID] = &Counters{}
	}
	return &Tracker{
		repo:     repo,
		notifier: notifier,
		counters: counters,
		metrics:  metrics,
		logger:   logger,
	}
}

// Track feeds one reported status into the state machine.
func (t *Tracker) Track(ctx context.Context, m *monitor.Monitor, status monitor.Status) {
	c, ok := t.counters[m.ID]
	if !ok {
		t.logger.Warn().
			Int("monitor_id", m.ID).
			Msg("status for unknown monitor ignored")
		return
	}

	c.Observe(status)

	for _, category := range monitor.Categories {
		policy, ok := m.Policy(category)
		if !ok || !policy.Enabled() {
			continue
		}

		switch {
		case c.For(category) >= policy.CreateAfter:
			t.open(ctx, m, category, policy)
		case c.Up >= policy.ResolveAfter:
			t.resolve(ctx, m, category)
		}
	}
}

// Counters returns a snapshot of a monitor's counters.
func (t *Tracker) Counters(monitorID int) (Counters, bool) {
	c, ok := t.counters[monitorID]
	if !ok {
		return Counters{}, false
	}
	return *c, true
}

func (t *Tracker) open(ctx context.Context, m *monitor.Monitor, category monitor.Category, policy monitor.IncidentPolicy) {
	inc, created, err := t.repo.CreateActive(ctx, m.ID, category, policy.MessageFor(category))
	if err != nil {
		t.logger.Error().
			Err(err).
			Int("monitor_id", m.ID).
			Str("category", category.String()).
			Msg("failed to create incident")
		return
	}
	if !created {
		return
	}

	t.logger.Info().
		Int("monitor_id", m.ID).
		Int64("incident_id", inc.ID).
		Str("category", category.String()).
		Msg("incident opened")
	t.metrics.RecordIncident(ctx, m.ID, category.String(), true)
	t.notifier.Notify(ctx, Event{Lifecycle: Opened, Incident: *inc, MonitorName: m.Name})
}

func (t *Tracker) resolve(ctx context.Context, m *monitor.Monitor, category monitor.Category) {
	resolved, err := t.repo.ResolveActive(ctx, m.ID, category)
	if err != nil {
		t.logger.Error().
			Err(err).
			Int("monitor_id", m.ID).
			Str("category", category.String()).
			Msg("failed to resolve incidents")
		return
	}

	for _, inc := range resolved {
		t.logger.Info().
			Int("monitor_id", m.ID).
			Int64("incident_id", inc.ID).
			Str("category", category.String()).
			Msg("incident resolved")
		t.metrics.RecordIncident(ctx, m.ID, category.String(), false)
		t.notifier.Notify(ctx, Event{Lifecycle: Resolved, Incident: inc, MonitorName: m.Name})
	}
}
