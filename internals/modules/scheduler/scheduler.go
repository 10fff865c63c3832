package scheduler

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"statuspulse/internals/modules/executor"
	"statuspulse/internals/modules/monitor"
	"statuspulse/pkg/apperror"
	"statuspulse/pkg/telemetry"
)

const defaultInboxSize = 16

// Scheduler owns one unit per configured monitor. Each unit is a goroutine
// with its own ticker, so ticks of one monitor never overlap and a slow
// monitor never delays another.
type Scheduler struct {
	registry *monitor.Registry
	units    []*unit
	byID     map[int]*unit
	wg       sync.WaitGroup
	logger   *zerolog.Logger
}

func NewScheduler(
	registry *monitor.Registry,
	client *http.Client,
	processor executor.ResultProcessor,
	metrics *telemetry.Metrics,
	logger *zerolog.Logger,
) *Scheduler {
	return newScheduler(registry, executor.NewHTTPProber(client), processor, metrics, logger)
}

func newScheduler(
	registry *monitor.Registry,
	prober executor.Prober,
	processor executor.ResultProcessor,
	metrics *telemetry.Metrics,
	logger *zerolog.Logger,
) *Scheduler {
	s := &Scheduler{
		registry: registry,
		byID:     make(map[int]*unit),
		logger:   logger,
	}

	for _, m := range registry.All() {
		var u *unit
		switch m.Type {
		case monitor.TypeAPI:
			u = newUnit(executor.NewAPIPoller(m, processor, logger), defaultInboxSize)
		default:
			u = newUnit(executor.NewHTTPPoller(m, prober, processor, metrics, logger), 0)
		}
		s.units = append(s.units, u)
		s.byID[m.ID] = u
	}
	return s
}

// receiverFor returns the unit of the api monitor owning token.
func (s *Scheduler) receiverFor(token string) (*unit, bool) {
	m, ok := s.registry.ByToken(token)
	if !ok {
		return nil, false
	}
	u, ok := s.byID[m.ID]
	if !ok || u.inbox == nil {
		return nil, false
	}
	return u, true
}

// Run starts every unit and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info().Int("monitors", len(s.units)).Msg("scheduler started")

	for _, u := range s.units {
		s.wg.Add(1)
		go func(u *unit) {
			defer s.wg.Done()
			u.run(ctx)
		}(u)
	}

	<-ctx.Done()
	s.logger.Info().Msg("scheduler stopping")
}

// Wait blocks until every unit has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
	s.logger.Info().Msg("scheduler stopped")
}

// Accepts reports whether token belongs to a configured api monitor.
func (s *Scheduler) Accepts(token string) bool {
	_, ok := s.receiverFor(token)
	return ok
}

// Push hands a reading to the unit of the api monitor owning token.
func (s *Scheduler) Push(token string, p executor.Push) error {
	const op string = "scheduler.push"

	u, ok := s.receiverFor(token)
	if !ok {
		return &apperror.Error{
			Kind:    apperror.NotFound,
			Op:      op,
			Message: "monitor not found",
		}
	}

	select {
	case u.inbox <- p:
		return nil
	default:
		return &apperror.Error{
			Kind:    apperror.Unavailable,
			Op:      op,
			Message: "monitor is busy, retry later",
		}
	}
}
