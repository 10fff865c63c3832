package executor

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"statuspulse/internals/modules/monitor"
	"statuspulse/pkg/apperror"
)

// ParsePush validates a pushed reading. value follows the lenient integer
// parsing clients rely on: empty means 0 and fractions are truncated.
func ParsePush(status, value string, at time.Time) (Push, error) {
	const op = "executor.parse_push"

	s, ok := monitor.ParseStatus(status)
	if !ok {
		return Push{}, &apperror.Error{
			Kind:    apperror.InvalidInput,
			Op:      op,
			Message: "status must be one of up, degraded, down",
		}
	}

	var v int64
	if value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Push{}, &apperror.Error{
				Kind:    apperror.InvalidInput,
				Op:      op,
				Message: "value must be numeric",
				Err:     err,
			}
		}
		v = int64(f)
	}

	return Push{Status: s, Value: v, ReceivedAt: at}, nil
}

// APIPoller is the state owned by one api monitor's scheduling unit. Receive
// and Tick are called from that unit only.
type APIPoller struct {
	monitor   *monitor.Monitor
	debouncer *StalenessDebouncer
	last      *Push
	processor ResultProcessor
	now       func() time.Time
	logger    zerolog.Logger
}

func NewAPIPoller(m *monitor.Monitor, processor ResultProcessor, logger *zerolog.Logger) *APIPoller {
	return &APIPoller{
		monitor:   m,
		debouncer: NewStalenessDebouncer(m.Retries, m.StalenessWindow()),
		processor: processor,
		now:       time.Now,
		logger:    logger.With().Int("monitor_id", m.ID).Logger(),
	}
}

func (p *APIPoller) Monitor() *monitor.Monitor {
	return p.monitor
}

func (p *APIPoller) Receive(push Push) {
	p.last = &push
}

func (p *APIPoller) Tick(ctx context.Context) {
	report, ok := p.debouncer.Evaluate(p.now(), p.last)
	if !ok {
		return
	}
	if report.Status == monitor.StatusDown && (p.last == nil || p.last.Status != monitor.StatusDown) {
		p.logger.Warn().
			Int("misses", p.debouncer.Misses()).
			Msg("no recent push, forcing down")
	}
	p.processor.Process(ctx, p.monitor, report.Status, report.Value)
}
