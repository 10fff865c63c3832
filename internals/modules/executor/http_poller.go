package executor

import (
	"context"

	"github.com/rs/zerolog"

	"statuspulse/internals/modules/monitor"
	"statuspulse/pkg/telemetry"
)

// HTTPPoller is the state owned by one http monitor's scheduling unit.
// Tick must not be called concurrently.
type HTTPPoller struct {
	monitor   *monitor.Monitor
	prober    Prober
	debouncer *RetryDebouncer
	processor ResultProcessor
	metrics   *telemetry.Metrics
	logger    zerolog.Logger
}

func NewHTTPPoller(m *monitor.Monitor, prober Prober, processor ResultProcessor, metrics *telemetry.Metrics, logger *zerolog.Logger) *HTTPPoller {
	return &HTTPPoller{
		monitor:   m,
		prober:    prober,
		debouncer: NewRetryDebouncer(m.Retries),
		processor: processor,
		metrics:   metrics,
		logger:    logger.With().Int("monitor_id", m.ID).Logger(),
	}
}

func (p *HTTPPoller) Monitor() *monitor.Monitor {
	return p.monitor
}

func (p *HTTPPoller) Tick(ctx context.Context) {
	result := p.prober.Probe(ctx, p.monitor)
	raw := Classify(result, p.monitor)

	if result.Err != nil {
		p.logger.Debug().
			Err(result.Err).
			Str("reason", result.Reason).
			Msg("probe failed")
	}
	if result.StatusCode != 0 {
		p.metrics.RecordProbeLatency(ctx, p.monitor.ID, result.Elapsed)
	}

	status, ok := p.debouncer.Observe(raw)
	if !ok {
		p.logger.Info().
			Int("failures", p.debouncer.Failures()).
			Int("retries", p.monitor.Retries).
			Msg("down result suppressed, retrying")
		return
	}

	p.processor.Process(ctx, p.monitor, status, result.Elapsed.Milliseconds())
}
