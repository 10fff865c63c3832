package executor

import (
	"context"
	"time"

	"statuspulse/internals/modules/monitor"
)

// ProbeResult is the raw outcome of one HTTP probe. StatusCode is 0 when no
// response was obtained.
type ProbeResult struct {
	StatusCode int
	Body       string
	Elapsed    time.Duration
	Err        error
	Reason     string
}

// Push is the latest externally reported reading of an api monitor.
type Push struct {
	Status     monitor.Status
	Value      int64
	ReceivedAt time.Time
}

// Report is a status that survived debouncing.
type Report struct {
	Status monitor.Status
	Value  int64
}

// ResultProcessor receives every reported status. It must not fail the poller:
// persistence and tracking errors are handled on its side.
type ResultProcessor interface {
	Process(ctx context.Context, m *monitor.Monitor, status monitor.Status, value int64)
}

// Prober performs one probe against an http monitor.
type Prober interface {
	Probe(ctx context.Context, m *monitor.Monitor) ProbeResult
}

// Poller is the per-monitor unit of work driven by the scheduler.
type Poller interface {
	Monitor() *monitor.Monitor
	Tick(ctx context.Context)
}

// Receiver is implemented by pollers that accept pushed readings.
type Receiver interface {
	Receive(p Push)
}
