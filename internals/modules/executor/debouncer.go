package executor

import (
	"time"

	"statuspulse/internals/modules/monitor"
)

// RetryDebouncer holds back down results of an http monitor until retries
// consecutive failures have been seen.
type RetryDebouncer struct {
	retries  int
	failures int
}

func NewRetryDebouncer(retries int) *RetryDebouncer {
	return &RetryDebouncer{retries: retries}
}

// Observe returns the status to report, or ok=false when a down result is
// suppressed.
func (d *RetryDebouncer) Observe(raw monitor.Status) (monitor.Status, bool) {
	if raw != monitor.StatusDown {
		d.failures = 0
		return raw, true
	}
	d.failures++
	if d.failures < d.retries {
		return "", false
	}
	return monitor.StatusDown, true
}

func (d *RetryDebouncer) Failures() int {
	return d.failures
}

// StalenessDebouncer decides what an api monitor reports on each tick given
// the last push it received.
type StalenessDebouncer struct {
	retries int
	window  time.Duration
	misses  int
}

// NewStalenessDebouncer treats a push older than window as missed. retries
// below 1 are treated as 1, otherwise a monitor would be forced down even
// while pushes keep arriving.
func NewStalenessDebouncer(retries int, window time.Duration) *StalenessDebouncer {
	if retries < 1 {
		retries = 1
	}
	return &StalenessDebouncer{
		retries: retries,
		window:  window,
	}
}

// Evaluate advances the miss counter and returns the status to report this
// tick, if any. The last pushed reading is re-reported for up to retries
// missed intervals; after that, down with value 0 is forced until a fresh
// push arrives, which is reported straight away. Before the first push
// nothing is reported until retries ticks have passed.
func (d *StalenessDebouncer) Evaluate(now time.Time, last *Push) (Report, bool) {
	switch {
	case last == nil:
		d.misses++
		if d.misses >= d.retries {
			return Report{Status: monitor.StatusDown, Value: 0}, true
		}
		return Report{}, false
	case d.misses < d.retries:
		if d.fresh(now, last) {
			d.misses = 0
		} else {
			d.misses++
		}
		return Report{Status: last.Status, Value: last.Value}, true
	case d.fresh(now, last):
		d.misses = 0
		return Report{Status: last.Status, Value: last.Value}, true
	default:
		return Report{Status: monitor.StatusDown, Value: 0}, true
	}
}

func (d *StalenessDebouncer) Misses() int {
	return d.misses
}

func (d *StalenessDebouncer) fresh(now time.Time, last *Push) bool {
	return now.Sub(last.ReceivedAt) <= d.window
}
