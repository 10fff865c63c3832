package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"statuspulse/internals/modules/monitor"
)

func TestRetryDebouncer_SuppressesUntilRetries(t *testing.T) {
	d := NewRetryDebouncer(3)

	_, ok := d.Observe(monitor.StatusDown)
	assert.False(t, ok)
	_, ok = d.Observe(monitor.StatusDown)
	assert.False(t, ok)

	status, ok := d.Observe(monitor.StatusDown)
	assert.True(t, ok)
	assert.Equal(t, monitor.StatusDown, status)

	// keeps reporting down every interval
	status, ok = d.Observe(monitor.StatusDown)
	assert.True(t, ok)
	assert.Equal(t, monitor.StatusDown, status)
}

func TestRetryDebouncer_NonDownResets(t *testing.T) {
	d := NewRetryDebouncer(2)

	_, ok := d.Observe(monitor.StatusDown)
	assert.False(t, ok)

	status, ok := d.Observe(monitor.StatusDegraded)
	assert.True(t, ok)
	assert.Equal(t, monitor.StatusDegraded, status)
	assert.Equal(t, 0, d.Failures())

	_, ok = d.Observe(monitor.StatusDown)
	assert.False(t, ok, "counter must start over after a non-down result")
}

func TestRetryDebouncer_ZeroRetriesReportsImmediately(t *testing.T) {
	d := NewRetryDebouncer(0)

	status, ok := d.Observe(monitor.StatusDown)
	assert.True(t, ok)
	assert.Equal(t, monitor.StatusDown, status)
}

func TestStalenessDebouncer_NoPushForcesDownAfterRetries(t *testing.T) {
	d := NewStalenessDebouncer(3, 3*time.Minute)
	now := time.Now()

	for i := 0; i < 2; i++ {
		_, ok := d.Evaluate(now, nil)
		assert.False(t, ok)
	}

	r, ok := d.Evaluate(now, nil)
	assert.True(t, ok)
	assert.Equal(t, Report{Status: monitor.StatusDown, Value: 0}, r)
}

func TestStalenessDebouncer_FreshPushIsReported(t *testing.T) {
	d := NewStalenessDebouncer(2, 2*time.Minute)
	now := time.Now()
	push := &Push{Status: monitor.StatusDegraded, Value: 42, ReceivedAt: now.Add(-30 * time.Second)}

	r, ok := d.Evaluate(now, push)
	assert.True(t, ok)
	assert.Equal(t, Report{Status: monitor.StatusDegraded, Value: 42}, r)
	assert.Equal(t, 0, d.Misses())
}

func TestStalenessDebouncer_StalePushReReportedThenDown(t *testing.T) {
	d := NewStalenessDebouncer(2, 2*time.Minute)
	base := time.Now()
	push := &Push{Status: monitor.StatusUp, Value: 7, ReceivedAt: base}

	// the last reading is re-reported for each of the retries missed intervals
	for i, at := range []time.Duration{3 * time.Minute, 4 * time.Minute} {
		r, ok := d.Evaluate(base.Add(at), push)
		assert.True(t, ok)
		assert.Equal(t, Report{Status: monitor.StatusUp, Value: 7}, r)
		assert.Equal(t, i+1, d.Misses())
	}

	// the tick after retries are exhausted forces down
	r, ok := d.Evaluate(base.Add(5*time.Minute), push)
	assert.True(t, ok)
	assert.Equal(t, Report{Status: monitor.StatusDown, Value: 0}, r)

	// stays down while no fresh push arrives
	r, ok = d.Evaluate(base.Add(6*time.Minute), push)
	assert.True(t, ok)
	assert.Equal(t, monitor.StatusDown, r.Status)

	// a fresh push recovers immediately
	fresh := &Push{Status: monitor.StatusUp, Value: 9, ReceivedAt: base.Add(6*time.Minute + 30*time.Second)}
	r, ok = d.Evaluate(base.Add(7*time.Minute), fresh)
	assert.True(t, ok)
	assert.Equal(t, Report{Status: monitor.StatusUp, Value: 9}, r)
	assert.Equal(t, 0, d.Misses())
}

func TestStalenessDebouncer_ZeroRetriesTreatedAsOne(t *testing.T) {
	d := NewStalenessDebouncer(0, time.Minute)
	now := time.Now()
	push := &Push{Status: monitor.StatusUp, ReceivedAt: now.Add(-10 * time.Second)}

	r, ok := d.Evaluate(now, push)
	assert.True(t, ok)
	assert.Equal(t, monitor.StatusUp, r.Status)
}
