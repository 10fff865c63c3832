package executor

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"statuspulse/internals/modules/monitor"
)

func TestClassify(t *testing.T) {
	plain := &monitor.Monitor{TimeoutDegraded: time.Second}
	withCodes := &monitor.Monitor{TimeoutDegraded: time.Second, ValidStatusCodes: []int{200, 404}}
	withPattern := &monitor.Monitor{TimeoutDegraded: time.Second, BodyPattern: regexp.MustCompile(`"ok":\s*true`)}

	tests := []struct {
		name    string
		monitor *monitor.Monitor
		result  ProbeResult
		want    monitor.Status
	}{
		{
			name:    "200 fast is up",
			monitor: plain,
			result:  ProbeResult{StatusCode: 200, Elapsed: 50 * time.Millisecond},
			want:    monitor.StatusUp,
		},
		{
			name:    "500 without valid codes is down",
			monitor: plain,
			result:  ProbeResult{StatusCode: 500, Elapsed: 50 * time.Millisecond},
			want:    monitor.StatusDown,
		},
		{
			name:    "201 without valid codes is down",
			monitor: plain,
			result:  ProbeResult{StatusCode: 201, Elapsed: 50 * time.Millisecond},
			want:    monitor.StatusDown,
		},
		{
			name:    "slow acceptable code is degraded",
			monitor: withCodes,
			result:  ProbeResult{StatusCode: 200, Elapsed: 2 * time.Second},
			want:    monitor.StatusDegraded,
		},
		{
			name:    "configured 404 is acceptable",
			monitor: withCodes,
			result:  ProbeResult{StatusCode: 404, Elapsed: 10 * time.Millisecond},
			want:    monitor.StatusUp,
		},
		{
			name:    "200 not in configured codes is down",
			monitor: &monitor.Monitor{ValidStatusCodes: []int{204}},
			result:  ProbeResult{StatusCode: 200},
			want:    monitor.StatusDown,
		},
		{
			name:    "pattern mismatch is down",
			monitor: withPattern,
			result:  ProbeResult{StatusCode: 200, Body: `{"ok": false}`, Elapsed: 10 * time.Millisecond},
			want:    monitor.StatusDown,
		},
		{
			name:    "pattern mismatch beats slowness",
			monitor: withPattern,
			result:  ProbeResult{StatusCode: 200, Body: "maintenance", Elapsed: 5 * time.Second},
			want:    monitor.StatusDown,
		},
		{
			name:    "pattern match is up",
			monitor: withPattern,
			result:  ProbeResult{StatusCode: 200, Body: `{"ok": true}`, Elapsed: 10 * time.Millisecond},
			want:    monitor.StatusUp,
		},
		{
			name:    "transport error is down",
			monitor: plain,
			result:  ProbeResult{Err: errors.New("connection refused"), Elapsed: 3 * time.Millisecond},
			want:    monitor.StatusDown,
		},
		{
			name:    "elapsed equal to threshold is up",
			monitor: plain,
			result:  ProbeResult{StatusCode: 200, Elapsed: time.Second},
			want:    monitor.StatusUp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.result, tt.monitor))
		})
	}
}
