package executor

import (
	"slices"

	"statuspulse/internals/modules/monitor"
)

// Classify maps a probe outcome onto a status using the monitor thresholds.
// Rules apply in order: no response, unacceptable code, body pattern
// mismatch, slow response.
func Classify(r ProbeResult, m *monitor.Monitor) monitor.Status {
	if r.StatusCode == 0 {
		return monitor.StatusDown
	}
	if !acceptable(r.StatusCode, m.ValidStatusCodes) {
		return monitor.StatusDown
	}
	if m.BodyPattern != nil && !m.BodyPattern.MatchString(r.Body) {
		return monitor.StatusDown
	}
	if r.Elapsed > m.TimeoutDegraded {
		return monitor.StatusDegraded
	}
	return monitor.StatusUp
}

func acceptable(code int, valid []int) bool {
	if len(valid) == 0 {
		return code == 200
	}
	return slices.Contains(valid, code)
}
