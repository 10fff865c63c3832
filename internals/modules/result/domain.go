package result

import (
	"time"

	"statuspulse/internals/modules/monitor"
)

// Observation is one reported status of a monitor.
type Observation struct {
	MonitorID int
	Status    monitor.Status
	Value     int64
	Created   time.Time
}

// DayCounts holds the observation counts of one UTC calendar day.
type DayCounts struct {
	Day      time.Time
	Up       int
	Degraded int
	Down     int
}

func (c DayCounts) Total() int {
	return c.Up + c.Degraded + c.Down
}

// DayAggregate is the reporting view of one day. Percentages are 0..100.
type DayAggregate struct {
	Date     string         `json:"date"`
	Uptime   float64        `json:"uptime"`
	Degraded float64        `json:"degraded"`
	Status   monitor.Status `json:"status"`
}
