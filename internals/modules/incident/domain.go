package incident

import (
	"time"

	"statuspulse/internals/modules/monitor"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
)

// Incident is a sustained breach of one category on one monitor. It moves
// from active to resolved once and never back.
type Incident struct {
	ID        int64
	MonitorID int
	Type      monitor.Category
	Status    Status
	Message   string
	Created   time.Time
	Modified  time.Time
}

type Lifecycle int

const (
	Opened Lifecycle = iota
	Resolved
)

func (l Lifecycle) String() string {
	if l == Resolved {
		return "resolved"
	}
	return "opened"
}

// Event is emitted once per incident transition.
type Event struct {
	Lifecycle   Lifecycle
	Incident    Incident
	MonitorName string
}
