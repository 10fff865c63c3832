package monitor

import (
	"fmt"
	"regexp"
	"time"
)

type Type string

const (
	TypeHTTP Type = "http"
	TypeAPI  Type = "api"
)

// Status is the health of a monitor at one point in time.
type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"

	// StatusUnknown is only produced by reporting, never stored.
	StatusUnknown Status = "unknown"
)

// ParseStatus accepts the three storable statuses.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusUp, StatusDegraded, StatusDown:
		return Status(s), true
	}
	return "", false
}

// Category is the kind of sustained breach an incident tracks.
type Category int

const (
	CategoryDown Category = iota
	CategoryDegraded
)

// Categories lists every category in evaluation order.
var Categories = [...]Category{CategoryDown, CategoryDegraded}

func (c Category) String() string {
	switch c {
	case CategoryDown:
		return "down"
	case CategoryDegraded:
		return "degraded"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

func ParseCategory(s string) (Category, error) {
	switch s {
	case "down":
		return CategoryDown, nil
	case "degraded":
		return CategoryDegraded, nil
	}
	return 0, fmt.Errorf("unknown incident category %q", s)
}

// Default incident texts, used when a policy does not carry its own message.
const (
	DefaultDownMessage = "Our systems have detected an outage on this service.<br>" +
		"Tech support has been notified and is investigating the issue.<br>" +
		"This incident will resolve automatically after the service has been restored."
	DefaultDegradedMessage = "Our systems have detected performance degradation on this service.<br>" +
		"Tech support has been notified and will investigate the issue.<br>" +
		"This incident will resolve automatically when the performance is back within expected thresholds."
)

type IncidentPolicy struct {
	CreateAfter  int
	ResolveAfter int
	Message      string
}

// Enabled reports whether the policy may open and close incidents on its own.
func (p IncidentPolicy) Enabled() bool {
	return p.CreateAfter > 0 && p.ResolveAfter > 0
}

// MessageFor returns the policy message or the category default.
func (p IncidentPolicy) MessageFor(c Category) string {
	if p.Message != "" {
		return p.Message
	}
	if c == CategoryDegraded {
		return DefaultDegradedMessage
	}
	return DefaultDownMessage
}

// Monitor is immutable after the registry is built.
type Monitor struct {
	ID              int
	Name            string
	Description     string
	Type            Type
	Token           string // api push identity
	URL             string
	CheckInterval   time.Duration
	Retries         int
	TimeoutDown     time.Duration
	TimeoutDegraded time.Duration
	// nil means "only 200 is acceptable"
	ValidStatusCodes []int
	BodyPattern      *regexp.Regexp
	Visible          bool
	UptimeWording    string

	policies map[Category]IncidentPolicy
}

// Policy returns the incident policy for a category, if one is configured.
func (m *Monitor) Policy(c Category) (IncidentPolicy, bool) {
	p, ok := m.policies[c]
	return p, ok
}

// StalenessWindow is how long an api monitor may stay silent before a push
// counts as missed. Fewer than one retry counts as one.
func (m *Monitor) StalenessWindow() time.Duration {
	return time.Duration(max(m.Retries, 1)) * m.CheckInterval
}

// ProbeTimeout bounds one http check. Without a configured down timeout the
// check interval is the bound, so a hung endpoint still reports down.
func (m *Monitor) ProbeTimeout() time.Duration {
	if m.TimeoutDown > 0 {
		return m.TimeoutDown
	}
	return m.CheckInterval
}

type Group struct {
	Name     string `json:"name"`
	Monitors []int  `json:"monitors"`
}
