package monitor

import (
	"fmt"
	"regexp"
	"time"

	"statuspulse/config"
)

// Registry holds the configured monitor set. It is built once at startup and
// only read afterwards, so it needs no locking.
type Registry struct {
	monitors []*Monitor
	byID     map[int]*Monitor
	byToken  map[string]*Monitor
	groups   []Group
	grouped  map[int]struct{}
}

func NewRegistry(monitors []config.MonitorConfig, groups []config.GroupConfig) (*Registry, error) {
	r := &Registry{
		monitors: make([]*Monitor, 0, len(monitors)),
		byID:     make(map[int]*Monitor, len(monitors)),
		byToken:  make(map[string]*Monitor),
		grouped:  make(map[int]struct{}),
	}

	for i := range monitors {
		m, err := fromConfig(&monitors[i])
		if err != nil {
			return nil, err
		}
		if _, dup := r.byID[m.ID]; dup {
			return nil, fmt.Errorf("monitor id %d is not unique", m.ID)
		}
		r.monitors = append(r.monitors, m)
		r.byID[m.ID] = m
		if m.Type == TypeAPI {
			r.byToken[m.Token] = m
		}
	}

	for _, g := range groups {
		r.groups = append(r.groups, Group{Name: g.Name, Monitors: append([]int(nil), g.Monitors...)})
		for _, id := range g.Monitors {
			r.grouped[id] = struct{}{}
		}
	}

	return r, nil
}

func fromConfig(mc *config.MonitorConfig) (*Monitor, error) {
	m := &Monitor{
		ID:              mc.ID,
		Name:            mc.Name,
		Description:     mc.Description,
		Type:            Type(mc.Type),
		Token:           mc.UUID,
		URL:             mc.URL,
		CheckInterval:   time.Duration(mc.CheckIntervalMs) * time.Millisecond,
		Retries:         mc.Retries,
		TimeoutDown:     time.Duration(mc.TimeoutDownMs) * time.Millisecond,
		TimeoutDegraded: time.Duration(mc.TimeoutDegradedMs) * time.Millisecond,
		Visible:         mc.Visible,
		UptimeWording:   mc.UptimeWording,
		policies:        make(map[Category]IncidentPolicy, 2),
	}
	if m.UptimeWording == "" {
		m.UptimeWording = "uptime"
	}
	if len(mc.ValidStatusCodes) > 0 {
		m.ValidStatusCodes = append([]int(nil), mc.ValidStatusCodes...)
	}
	if mc.Regexp != "" {
		re, err := regexp.Compile(mc.Regexp)
		if err != nil {
			return nil, fmt.Errorf("monitor %d: compile regexp: %w", mc.ID, err)
		}
		m.BodyPattern = re
	}
	if mc.Incidents != nil {
		if p := mc.Incidents.Down; p != nil {
			m.policies[CategoryDown] = IncidentPolicy{CreateAfter: p.CreateAfter, ResolveAfter: p.ResolveAfter, Message: p.Message}
		}
		if p := mc.Incidents.Degraded; p != nil {
			m.policies[CategoryDegraded] = IncidentPolicy{CreateAfter: p.CreateAfter, ResolveAfter: p.ResolveAfter, Message: p.Message}
		}
	}
	return m, nil
}

// All returns monitors in configuration order.
func (r *Registry) All() []*Monitor {
	return r.monitors
}

func (r *Registry) Get(id int) (*Monitor, bool) {
	m, ok := r.byID[id]
	return m, ok
}

func (r *Registry) ByToken(token string) (*Monitor, bool) {
	m, ok := r.byToken[token]
	return m, ok
}

// Name returns the monitor name, or "" for unknown ids.
func (r *Registry) Name(id int) string {
	if m, ok := r.byID[id]; ok {
		return m.Name
	}
	return ""
}

func (r *Registry) Groups() []Group {
	return r.groups
}

// Published reports whether a monitor is visible and assigned to a group.
func (r *Registry) Published(id int) bool {
	m, ok := r.byID[id]
	if !ok || !m.Visible {
		return false
	}
	_, ok = r.grouped[id]
	return ok
}
