package result

import (
	"context"
	"sort"
	"sync"
	"time"

	"statuspulse/internals/modules/monitor"
	"statuspulse/pkg/utils"
)

// MemoryRepository keeps observations in process memory. It backs tests and
// local runs without Postgres.
type MemoryRepository struct {
	mu           sync.RWMutex
	observations []Observation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Append(_ context.Context, o Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.Created.IsZero() {
		o.Created = time.Now()
	}
	r.observations = append(r.observations, o)
	return nil
}

func (r *MemoryRepository) LatestStatuses(_ context.Context, since time.Time) (map[int]monitor.Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := make(map[int]Observation)
	for _, o := range r.observations {
		if o.Created.Before(since) {
			continue
		}
		if cur, ok := latest[o.MonitorID]; !ok || !o.Created.Before(cur.Created) {
			latest[o.MonitorID] = o
		}
	}

	out := make(map[int]monitor.Status, len(latest))
	for id, o := range latest {
		out[id] = o.Status
	}
	return out, nil
}

func (r *MemoryRepository) DailyCounts(_ context.Context, monitorID int, from time.Time) ([]DayCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byDay := make(map[time.Time]*DayCounts)
	for _, o := range r.observations {
		if o.MonitorID != monitorID || o.Created.Before(from) {
			continue
		}
		day := utils.StartOfDayUTC(o.Created)
		c, ok := byDay[day]
		if !ok {
			c = &DayCounts{Day: day}
			byDay[day] = c
		}
		switch o.Status {
		case monitor.StatusUp:
			c.Up++
		case monitor.StatusDegraded:
			c.Degraded++
		case monitor.StatusDown:
			c.Down++
		}
	}

	out := make([]DayCounts, 0, len(byDay))
	for _, c := range byDay {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *MemoryRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.observations[:0]
	var deleted int64
	for _, o := range r.observations {
		if o.Created.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, o)
	}
	r.observations = kept
	return deleted, nil
}

// Observations returns a copy of everything stored, oldest first.
func (r *MemoryRepository) Observations() []Observation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Observation(nil), r.observations...)
}
