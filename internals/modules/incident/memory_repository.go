package incident

import (
	"context"
	"sort"
	"sync"
	"time"

	"statuspulse/internals/modules/monitor"
	"statuspulse/pkg/apperror"
)

// MemoryRepository is an in-process incident store. One mutex serializes
// every write, which keeps create-if-none-active atomic.
type MemoryRepository struct {
	mu        sync.Mutex
	nextID    int64
	incidents []Incident
	now       func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (r *MemoryRepository) CreateActive(_ context.Context, monitorID int, category monitor.Category, message string) (*Incident, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inc := r.findActiveLocked(monitorID, category); inc != nil {
		cp := *inc
		return &cp, false, nil
	}

	r.nextID++
	now := r.now()
	inc := Incident{
		ID:        r.nextID,
		MonitorID: monitorID,
		Type:      category,
		Status:    StatusActive,
		Message:   message,
		Created:   now,
		Modified:  now,
	}
	r.incidents = append(r.incidents, inc)
	return &inc, true, nil
}

func (r *MemoryRepository) ResolveActive(_ context.Context, monitorID int, category monitor.Category) ([]Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var resolved []Incident
	for i := range r.incidents {
		inc := &r.incidents[i]
		if inc.MonitorID != monitorID || inc.Type != category || inc.Status != StatusActive {
			continue
		}
		inc.Status = StatusResolved
		inc.Modified = r.now()
		resolved = append(resolved, *inc)
	}
	return resolved, nil
}

func (r *MemoryRepository) FindActive(_ context.Context, monitorID int, category monitor.Category) (*Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inc := r.findActiveLocked(monitorID, category)
	if inc == nil {
		return nil, &apperror.Error{
			Kind:    apperror.NotFound,
			Op:      "repo.incident.find_active",
			Message: "resource not found",
		}
	}
	cp := *inc
	return &cp, nil
}

func (r *MemoryRepository) ListRecent(_ context.Context, since time.Time) ([]Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Incident
	for _, inc := range r.incidents {
		if inc.Status == StatusActive || !inc.Created.Before(since) {
			out = append(out, inc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// All returns every stored incident in creation order.
func (r *MemoryRepository) All() []Incident {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Incident(nil), r.incidents...)
}

func (r *MemoryRepository) findActiveLocked(monitorID int, category monitor.Category) *Incident {
	for i := range r.incidents {
		inc := &r.incidents[i]
		if inc.MonitorID == monitorID && inc.Type == category && inc.Status == StatusActive {
			return inc
		}
	}
	return nil
}
