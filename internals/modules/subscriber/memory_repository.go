package subscriber

import (
	"context"
	"sync"
	"time"

	"statuspulse/pkg/apperror"
)

// MemoryRepository is an in-process subscriber store.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   []Subscriber
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func notFound(op string) error {
	return &apperror.Error{Kind: apperror.NotFound, Op: op, Message: "resource not found"}
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.rows {
		if s.Email == email {
			cp := s
			return &cp, nil
		}
	}
	return nil, notFound("repo.subscriber.get_by_email")
}

func (r *MemoryRepository) Insert(_ context.Context, email string) (*Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.Email == email {
			return nil, &apperror.Error{
				Kind:    apperror.Conflict,
				Op:      "repo.subscriber.insert",
				Message: "resource already exists",
			}
		}
	}

	r.nextID++
	s := Subscriber{ID: r.nextID, Email: email, Created: r.now()}
	r.rows = append(r.rows, s)
	return &s, nil
}

func (r *MemoryRepository) RefreshCreated(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Created = r.now()
		}
	}
	return nil
}

func (r *MemoryRepository) Activate(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for i := range r.rows {
		if r.rows[i].Email == email {
			r.rows[i].Active = true
			found = true
		}
	}
	if !found {
		return notFound("repo.subscriber.activate")
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.deleteWhere(func(s Subscriber) bool { return s.Email == email }), nil
}

func (r *MemoryRepository) ListActive(_ context.Context) ([]Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Subscriber
	for _, s := range r.rows {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *MemoryRepository) DeletePendingOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.deleteWhere(func(s Subscriber) bool { return !s.Active && s.Created.Before(cutoff) }), nil
}

// All returns every stored row.
func (r *MemoryRepository) All() []Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Subscriber(nil), r.rows...)
}

func (r *MemoryRepository) deleteWhere(match func(Subscriber) bool) int64 {
	kept := r.rows[:0]
	var n int64
	for _, s := range r.rows {
		if match(s) {
			n++
			continue
		}
		kept = append(kept, s)
	}
	r.rows = kept
	return n
}
