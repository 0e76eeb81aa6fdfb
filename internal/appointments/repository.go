package appointments

import (
	"context"
	"sync"
)

// Repository is the storage contract the handlers depend on.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	List(ctx context.Context) ([]*Appointment, error)
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error)
}

// InMemoryRepository keeps appointments in a map. Used by tests and by
// demo mode when no database is configured. IDs are assigned as one
// past the current maximum.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[int64]*Appointment
	maxID int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[int64]*Appointment)}
}

func (r *InMemoryRepository) Create(_ context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxID++
	appt.ID = r.maxID
	cp := *appt
	r.byID[appt.ID] = &cp
	return nil
}

func (r *InMemoryRepository) List(_ context.Context) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		cp := *a
		out = append(out, &cp)
	}
	SortSchedule(out)
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *InMemoryRepository) UpdateStatus(_ context.Context, id int64, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.Status = status
	cp := *a
	return &cp, nil
}
