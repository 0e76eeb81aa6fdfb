package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PatchRequest is a partial update. Nil fields are left untouched.
// Tags are deduped; notes replace the stored value (the dashboard
// appends " | " separated entries client-side and sends the result).
type PatchRequest struct {
	Tags                *[]string            `json:"tags"`
	Notes               *string              `json:"notes"`
	QualificationStatus *QualificationStatus `json:"qualification_status"`
}

// Repository defines lead storage.
type Repository interface {
	Create(ctx context.Context, lead *Lead) error
	List(ctx context.Context) ([]*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	Patch(ctx context.Context, id string, req PatchRequest) (*Lead, error)
}

// InMemoryRepository keeps leads in a map. Used in tests and when no
// database is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{leads: make(map[string]*Lead)}
}

// Create stores the lead, assigning an id and timestamp when missing.
func (r *InMemoryRepository) Create(ctx context.Context, lead *Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.SubmittedAt.IsZero() {
		lead.SubmittedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *lead
	r.leads[lead.ID] = &cp
	return nil
}

// List returns all leads, newest first.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Lead, 0, len(r.leads))
	for _, l := range r.leads {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

// GetByID returns a copy of the lead or ErrLeadNotFound.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	cp := *l
	return &cp, nil
}

// Patch applies a partial update and returns the updated lead.
func (r *InMemoryRepository) Patch(ctx context.Context, id string, req PatchRequest) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	if req.QualificationStatus != nil {
		if !req.QualificationStatus.Valid() {
			return nil, ErrInvalidStatus
		}
		l.QualificationStatus = *req.QualificationStatus
	}
	if req.Tags != nil {
		l.Tags = DedupeTags(*req.Tags)
	}
	if req.Notes != nil {
		l.Notes = *req.Notes
	}
	cp := *l
	return &cp, nil
}
