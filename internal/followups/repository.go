package followups

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dentalops/leadflow/internal/leads"
)

// TemplateRepository is the storage contract for templates.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *Template) error
	List(ctx context.Context) ([]*Template, error)
	GetByID(ctx context.Context, id string) (*Template, error)
	Patch(ctx context.Context, id string, patch TemplatePatch) (*Template, error)
	Delete(ctx context.Context, id string) error
	ListActiveByTrigger(ctx context.Context, trigger leads.QualificationStatus) ([]*Template, error)
}

// JobRepository is the storage contract for jobs.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	List(ctx context.Context, status JobStatus) ([]*Job, error)
	GetByID(ctx context.Context, id string) (*Job, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) (*Job, error)
	ListDue(ctx context.Context, now time.Time) ([]*Job, error)
}

// InMemoryTemplateRepository keeps templates in a map. Used by tests
// and by demo mode when no database is configured.
type InMemoryTemplateRepository struct {
	mu   sync.RWMutex
	byID map[string]*Template
}

func NewInMemoryTemplateRepository() *InMemoryTemplateRepository {
	return &InMemoryTemplateRepository{byID: make(map[string]*Template)}
}

func (r *InMemoryTemplateRepository) Create(_ context.Context, tpl *Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = time.Now().UTC()
	}
	tpl.UpdatedAt = tpl.CreatedAt
	cp := *tpl
	r.byID[tpl.ID] = &cp
	return nil
}

func (r *InMemoryTemplateRepository) List(_ context.Context) ([]*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Template, 0, len(r.byID))
	for _, tpl := range r.byID {
		cp := *tpl
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryTemplateRepository) GetByID(_ context.Context, id string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpl, ok := r.byID[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	cp := *tpl
	return &cp, nil
}

func (r *InMemoryTemplateRepository) Patch(_ context.Context, id string, patch TemplatePatch) (*Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tpl, ok := r.byID[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	applyTemplatePatch(tpl, patch)
	tpl.UpdatedAt = time.Now().UTC()
	cp := *tpl
	return &cp, nil
}

func (r *InMemoryTemplateRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrTemplateNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *InMemoryTemplateRepository) ListActiveByTrigger(ctx context.Context, trigger leads.QualificationStatus) ([]*Template, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Template
	for _, tpl := range all {
		if tpl.Active && tpl.TriggerOn == trigger {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func applyTemplatePatch(tpl *Template, patch TemplatePatch) {
	if patch.Name != nil {
		tpl.Name = *patch.Name
	}
	if patch.Channel != nil {
		tpl.Channel = *patch.Channel
	}
	if patch.Subject != nil {
		tpl.Subject = *patch.Subject
	}
	if patch.Content != nil {
		tpl.Content = *patch.Content
	}
	if patch.DelayMinutes != nil {
		tpl.DelayMinutes = *patch.DelayMinutes
	}
	if patch.TriggerOn != nil {
		tpl.TriggerOn = *patch.TriggerOn
	}
	if patch.Active != nil {
		tpl.Active = *patch.Active
	}
}

// InMemoryJobRepository keeps jobs in a map.
type InMemoryJobRepository struct {
	mu   sync.RWMutex
	byID map[string]*Job
}

func NewInMemoryJobRepository() *InMemoryJobRepository {
	return &InMemoryJobRepository{byID: make(map[string]*Job)}
}

func (r *InMemoryJobRepository) Create(_ context.Context, job *Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.Status == "" {
		job.Status = JobPending
	}
	cp := *job
	r.byID[job.ID] = &cp
	return nil
}

func (r *InMemoryJobRepository) List(_ context.Context, status JobStatus) ([]*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Job, 0, len(r.byID))
	for _, job := range r.byID {
		if status != "" && job.Status != status {
			continue
		}
		cp := *job
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.Before(out[j].ScheduledFor) })
	return out, nil
}

func (r *InMemoryJobRepository) GetByID(_ context.Context, id string) (*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.byID[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *InMemoryJobRepository) MarkSent(_ context.Context, id string, sentAt time.Time) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.byID[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	if job.Status == JobSent {
		return nil, ErrJobAlreadySent
	}
	job.Status = JobSent
	job.SentAt = &sentAt
	cp := *job
	return &cp, nil
}

func (r *InMemoryJobRepository) ListDue(ctx context.Context, now time.Time) ([]*Job, error) {
	pending, err := r.List(ctx, JobPending)
	if err != nil {
		return nil, err
	}
	var out []*Job
	for _, job := range pending {
		if !job.ScheduledFor.After(now) {
			out = append(out, job)
		}
	}
	return out, nil
}
