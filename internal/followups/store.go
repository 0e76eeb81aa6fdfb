package followups

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dentalops/leadflow/internal/leads"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TemplateStore persists templates in Postgres.
type TemplateStore struct {
	db DB
}

func NewTemplateStore(db DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, name, channel, subject, content, delay_minutes, trigger_on, active, created_at, updated_at`

func (s *TemplateStore) Create(ctx context.Context, tpl *Template) error {
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = time.Now().UTC()
	}
	tpl.UpdatedAt = tpl.CreatedAt
	_, err := s.db.Exec(ctx, `
		INSERT INTO followup_templates (`+templateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		tpl.ID, tpl.Name, string(tpl.Channel), tpl.Subject, tpl.Content,
		tpl.DelayMinutes, string(tpl.TriggerOn), tpl.Active, tpl.CreatedAt, tpl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("followups: insert template: %w", err)
	}
	return nil
}

func (s *TemplateStore) List(ctx context.Context) ([]*Template, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+templateColumns+`
		FROM followup_templates
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("followups: list templates: %w", err)
	}
	defer rows.Close()
	return scanTemplates(rows)
}

func (s *TemplateStore) GetByID(ctx context.Context, id string) (*Template, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+templateColumns+`
		FROM followup_templates
		WHERE id = $1`, id)
	tpl, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("followups: select template: %w", err)
	}
	return tpl, nil
}

func (s *TemplateStore) Patch(ctx context.Context, id string, patch TemplatePatch) (*Template, error) {
	set := make([]string, 0, 7)
	args := make([]any, 0, 8)
	idx := 1

	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Channel != nil {
		add("channel", string(*patch.Channel))
	}
	if patch.Subject != nil {
		add("subject", *patch.Subject)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.DelayMinutes != nil {
		add("delay_minutes", *patch.DelayMinutes)
	}
	if patch.TriggerOn != nil {
		add("trigger_on", string(*patch.TriggerOn))
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}
	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE followup_templates SET %s WHERE id = $%d RETURNING `+templateColumns,
		joinSet(set), idx)
	tpl, err := scanTemplate(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("followups: patch template: %w", err)
	}
	return tpl, nil
}

func (s *TemplateStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM followup_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("followups: delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (s *TemplateStore) ListActiveByTrigger(ctx context.Context, trigger leads.QualificationStatus) ([]*Template, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+templateColumns+`
		FROM followup_templates
		WHERE active AND trigger_on = $1
		ORDER BY created_at`, string(trigger))
	if err != nil {
		return nil, fmt.Errorf("followups: list triggered templates: %w", err)
	}
	defer rows.Close()
	return scanTemplates(rows)
}

func scanTemplates(rows pgx.Rows) ([]*Template, error) {
	var result []*Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("followups: scan template: %w", err)
		}
		result = append(result, tpl)
	}
	return result, rows.Err()
}

func scanTemplate(row pgx.Row) (*Template, error) {
	var t Template
	var channel, trigger string
	err := row.Scan(
		&t.ID, &t.Name, &channel, &t.Subject, &t.Content,
		&t.DelayMinutes, &trigger, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Channel = Channel(channel)
	t.TriggerOn = leads.QualificationStatus(trigger)
	return &t, nil
}

// JobStore persists jobs in Postgres.
type JobStore struct {
	db DB
}

func NewJobStore(db DB) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `id, lead_id, template_id, channel, scheduled_for, status, sent_at, created_at`

func (s *JobStore) Create(ctx context.Context, job *Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.Status == "" {
		job.Status = JobPending
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO followup_jobs (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID, job.LeadID, job.TemplateID, string(job.Channel),
		job.ScheduledFor, string(job.Status), job.SentAt, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("followups: insert job: %w", err)
	}
	return nil
}

func (s *JobStore) List(ctx context.Context, status JobStatus) ([]*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM followup_jobs ORDER BY scheduled_for`
	args := []any{}
	if status != "" {
		query = `SELECT ` + jobColumns + ` FROM followup_jobs WHERE status = $1 ORDER BY scheduled_for`
		args = append(args, string(status))
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("followups: list jobs: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (s *JobStore) GetByID(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+jobColumns+`
		FROM followup_jobs
		WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("followups: select job: %w", err)
	}
	return job, nil
}

// MarkSent flips a pending job to sent. The status guard in the WHERE
// clause makes concurrent send_now calls race-safe: only one wins.
func (s *JobStore) MarkSent(ctx context.Context, id string, sentAt time.Time) (*Job, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE followup_jobs SET status = $1, sent_at = $2
		WHERE id = $3 AND status = $4
		RETURNING `+jobColumns,
		string(JobSent), sentAt, id, string(JobPending))
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := s.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrJobAlreadySent
		}
		return nil, fmt.Errorf("followups: mark sent: %w", err)
	}
	return job, nil
}

func (s *JobStore) ListDue(ctx context.Context, now time.Time) ([]*Job, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+jobColumns+`
		FROM followup_jobs
		WHERE status = $1 AND scheduled_for <= $2
		ORDER BY scheduled_for`, string(JobPending), now)
	if err != nil {
		return nil, fmt.Errorf("followups: list due jobs: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func scanJobs(rows pgx.Rows) ([]*Job, error) {
	var result []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("followups: scan job: %w", err)
		}
		result = append(result, job)
	}
	return result, rows.Err()
}

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	var channel, status string
	err := row.Scan(
		&j.ID, &j.LeadID, &j.TemplateID, &channel,
		&j.ScheduledFor, &status, &j.SentAt, &j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.Channel = Channel(channel)
	j.Status = JobStatus(status)
	return &j, nil
}

func joinSet(set []string) string {
	out := set[0]
	for _, s := range set[1:] {
		out += ", " + s
	}
	return out
}
