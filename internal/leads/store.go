package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists leads in Postgres.
type Store struct {
	db DB
}

// NewStore creates a lead store backed by pgx.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const leadColumns = `id, first_name, last_name, email, phone, zip, insurance, situation, urgency,
	symptoms, financing, notes, hipaa_consent, tags,
	qualification_status, qualification_score, qualification_reasons, submitted_at`

// Create inserts a new lead row.
func (s *Store) Create(ctx context.Context, lead *Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.SubmittedAt.IsZero() {
		lead.SubmittedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO leads (`+leadColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		lead.ID, lead.FirstName, lead.LastName, lead.Email, lead.Phone, lead.Zip,
		lead.Insurance, lead.Situation, lead.Urgency,
		lead.Symptoms, lead.Financing, lead.Notes, lead.HIPAAConsent, lead.Tags,
		string(lead.QualificationStatus), lead.QualificationScore, lead.QualificationReasons,
		lead.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("leads: insert failed: %w", err)
	}
	return nil
}

// List returns the full collection, newest first.
func (s *Store) List(ctx context.Context) ([]*Lead, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		ORDER BY submitted_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()
	return scanLeads(rows)
}

// GetByID fetches a single lead.
func (s *Store) GetByID(ctx context.Context, id string) (*Lead, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// Patch applies a partial update and returns the updated lead.
func (s *Store) Patch(ctx context.Context, id string, req PatchRequest) (*Lead, error) {
	set := make([]string, 0, 3)
	args := make([]any, 0, 4)
	idx := 1

	if req.QualificationStatus != nil {
		if !req.QualificationStatus.Valid() {
			return nil, ErrInvalidStatus
		}
		set = append(set, fmt.Sprintf("qualification_status = $%d", idx))
		args = append(args, string(*req.QualificationStatus))
		idx++
	}
	if req.Tags != nil {
		set = append(set, fmt.Sprintf("tags = $%d", idx))
		args = append(args, DedupeTags(*req.Tags))
		idx++
	}
	if req.Notes != nil {
		set = append(set, fmt.Sprintf("notes = $%d", idx))
		args = append(args, *req.Notes)
		idx++
	}
	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING `+leadColumns,
		joinSet(set), idx)
	lead, err := scanLead(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: patch failed: %w", err)
	}
	return lead, nil
}

func joinSet(set []string) string {
	out := set[0]
	for _, s := range set[1:] {
		out += ", " + s
	}
	return out
}

func scanLeads(rows pgx.Rows) ([]*Lead, error) {
	var result []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}

func scanLead(row pgx.Row) (*Lead, error) {
	var l Lead
	var status string
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Zip,
		&l.Insurance, &l.Situation, &l.Urgency,
		&l.Symptoms, &l.Financing, &l.Notes, &l.HIPAAConsent, &l.Tags,
		&status, &l.QualificationScore, &l.QualificationReasons,
		&l.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	l.QualificationStatus = QualificationStatus(status)
	return &l, nil
}
