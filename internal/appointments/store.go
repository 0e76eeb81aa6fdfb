package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists appointments in Postgres.
type Store struct {
	db DB
}

// NewStore creates an appointment store backed by pgx.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const apptColumns = `id, lead_id, patient_name, service, visit_date, start_time, duration, status, notes`

// Create inserts a new appointment row and fills in the assigned id.
func (s *Store) Create(ctx context.Context, appt *Appointment) error {
	visitDate, err := ParseDate(appt.Date)
	if err != nil {
		return fmt.Errorf("appointments: bad date %q: %w", appt.Date, err)
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO appointments (lead_id, patient_name, service, visit_date, start_time, duration, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		appt.LeadID, appt.PatientName, appt.Service, visitDate, appt.StartTime,
		appt.Duration, string(appt.Status), appt.Notes,
	)
	if err := row.Scan(&appt.ID); err != nil {
		return fmt.Errorf("appointments: insert failed: %w", err)
	}
	return nil
}

// List returns all appointments in schedule order.
func (s *Store) List(ctx context.Context) ([]*Appointment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		ORDER BY visit_date, start_time`)
	if err != nil {
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// GetByID fetches a single appointment.
func (s *Store) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE id = $1`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return appt, nil
}

// UpdateStatus replaces the status and returns the updated appointment.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	row := s.db.QueryRow(ctx, `
		UPDATE appointments SET status = $1
		WHERE id = $2
		RETURNING `+apptColumns, string(status), id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: status update failed: %w", err)
	}
	return appt, nil
}

func scanAppointments(rows pgx.Rows) ([]*Appointment, error) {
	var result []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		result = append(result, appt)
	}
	return result, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var status string
	var visitDate time.Time
	err := row.Scan(
		&a.ID, &a.LeadID, &a.PatientName, &a.Service, &visitDate, &a.StartTime,
		&a.Duration, &status, &a.Notes,
	)
	if err != nil {
		return nil, err
	}
	a.Date = visitDate.Format(time.DateOnly)
	a.Status = Status(status)
	a.Time = FormatTimeDisplay(a.StartTime)
	return &a, nil
}
