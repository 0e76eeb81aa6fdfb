package appointments

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var apptRowColumns = []string{
	"id", "lead_id", "patient_name", "service", "visit_date", "start_time", "duration", "status", "notes",
}

func apptRow(mock pgxmock.PgxPoolIface, id int64) *pgxmock.Rows {
	return mock.NewRows(apptRowColumns).AddRow(
		id, (*string)(nil), "Maria Chen", "Implant Consult",
		time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		"14:30", "60 minutes", "pending", "",
	)
}

func TestAppointmentStoreCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(
			(*string)(nil), "Maria Chen", "",
			time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
			"14:30", "30 minutes", "pending", "",
		).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(7)))

	store := NewStore(mock)
	appt := NewFromBooking(BookingRequest{
		PatientName: "Maria Chen",
		Date:        "2026-03-10",
		Time:        "14:30",
	})
	require.NoError(t, store.Create(context.Background(), appt))
	assert.Equal(t, int64(7), appt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentStoreCreateRejectsBadDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewStore(mock)
	appt := NewFromBooking(BookingRequest{Date: "10/03/2026"})
	assert.Error(t, store.Create(context.Background(), appt))
}

func TestAppointmentStoreListRestoresDisplayTime(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WillReturnRows(apptRow(mock, 7))

	store := NewStore(mock)
	got, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-03-10", got[0].Date)
	assert.Equal(t, "2:30 PM", got[0].Time)
	assert.Equal(t, StatusPending, got[0].Status)
}

func TestAppointmentStoreUpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("UPDATE appointments SET status").
		WithArgs("confirmed", int64(7)).
		WillReturnRows(apptRow(mock, 7))

	store := NewStore(mock)
	got, err := store.UpdateStatus(context.Background(), 7, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentStoreUpdateStatusRejectsUnknown(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewStore(mock)
	_, err = store.UpdateStatus(context.Background(), 7, Status("done"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAppointmentStoreGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(int64(99)).
		WillReturnRows(mock.NewRows(apptRowColumns))

	store := NewStore(mock)
	_, err = store.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
