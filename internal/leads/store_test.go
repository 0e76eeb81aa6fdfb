package leads

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leadRowColumns = []string{
	"id", "first_name", "last_name", "email", "phone", "zip", "insurance", "situation", "urgency",
	"symptoms", "financing", "notes", "hipaa_consent", "tags",
	"qualification_status", "qualification_score", "qualification_reasons", "submitted_at",
}

func leadRow(mock pgxmock.PgxPoolIface, id string) *pgxmock.Rows {
	return mock.NewRows(leadRowColumns).AddRow(
		id, "Maria", "Chen", "maria@example.com", "555-0142", "94107", "Aetna",
		"One missing tooth", "This Week",
		[]string{"Checkup & Cleaning"}, "No", "", true, []string{"reviewed"},
		"qualified", 75, []string{"insured with Aetna"}, time.Now().UTC(),
	)
}

func TestStoreCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO leads").
		WithArgs(
			pgxmock.AnyArg(), "Maria", "Chen", "maria@example.com", "", "",
			"", "", "",
			[]string(nil), "", "", false, []string(nil),
			"qualified", 0, []string(nil),
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewStore(mock)
	lead := &Lead{
		FirstName:           "Maria",
		LastName:            "Chen",
		Email:               "maria@example.com",
		QualificationStatus: StatusQualified,
	}
	require.NoError(t, store.Create(context.Background(), lead))
	assert.NotEmpty(t, lead.ID)
	assert.False(t, lead.SubmittedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM leads").
		WillReturnRows(leadRow(mock, "lead-1"))

	store := NewStore(mock)
	got, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lead-1", got[0].ID)
	assert.Equal(t, StatusQualified, got[0].QualificationStatus)
	assert.Equal(t, []string{"reviewed"}, got[0].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM leads").
		WithArgs("missing").
		WillReturnRows(mock.NewRows(leadRowColumns))

	store := NewStore(mock)
	_, err = store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestStorePatchTagsDedupes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("UPDATE leads SET tags").
		WithArgs([]string{"reviewed", "urgent"}, "lead-1").
		WillReturnRows(leadRow(mock, "lead-1"))

	store := NewStore(mock)
	tags := []string{"reviewed", "urgent", "reviewed"}
	got, err := store.Patch(context.Background(), "lead-1", PatchRequest{Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "lead-1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorePatchRejectsUnknownStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	bogus := QualificationStatus("archived")
	store := NewStore(mock)
	_, err = store.Patch(context.Background(), "lead-1", PatchRequest{QualificationStatus: &bogus})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStorePatchNoFieldsFallsBackToGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM leads").
		WithArgs("lead-1").
		WillReturnRows(leadRow(mock, "lead-1"))

	store := NewStore(mock)
	got, err := store.Patch(context.Background(), "lead-1", PatchRequest{})
	require.NoError(t, err)
	assert.Equal(t, "lead-1", got.ID)
}
