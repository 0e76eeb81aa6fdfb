package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalops/leadflow/internal/appointments"
	"github.com/dentalops/leadflow/internal/followups"
	"github.com/dentalops/leadflow/internal/leads"
)

func TestStatsEndpoint(t *testing.T) {
	leadRepo := leads.NewInMemoryRepository()
	apptRepo := appointments.NewInMemoryRepository()
	jobRepo := followups.NewInMemoryJobRepository()
	ctx := context.Background()

	require.NoError(t, leadRepo.Create(ctx, &leads.Lead{QualificationStatus: leads.StatusQualified}))
	require.NoError(t, leadRepo.Create(ctx, &leads.Lead{QualificationStatus: leads.StatusNurture}))
	require.NoError(t, apptRepo.Create(ctx, &appointments.Appointment{Date: "2026-03-16", Status: appointments.StatusConfirmed}))
	require.NoError(t, jobRepo.Create(ctx, &followups.Job{LeadID: "l", TemplateID: "t", ScheduledFor: time.Now()}))

	handler := NewHandler(leadRepo, apptRepo, jobRepo, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats/", nil)
	rr := httptest.NewRecorder()
	handler.Stats(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var s Stats
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&s))
	assert.Equal(t, 2, s.TotalLeads)
	assert.Equal(t, 1, s.QualifiedLeads)
	assert.Equal(t, 1, s.ConfirmedAppointments)
	assert.Equal(t, 1, s.PendingFollowUps)
	assert.InDelta(t, 50.0, s.ConversionRate, 0.01)
}
