package integrations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalops/leadflow/internal/events"
)

func TestMemoryPublisherCollects(t *testing.T) {
	pub := NewMemoryPublisher()

	env, err := events.Wrap(events.TypeLeadCreated, events.LeadCreatedV1{LeadID: "lead-1"})
	require.NoError(t, err)
	require.NoError(t, pub.Publish(context.Background(), env))

	got := pub.Envelopes()
	require.Len(t, got, 1)
	assert.Equal(t, events.TypeLeadCreated, got[0].Type)
}

func TestMemoryPublisherCopies(t *testing.T) {
	pub := NewMemoryPublisher()
	env, err := events.Wrap(events.TypeFollowUpSent, events.FollowUpSentV1{JobID: "j1"})
	require.NoError(t, err)
	require.NoError(t, pub.Publish(context.Background(), env))

	first := pub.Envelopes()
	first[0].Type = "mutated"
	assert.Equal(t, events.TypeFollowUpSent, pub.Envelopes()[0].Type)
}

func TestIntegrationsEndpoint(t *testing.T) {
	handler := NewHandler([]Connector{
		{Name: "Transactional email", Kind: "email", Provider: "sendgrid", Enabled: true},
		{Name: "Outbound events", Kind: "queue", Provider: "sqs", Enabled: false},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/integrations/", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got []Connector
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "sendgrid", got[0].Provider)
	assert.False(t, got[1].Enabled)
}

func TestIntegrationsEndpointEmpty(t *testing.T) {
	handler := NewHandler(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/integrations/", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}
