package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event type names carried on the wire.
const (
	TypeLeadCreated       = "lead.created.v1"
	TypeFollowUpSent      = "followup.sent.v1"
	TypeAppointmentBooked = "appointment.booked.v1"
)

// Envelope wraps a payload with its type and emission time so consumers
// can route without decoding the body.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Wrap builds an envelope around the payload.
func Wrap(eventType string, payload any) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("events: marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	}, nil
}
