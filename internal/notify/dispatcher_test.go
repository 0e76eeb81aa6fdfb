package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalops/leadflow/pkg/logging"
)

type recordingEmail struct {
	last EmailMessage
}

func (r *recordingEmail) Send(_ context.Context, msg EmailMessage) error {
	r.last = msg
	return nil
}

func TestDispatcherRoutesEmail(t *testing.T) {
	email := &recordingEmail{}
	d := NewDispatcher(email, NewLogSMSSender(nil))

	err := d.SendEmail(context.Background(), "maria@example.com", "Hello", "Hi Maria")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", email.last.To)
	assert.Equal(t, "Hello", email.last.Subject)
	assert.Equal(t, "Hi Maria", email.last.Body)
}

func TestDispatcherWithoutEmailSender(t *testing.T) {
	d := NewDispatcher(nil, NewLogSMSSender(nil))
	err := d.SendEmail(context.Background(), "x@example.com", "s", "b")
	assert.Error(t, err)
}

func TestDispatcherWithoutSMSSender(t *testing.T) {
	d := NewDispatcher(&recordingEmail{}, nil)
	err := d.SendSMS(context.Background(), "555-0142", "hi")
	assert.Error(t, err)
}

func TestLogSMSSenderLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")
	sender := NewLogSMSSender(logger)

	require.NoError(t, sender.SendSMS(context.Background(), "555-0142", "hi there"))
	assert.Contains(t, buf.String(), "would send sms")
	assert.Contains(t, buf.String(), "555-0142")
}

func TestStubEmailSenderLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")
	sender := NewStubEmailSender(logger)

	require.NoError(t, sender.Send(context.Background(), EmailMessage{To: "maria@example.com", Subject: "Hello"}))
	assert.Contains(t, buf.String(), "would send email")
}

func TestNewSendGridSenderRequiresAPIKey(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{}, nil))
}

func TestNewSESSenderRequiresClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{}, nil))
}
