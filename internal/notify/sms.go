package notify

import (
	"context"

	"github.com/dentalops/leadflow/pkg/logging"
)

// SMSSender defines the interface for sending text messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// LogSMSSender writes messages to the log instead of a carrier. Stands
// in until an SMS provider is connected.
type LogSMSSender struct {
	logger *logging.Logger
}

// NewLogSMSSender creates a log-only SMS sender.
func NewLogSMSSender(logger *logging.Logger) *LogSMSSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSMSSender{logger: logger}
}

// SendSMS logs the message but doesn't actually send it.
func (s *LogSMSSender) SendSMS(ctx context.Context, to, body string) error {
	s.logger.Info("log sms sender: would send sms", "to", to, "length", len(body))
	return nil
}

var _ SMSSender = (*LogSMSSender)(nil)
