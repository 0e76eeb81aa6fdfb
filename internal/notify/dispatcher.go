package notify

import (
	"context"
	"fmt"
)

// Dispatcher fans a follow-up out to the right transport. It satisfies
// the follow-up service's sender contract.
type Dispatcher struct {
	email EmailSender
	sms   SMSSender
}

// NewDispatcher creates a dispatcher over the given transports.
func NewDispatcher(email EmailSender, sms SMSSender) *Dispatcher {
	return &Dispatcher{email: email, sms: sms}
}

// SendEmail delivers over the email transport.
func (d *Dispatcher) SendEmail(ctx context.Context, to, subject, body string) error {
	if d.email == nil {
		return fmt.Errorf("notify: no email sender configured")
	}
	return d.email.Send(ctx, EmailMessage{To: to, Subject: subject, Body: body})
}

// SendSMS delivers over the SMS transport.
func (d *Dispatcher) SendSMS(ctx context.Context, to, body string) error {
	if d.sms == nil {
		return fmt.Errorf("notify: no sms sender configured")
	}
	return d.sms.SendSMS(ctx, to, body)
}
