// Package integrations publishes envelope-wrapped events to the
// outbound queue and reports connector status to the dashboard.
package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/dentalops/leadflow/internal/events"
	"github.com/dentalops/leadflow/pkg/logging"
)

// Publisher sends integration events downstream.
type Publisher interface {
	Publish(ctx context.Context, env events.Envelope) error
}

// SQSPublisher publishes envelopes to AWS/LocalStack SQS.
type SQSPublisher struct {
	client   *sqs.Client
	queueURL string
	logger   *logging.Logger
}

// NewSQSPublisher creates a publisher over the given queue.
func NewSQSPublisher(client *sqs.Client, queueURL string, logger *logging.Logger) *SQSPublisher {
	if client == nil {
		panic("integrations: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("integrations: SQS queueURL cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SQSPublisher{client: client, queueURL: queueURL, logger: logger}
}

// Publish sends one envelope as an SQS message.
func (p *SQSPublisher) Publish(ctx context.Context, env events.Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("integrations: marshal envelope: %w", err)
	}
	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("integrations: failed to send SQS message: %w", err)
	}
	p.logger.Debug("event published", "type", env.Type, "id", env.ID)
	return nil
}

// MemoryPublisher collects envelopes in memory. Used in tests and when
// no queue is configured.
type MemoryPublisher struct {
	mu        sync.Mutex
	envelopes []events.Envelope
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, env events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envelopes = append(p.envelopes, env)
	return nil
}

// Envelopes returns a copy of everything published so far.
func (p *MemoryPublisher) Envelopes() []events.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Envelope, len(p.envelopes))
	copy(out, p.envelopes)
	return out
}

var _ Publisher = (*SQSPublisher)(nil)
var _ Publisher = (*MemoryPublisher)(nil)
