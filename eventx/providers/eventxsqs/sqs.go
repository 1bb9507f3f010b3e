package eventxsqs

import (
	"context"
	"fmt"
	"sync"

	"github.com/Conversia-AI/craftable-serialx/eventx"
	"github.com/Conversia-AI/craftable-serialx/serialx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

// MaxBatchSize is the SQS limit of entries per SendMessageBatch call
const MaxBatchSize = 10

// API is the subset of the SQS client used by the publisher
type API interface {
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
}

// SQSPublisher sends events as JSON messages to one queue
type SQSPublisher struct {
	client   API
	queueURL string
	// messageGroupID is set on every message of a FIFO queue
	messageGroupID string
	batchSize      int

	mutex  sync.RWMutex
	closed bool
}

var _ eventx.Publisher = (*SQSPublisher)(nil)

// Option configures an SQSPublisher
type Option func(*SQSPublisher)

// WithMessageGroupID enables FIFO publishing with the given group
func WithMessageGroupID(id string) Option {
	return func(p *SQSPublisher) {
		p.messageGroupID = id
	}
}

// WithBatchSize lowers the number of messages sent per call
func WithBatchSize(n int) Option {
	return func(p *SQSPublisher) {
		if n > 0 && n <= MaxBatchSize {
			p.batchSize = n
		}
	}
}

// New creates a publisher for queueURL
func New(client API, queueURL string, opts ...Option) *SQSPublisher {
	p := &SQSPublisher{
		client:    client,
		queueURL:  queueURL,
		batchSize: MaxBatchSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends events in batches. Entries SQS rejects are reported in the
// error's "failed" detail keyed by event ID.
func (p *SQSPublisher) Publish(ctx context.Context, events ...eventx.Event) error {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.closed {
		return eventx.ErrorRegistry.New(eventx.ErrPublisherClosed)
	}

	failed := make(map[string]string)
	for i := 0; i < len(events); i += p.batchSize {
		end := min(i+p.batchSize, len(events))
		if err := p.sendBatch(ctx, events[i:end], failed); err != nil {
			return err
		}
	}

	if len(failed) > 0 {
		return eventx.ErrorRegistry.New(eventx.ErrPublishFailed).
			WithDetail("queue_url", p.queueURL).
			WithDetail("failed", failed)
	}
	return nil
}

func (p *SQSPublisher) sendBatch(ctx context.Context, events []eventx.Event, failed map[string]string) error {
	entries := make([]types.SendMessageBatchRequestEntry, 0, len(events))
	ids := make(map[string]string, len(events))

	for i, event := range events {
		if err := event.Validate(); err != nil {
			return err
		}
		data, err := eventx.ToJSON(event)
		if err != nil {
			return err
		}

		entryID := fmt.Sprintf("msg-%d", i)
		ids[entryID] = event.ID

		entry := types.SendMessageBatchRequestEntry{
			Id:          aws.String(entryID),
			MessageBody: aws.String(string(data)),
			MessageAttributes: map[string]types.MessageAttributeValue{
				"EventType": {
					DataType:    aws.String("String"),
					StringValue: aws.String(event.Type),
				},
				"EventSource": {
					DataType:    aws.String("String"),
					StringValue: aws.String(event.Source),
				},
			},
		}
		if p.messageGroupID != "" {
			entry.MessageGroupId = aws.String(p.messageGroupID)
			entry.MessageDeduplicationId = aws.String(event.ID)
		}
		entries = append(entries, entry)
	}

	out, err := p.client.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: aws.String(p.queueURL),
		Entries:  entries,
	})
	if err != nil {
		return eventx.ErrorRegistry.NewWithCause(eventx.ErrPublishFailed, err).
			WithDetail("queue_url", p.queueURL)
	}

	for _, f := range out.Failed {
		eventID := ids[aws.ToString(f.Id)]
		failed[eventID] = aws.ToString(f.Message)
		serialx.Logger().Warn("sqs rejected event",
			zap.String("event_id", eventID),
			zap.String("code", aws.ToString(f.Code)),
			zap.Bool("sender_fault", f.SenderFault))
	}
	return nil
}

// Close rejects further publishing
func (p *SQSPublisher) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.closed = true
	return nil
}
