// Package eventx publishes validation events, such as records that failed a
// check, to an in-memory bus or an SQS queue.
//
//	pub := eventxsqs.New(sqs.NewFromConfig(cfg), queueURL)
//	defer pub.Close()
//
//	event := eventx.NewEvent(eventx.TypeRecordInvalid, "serialx", map[string]any{
//		"schema":   "User",
//		"index":    3,
//		"messages": []string{"Field name is missing."},
//	})
//	if err := pub.Publish(ctx, event); err != nil {
//		return err
//	}
package eventx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by serialx
const (
	TypeRecordInvalid = "serialx.record.invalid"
	TypeCheckFinished = "serialx.check.finished"
)

// Event is one published message
type Event struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Source string         `json:"source"`
	Time   time.Time      `json:"time"`
	Data   map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with a random ID stamped with the current time
func NewEvent(eventType, source string, data map[string]any) Event {
	return Event{
		ID:     uuid.NewString(),
		Type:   eventType,
		Source: source,
		Time:   time.Now().UTC(),
		Data:   data,
	}
}

// Validate checks the fields every publisher relies on
func (e Event) Validate() error {
	if e.Type == "" {
		return ErrorRegistry.New(ErrInvalidEventType).WithDetail("id", e.ID)
	}
	return nil
}

// ToJSON serializes an event
func ToJSON(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, ErrorRegistry.NewWithCause(ErrSerializationFailed, err).
			WithDetail("type", e.Type)
	}
	return data, nil
}

// FromJSON deserializes an event
func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, ErrorRegistry.NewWithCause(ErrSerializationFailed, err)
	}
	return e, nil
}

// Publisher sends events
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}
