package eventxsqs

import (
	"context"
	"errors"
	"testing"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/eventx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	inputs []*sqs.SendMessageBatchInput
	// rejects entry IDs
	reject map[string]bool
	err    error
}

func (f *fakeSQS) SendMessageBatch(_ context.Context, in *sqs.SendMessageBatchInput, _ ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, in)

	out := &sqs.SendMessageBatchOutput{}
	for _, e := range in.Entries {
		if f.reject[aws.ToString(e.Id)] {
			out.Failed = append(out.Failed, types.BatchResultErrorEntry{
				Id:          e.Id,
				Code:        aws.String("InvalidMessageContents"),
				Message:     aws.String("rejected"),
				SenderFault: true,
			})
			continue
		}
		out.Successful = append(out.Successful, types.SendMessageBatchResultEntry{Id: e.Id})
	}
	return out, nil
}

func events(n int) []eventx.Event {
	out := make([]eventx.Event, n)
	for i := range out {
		out[i] = eventx.NewEvent(eventx.TypeRecordInvalid, "test", map[string]any{"index": i})
	}
	return out
}

func TestPublishBatches(t *testing.T) {
	client := &fakeSQS{}
	pub := New(client, "https://sqs.local/queue")

	require.NoError(t, pub.Publish(context.Background(), events(23)...))
	require.Len(t, client.inputs, 3)
	assert.Len(t, client.inputs[0].Entries, 10)
	assert.Len(t, client.inputs[2].Entries, 3)

	entry := client.inputs[0].Entries[0]
	assert.Equal(t, "https://sqs.local/queue", aws.ToString(client.inputs[0].QueueUrl))
	assert.Equal(t, eventx.TypeRecordInvalid, aws.ToString(entry.MessageAttributes["EventType"].StringValue))
	assert.Nil(t, entry.MessageGroupId)

	decoded, err := eventx.FromJSON([]byte(aws.ToString(entry.MessageBody)))
	require.NoError(t, err)
	assert.Equal(t, eventx.TypeRecordInvalid, decoded.Type)
}

func TestPublishFIFO(t *testing.T) {
	client := &fakeSQS{}
	pub := New(client, "q.fifo", WithMessageGroupID("checks"), WithBatchSize(2))

	evs := events(3)
	require.NoError(t, pub.Publish(context.Background(), evs...))
	require.Len(t, client.inputs, 2)

	entry := client.inputs[0].Entries[0]
	assert.Equal(t, "checks", aws.ToString(entry.MessageGroupId))
	assert.Equal(t, evs[0].ID, aws.ToString(entry.MessageDeduplicationId))
}

func TestPublishReportsRejectedEntries(t *testing.T) {
	client := &fakeSQS{reject: map[string]bool{"msg-1": true}}
	pub := New(client, "q")

	evs := events(2)
	err := pub.Publish(context.Background(), evs...)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, eventx.ErrPublishFailed))

	var xerr *errx.Error
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, map[string]string{evs[1].ID: "rejected"}, xerr.Details["failed"])
}

func TestPublishErrors(t *testing.T) {
	ctx := context.Background()

	pub := New(&fakeSQS{err: errors.New("throttled")}, "q")
	err := pub.Publish(ctx, events(1)...)
	assert.True(t, errx.IsCode(err, eventx.ErrPublishFailed))

	err = New(&fakeSQS{}, "q").Publish(ctx, eventx.Event{ID: "no-type"})
	assert.True(t, errx.IsCode(err, eventx.ErrInvalidEventType))

	require.NoError(t, pub.Close())
	err = pub.Publish(ctx, events(1)...)
	assert.True(t, errx.IsCode(err, eventx.ErrPublisherClosed))
}
