package eventxmemory

import (
	"context"
	"errors"
	"testing"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/eventx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRunsHandlers(t *testing.T) {
	bus := New()
	ctx := context.Background()

	var typed, all []string
	bus.Subscribe(eventx.TypeRecordInvalid, func(_ context.Context, e eventx.Event) error {
		typed = append(typed, e.ID)
		return nil
	})
	bus.Subscribe("*", func(_ context.Context, e eventx.Event) error {
		all = append(all, e.Type)
		return nil
	})

	invalid := eventx.NewEvent(eventx.TypeRecordInvalid, "test", map[string]any{"index": 1})
	done := eventx.NewEvent(eventx.TypeCheckFinished, "test", nil)
	require.NoError(t, bus.Publish(ctx, invalid, done))

	assert.Equal(t, []string{invalid.ID}, typed)
	assert.Equal(t, []string{eventx.TypeRecordInvalid, eventx.TypeCheckFinished}, all)
	assert.Len(t, bus.Events(), 2)
}

func TestPublishHandlerError(t *testing.T) {
	bus := New()
	bus.Subscribe(eventx.TypeCheckFinished, func(context.Context, eventx.Event) error {
		return errors.New("boom")
	})

	err := bus.Publish(context.Background(), eventx.NewEvent(eventx.TypeCheckFinished, "test", nil))
	assert.True(t, errx.IsCode(err, eventx.ErrHandlerFailed))
	assert.Len(t, bus.Events(), 1)
}

func TestPublishRejectsInvalidAndClosed(t *testing.T) {
	bus := New()
	ctx := context.Background()

	err := bus.Publish(ctx, eventx.Event{ID: "x"})
	assert.True(t, errx.IsCode(err, eventx.ErrInvalidEventType))
	assert.Empty(t, bus.Events())

	require.NoError(t, bus.Close())
	err = bus.Publish(ctx, eventx.NewEvent(eventx.TypeCheckFinished, "test", nil))
	assert.True(t, errx.IsCode(err, eventx.ErrPublisherClosed))
}
