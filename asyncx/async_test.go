package asyncx

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCollectKeepsOrderAndErrors(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	results, err := MapCollect(context.Background(), items, 2, func(_ context.Context, n int) (int, error) {
		if n%2 == 0 {
			return 0, errors.New("even")
		}
		return n * 10, nil
	})

	ec, ok := IsErrorCollection(err)
	require.True(t, ok)
	assert.Equal(t, []int{1, 3}, ec.Indexes())
	assert.Equal(t, []int{10, 0, 30, 0, 50}, results)
	assert.Equal(t, []int{10, 30, 50}, FilterSuccessful(results, err))
	assert.EqualError(t, ec.GetError(1), "even")
	assert.Nil(t, ec.GetError(0))
}

func TestPoolBoundsConcurrency(t *testing.T) {
	var running, peak int32
	items := make([]int, 20)

	_, err := Map(context.Background(), items, 3, func(_ context.Context, _ int) (int, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return 0, nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestPoolFailsFast(t *testing.T) {
	boom := errors.New("boom")
	_, err := Map(context.Background(), []int{1, 2, 3}, 1, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestInvalidPoolSize(t *testing.T) {
	_, err := MapCollect(context.Background(), []int{1}, 0, func(context.Context, int) (int, error) { return 0, nil })
	assert.True(t, errx.IsCode(err, ErrPoolSize))
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MapCollect(ctx, []int{1, 2}, 1, func(context.Context, int) (int, error) { return 1, nil })
	ec, ok := IsErrorCollection(err)
	require.True(t, ok)
	assert.Len(t, ec.Errors, 2)
	assert.True(t, errx.IsCode(ec.GetError(0), ErrCanceled))
}
