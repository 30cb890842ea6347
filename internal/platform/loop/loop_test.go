package loop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	t.Parallel()

	var g Guard
	require.True(t, g.TryEnter())
	assert.True(t, g.Busy())
	assert.False(t, g.TryEnter())
	g.Leave()
	assert.False(t, g.Busy())
	assert.True(t, g.TryEnter())
}

func TestEvery_RunsUntilCancelledAndSurvivesErrors(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Every(ctx, 5*time.Millisecond, zerolog.Nop(), func(c context.Context) error {
			assert.NoError(t, c.Err(), "cycle context is never cancelled")
			if calls.Add(1) >= 3 {
				cancel()
			}
			return errors.New("boom")
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}
