package outbox

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOutbox_RunsTasks(t *testing.T) {
	o := New(zap.NewNop(), 8)
	o.Start()

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		ok := o.Enqueue("count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
		require.True(t, ok)
	}

	o.Close()
	assert.Equal(t, int32(5), ran.Load())
}

func TestOutbox_FailureDoesNotStopWorker(t *testing.T) {
	o := New(zap.NewNop(), 8)
	o.Start()

	var ran atomic.Int32
	o.Enqueue("boom", func(ctx context.Context) error {
		return errors.New("storage down")
	})
	o.Enqueue("panics", func(ctx context.Context) error {
		panic("oops")
	})
	o.Enqueue("after", func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})

	o.Close()
	assert.Equal(t, int32(1), ran.Load(), "tasks after a failure must still run")
}

func TestOutbox_DropsWhenFull(t *testing.T) {
	// Worker not started, so the buffer is the only capacity.
	o := New(zap.NewNop(), 1)

	first := o.Enqueue("a", func(ctx context.Context) error { return nil })
	second := o.Enqueue("b", func(ctx context.Context) error { return nil })

	assert.True(t, first)
	assert.False(t, second)
}
