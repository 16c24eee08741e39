package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"oascore.io/oascore/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init("error", "console")
	m.Run()
}

func TestPool_Submit(t *testing.T) {
	pool, err := NewPool("test", 4)
	require.NoError(t, err)
	defer pool.Shutdown()

	var ran atomic.Bool
	done := make(chan struct{})

	err = pool.Submit(context.Background(), func(ctx context.Context) {
		ran.Store(true)
		close(done)
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
	require.True(t, ran.Load())
}

func TestPool_Submit_CancelledContext(t *testing.T) {
	pool, err := NewPool("test", 1)
	require.NoError(t, err)
	defer pool.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = pool.Submit(ctx, func(ctx context.Context) {
		t.Error("task should not run with cancelled context")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 32, cfg.EvalPoolSize)
}

func TestPool_Submit_AfterShutdown(t *testing.T) {
	pool, err := NewPool("test", 1)
	require.NoError(t, err)
	pool.Shutdown()

	err = pool.Submit(context.Background(), func(ctx context.Context) {
		t.Error("task should not run on a closed pool")
	})
	require.ErrorIs(t, err, ErrPoolClosed)
}
