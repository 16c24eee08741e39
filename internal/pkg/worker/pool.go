// Package worker provides goroutine pool management.
//
// Naked goroutines are avoided throughout the codebase; concurrency goes
// through a pool with context propagation and panic recovery.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"oascore.io/oascore/internal/pkg/logger"
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware task function.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool *ants.Pool
	name string
}

// Config contains worker pool configuration.
type Config struct {
	// EvalPoolSize bounds concurrent document evaluations.
	EvalPoolSize int
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{EvalPoolSize: 32}
}

// NewPool creates a named pool of the given size.
func NewPool(name string, size int) (*Pool, error) {
	panicHandler := func(p interface{}) {
		logger.Error("Worker panic recovered",
			zap.Any("panic", p),
			zap.Stack("stack"),
		)
	}

	p, err := ants.NewPool(size,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: p, name: name}, nil
}

// Submit submits a context-aware task. The task receives the caller's context
// and SHOULD check ctx.Done() at blocking points. If the context is already
// cancelled, returns ctx.Err() immediately without submitting.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := p.pool.Submit(func() {
		// May have been cancelled while queued.
		select {
		case <-ctx.Done():
			logger.Debug("Task skipped: context cancelled",
				zap.String("pool", p.name),
				zap.Error(ctx.Err()),
			)
			return
		default:
		}
		task(ctx)
	})
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrPoolClosed
	}
	return err
}

// Running returns the number of currently running workers.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Free returns the number of available worker slots.
func (p *Pool) Free() int {
	return p.pool.Free()
}

// Shutdown releases the pool, waiting for running tasks up to a timeout.
func (p *Pool) Shutdown() {
	const shutdownTimeout = 30 * time.Second
	if err := p.pool.ReleaseTimeout(shutdownTimeout); err != nil {
		logger.Warn("Pool shutdown timeout",
			zap.String("pool", p.name),
			zap.Error(err),
		)
	}
}
