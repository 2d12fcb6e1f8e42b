// Package goroutine runs fire-and-forget work with a bounded number of
// goroutines and a graceful drain on shutdown.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/lhaden/authgate/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager receives a
// non-positive limit.
const DefaultMaxGoroutine int = 100

var (
	ErrClosed = errors.New("goroutine: manager closed")
	ErrFull   = errors.New("goroutine: concurrency limit reached")
)

// Manager runs tasks in goroutines, never more than its limit at once.
// Task errors are logged and collected for Wait.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	stateMu sync.RWMutex
	closed  bool

	mu   sync.Mutex
	errs []error
}

func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go starts f in its own goroutine. The task receives ctx detached from the
// caller's cancellation so request completion does not abort it.
//
// It returns ErrClosed after Wait was called and ErrFull when no slot is free;
// in both cases f is not run.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) error {
	g.stateMu.RLock()
	defer g.stateMu.RUnlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, task skipped", "task", name)
		return ErrClosed
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached, task skipped", "task", name)
		return ErrFull
	}

	taskCtx := context.WithoutCancel(ctx)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() { <-g.sema }()
		defer func() {
			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				slog.ErrorContext(taskCtx, "panic occurred in goroutine", "task", name, "panic", rvr, "stack", stacktrace.InternalPaths(stack))
				g.record(errors.New("goroutine: task " + name + " panicked"))
			}
		}()

		if err := f(taskCtx); err != nil {
			slog.ErrorContext(taskCtx, "goroutine task failed", "task", name, "error", err)
			g.record(err)
		}
	}()

	return nil
}

func (g *Manager) record(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Wait stops accepting tasks, blocks until running ones finish and returns
// their joined errors.
func (g *Manager) Wait() error {
	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
