package goroutine

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/atomic"
)

func TestManager_GoAndWait(t *testing.T) {
	// Arrange
	m := NewManager(4)
	boom := errors.New("publish failed")
	ran := atomic.NewInt32(0)

	// Act
	for i := range 3 {
		err := m.Go(context.Background(), "task", func(context.Context) error {
			ran.Inc()
			if i == 0 {
				return boom
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Go() error = %v", err)
		}
	}
	err := m.Wait()

	// Assert
	if ran.Load() != 3 {
		t.Fatalf("ran = %d, want 3", ran.Load())
	}
	if !errors.Is(err, boom) {
		t.Fatalf("Wait() error = %v, want %v", err, boom)
	}
}

func TestManager_DetachedContext(t *testing.T) {
	// Arrange
	m := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ctxErr error

	// Act
	_ = m.Go(ctx, "detached", func(ctx context.Context) error {
		ctxErr = ctx.Err()
		return nil
	})
	_ = m.Wait()

	// Assert
	if ctxErr != nil {
		t.Fatalf("task ctx.Err() = %v, want nil", ctxErr)
	}
}

func TestManager_Full(t *testing.T) {
	// Arrange
	m := NewManager(1)
	release := make(chan struct{})
	started := make(chan struct{})
	_ = m.Go(context.Background(), "blocker", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	// Act
	err := m.Go(context.Background(), "second", func(context.Context) error { return nil })

	// Assert
	close(release)
	if !errors.Is(err, ErrFull) {
		t.Fatalf("Go() error = %v, want %v", err, ErrFull)
	}
	if err := m.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestManager_Closed(t *testing.T) {
	m := NewManager(1)
	_ = m.Wait()

	if err := m.Go(context.Background(), "late", func(context.Context) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Fatalf("Go() error = %v, want %v", err, ErrClosed)
	}
}

func TestManager_RecoversPanic(t *testing.T) {
	m := NewManager(1)

	_ = m.Go(context.Background(), "panicky", func(context.Context) error { panic("boom") })

	if err := m.Wait(); err == nil {
		t.Fatal("Wait() error = nil, want panic recorded")
	}
}
