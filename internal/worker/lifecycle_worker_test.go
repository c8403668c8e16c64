package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edulane/tutora-backend/internal/lifecycle"
	"github.com/edulane/tutora-backend/internal/model"
	"github.com/edulane/tutora-backend/internal/schedule"
)

// countingStore satisfies lifecycle.ClassStore with no classes; each
// correction pass shows up as one ListLifecycleCandidates call.
type countingStore struct {
	passes atomic.Int32
	delay  time.Duration
}

func (s *countingStore) ListLifecycleCandidates(ctx context.Context) ([]model.Class, error) {
	s.passes.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return nil, nil
}

func (s *countingStore) MarkLive(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	return 0, nil
}

func (s *countingStore) MarkCompleted(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	return 0, nil
}

func (s *countingStore) MarkCancelled(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *countingStore) SetStartsAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func newTestWorker(store *countingStore, spec string) *LifecycleWorker {
	engine := lifecycle.NewEngine(store, schedule.NewResolver("Asia/Karachi"), zerolog.Nop())
	return NewLifecycleWorker(engine, spec, zerolog.Nop())
}

func TestStartRunsCatchUpPassAndStopsOnCancel(t *testing.T) {
	store := &countingStore{}
	w := newTestWorker(store, "@every 1h")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Give the catch-up pass a moment to run, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}

	if got := store.passes.Load(); got < 1 {
		t.Errorf("correction passes = %d, want at least 1", got)
	}
}

func TestStartWaitsForInFlightPass(t *testing.T) {
	// A slow pass at boot: cancellation arrives while it is still running,
	// and Start must not return before the pass completes.
	store := &countingStore{delay: 200 * time.Millisecond}
	w := newTestWorker(store, "@every 1h")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}

	if got := store.passes.Load(); got != 1 {
		t.Errorf("correction passes = %d, want 1", got)
	}
}

func TestStartRejectsInvalidCronSpec(t *testing.T) {
	store := &countingStore{}
	w := newTestWorker(store, "not a cron spec")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err == nil {
		t.Fatal("Start accepted an invalid cron spec")
	}
}
