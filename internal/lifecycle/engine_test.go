package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edulane/tutora-backend/internal/model"
	"github.com/edulane/tutora-backend/internal/schedule"
)

// fakeStore is an in-memory ClassStore honoring the conditional-update
// contract: Mark methods only move rows still in the expected source status.
type fakeStore struct {
	classes map[uuid.UUID]*model.Class

	listErr      error
	liveErr      error
	completedErr error
	cancelledErr error
}

func newFakeStore(classes ...model.Class) *fakeStore {
	s := &fakeStore{classes: make(map[uuid.UUID]*model.Class)}
	for i := range classes {
		c := classes[i]
		s.classes[c.ID] = &c
	}
	return s
}

func (s *fakeStore) ListLifecycleCandidates(ctx context.Context) ([]model.Class, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.Class, 0, len(s.classes))
	for _, c := range s.classes {
		if !c.Status.Terminal() {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkLive(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	if s.liveErr != nil {
		return 0, s.liveErr
	}
	var n int64
	for _, id := range ids {
		if c, ok := s.classes[id]; ok && c.Status == model.ClassStatusScheduled {
			c.Status = model.ClassStatusLive
			c.LiveAt = &at
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) MarkCompleted(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	if s.completedErr != nil {
		return 0, s.completedErr
	}
	var n int64
	for _, id := range ids {
		if c, ok := s.classes[id]; ok && c.Status == model.ClassStatusLive {
			c.Status = model.ClassStatusCompleted
			c.CompletedAt = &at
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) MarkCancelled(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if s.cancelledErr != nil {
		return 0, s.cancelledErr
	}
	var n int64
	for _, id := range ids {
		if c, ok := s.classes[id]; ok && !c.Status.Terminal() {
			c.Status = model.ClassStatusCancelled
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) SetStartsAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	if c, ok := s.classes[id]; ok {
		c.StartsAt = &at
	}
	return nil
}

func (s *fakeStore) status(id uuid.UUID) model.ClassStatus {
	return s.classes[id].Status
}

func newTestEngine(store ClassStore) *Engine {
	return NewEngine(store, schedule.NewResolver("Asia/Karachi"), zerolog.Nop())
}

func TestCorrectStatuses(t *testing.T) {
	now := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

	due := scheduledClass(now.Add(-5 * time.Minute))
	notDue := scheduledClass(now.Add(time.Hour))
	taught := liveClass(now.Add(-2*time.Hour), true)
	noShow := liveClass(now.Add(-2*time.Hour), false)
	stale := scheduledClass(now.Add(-3 * time.Hour))

	store := newFakeStore(due, notDue, taught, noShow, stale)
	engine := newTestEngine(store)

	n, err := engine.CorrectStatuses(context.Background(), now)
	if err != nil {
		t.Fatalf("CorrectStatuses error: %v", err)
	}
	if n != 4 {
		t.Errorf("transitioned = %d, want 4", n)
	}

	checks := []struct {
		id   uuid.UUID
		want model.ClassStatus
	}{
		{due.ID, model.ClassStatusLive},
		{notDue.ID, model.ClassStatusScheduled},
		{taught.ID, model.ClassStatusCompleted},
		{noShow.ID, model.ClassStatusCancelled},
		{stale.ID, model.ClassStatusCancelled},
	}
	for _, c := range checks {
		if got := store.status(c.id); got != c.want {
			t.Errorf("class %s status = %s, want %s", c.id, got, c.want)
		}
	}

	// Timestamps are stamped with the pass's evaluation instant.
	if at := store.classes[due.ID].LiveAt; at == nil || !at.Equal(now) {
		t.Errorf("LiveAt = %v, want %v", at, now)
	}
	if at := store.classes[taught.ID].CompletedAt; at == nil || !at.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", at, now)
	}
}

func TestCorrectStatusesIdempotent(t *testing.T) {
	now := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

	store := newFakeStore(
		scheduledClass(now.Add(-5*time.Minute)),
		liveClass(now.Add(-2*time.Hour), true),
	)
	engine := newTestEngine(store)

	n, err := engine.CorrectStatuses(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("first pass transitioned = %d, want 2", n)
	}

	n, err = engine.CorrectStatuses(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("second pass transitioned = %d, want 0", n)
	}
}

func TestCorrectStatusesReadFailure(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection refused")
	engine := newTestEngine(store)

	n, err := engine.CorrectStatuses(context.Background(), time.Now().UTC())
	if err == nil {
		t.Fatal("expected error from failed read")
	}
	if n != 0 {
		t.Errorf("transitioned = %d, want 0 on read failure", n)
	}
}

func TestCorrectStatusesPartialWriteFailure(t *testing.T) {
	now := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

	due := scheduledClass(now.Add(-5 * time.Minute))
	taught := liveClass(now.Add(-2*time.Hour), true)
	noShow := liveClass(now.Add(-2*time.Hour), false)

	store := newFakeStore(due, taught, noShow)
	store.liveErr = errors.New("deadlock detected")
	engine := newTestEngine(store)

	// The failed live batch must not block the other two.
	n, err := engine.CorrectStatuses(context.Background(), now)
	if err != nil {
		t.Fatalf("CorrectStatuses error: %v", err)
	}
	if n != 2 {
		t.Errorf("transitioned = %d, want 2", n)
	}
	if got := store.status(due.ID); got != model.ClassStatusScheduled {
		t.Errorf("due class status = %s, want scheduled after failed batch", got)
	}

	// Next pass picks up the failed subset.
	store.liveErr = nil
	n, err = engine.CorrectStatuses(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("retry pass transitioned = %d, want 1", n)
	}
	if got := store.status(due.ID); got != model.ClassStatusLive {
		t.Errorf("due class status = %s, want live after retry", got)
	}
}

func TestCorrectStatusesBackfillsStartInstant(t *testing.T) {
	now := time.Date(2026, 2, 15, 6, 0, 0, 0, time.UTC)

	legacy := model.Class{
		ID:            uuid.New(),
		Status:        model.ClassStatusScheduled,
		CivilDate:     "2026-02-15",
		CivilTime:     "10:00 AM",
		Timezone:      "Asia/Karachi",
		DurationLabel: "90 min",
	}

	store := newFakeStore(legacy)
	engine := newTestEngine(store)

	n, err := engine.CorrectStatuses(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("transitioned = %d, want 1", n)
	}

	want := time.Date(2026, 2, 15, 5, 0, 0, 0, time.UTC)
	if at := store.classes[legacy.ID].StartsAt; at == nil || !at.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", at, want)
	}
	if got := store.status(legacy.ID); got != model.ClassStatusLive {
		t.Errorf("status = %s, want live", got)
	}
}
