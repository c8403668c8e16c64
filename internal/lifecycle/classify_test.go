package lifecycle

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/edulane/tutora-backend/internal/model"
	"github.com/edulane/tutora-backend/internal/schedule"
)

var testResolver = schedule.NewResolver("Asia/Karachi")

func scheduledClass(start time.Time) model.Class {
	return model.Class{
		ID:            uuid.New(),
		Status:        model.ClassStatusScheduled,
		StartsAt:      &start,
		DurationLabel: "60 min",
	}
}

func liveClass(start time.Time, teacherJoined bool) model.Class {
	return model.Class{
		ID:            uuid.New(),
		Status:        model.ClassStatusLive,
		StartsAt:      &start,
		DurationLabel: "60 min",
		TeacherJoined: teacherJoined,
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestClassifyTransitionsStateTable(t *testing.T) {
	now := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		class         model.Class
		wantLive      bool
		wantCompleted bool
		wantCancelled bool
	}{
		{
			name:  "scheduled before start stays put",
			class: scheduledClass(now.Add(30 * time.Minute)),
		},
		{
			name:     "scheduled past start goes live",
			class:    scheduledClass(now.Add(-10 * time.Minute)),
			wantLive: true,
		},
		{
			name:          "scheduled past end never started is cancelled",
			class:         scheduledClass(now.Add(-2 * time.Hour)),
			wantCancelled: true,
		},
		{
			name:  "live before end stays put",
			class: liveClass(now.Add(-30*time.Minute), true),
		},
		{
			name:          "live past end with teacher is completed",
			class:         liveClass(now.Add(-2*time.Hour), true),
			wantCompleted: true,
		},
		{
			name:          "live past end without teacher is cancelled",
			class:         liveClass(now.Add(-2*time.Hour), false),
			wantCancelled: true,
		},
		{
			name:  "completed is untouched",
			class: model.Class{ID: uuid.New(), Status: model.ClassStatusCompleted},
		},
		{
			name:  "cancelled is untouched",
			class: model.Class{ID: uuid.New(), Status: model.ClassStatusCancelled},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ClassifyTransitions([]model.Class{tt.class}, now, testResolver)

			if got := containsID(set.ToLive, tt.class.ID); got != tt.wantLive {
				t.Errorf("ToLive membership = %v, want %v", got, tt.wantLive)
			}
			if got := containsID(set.ToCompleted, tt.class.ID); got != tt.wantCompleted {
				t.Errorf("ToCompleted membership = %v, want %v", got, tt.wantCompleted)
			}
			if got := containsID(set.ToCancelled, tt.class.ID); got != tt.wantCancelled {
				t.Errorf("ToCancelled membership = %v, want %v", got, tt.wantCancelled)
			}
		})
	}
}

func TestClassifyTransitionsInclusiveBoundaries(t *testing.T) {
	now := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

	// A class starting exactly now transitions immediately.
	atStart := scheduledClass(now)
	set := ClassifyTransitions([]model.Class{atStart}, now, testResolver)
	if !containsID(set.ToLive, atStart.ID) {
		t.Error("class starting exactly at now should go live")
	}

	// A live class ending exactly now transitions immediately.
	atEnd := liveClass(now.Add(-60*time.Minute), true)
	set = ClassifyTransitions([]model.Class{atEnd}, now, testResolver)
	if !containsID(set.ToCompleted, atEnd.ID) {
		t.Error("class ending exactly at now should complete")
	}
}

func TestClassifyTransitionsDisjoint(t *testing.T) {
	now := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

	classes := []model.Class{
		scheduledClass(now.Add(-10 * time.Minute)),
		scheduledClass(now.Add(-3 * time.Hour)),
		liveClass(now.Add(-2*time.Hour), true),
		liveClass(now.Add(-2*time.Hour), false),
	}

	set := ClassifyTransitions(classes, now, testResolver)
	if set.Total() != 4 {
		t.Fatalf("Total() = %d, want 4", set.Total())
	}

	seen := make(map[uuid.UUID]int)
	for _, id := range set.ToLive {
		seen[id]++
	}
	for _, id := range set.ToCompleted {
		seen[id]++
	}
	for _, id := range set.ToCancelled {
		seen[id]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("class %s appears in %d lists, want at most 1", id, n)
		}
	}
}

func TestClassifyTransitionsBackfill(t *testing.T) {
	now := time.Date(2026, 2, 15, 6, 0, 0, 0, time.UTC)

	// Legacy record: no stored start instant, civil fields only.
	// 10:00 AM Karachi on 2026-02-15 is 05:00 UTC, so this class is live now.
	legacy := model.Class{
		ID:            uuid.New(),
		Status:        model.ClassStatusScheduled,
		CivilDate:     "2026-02-15",
		CivilTime:     "10:00 AM",
		Timezone:      "Asia/Karachi",
		DurationLabel: "90 min",
	}

	set := ClassifyTransitions([]model.Class{legacy}, now, testResolver)

	wantStart := time.Date(2026, 2, 15, 5, 0, 0, 0, time.UTC)
	got, ok := set.Backfill[legacy.ID]
	if !ok {
		t.Fatal("expected a backfill entry for the legacy record")
	}
	if !got.Equal(wantStart) {
		t.Errorf("backfill instant = %v, want %v", got, wantStart)
	}
	if !containsID(set.ToLive, legacy.ID) {
		t.Error("legacy class inside its window should go live")
	}
}

func TestClassifyTransitionsIdempotent(t *testing.T) {
	now := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

	start := now.Add(-10 * time.Minute)
	c := scheduledClass(start)

	first := ClassifyTransitions([]model.Class{c}, now, testResolver)
	if !containsID(first.ToLive, c.ID) {
		t.Fatal("first pass should move the class to live")
	}

	// Simulate the write having been applied, then re-run at the same
	// instant: the second pass must be a no-op.
	c.Status = model.ClassStatusLive
	c.LiveAt = &now

	second := ClassifyTransitions([]model.Class{c}, now, testResolver)
	if second.Total() != 0 {
		t.Errorf("second pass Total() = %d, want 0", second.Total())
	}
}

func TestClassifyTransitionsMonotonic(t *testing.T) {
	// Once a no-show window has closed, any later evaluation instant
	// reaches the same terminal verdict.
	start := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)
	c := liveClass(start, false)

	for _, after := range []time.Duration{61 * time.Minute, 2 * time.Hour, 48 * time.Hour} {
		set := ClassifyTransitions([]model.Class{c}, start.Add(after), testResolver)
		if !containsID(set.ToCancelled, c.ID) {
			t.Errorf("at start+%v the no-show class should cancel", after)
		}
	}
}

func TestClassifyTransitionsDurationFallback(t *testing.T) {
	now := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

	// An unparseable duration label falls back to 60 minutes, so at
	// start+59m the class is still inside its window.
	start := now.Add(-59 * time.Minute)
	c := model.Class{
		ID:            uuid.New(),
		Status:        model.ClassStatusLive,
		StartsAt:      &start,
		DurationLabel: "a while",
		TeacherJoined: true,
	}

	set := ClassifyTransitions([]model.Class{c}, now, testResolver)
	if set.Total() != 0 {
		t.Errorf("Total() = %d, want 0 before the fallback window closes", set.Total())
	}

	set = ClassifyTransitions([]model.Class{c}, now.Add(time.Minute), testResolver)
	if !containsID(set.ToCompleted, c.ID) {
		t.Error("class should complete once the fallback window closes")
	}
}
