package lifecycle

import (
	"time"

	"github.com/google/uuid"

	"github.com/edulane/tutora-backend/internal/model"
	"github.com/edulane/tutora-backend/internal/schedule"
)

// TransitionSet holds the disjoint id-lists produced by one classification
// pass. A class appears in at most one list; classes already matching the
// state the clock calls for appear in none, which is what makes repeated
// passes over the same data no-ops.
type TransitionSet struct {
	ToLive      []uuid.UUID
	ToCompleted []uuid.UUID
	ToCancelled []uuid.UUID

	// Backfill maps classes whose stored start instant was absent to the
	// instant recomputed from their civil fields, so the store can be
	// repaired and later passes skip the fallback path.
	Backfill map[uuid.UUID]time.Time
}

// Total returns the number of classes due for any transition.
func (s TransitionSet) Total() int {
	return len(s.ToLive) + len(s.ToCompleted) + len(s.ToCancelled)
}

// ClassifyTransitions evaluates every class against the lifecycle state
// table at the explicit instant now:
//
//	scheduled, start ≤ now < end  → live
//	scheduled, now ≥ end          → cancelled  (nobody ever started it)
//	live, now ≥ end, joined       → completed
//	live, now ≥ end, not joined   → cancelled  (no-show folds into cancelled)
//
// Both boundaries are inclusive on entry: a class transitions at exactly its
// start or end instant, never lingers on it. Terminal classes are untouched.
//
// The function is pure — it never touches the store — so every branch above
// is unit-testable without persistence.
func ClassifyTransitions(classes []model.Class, now time.Time, res *schedule.Resolver) TransitionSet {
	set := TransitionSet{Backfill: make(map[uuid.UUID]time.Time)}

	for i := range classes {
		c := &classes[i]
		if c.Status.Terminal() {
			continue
		}

		start := c.StartsAt
		if start == nil {
			resolved := res.ResolveStart(c.CivilDate, c.CivilTime, c.Timezone)
			start = &resolved
			set.Backfill[c.ID] = resolved
		}
		end := start.Add(time.Duration(schedule.ParseDurationLabel(c.DurationLabel)) * time.Minute)

		switch c.Status {
		case model.ClassStatusScheduled:
			if !now.Before(end) {
				set.ToCancelled = append(set.ToCancelled, c.ID)
			} else if !now.Before(*start) {
				set.ToLive = append(set.ToLive, c.ID)
			}
		case model.ClassStatusLive:
			if !now.Before(end) {
				if c.TeacherJoined {
					set.ToCompleted = append(set.ToCompleted, c.ID)
				} else {
					set.ToCancelled = append(set.ToCancelled, c.ID)
				}
			}
		}
	}

	return set
}
