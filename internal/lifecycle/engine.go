package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edulane/tutora-backend/internal/model"
	"github.com/edulane/tutora-backend/internal/schedule"
)

// ClassStore is the persistence surface the engine needs. Every Mark method
// must be a conditional update — it may only move rows that are still in the
// expected source state — and must report how many rows actually moved.
// That guard is what makes concurrent correction passes safe without locks:
// a duplicate invocation either finds the class already transitioned (zero
// rows) or harmlessly repeats the identical write.
type ClassStore interface {
	ListLifecycleCandidates(ctx context.Context) ([]model.Class, error)
	MarkLive(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)
	MarkCompleted(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)
	MarkCancelled(ctx context.Context, ids []uuid.UUID) (int64, error)
	SetStartsAt(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Engine re-derives class statuses from wall-clock time and observed teacher
// presence. It is stateless: CorrectStatuses may be invoked from any number
// of request paths and timers concurrently over the same data.
type Engine struct {
	store ClassStore
	res   *schedule.Resolver
	log   zerolog.Logger
}

// NewEngine creates a lifecycle Engine.
func NewEngine(store ClassStore, res *schedule.Resolver, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		res:   res,
		log:   log.With().Str("component", "lifecycle_engine").Logger(),
	}
}

// CorrectStatuses runs one correction pass at the explicit instant now and
// returns the number of classes transitioned.
//
// The pass is one store read plus at most three bulk writes, regardless of
// class count. A read failure aborts with zero transitions (the caller
// retries on the next pass). A failure of one bulk write never blocks the
// other two: partial progress is strictly better than none, and the failed
// subset is picked up again next pass.
func (e *Engine) CorrectStatuses(ctx context.Context, now time.Time) (int, error) {
	classes, err := e.store.ListLifecycleCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list lifecycle candidates: %w", err)
	}

	set := ClassifyTransitions(classes, now, e.res)
	if set.Total() == 0 && len(set.Backfill) == 0 {
		return 0, nil
	}

	// Repair records that predate the canonical-instant column so later
	// passes compare instants instead of redoing timezone math. Best
	// effort: a failed backfill only costs a recompute next pass.
	for id, at := range set.Backfill {
		if err := e.store.SetStartsAt(ctx, id, at); err != nil {
			e.log.Warn().Err(err).Str("class_id", id.String()).Msg("Start instant backfill failed")
		}
	}

	var transitioned int64

	if len(set.ToLive) > 0 {
		n, err := e.store.MarkLive(ctx, set.ToLive, now)
		if err != nil {
			e.log.Error().Err(err).Int("classes", len(set.ToLive)).Msg("Bulk live transition failed")
		} else {
			transitioned += n
		}
	}

	if len(set.ToCompleted) > 0 {
		n, err := e.store.MarkCompleted(ctx, set.ToCompleted, now)
		if err != nil {
			e.log.Error().Err(err).Int("classes", len(set.ToCompleted)).Msg("Bulk completed transition failed")
		} else {
			transitioned += n
		}
	}

	if len(set.ToCancelled) > 0 {
		n, err := e.store.MarkCancelled(ctx, set.ToCancelled)
		if err != nil {
			e.log.Error().Err(err).Int("classes", len(set.ToCancelled)).Msg("Bulk cancelled transition failed")
		} else {
			transitioned += n
		}
	}

	if transitioned > 0 {
		e.log.Info().
			Int("to_live", len(set.ToLive)).
			Int("to_completed", len(set.ToCompleted)).
			Int("to_cancelled", len(set.ToCancelled)).
			Int64("transitioned", transitioned).
			Time("now", now).
			Msg("Class statuses corrected")
	}

	return int(transitioned), nil
}
