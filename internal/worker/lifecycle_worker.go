package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/edulane/tutora-backend/internal/lifecycle"
)

// LifecycleWorker periodically runs the class status correction pass so
// records converge to their true state even when nobody is looking at them.
type LifecycleWorker struct {
	engine   *lifecycle.Engine
	cronSpec string
	log      zerolog.Logger

	cron *cron.Cron
}

// NewLifecycleWorker creates a worker driving the engine on the given cron
// spec (supports the @every form, e.g. "@every 1m").
func NewLifecycleWorker(engine *lifecycle.Engine, cronSpec string, log zerolog.Logger) *LifecycleWorker {
	return &LifecycleWorker{
		engine:   engine,
		cronSpec: cronSpec,
		log:      log.With().Str("component", "lifecycle_worker").Logger(),
	}
}

// Start runs one immediate correction pass, then schedules recurring passes.
// It blocks until ctx is cancelled.
func (w *LifecycleWorker) Start(ctx context.Context) error {
	w.log.Info().Str("spec", w.cronSpec).Msg("LifecycleWorker started")

	// Catch-up pass at boot: anything that drifted while the process was
	// down gets corrected before traffic arrives.
	w.run(ctx)

	w.cron = cron.New()
	if _, err := w.cron.AddFunc(w.cronSpec, func() {
		w.run(ctx)
	}); err != nil {
		return err
	}
	w.cron.Start()

	<-ctx.Done()

	stopCtx := w.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		w.log.Warn().Msg("Timed out waiting for correction pass to finish")
	}

	w.log.Info().Msg("LifecycleWorker stopped")
	return nil
}

func (w *LifecycleWorker) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	corrected, err := w.engine.CorrectStatuses(ctx, time.Now().UTC())
	if err != nil {
		w.log.Error().Err(err).Msg("Correction pass failed")
		return
	}
	if corrected > 0 {
		w.log.Info().Int("corrected", corrected).Msg("Correction pass applied transitions")
	}
}
