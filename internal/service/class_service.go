package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edulane/tutora-backend/internal/config"
	"github.com/edulane/tutora-backend/internal/lifecycle"
	"github.com/edulane/tutora-backend/internal/model"
	"github.com/edulane/tutora-backend/internal/schedule"
)

// ClassStore is the persistence surface the service drives. Satisfied by
// *repository.ClassRepository; StartByTeacher commits the live transition
// and the teacher presence flag as one write.
type ClassStore interface {
	Create(ctx context.Context, c *model.Class) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error)
	Update(ctx context.Context, c *model.Class) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByTeacher(ctx context.Context, teacherID int) ([]model.Class, error)
	ListByStudent(ctx context.Context, studentID int) ([]model.Class, error)
	ListUpcoming(ctx context.Context, after time.Time, limit int) ([]model.Class, error)
	StartByTeacher(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
	MarkCompleted(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)
	MarkCancelled(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// Domain errors.
var (
	ErrNotClassOwner     = errors.New("not the owner of this class")
	ErrClassNotScheduled = errors.New("class is not in scheduled status")
	ErrClassNotLive      = errors.New("class is not in live status")
	ErrClassNotEditable  = errors.New("only scheduled classes can be edited")
)

const (
	upcomingListLimit = 100
	upcomingCacheTTL  = 30 * time.Second
)

// ClassService handles class scheduling and lifecycle business logic.
//
// Every read path runs the lifecycle engine's correction pass first, so
// statuses a caller sees are never staler than the moment of the request.
// The pass is idempotent and guarded at the store layer, so concurrent
// requests racing through here are harmless.
type ClassService struct {
	classRepo ClassStore
	resolver  *schedule.Resolver
	engine    *lifecycle.Engine
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(
	classRepo ClassStore,
	resolver *schedule.Resolver,
	engine *lifecycle.Engine,
	rdb *redis.Client,
	log zerolog.Logger,
) *ClassService {
	return &ClassService{
		classRepo: classRepo,
		resolver:  resolver,
		engine:    engine,
		rdb:       rdb,
		log:       log.With().Str("component", "class_service").Logger(),
	}
}

// Create schedules a new class. The canonical UTC start instant is derived
// from the civil fields before the insert, so the record is never visible
// without one. Resolution failures fall back to a UTC interpretation rather
// than rejecting the class.
func (s *ClassService) Create(ctx context.Context, class *model.Class) error {
	if class.Timezone == "" {
		class.Timezone = s.resolver.DefaultZone()
	}
	if class.DurationLabel == "" {
		class.DurationLabel = fmt.Sprintf("%d min", schedule.DefaultDurationMinutes)
	}
	if class.Capacity <= 0 {
		class.Capacity = 1
	}

	startsAt := s.resolver.ResolveStart(class.CivilDate, class.CivilTime, class.Timezone)
	class.StartsAt = &startsAt
	class.Status = model.ClassStatusScheduled
	class.MeetingRoom = uuid.New().String()

	if err := s.classRepo.Create(ctx, class); err != nil {
		return err
	}

	s.invalidateUpcomingCache(ctx)
	s.log.Info().
		Str("class_id", class.ID.String()).
		Time("starts_at", startsAt).
		Str("timezone", class.Timezone).
		Msg("Class scheduled")
	return nil
}

// Update reschedules or edits a scheduled class. Any change to the civil
// date, time or timezone recomputes starts_at before the record is saved —
// a class is never valid for lifecycle evaluation with a stale instant.
func (s *ClassService) Update(ctx context.Context, teacherID int, classID uuid.UUID, req *model.UpdateClassRequest) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.TeacherID != teacherID {
		return nil, ErrNotClassOwner
	}
	if class.Status != model.ClassStatusScheduled {
		return nil, ErrClassNotEditable
	}

	if req.Title != "" {
		class.Title = req.Title
	}
	if req.Subject != "" {
		class.Subject = req.Subject
	}
	if req.Description != "" {
		class.Description = req.Description
	}
	if req.Capacity > 0 {
		class.Capacity = req.Capacity
	}
	if req.DurationLabel != "" {
		class.DurationLabel = req.DurationLabel
	}

	rescheduled := false
	if req.CivilDate != "" && req.CivilDate != class.CivilDate {
		class.CivilDate = req.CivilDate
		rescheduled = true
	}
	if req.CivilTime != "" && req.CivilTime != class.CivilTime {
		class.CivilTime = req.CivilTime
		rescheduled = true
	}
	if req.Timezone != "" && req.Timezone != class.Timezone {
		class.Timezone = req.Timezone
		rescheduled = true
	}
	if rescheduled || class.StartsAt == nil {
		startsAt := s.resolver.ResolveStart(class.CivilDate, class.CivilTime, class.Timezone)
		class.StartsAt = &startsAt
	}

	if err := s.classRepo.Update(ctx, class); err != nil {
		return nil, err
	}

	s.invalidateUpcomingCache(ctx)
	return class, nil
}

// Delete removes a scheduled class the teacher owns.
func (s *ClassService) Delete(ctx context.Context, teacherID int, classID uuid.UUID) error {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return err
	}
	if class.TeacherID != teacherID {
		return ErrNotClassOwner
	}
	if class.Status != model.ClassStatusScheduled {
		return ErrClassNotEditable
	}
	if err := s.classRepo.Delete(ctx, classID); err != nil {
		return err
	}
	s.invalidateUpcomingCache(ctx)
	return nil
}

// GetByID retrieves a class.
func (s *ClassService) GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	return s.classRepo.GetByID(ctx, id)
}

// ListByTeacher lists a teacher's classes after an opportunistic correction
// pass. A failed pass only costs staleness, never the listing itself.
func (s *ClassService) ListByTeacher(ctx context.Context, teacherID int, now time.Time) ([]model.Class, error) {
	s.correct(ctx, now)
	return s.classRepo.ListByTeacher(ctx, teacherID)
}

// ListByStudent lists the classes a student is enrolled in, statuses
// corrected first.
func (s *ClassService) ListByStudent(ctx context.Context, studentID int, now time.Time) ([]model.Class, error) {
	s.correct(ctx, now)
	return s.classRepo.ListByStudent(ctx, studentID)
}

// ListUpcoming returns the public browse listing of scheduled classes,
// served from a short-lived Redis cache.
func (s *ClassService) ListUpcoming(ctx context.Context, now time.Time) ([]model.Class, error) {
	cacheKey := config.CacheKey.UpcomingClassesKey()

	if data, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var cached []model.Class
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Upcoming classes cache read failed")
	}

	s.correct(ctx, now)

	classes, err := s.classRepo.ListUpcoming(ctx, now, upcomingListLimit)
	if err != nil {
		return nil, err
	}
	if classes == nil {
		classes = []model.Class{}
	}

	if data, err := json.Marshal(classes); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, data, upcomingCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Upcoming classes cache write failed")
		}
	}

	return classes, nil
}

// StartClass is the teacher's explicit "start now" action. It respects the
// same state machine as the engine: only a scheduled class can go live, and
// starting it marks the teacher as present in the same write.
func (s *ClassService) StartClass(ctx context.Context, teacherID int, classID uuid.UUID, now time.Time) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.TeacherID != teacherID {
		return nil, ErrNotClassOwner
	}

	moved, err := s.classRepo.StartByTeacher(ctx, classID, now)
	if err != nil {
		return nil, err
	}
	if moved == 0 {
		return nil, ErrClassNotScheduled
	}

	s.log.Info().Str("class_id", classID.String()).Msg("Class started by teacher")
	return s.classRepo.GetByID(ctx, classID)
}

// EndClass is the teacher's explicit "end now" action: live → completed.
func (s *ClassService) EndClass(ctx context.Context, teacherID int, classID uuid.UUID, now time.Time) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.TeacherID != teacherID {
		return nil, ErrNotClassOwner
	}

	moved, err := s.classRepo.MarkCompleted(ctx, []uuid.UUID{classID}, now)
	if err != nil {
		return nil, err
	}
	if moved == 0 {
		return nil, ErrClassNotLive
	}

	s.log.Info().Str("class_id", classID.String()).Msg("Class ended by teacher")
	return s.classRepo.GetByID(ctx, classID)
}

// CancelClass cancels a scheduled class ahead of time.
func (s *ClassService) CancelClass(ctx context.Context, teacherID int, classID uuid.UUID) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.TeacherID != teacherID {
		return nil, ErrNotClassOwner
	}
	if class.Status != model.ClassStatusScheduled {
		return nil, ErrClassNotScheduled
	}

	if _, err := s.classRepo.MarkCancelled(ctx, []uuid.UUID{classID}); err != nil {
		return nil, err
	}
	s.invalidateUpcomingCache(ctx)
	return s.classRepo.GetByID(ctx, classID)
}

// correct runs the engine pass best-effort ahead of a read.
func (s *ClassService) correct(ctx context.Context, now time.Time) {
	if _, err := s.engine.CorrectStatuses(ctx, now); err != nil {
		s.log.Warn().Err(err).Msg("Opportunistic status correction failed")
	}
}

func (s *ClassService) invalidateUpcomingCache(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.UpcomingClassesKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Upcoming classes cache invalidation failed")
	}
}
