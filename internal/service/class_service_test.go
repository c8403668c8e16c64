package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edulane/tutora-backend/internal/model"
)

// fakeClassStore is an in-memory ClassStore honoring the same conditional
// update semantics as the SQL repository.
type fakeClassStore struct {
	classes map[uuid.UUID]*model.Class
}

func newFakeClassStore(classes ...*model.Class) *fakeClassStore {
	s := &fakeClassStore{classes: make(map[uuid.UUID]*model.Class)}
	for _, c := range classes {
		s.classes[c.ID] = c
	}
	return s
}

func (s *fakeClassStore) Create(ctx context.Context, c *model.Class) error {
	c.ID = uuid.New()
	s.classes[c.ID] = c
	return nil
}

func (s *fakeClassStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	c, ok := s.classes[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	cp := *c
	return &cp, nil
}

func (s *fakeClassStore) Update(ctx context.Context, c *model.Class) error {
	if existing, ok := s.classes[c.ID]; ok && existing.Status == model.ClassStatusScheduled {
		cp := *c
		s.classes[c.ID] = &cp
	}
	return nil
}

func (s *fakeClassStore) Delete(ctx context.Context, id uuid.UUID) error {
	if c, ok := s.classes[id]; ok && c.Status == model.ClassStatusScheduled {
		delete(s.classes, id)
	}
	return nil
}

func (s *fakeClassStore) ListByTeacher(ctx context.Context, teacherID int) ([]model.Class, error) {
	var out []model.Class
	for _, c := range s.classes {
		if c.TeacherID == teacherID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeClassStore) ListByStudent(ctx context.Context, studentID int) ([]model.Class, error) {
	return nil, nil
}

func (s *fakeClassStore) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]model.Class, error) {
	return nil, nil
}

func (s *fakeClassStore) StartByTeacher(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	c, ok := s.classes[id]
	if !ok || c.Status != model.ClassStatusScheduled {
		return 0, nil
	}
	c.Status = model.ClassStatusLive
	c.LiveAt = &at
	c.TeacherJoined = true
	return 1, nil
}

func (s *fakeClassStore) MarkCompleted(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
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

func (s *fakeClassStore) MarkCancelled(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		if c, ok := s.classes[id]; ok && !c.Status.Terminal() {
			c.Status = model.ClassStatusCancelled
			n++
		}
	}
	return n, nil
}

func newTestClassService(store *fakeClassStore) *ClassService {
	return &ClassService{classRepo: store, log: zerolog.Nop()}
}

func scheduledTestClass(teacherID int) *model.Class {
	return &model.Class{
		ID:        uuid.New(),
		TeacherID: teacherID,
		Title:     "Algebra Basics",
		CivilDate: "2026-03-10",
		CivilTime: "15:00",
		Timezone:  "Asia/Karachi",
		Status:    model.ClassStatusScheduled,
	}
}

func TestStartClassMarksPresenceWithTransition(t *testing.T) {
	class := scheduledTestClass(7)
	store := newFakeClassStore(class)
	svc := newTestClassService(store)

	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	got, err := svc.StartClass(context.Background(), 7, class.ID, now)
	if err != nil {
		t.Fatalf("StartClass: %v", err)
	}

	if got.Status != model.ClassStatusLive {
		t.Errorf("status = %s, want %s", got.Status, model.ClassStatusLive)
	}
	// The presence flag must land with the transition itself: a live class
	// without it is later treated as a teacher no-show and cancelled.
	if !got.TeacherJoined {
		t.Error("teacher_joined = false after teacher-initiated start")
	}
	if got.LiveAt == nil || !got.LiveAt.Equal(now) {
		t.Errorf("live_at = %v, want %v", got.LiveAt, now)
	}
}

func TestStartClassStateGuards(t *testing.T) {
	tests := []struct {
		name      string
		status    model.ClassStatus
		teacherID int
		wantErr   error
	}{
		{name: "already live", status: model.ClassStatusLive, teacherID: 7, wantErr: ErrClassNotScheduled},
		{name: "completed", status: model.ClassStatusCompleted, teacherID: 7, wantErr: ErrClassNotScheduled},
		{name: "cancelled", status: model.ClassStatusCancelled, teacherID: 7, wantErr: ErrClassNotScheduled},
		{name: "not the owner", status: model.ClassStatusScheduled, teacherID: 99, wantErr: ErrNotClassOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := scheduledTestClass(7)
			class.Status = tt.status
			store := newFakeClassStore(class)
			svc := newTestClassService(store)

			_, err := svc.StartClass(context.Background(), tt.teacherID, class.ID, time.Now().UTC())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("StartClass error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEndClassRequiresLive(t *testing.T) {
	class := scheduledTestClass(7)
	store := newFakeClassStore(class)
	svc := newTestClassService(store)

	if _, err := svc.EndClass(context.Background(), 7, class.ID, time.Now().UTC()); !errors.Is(err, ErrClassNotLive) {
		t.Fatalf("EndClass error = %v, want %v", err, ErrClassNotLive)
	}
}

func TestEndClassCompletesLiveClass(t *testing.T) {
	class := scheduledTestClass(7)
	class.Status = model.ClassStatusLive
	class.TeacherJoined = true
	store := newFakeClassStore(class)
	svc := newTestClassService(store)

	now := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	got, err := svc.EndClass(context.Background(), 7, class.ID, now)
	if err != nil {
		t.Fatalf("EndClass: %v", err)
	}
	if got.Status != model.ClassStatusCompleted {
		t.Errorf("status = %s, want %s", got.Status, model.ClassStatusCompleted)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
		t.Errorf("completed_at = %v, want %v", got.CompletedAt, now)
	}
}
