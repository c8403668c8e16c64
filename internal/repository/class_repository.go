package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edulane/tutora-backend/internal/model"
)

const classColumns = `id, teacher_id, title, subject, description, civil_date, civil_time,
	        timezone, starts_at, duration_label, capacity, meeting_room, status,
	        teacher_joined, live_at, completed_at, created_at, updated_at`

// ClassRepository handles class data access. Its Mark methods implement the
// lifecycle engine's ClassStore contract: conditional bulk updates that only
// move rows still in the expected source status.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func scanClass(row interface{ Scan(...any) error }, c *model.Class) error {
	return row.Scan(&c.ID, &c.TeacherID, &c.Title, &c.Subject, &c.Description,
		&c.CivilDate, &c.CivilTime, &c.Timezone, &c.StartsAt, &c.DurationLabel,
		&c.Capacity, &c.MeetingRoom, &c.Status, &c.TeacherJoined,
		&c.LiveAt, &c.CompletedAt, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a new class in scheduled status.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classes (teacher_id, title, subject, description, civil_date, civil_time,
		                      timezone, starts_at, duration_label, capacity, meeting_room, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		c.TeacherID, c.Title, c.Subject, c.Description, c.CivilDate, c.CivilTime,
		c.Timezone, c.StartsAt, c.DurationLabel, c.Capacity, c.MeetingRoom, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a class by its UUID.
func (r *ClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	c := &model.Class{}
	row := r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1`, id)
	if err := scanClass(row, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update rewrites the editable fields of a class, including a freshly
// recomputed starts_at. The status guard keeps edits off live or terminal
// records even when two requests race.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE classes
		 SET title = $1, subject = $2, description = $3, civil_date = $4, civil_time = $5,
		     timezone = $6, starts_at = $7, duration_label = $8, capacity = $9,
		     updated_at = NOW()
		 WHERE id = $10 AND status = $11`,
		c.Title, c.Subject, c.Description, c.CivilDate, c.CivilTime,
		c.Timezone, c.StartsAt, c.DurationLabel, c.Capacity,
		c.ID, model.ClassStatusScheduled)
	return err
}

// Delete removes a scheduled class.
func (r *ClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM classes WHERE id = $1 AND status = $2`,
		id, model.ClassStatusScheduled)
	return err
}

// ListByTeacher retrieves all classes owned by a teacher, newest first.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes
		 WHERE teacher_id = $1
		 ORDER BY starts_at DESC NULLS LAST`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := scanClass(rows, &c); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// ListUpcoming retrieves scheduled classes that start after the given
// instant, soonest first. Used by the public browse listing.
func (r *ClassRepository) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes
		 WHERE status = $1 AND starts_at > $2
		 ORDER BY starts_at ASC
		 LIMIT $3`, model.ClassStatusScheduled, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := scanClass(rows, &c); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// ListByStudent retrieves every class a student is enrolled in.
func (r *ClassRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.teacher_id, c.title, c.subject, c.description, c.civil_date, c.civil_time,
		        c.timezone, c.starts_at, c.duration_label, c.capacity, c.meeting_room, c.status,
		        c.teacher_joined, c.live_at, c.completed_at, c.created_at, c.updated_at
		 FROM classes c
		 JOIN enrollments e ON e.class_id = c.id
		 WHERE e.student_id = $1
		 ORDER BY c.starts_at DESC NULLS LAST`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := scanClass(rows, &c); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// ─── Lifecycle engine store contract ────────────────────────────────

// ListLifecycleCandidates returns every class still in a non-terminal
// status, projected to the fields the engine evaluates.
func (r *ClassRepository) ListLifecycleCandidates(ctx context.Context) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, civil_date, civil_time, timezone, starts_at, duration_label,
		        status, teacher_joined
		 FROM classes
		 WHERE status = ANY($1)`,
		[]model.ClassStatus{model.ClassStatusScheduled, model.ClassStatusLive})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.CivilDate, &c.CivilTime, &c.Timezone,
			&c.StartsAt, &c.DurationLabel, &c.Status, &c.TeacherJoined); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// MarkLive moves the given classes from scheduled to live, stamping live_at.
// Rows already past scheduled are left alone; the returned count reflects
// rows actually moved.
func (r *ClassRepository) MarkLive(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes
		 SET status = $1, live_at = $2, updated_at = NOW()
		 WHERE id = ANY($3) AND status = $4`,
		model.ClassStatusLive, at, ids, model.ClassStatusScheduled)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// MarkCompleted moves the given classes from live to completed, stamping
// completed_at.
func (r *ClassRepository) MarkCompleted(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes
		 SET status = $1, completed_at = $2, updated_at = NOW()
		 WHERE id = ANY($3) AND status = $4`,
		model.ClassStatusCompleted, at, ids, model.ClassStatusLive)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// MarkCancelled moves the given classes to cancelled from either non-terminal
// status. No timestamps are stamped: a cancelled class was never taught.
func (r *ClassRepository) MarkCancelled(ctx context.Context, ids []uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes
		 SET status = $1, updated_at = NOW()
		 WHERE id = ANY($2) AND status = ANY($3)`,
		model.ClassStatusCancelled, ids,
		[]model.ClassStatus{model.ClassStatusScheduled, model.ClassStatusLive})
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// StartByTeacher moves one class from scheduled to live and records teacher
// presence in the same statement. A teacher-initiated start must never land
// in live with teacher_joined still false: the engine would read that as a
// no-show and cancel the class.
func (r *ClassRepository) StartByTeacher(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes
		 SET status = $1, live_at = $2, teacher_joined = TRUE, updated_at = NOW()
		 WHERE id = $3 AND status = $4`,
		model.ClassStatusLive, at, id, model.ClassStatusScheduled)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SetStartsAt backfills the canonical start instant on a legacy record.
func (r *ClassRepository) SetStartsAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE classes SET starts_at = $1, updated_at = NOW() WHERE id = $2`,
		at, id)
	return err
}

// SetTeacherJoined marks the teacher as having entered the meeting room.
// The flag is never reset for the life of the record, so the update is
// unconditional on the flag itself and guarded only on non-terminal status.
func (r *ClassRepository) SetTeacherJoined(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE classes
		 SET teacher_joined = TRUE, updated_at = NOW()
		 WHERE id = $1 AND status = ANY($2)`,
		id, []model.ClassStatus{model.ClassStatusScheduled, model.ClassStatusLive})
	return err
}
