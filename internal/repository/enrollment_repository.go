package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edulane/tutora-backend/internal/model"
)

// EnrollmentRepository handles class enrollment data access.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Create books a seat. The unique constraint on (class_id, student_id)
// rejects double enrollment with a 23505, surfaced to the handler.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO enrollments (class_id, student_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		e.ClassID, e.StudentID,
	).Scan(&e.ID, &e.CreatedAt)
}

// Delete drops a student's seat in a class.
func (r *EnrollmentRepository) Delete(ctx context.Context, classID uuid.UUID, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM enrollments WHERE class_id = $1 AND student_id = $2`,
		classID, studentID)
	return err
}

// CountByClass returns the number of seats taken in a class.
func (r *EnrollmentRepository) CountByClass(ctx context.Context, classID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE class_id = $1`, classID,
	).Scan(&n)
	return n, err
}

// Exists reports whether the student holds a seat in the class.
func (r *EnrollmentRepository) Exists(ctx context.Context, classID uuid.UUID, studentID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE class_id = $1 AND student_id = $2)`,
		classID, studentID,
	).Scan(&exists)
	return exists, err
}
