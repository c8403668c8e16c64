package model

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment links a student to a class they booked a seat in.
type Enrollment struct {
	ID        int       `json:"id"`
	ClassID   uuid.UUID `json:"class_id"`
	StudentID int       `json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
}
