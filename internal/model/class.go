package model

import (
	"time"

	"github.com/google/uuid"
)

// ClassStatus enumerates the lifecycle states of a class.
// Transitions only ever move forward: scheduled → live → completed,
// with cancelled reachable from scheduled (window elapsed before anyone
// started it) or live (window elapsed without the teacher ever joining).
type ClassStatus string

const (
	ClassStatusScheduled ClassStatus = "scheduled"
	ClassStatusLive      ClassStatus = "live"
	ClassStatusCompleted ClassStatus = "completed"
	ClassStatusCancelled ClassStatus = "cancelled"
)

// Terminal reports whether no further transition is defined for s.
func (s ClassStatus) Terminal() bool {
	return s == ClassStatusCompleted || s == ClassStatusCancelled
}

// Class represents a bookable tutoring class.
//
// CivilDate, CivilTime and Timezone are the teacher-entered wall-clock
// fields; StartsAt is the canonical UTC instant derived from them. StartsAt
// is recomputed whenever any of the civil fields change and is nil only on
// records created before the column existed — the lifecycle engine falls
// back to resolving the civil fields for those.
type Class struct {
	ID            uuid.UUID   `json:"id"`
	TeacherID     int         `json:"teacher_id"`
	Title         string      `json:"title"`
	Subject       string      `json:"subject"`
	Description   string      `json:"description,omitempty"`
	CivilDate     string      `json:"civil_date"`
	CivilTime     string      `json:"civil_time"`
	Timezone      string      `json:"timezone"`
	StartsAt      *time.Time  `json:"starts_at,omitempty"`
	DurationLabel string      `json:"duration_label"`
	Capacity      int         `json:"capacity"`
	MeetingRoom   string      `json:"meeting_room,omitempty"`
	Status        ClassStatus `json:"status"`
	TeacherJoined bool        `json:"teacher_joined"`
	LiveAt        *time.Time  `json:"live_at,omitempty"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// CreateClassRequest is the payload for scheduling a new class.
// civil_time accepts both "HH:MM" and "H:MM AM/PM".
type CreateClassRequest struct {
	Title         string `json:"title" binding:"required,min=3,max=255"`
	Subject       string `json:"subject" binding:"required,min=2,max=100"`
	Description   string `json:"description" binding:"omitempty,max=2000"`
	CivilDate     string `json:"civil_date" binding:"required,datetime=2006-01-02"`
	CivilTime     string `json:"civil_time" binding:"required,civil_time"`
	Timezone      string `json:"timezone" binding:"omitempty,iana_tz"`
	DurationLabel string `json:"duration_label" binding:"omitempty,oneof='30 min' '60 min' '90 min' '120 min'"`
	Capacity      int    `json:"capacity" binding:"omitempty,min=1,max=50"`
}

// UpdateClassRequest is the payload for rescheduling or editing a class.
// Only scheduled classes may be edited; changing any civil field forces a
// recompute of the canonical start instant before the record is saved.
type UpdateClassRequest struct {
	Title         string `json:"title" binding:"omitempty,min=3,max=255"`
	Subject       string `json:"subject" binding:"omitempty,min=2,max=100"`
	Description   string `json:"description" binding:"omitempty,max=2000"`
	CivilDate     string `json:"civil_date" binding:"omitempty,datetime=2006-01-02"`
	CivilTime     string `json:"civil_time" binding:"omitempty,civil_time"`
	Timezone      string `json:"timezone" binding:"omitempty,iana_tz"`
	DurationLabel string `json:"duration_label" binding:"omitempty,oneof='30 min' '60 min' '90 min' '120 min'"`
	Capacity      int    `json:"capacity" binding:"omitempty,min=1,max=50"`
}
