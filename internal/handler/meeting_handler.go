package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edulane/tutora-backend/internal/middleware"
	"github.com/edulane/tutora-backend/internal/response"
	"github.com/edulane/tutora-backend/internal/service"
	"github.com/edulane/tutora-backend/internal/validator"
)

// MeetingHandler handles the video-meeting hand-off: join tokens and the
// provider's presence webhook.
type MeetingHandler struct {
	meetingService *service.MeetingService
	userService    *service.UserService
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(meetingService *service.MeetingService, userService *service.UserService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService, userService: userService}
}

// JoinToken godoc
// POST /api/v1/classes/:id/meeting-token
// Issues a short-lived signed token admitting the caller to the class's
// meeting room.
func (h *MeetingHandler) JoinToken(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	token, err := h.meetingService.IssueJoinToken(c.Request.Context(), user, id)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrMeetingNotOpen):
			response.Fail(c, http.StatusConflict, response.ErrMeetingClosed)
		case errors.Is(err, service.ErrNotClassOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotClassOwner)
		case errors.Is(err, service.ErrNotEnrolled):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(h.meetingTokenTTL().Seconds()),
	})
}

// ProviderEventRequest is the payload posted by the video-conferencing
// provider when a participant enters or leaves a room.
type ProviderEventRequest struct {
	Event string `json:"event" binding:"required,oneof=participant-joined participant-left"`
	Token string `json:"token" binding:"required"`
}

// ProviderEvent godoc
// POST /api/v1/meetings/events
// Presence webhook. A teacher's join is the signal that flips the class's
// teacher_joined flag; everything else is roster fan-out.
func (h *MeetingHandler) ProviderEvent(c *gin.Context) {
	var req ProviderEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims, err := h.meetingService.ValidateJoinToken(req.Token)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	switch req.Event {
	case "participant-joined":
		if err := h.meetingService.RecordJoin(c.Request.Context(), claims); err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
	case "participant-left":
		h.meetingService.RecordLeave(c.Request.Context(), claims)
	}

	response.Success(c, http.StatusOK, gin.H{"message": "event recorded"})
}

func (h *MeetingHandler) meetingTokenTTL() time.Duration {
	return h.meetingService.TokenTTL()
}
