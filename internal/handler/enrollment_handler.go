package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edulane/tutora-backend/internal/middleware"
	"github.com/edulane/tutora-backend/internal/model"
	"github.com/edulane/tutora-backend/internal/response"
	"github.com/edulane/tutora-backend/internal/service"
)

// EnrollmentHandler handles the student portal: enrolling, withdrawing and
// listing booked classes.
type EnrollmentHandler struct {
	enrollService *service.EnrollmentService
	classService  *service.ClassService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollService *service.EnrollmentService, classService *service.ClassService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollService: enrollService, classService: classService}
}

// Enroll godoc
// POST /api/v1/student/classes/:id/enroll
// Books a seat in a scheduled class.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	enrollment, err := h.enrollService.Enroll(c.Request.Context(), claims.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrClassNotBookable):
			response.Fail(c, http.StatusConflict, response.ErrClassNotBookable)
		case errors.Is(err, service.ErrClassFull):
			response.Fail(c, http.StatusConflict, response.ErrClassFull)
		case errors.Is(err, service.ErrAlreadyEnrolled):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyEnrolled)
		default:
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				response.Fail(c, http.StatusConflict, response.ErrAlreadyEnrolled)
				return
			}
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// Withdraw godoc
// DELETE /api/v1/student/classes/:id/enroll
// Releases a seat in a class that has not started.
func (h *EnrollmentHandler) Withdraw(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.enrollService.Withdraw(c.Request.Context(), claims.UserID, id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrClassNotBookable):
			response.Fail(c, http.StatusConflict, response.ErrClassNotBookable)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "enrollment withdrawn"})
}

// MyClasses godoc
// GET /api/v1/student/classes
// Lists the classes the student is enrolled in, lifecycle-corrected.
func (h *EnrollmentHandler) MyClasses(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classes, err := h.classService.ListByStudent(c.Request.Context(), claims.UserID, time.Now().UTC())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if classes == nil {
		classes = []model.Class{}
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}
