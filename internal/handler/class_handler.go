package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edulane/tutora-backend/internal/middleware"
	"github.com/edulane/tutora-backend/internal/model"
	"github.com/edulane/tutora-backend/internal/response"
	"github.com/edulane/tutora-backend/internal/service"
	"github.com/edulane/tutora-backend/internal/validator"
)

// ClassHandler handles teacher-facing class scheduling and the public
// browse listing.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ListMine godoc
// GET /api/v1/teacher/classes
// Lists the caller's classes, lifecycle-corrected as of now.
func (h *ClassHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classes, err := h.classService.ListByTeacher(c.Request.Context(), claims.UserID, time.Now().UTC())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if classes == nil {
		classes = []model.Class{}
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// ListUpcoming godoc
// GET /api/v1/classes/upcoming
// Public browse listing of scheduled classes.
func (h *ClassHandler) ListUpcoming(c *gin.Context) {
	classes, err := h.classService.ListUpcoming(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// Get godoc
// GET /api/v1/classes/:id
// Retrieves one class.
func (h *ClassHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	class, err := h.classService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// Create godoc
// POST /api/v1/teacher/classes
// Schedules a new class; the canonical start instant is derived before the
// record is stored.
func (h *ClassHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class := &model.Class{
		TeacherID:     claims.UserID,
		Title:         req.Title,
		Subject:       req.Subject,
		Description:   req.Description,
		CivilDate:     req.CivilDate,
		CivilTime:     req.CivilTime,
		Timezone:      req.Timezone,
		DurationLabel: req.DurationLabel,
		Capacity:      req.Capacity,
	}

	if err := h.classService.Create(c.Request.Context(), class); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// Update godoc
// PUT /api/v1/teacher/classes/:id
// Edits or reschedules a scheduled class.
func (h *ClassHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Update(c.Request.Context(), claims.UserID, id, &req)
	if err != nil {
		h.failClassAction(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// Delete godoc
// DELETE /api/v1/teacher/classes/:id
// Removes a scheduled class.
func (h *ClassHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.classService.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		h.failClassAction(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "class deleted successfully"})
}

// Start godoc
// POST /api/v1/teacher/classes/:id/start
// Explicit teacher action: scheduled → live, marking presence.
func (h *ClassHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	class, err := h.classService.StartClass(c.Request.Context(), claims.UserID, id, time.Now().UTC())
	if err != nil {
		h.failClassAction(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// End godoc
// POST /api/v1/teacher/classes/:id/end
// Explicit teacher action: live → completed.
func (h *ClassHandler) End(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	class, err := h.classService.EndClass(c.Request.Context(), claims.UserID, id, time.Now().UTC())
	if err != nil {
		h.failClassAction(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// Cancel godoc
// POST /api/v1/teacher/classes/:id/cancel
// Cancels a scheduled class ahead of time.
func (h *ClassHandler) Cancel(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	class, err := h.classService.CancelClass(c.Request.Context(), claims.UserID, id)
	if err != nil {
		h.failClassAction(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// failClassAction maps domain errors to API error codes.
func (h *ClassHandler) failClassAction(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotClassOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotClassOwner)
	case errors.Is(err, service.ErrClassNotEditable):
		response.Fail(c, http.StatusConflict, response.ErrClassNotEditable)
	case errors.Is(err, service.ErrClassNotScheduled):
		response.Fail(c, http.StatusConflict, response.ErrClassNotEditable)
	case errors.Is(err, service.ErrClassNotLive):
		response.Fail(c, http.StatusConflict, response.ErrClassNotLive)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
