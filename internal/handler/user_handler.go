package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulane/tutora-backend/internal/response"
	"github.com/edulane/tutora-backend/internal/service"
)

// UserHandler handles the public tutor directory.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListTeachers godoc
// GET /api/v1/teachers
// Public browse listing of tutor profiles.
func (h *UserHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.userService.ListTeachers(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teachers": teachers})
}
