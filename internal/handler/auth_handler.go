package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduscan-api/internal/dto"
	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/pkg/response"
)

type authService interface {
	TeacherLogin(ctx context.Context, req dto.TeacherLoginRequest) (*models.Session, error)
	StudentLogin(ctx context.Context, req dto.StudentLoginRequest) (*models.Session, error)
}

// AuthHandler wires HTTP endpoints to the access gate.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// TeacherLogin godoc
// @Summary Open the teacher dashboard
// @Description Exchange the shared access code for a teacher token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.TeacherLoginRequest true "Access code"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/teacher [post]
func (h *AuthHandler) TeacherLogin(c *gin.Context) {
	var req dto.TeacherLoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	session, err := h.service.TeacherLogin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// StudentLogin godoc
// @Summary Open the student portal
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.StudentLoginRequest true "Student id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/student [post]
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req dto.StudentLoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	session, err := h.service.StudentLogin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}
