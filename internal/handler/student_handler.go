package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduscan-api/internal/dto"
	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
	appErrors "github.com/noah-isme/eduscan-api/pkg/errors"
	"github.com/noah-isme/eduscan-api/pkg/response"
)

type studentService interface {
	List(filter models.StudentFilter) []models.Student
	Get(id string) (*dto.StudentDetail, error)
	Filters() models.FilterOptions
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	BulkCreate(ctx context.Context, req dto.BulkRosterRequest) (*records.RosterResult, error)
	Delete(ctx context.Context, id string) error
	QRCode(id string) ([]byte, string, error)
}

// StudentHandler exposes roster endpoints.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs handler.
func NewStudentHandler(svc studentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param class query string false "Class group or all"
// @Param subject query string false "Subject name or all"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var query dto.StudentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	filter := query.Filter()
	students := h.service.List(filter)
	response.JSON(c, http.StatusOK, students, map[string]interface{}{
		"total":   len(students),
		"class":   filter.ClassGroup,
		"subject": filter.SubjectName,
	})
}

// Get godoc
// @Summary Student detail with per-subject metrics
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Filters godoc
// @Summary Class groups and subjects present on the roster
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /filters [get]
func (h *StudentHandler) Filters(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Filters())
}

// Create godoc
// @Summary Enroll one student in a subject
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentRequest true "Student"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if !bindJSON(c, &req, "invalid student payload") {
		return
	}
	student, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// BulkCreate godoc
// @Summary Import a roster
// @Description Names may be sent as an array or as newline separated text
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.BulkRosterRequest true "Roster"
// @Success 201 {object} response.Envelope
// @Router /students/bulk [post]
func (h *StudentHandler) BulkCreate(c *gin.Context) {
	var req dto.BulkRosterRequest
	if !bindJSON(c, &req, "invalid roster payload") {
		return
	}
	result, err := h.service.BulkCreate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.BulkRosterResponse{RosterResult: *result})
}

// Delete godoc
// @Summary Remove a student
// @Tags Students
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// QRCode godoc
// @Summary Student id as a QR code
// @Tags Students
// @Produce png
// @Param id path string true "Student ID"
// @Success 200 {file} binary
// @Router /students/{id}/qr [get]
func (h *StudentHandler) QRCode(c *gin.Context) {
	png, name, err := h.service.QRCode(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", name))
	c.Data(http.StatusOK, "image/png", png)
}
