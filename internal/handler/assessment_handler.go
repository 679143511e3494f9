package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduscan-api/internal/dto"
	"github.com/noah-isme/eduscan-api/pkg/response"
)

type gradeService interface {
	RecordBulk(ctx context.Context, req dto.BulkGradeRequest) (int, error)
}

type behaviorService interface {
	RecordBulk(ctx context.Context, req dto.BulkBehaviorRequest) (int, error)
}

// AssessmentHandler exposes grade and behavior entry.
type AssessmentHandler struct {
	grades   gradeService
	behavior behaviorService
}

// NewAssessmentHandler constructs handler.
func NewAssessmentHandler(grades gradeService, behavior behaviorService) *AssessmentHandler {
	return &AssessmentHandler{grades: grades, behavior: behavior}
}

// RecordGrades godoc
// @Summary Add one grade to every student of a class
// @Description Students missing from scores receive 0
// @Tags Assessment
// @Accept json
// @Produce json
// @Param payload body dto.BulkGradeRequest true "Grade entry"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grades/bulk [post]
func (h *AssessmentHandler) RecordGrades(c *gin.Context) {
	var req dto.BulkGradeRequest
	if !bindJSON(c, &req, "invalid grade payload") {
		return
	}
	written, err := h.grades.RecordBulk(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkWriteResponse{Written: written})
}

// RecordBehavior godoc
// @Summary Add behavior ratings
// @Tags Assessment
// @Accept json
// @Produce json
// @Param payload body dto.BulkBehaviorRequest true "Scores by student id"
// @Success 200 {object} response.Envelope
// @Router /behavior/bulk [post]
func (h *AssessmentHandler) RecordBehavior(c *gin.Context) {
	var req dto.BulkBehaviorRequest
	if !bindJSON(c, &req, "invalid behavior payload") {
		return
	}
	written, err := h.behavior.RecordBulk(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkWriteResponse{Written: written})
}
