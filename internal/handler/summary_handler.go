package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/pkg/response"
)

type summaryService interface {
	Generate(ctx context.Context, studentID string) (*models.StudentSummary, error)
	Get(ctx context.Context, studentID string) (*models.StudentSummary, error)
}

// SummaryHandler exposes narrative progress summaries.
type SummaryHandler struct {
	service summaryService
}

// NewSummaryHandler constructs handler.
func NewSummaryHandler(svc summaryService) *SummaryHandler {
	return &SummaryHandler{service: svc}
}

// Generate godoc
// @Summary Generate a progress summary
// @Tags Summaries
// @Produce json
// @Param id path string true "Student ID"
// @Success 201 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /students/{id}/summary [post]
func (h *SummaryHandler) Generate(c *gin.Context) {
	summary, err := h.service.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, summary)
}

// Get godoc
// @Summary Last generated progress summary
// @Tags Summaries
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/summary [get]
func (h *SummaryHandler) Get(c *gin.Context) {
	summary, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
