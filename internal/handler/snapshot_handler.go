package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/pkg/response"
)

type snapshotService interface {
	Export() []models.Student
	Restore(ctx context.Context, students []models.Student) error
}

// SnapshotHandler exposes backup and restore of the whole collection.
type SnapshotHandler struct {
	service snapshotService
}

// NewSnapshotHandler constructs handler.
func NewSnapshotHandler(svc snapshotService) *SnapshotHandler {
	return &SnapshotHandler{service: svc}
}

// Get godoc
// @Summary Full record snapshot
// @Tags Snapshot
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /snapshot [get]
func (h *SnapshotHandler) Get(c *gin.Context) {
	students := h.service.Export()
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"total": len(students)})
}

// Restore godoc
// @Summary Replace every record with a backup
// @Tags Snapshot
// @Accept json
// @Param payload body []models.Student true "Students"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /snapshot [put]
func (h *SnapshotHandler) Restore(c *gin.Context) {
	var students []models.Student
	if !bindJSON(c, &students, "invalid snapshot payload") {
		return
	}
	if err := h.service.Restore(c.Request.Context(), students); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
