package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduscan-api/internal/dto"
	"github.com/noah-isme/eduscan-api/internal/models"
	appErrors "github.com/noah-isme/eduscan-api/pkg/errors"
	"github.com/noah-isme/eduscan-api/pkg/response"
)

type reportService interface {
	Rows(filter models.StudentFilter) []models.ReportRow
	Overview(query dto.ReportQuery) (*models.Overview, error)
	Export(ctx context.Context, req dto.ExportRequest) (*models.ExportResult, error)
	ParseToken(token string) (string, error)
	Open(relPath string) (*os.File, error)
}

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Rows godoc
// @Summary Report rows as JSON
// @Tags Reports
// @Produce json
// @Param class query string false "Class group or all"
// @Param subject query string false "Subject name or all"
// @Success 200 {object} response.Envelope
// @Router /reports/rows [get]
func (h *ReportHandler) Rows(c *gin.Context) {
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	rows := h.service.Rows(query.Filter())
	response.JSON(c, http.StatusOK, rows, map[string]interface{}{"total": len(rows)})
}

// Overview godoc
// @Summary Dashboard overview
// @Tags Reports
// @Produce json
// @Param class query string false "Class group or all"
// @Param subject query string false "Subject name or all"
// @Param date query string false "Attendance date (YYYY-MM-DD), default today"
// @Success 200 {object} response.Envelope
// @Router /reports/overview [get]
func (h *ReportHandler) Overview(c *gin.Context) {
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	overview, err := h.service.Overview(query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview)
}

// Export godoc
// @Summary Render the report to a file
// @Description Returns a signed download URL for csv, xlsx or pdf
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export"
// @Success 201 {object} response.Envelope
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if !bindJSON(c, &req, "invalid export payload") {
		return
	}
	result, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download an exported report via signed token
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	relPath, err := h.service.ParseToken(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Open(relPath)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat report"))
		return
	}
	name := filepath.Base(relPath)
	format := models.ExportFormat(strings.TrimPrefix(filepath.Ext(name), "."))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", name))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), format.ContentType(), file, nil)
}
