package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduscan-api/internal/dto"
	"github.com/noah-isme/eduscan-api/pkg/response"
)

type attendanceService interface {
	Record(ctx context.Context, req dto.RecordAttendanceRequest) error
	RecordBulk(ctx context.Context, req dto.BulkAttendanceRequest) (int, error)
	EnqueueScan(ctx context.Context, req dto.ScanRequest) (*dto.ScanAccepted, error)
}

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Record godoc
// @Summary Set one attendance status
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.RecordAttendanceRequest true "Attendance"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req dto.RecordAttendanceRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	if err := h.service.Record(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkWriteResponse{Written: 1})
}

// RecordBulk godoc
// @Summary Set attendance for a class
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.BulkAttendanceRequest true "Statuses by student id"
// @Success 200 {object} response.Envelope
// @Router /attendance/bulk [post]
func (h *AttendanceHandler) RecordBulk(c *gin.Context) {
	var req dto.BulkAttendanceRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	written, err := h.service.RecordBulk(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkWriteResponse{Written: written})
}

// Scan godoc
// @Summary Queue a scanned student id as present today
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.ScanRequest true "Scan"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /attendance/scan [post]
func (h *AttendanceHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if !bindJSON(c, &req, "invalid scan payload") {
		return
	}
	accepted, err := h.service.EnqueueScan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, accepted)
}
