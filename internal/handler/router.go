package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduscan-api/internal/middleware"
	"github.com/noah-isme/eduscan-api/internal/models"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Auth       *AuthHandler
	Students   *StudentHandler
	Attendance *AttendanceHandler
	Assessment *AssessmentHandler
	Reports    *ReportHandler
	Summaries  *SummaryHandler
	Snapshot   *SnapshotHandler
	Metrics    *MetricsHandler
}

// RegisterRoutes mounts the API under prefix. authn must reject requests
// without valid claims.
func RegisterRoutes(r *gin.Engine, prefix string, authn gin.HandlerFunc, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.POST("/auth/teacher", h.Auth.TeacherLogin)
	api.POST("/auth/student", h.Auth.StudentLogin)
	api.GET("/export/:token", h.Reports.Download)

	secured := api.Group("", authn)
	teacher := secured.Group("", middleware.RequireRoles(models.RoleTeacher))
	self := middleware.TeacherOrSelf()

	teacher.GET("/students", h.Students.List)
	teacher.POST("/students", h.Students.Create)
	teacher.POST("/students/bulk", h.Students.BulkCreate)
	teacher.DELETE("/students/:id", h.Students.Delete)
	teacher.GET("/filters", h.Students.Filters)
	secured.GET("/students/:id", self, h.Students.Get)
	secured.GET("/students/:id/qr", self, h.Students.QRCode)

	teacher.POST("/students/:id/summary", h.Summaries.Generate)
	secured.GET("/students/:id/summary", self, h.Summaries.Get)

	teacher.POST("/attendance", h.Attendance.Record)
	teacher.POST("/attendance/bulk", h.Attendance.RecordBulk)
	teacher.POST("/attendance/scan", h.Attendance.Scan)

	teacher.POST("/grades/bulk", h.Assessment.RecordGrades)
	teacher.POST("/behavior/bulk", h.Assessment.RecordBehavior)

	teacher.GET("/reports/rows", h.Reports.Rows)
	teacher.GET("/reports/overview", h.Reports.Overview)
	teacher.POST("/reports/export", h.Reports.Export)

	teacher.GET("/snapshot", h.Snapshot.Get)
	teacher.PUT("/snapshot", h.Snapshot.Restore)
}
