package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalmiddleware "github.com/noah-isme/eduscan-api/internal/middleware"
	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
	"github.com/noah-isme/eduscan-api/internal/repository"
	"github.com/noah-isme/eduscan-api/internal/service"
	"github.com/noah-isme/eduscan-api/pkg/storage"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

type memoryPersister struct{ saved []models.Student }

func (m *memoryPersister) Load(context.Context) ([]models.Student, error) {
	if m.saved == nil {
		return nil, records.ErrNoSnapshot
	}
	return models.CloneStudents(m.saved), nil
}

func (m *memoryPersister) Save(_ context.Context, students []models.Student) error {
	m.saved = models.CloneStudents(students)
	return nil
}

type cannedGenerator struct{ text string }

func (g cannedGenerator) Generate(context.Context, string) (string, error) { return g.text, nil }

// testAuth stands in for JWT: X-Test-Role selects the role and
// X-Test-Student the student id of a portal session.
func testAuth(c *gin.Context) {
	role := c.GetHeader("X-Test-Role")
	if role == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{
		Role:      models.Role(role),
		StudentID: c.GetHeader("X-Test-Student"),
	})
	c.Next()
}

func buildRouter(t *testing.T) (*gin.Engine, *records.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := records.NewStore(&memoryPersister{}, records.Options{SeedDemo: true})
	require.NoError(t, store.Init(context.Background()))

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	metrics := service.NewMetricsService()
	cache := service.NewCacheService(repository.NewMemoryCacheRepository(), metrics, time.Hour, nil, true)
	auth, err := service.NewAuthService(store, nil, nil, service.AuthConfig{AccessCode: "5433", AccessTokenSecret: "s", AccessTokenExpiry: time.Hour})
	require.NoError(t, err)

	h := Handlers{
		Auth:       NewAuthHandler(auth),
		Students:   NewStudentHandler(service.NewStudentService(store, nil, nil)),
		Attendance: NewAttendanceHandler(service.NewAttendanceService(store, nil, metrics, nil)),
		Assessment: NewAssessmentHandler(service.NewGradeService(store, nil, nil), service.NewBehaviorService(store, nil, nil)),
		Reports: NewReportHandler(service.NewReportService(store, files, storage.NewSignedURLSigner("k", time.Hour),
			service.ReportConfig{APIPrefix: "/api/v1"}, nil, nil)),
		Summaries: NewSummaryHandler(service.NewSummaryService(store, cannedGenerator{text: "Bagus."}, cache, metrics, service.SummaryConfig{}, nil)),
		Snapshot:  NewSnapshotHandler(service.NewSnapshotService(store, nil)),
		Metrics:   NewMetricsHandler(metrics.Handler(), store),
	}
	router := gin.New()
	router.Use(internalmiddleware.Metrics(metrics))
	RegisterRoutes(router, "/api/v1", testAuth, h)
	return router, store
}

func performRequest(router *gin.Engine, method, path, role string, body interface{}, headers ...string) (*httptest.ResponseRecorder, responseEnvelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env responseEnvelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

const teacher = string(models.RoleTeacher)

func TestHealthAndReady(t *testing.T) {
	router, _ := buildRouter(t)

	w, _ := performRequest(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = performRequest(router, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = performRequest(router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRoutes(t *testing.T) {
	router, _ := buildRouter(t)

	w, env := performRequest(router, http.MethodPost, "/api/v1/auth/teacher", "", map[string]string{"accessCode": "5433"})
	require.Equal(t, http.StatusOK, w.Code)
	var session models.Session
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.NotEmpty(t, session.AccessToken)

	w, env = performRequest(router, http.MethodPost, "/api/v1/auth/teacher", "", map[string]string{"accessCode": "0000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_ACCESS_CODE", env.Error.Code)

	w, _ = performRequest(router, http.MethodPost, "/api/v1/auth/student", "", map[string]string{"studentId": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentRoutes(t *testing.T) {
	router, _ := buildRouter(t)

	w, _ := performRequest(router, http.MethodGet, "/api/v1/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := performRequest(router, http.MethodPost, "/api/v1/students", teacher,
		map[string]string{"name": "Siti", "classGroup": "7-A", "subjectName": "Matematika"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = performRequest(router, http.MethodPost, "/api/v1/students", teacher,
		map[string]string{"name": "Siti", "classGroup": "7-A", "subjectName": "Matematika"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_SUBJECT", env.Error.Code)

	w, env = performRequest(router, http.MethodPost, "/api/v1/students/bulk", teacher,
		map[string]string{"classGroup": "7-B", "subjectName": "IPA", "text": "Andi\nBayu\nAndi"})
	require.Equal(t, http.StatusCreated, w.Code)
	var roster records.RosterResult
	require.NoError(t, json.Unmarshal(env.Data, &roster))
	assert.Len(t, roster.Created, 2)
	assert.Len(t, roster.Skipped, 1)

	w, env = performRequest(router, http.MethodGet, "/api/v1/students?class=7-A&subject=Matematika", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, env.Meta["total"])

	w, env = performRequest(router, http.MethodGet, "/api/v1/filters", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var filters models.FilterOptions
	require.NoError(t, json.Unmarshal(env.Data, &filters))
	assert.Equal(t, []string{"7-A", "7-B"}, filters.ClassGroups)

	w, _ = performRequest(router, http.MethodGet, "/api/v1/students/1001/qr", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "QR_Budi_Santoso_1001.png")

	w, _ = performRequest(router, http.MethodDelete, "/api/v1/students/1001", teacher, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = performRequest(router, http.MethodDelete, "/api/v1/students/1001", teacher, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = performRequest(router, http.MethodGet, "/api/v1/students/1001", teacher, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentPortalSeesOnlyOwnRecord(t *testing.T) {
	router, _ := buildRouter(t)
	student := string(models.RoleStudent)

	w, env := performRequest(router, http.MethodGet, "/api/v1/students/1001", student, nil, "X-Test-Student", "1001")
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Name    string                  `json:"name"`
		Metrics []models.SubjectMetrics `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Budi Santoso", detail.Name)
	require.Len(t, detail.Metrics, 1)

	w, _ = performRequest(router, http.MethodGet, "/api/v1/students/1002", student, nil, "X-Test-Student", "1001")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = performRequest(router, http.MethodGet, "/api/v1/students", student, nil, "X-Test-Student", "1001")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = performRequest(router, http.MethodPost, "/api/v1/students/1001/summary", student, nil, "X-Test-Student", "1001")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRecordRoutes(t *testing.T) {
	router, store := buildRouter(t)

	w, _ := performRequest(router, http.MethodPost, "/api/v1/attendance", teacher,
		map[string]string{"studentId": "1001", "subjectName": "Matematika", "date": "2024-03-01", "status": "S"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := performRequest(router, http.MethodPost, "/api/v1/attendance", teacher,
		map[string]string{"studentId": "1001", "subjectName": "all"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "NOT_APPLICABLE", env.Error.Code)

	w, env = performRequest(router, http.MethodPost, "/api/v1/attendance/bulk", teacher, map[string]interface{}{
		"classGroup": "7-A", "subjectName": "Matematika", "date": "2024-03-02", "statuses": map[string]string{"1001": "A"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"written":1}`, string(env.Data))

	w, _ = performRequest(router, http.MethodPost, "/api/v1/attendance/scan", teacher,
		map[string]string{"studentId": "1001", "subjectName": "Matematika"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	w, _ = performRequest(router, http.MethodPost, "/api/v1/attendance/scan", teacher,
		map[string]string{"studentId": "404", "subjectName": "Matematika"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = performRequest(router, http.MethodPost, "/api/v1/grades/bulk", teacher, map[string]interface{}{
		"classGroup": "7-A", "subjectName": "Matematika", "title": "UH 2", "type": "exam", "scores": map[string]float64{"1001": 70},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = performRequest(router, http.MethodPost, "/api/v1/behavior/bulk", teacher, map[string]interface{}{
		"subjectName": "Matematika", "scores": map[string]float64{"1001": 101},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = performRequest(router, http.MethodPost, "/api/v1/grades/bulk", teacher, "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	st, ok := store.FindStudentByID("1001")
	require.True(t, ok)
	sd := st.Subjects[0]
	assert.Len(t, sd.Attendance, 4)
	assert.Equal(t, 70.0, sd.Grades[len(sd.Grades)-1].Score)
}

func TestReportRoutesAndDownload(t *testing.T) {
	router, _ := buildRouter(t)

	w, env := performRequest(router, http.MethodGet, "/api/v1/reports/rows?class=7-A", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []models.ReportRow
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, models.PassStatusPassing, rows[0].PassStatusLabel)

	w, _ = performRequest(router, http.MethodGet, "/api/v1/reports/overview?date=2023-10-01", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = performRequest(router, http.MethodPost, "/api/v1/reports/export", teacher, map[string]string{"format": "csv"})
	require.Equal(t, http.StatusCreated, w.Code)
	var result models.ExportResult
	require.NoError(t, json.Unmarshal(env.Data, &result))

	w, _ = performRequest(router, http.MethodGet, result.URL, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), result.FileName)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Nama Siswa,"))

	w, _ = performRequest(router, http.MethodGet, "/api/v1/export/forged.token.value.sig", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSummaryRoutes(t *testing.T) {
	router, _ := buildRouter(t)

	w, _ := performRequest(router, http.MethodGet, "/api/v1/students/1001/summary", teacher, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = performRequest(router, http.MethodPost, "/api/v1/students/1001/summary", teacher, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := performRequest(router, http.MethodGet, "/api/v1/students/1001/summary", string(models.RoleStudent), nil, "X-Test-Student", "1001")
	require.Equal(t, http.StatusOK, w.Code)
	var summary models.StudentSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, "Bagus.", summary.Text)
	assert.True(t, summary.Cached)
}

func TestSnapshotRoutes(t *testing.T) {
	router, _ := buildRouter(t)

	w, env := performRequest(router, http.MethodGet, "/api/v1/snapshot", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var backup []models.Student
	require.NoError(t, json.Unmarshal(env.Data, &backup))
	require.Len(t, backup, 1)

	dup := append(backup, backup[0])
	w, _ = performRequest(router, http.MethodPut, "/api/v1/snapshot", teacher, dup)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = performRequest(router, http.MethodPut, "/api/v1/snapshot", teacher, []models.Student{})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, env = performRequest(router, http.MethodGet, "/api/v1/snapshot", teacher, nil)
	assert.EqualValues(t, 0, env.Meta["total"])

	w, _ = performRequest(router, http.MethodPut, "/api/v1/snapshot", teacher, backup)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
