package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduscan-api/internal/dto"
	"github.com/noah-isme/eduscan-api/internal/models"
	appErrors "github.com/noah-isme/eduscan-api/pkg/errors"
	"github.com/noah-isme/eduscan-api/pkg/jobs"
)

type recordingQueue struct {
	jobs []jobs.Job
	err  error
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func attendanceOn(t *testing.T, st models.Student, subject, date string) (models.AttendanceStatus, int) {
	t.Helper()
	idx := st.Subject(subject)
	require.GreaterOrEqual(t, idx, 0)
	var status models.AttendanceStatus
	count := 0
	for _, rec := range st.Subjects[idx].Attendance {
		if rec.Date == date {
			status = rec.Status
			count++
		}
	}
	return status, count
}

func TestAttendanceServiceRecordDefaultsToPresentToday(t *testing.T) {
	store := newSeededStore(t)
	svc := NewAttendanceService(store, nil, nil, nil)

	require.NoError(t, svc.Record(context.Background(), dto.RecordAttendanceRequest{StudentID: "1001", SubjectName: "Matematika"}))

	st, _ := store.FindStudentByID("1001")
	status, count := attendanceOn(t, st, "Matematika", "2024-03-04")
	assert.Equal(t, models.AttendanceStatusPresent, status)
	assert.Equal(t, 1, count)

	err := svc.Record(context.Background(), dto.RecordAttendanceRequest{StudentID: "1001", SubjectName: "Matematika", Status: "X"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	err = svc.Record(context.Background(), dto.RecordAttendanceRequest{StudentID: "1001", SubjectName: "Matematika", Date: "04-03-2024"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAttendanceServiceRecordBulk(t *testing.T) {
	store := newSeededStore(t)
	svc := NewAttendanceService(store, nil, nil, nil)

	written, err := svc.RecordBulk(context.Background(), dto.BulkAttendanceRequest{
		ClassGroup:  "7-A",
		SubjectName: "Matematika",
		Date:        "2024-03-01",
		Statuses:    map[string]models.AttendanceStatus{"1001": models.AttendanceStatusSick, "ghost": models.AttendanceStatusAbsent},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	st, _ := store.FindStudentByID("1001")
	status, _ := attendanceOn(t, st, "Matematika", "2024-03-01")
	assert.Equal(t, models.AttendanceStatusSick, status)
}

func TestAttendanceServiceEnqueueScan(t *testing.T) {
	store := newSeededStore(t)
	svc := NewAttendanceService(store, nil, NewMetricsService(), nil)
	svc.now = fixedClock
	queue := &recordingQueue{}
	svc.UseScanQueue(queue)

	accepted, err := svc.EnqueueScan(context.Background(), dto.ScanRequest{StudentID: " 1001 ", SubjectName: "Matematika"})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", accepted.Student)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, ScanJobType, queue.jobs[0].Type)
	assert.Equal(t, accepted.Event.ID, queue.jobs[0].ID)

	// Nothing is written until the queue delivers the job.
	st, _ := store.FindStudentByID("1001")
	_, count := attendanceOn(t, st, "Matematika", "2024-03-04")
	assert.Zero(t, count)

	require.NoError(t, svc.HandleScan(context.Background(), queue.jobs[0]))
	require.NoError(t, svc.HandleScan(context.Background(), queue.jobs[0]))
	st, _ = store.FindStudentByID("1001")
	status, count := attendanceOn(t, st, "Matematika", "2024-03-04")
	assert.Equal(t, models.AttendanceStatusPresent, status)
	assert.Equal(t, 1, count)
}

func TestAttendanceServiceEnqueueScanRejectsUnknownIDs(t *testing.T) {
	svc := NewAttendanceService(newSeededStore(t), nil, nil, nil)
	queue := &recordingQueue{}
	svc.UseScanQueue(queue)

	_, err := svc.EnqueueScan(context.Background(), dto.ScanRequest{StudentID: "9999", SubjectName: "Matematika"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	_, err = svc.EnqueueScan(context.Background(), dto.ScanRequest{StudentID: "1001", SubjectName: "IPA"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, queue.jobs)
}

func TestAttendanceServiceEnqueueScanNeedsConcreteSubject(t *testing.T) {
	svc := NewAttendanceService(newSeededStore(t), nil, nil, nil)
	queue := &recordingQueue{}
	svc.UseScanQueue(queue)

	_, err := svc.EnqueueScan(context.Background(), dto.ScanRequest{StudentID: "1001", SubjectName: models.FilterAll})
	assert.True(t, errors.Is(err, appErrors.ErrNotApplicable))
	assert.Empty(t, queue.jobs)

	accepted, err := svc.EnqueueScan(context.Background(), dto.ScanRequest{StudentID: "1001", SubjectName: " Matematika "})
	require.NoError(t, err)
	assert.Equal(t, "Matematika", accepted.Event.SubjectName)
	require.Len(t, queue.jobs, 1)
}

func TestAttendanceServiceEnqueueScanQueueFull(t *testing.T) {
	svc := NewAttendanceService(newSeededStore(t), nil, nil, nil)
	svc.UseScanQueue(&recordingQueue{err: fmt.Errorf("scan: %w", jobs.ErrQueueFull)})

	_, err := svc.EnqueueScan(context.Background(), dto.ScanRequest{StudentID: "1001", SubjectName: "Matematika"})
	assert.True(t, errors.Is(err, appErrors.ErrUnavailable))
}

func TestAttendanceServiceScanWithoutQueueAppliesDirectly(t *testing.T) {
	store := newSeededStore(t)
	svc := NewAttendanceService(store, nil, nil, nil)
	svc.now = fixedClock

	_, err := svc.EnqueueScan(context.Background(), dto.ScanRequest{StudentID: "1001", SubjectName: "Matematika"})
	require.NoError(t, err)
	st, _ := store.FindStudentByID("1001")
	_, count := attendanceOn(t, st, "Matematika", "2024-03-04")
	assert.Equal(t, 1, count)
}

func TestHandleScanForDeletedStudentIsPermanent(t *testing.T) {
	store := newSeededStore(t)
	svc := NewAttendanceService(store, nil, nil, nil)
	students := NewStudentService(store, nil, nil)
	require.NoError(t, students.Delete(context.Background(), "1001"))

	err := svc.HandleScan(context.Background(), jobs.Job{
		ID:   "evt",
		Type: ScanJobType,
		Payload: models.ScanEvent{
			ID: "evt", StudentID: "1001", SubjectName: "Matematika", Timestamp: time.Now(),
		},
	})
	require.Error(t, err)
	assert.True(t, jobs.IsPermanent(err))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	err = svc.HandleScan(context.Background(), jobs.Job{Payload: "garbage"})
	assert.True(t, jobs.IsPermanent(err))
}

func TestScanQueueDeliversInOrder(t *testing.T) {
	store := newSeededStore(t)
	svc := NewAttendanceService(store, nil, nil, nil)
	queue := jobs.NewQueue("scan", svc.HandleScan, jobs.QueueConfig{Workers: 1, BufferSize: 8})
	queue.Start(context.Background())
	svc.UseScanQueue(queue)

	for _, day := range []int{1, 2, 3} {
		svc.now = func() time.Time { return time.Date(2024, 3, day, 8, 0, 0, 0, time.UTC) }
		_, err := svc.EnqueueScan(context.Background(), dto.ScanRequest{StudentID: "1001", SubjectName: "Matematika"})
		require.NoError(t, err)
	}
	queue.Stop()

	st, _ := store.FindStudentByID("1001")
	att := st.Subjects[0].Attendance
	require.Len(t, att, 4)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-03"}, []string{att[1].Date, att[2].Date, att[3].Date})
}

func TestGradeAndBehaviorServices(t *testing.T) {
	store := newSeededStore(t)
	grades := NewGradeService(store, nil, nil)
	behavior := NewBehaviorService(store, nil, nil)
	ctx := context.Background()

	written, err := grades.RecordBulk(ctx, dto.BulkGradeRequest{
		ClassGroup: "7-A", SubjectName: "Matematika", Title: "Tugas 2", Type: models.GradeTypeAssignment,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	_, err = grades.RecordBulk(ctx, dto.BulkGradeRequest{SubjectName: "Matematika", Title: "x", Type: "quiz"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	written, err = behavior.RecordBulk(ctx, dto.BulkBehaviorRequest{
		ClassGroup: "7-A", SubjectName: "Matematika", Scores: map[string]float64{"1001": 92},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	_, err = behavior.RecordBulk(ctx, dto.BulkBehaviorRequest{SubjectName: "Matematika", Scores: map[string]float64{"1001": 120}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	st, _ := store.FindStudentByID("1001")
	sd := st.Subjects[0]
	assert.Equal(t, 92.0, sd.BehaviorScore())
	last := sd.Grades[len(sd.Grades)-1]
	assert.Equal(t, "Tugas 2", last.Title)
	assert.Zero(t, last.Score)
	assert.Equal(t, "2024-03-04", last.Date)
}
