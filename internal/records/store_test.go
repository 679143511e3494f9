package records

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduscan-api/internal/models"
	appErrors "github.com/noah-isme/eduscan-api/pkg/errors"
)

type memoryPersister struct {
	mu      sync.Mutex
	saved   []models.Student
	has     bool
	saves   int
	failing bool
	loadErr error
}

func (m *memoryPersister) Load(context.Context) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.has {
		return nil, ErrNoSnapshot
	}
	return models.CloneStudents(m.saved), nil
}

func (m *memoryPersister) Save(ctx context.Context, students []models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.failing {
		return errors.New("disk full")
	}
	m.saved = models.CloneStudents(students)
	m.has = true
	m.saves++
	return nil
}

type countingObserver struct {
	mu        sync.Mutex
	mutations map[string]int
	persists  int
	failures  int
}

func (o *countingObserver) ObserveMutation(name, result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mutations == nil {
		o.mutations = map[string]int{}
	}
	o.mutations[name+":"+result]++
}

func (o *countingObserver) ObservePersist(_ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.persists++
	if err != nil {
		o.failures++
	}
}

func newTestStore(t *testing.T, p *memoryPersister, seed bool) (*Store, *countingObserver) {
	t.Helper()
	obs := &countingObserver{}
	s := NewStore(p, Options{Observer: obs, Now: fixedNow, SeedDemo: seed})
	require.NoError(t, s.Init(context.Background()))
	return s, obs
}

func TestInitSeedsDemoRecordAndPersists(t *testing.T) {
	p := &memoryPersister{}
	s, _ := newTestStore(t, p, true)

	st, ok := s.FindStudentByID("1001")
	require.True(t, ok)
	assert.Equal(t, "Budi Santoso", st.Name)
	assert.Equal(t, 85.0, st.Subjects[0].BehaviorScore())
	assert.Equal(t, 1, p.saves)
	assert.True(t, s.Ready())
	assert.False(t, s.Dirty())
}

func TestInitLoadsExistingSnapshot(t *testing.T) {
	p := &memoryPersister{has: true, saved: []models.Student{studentWithSubject("x", "Eka", "8-A", "IPA")}}
	s, _ := newTestStore(t, p, true)

	assert.Len(t, s.Snapshot(), 1)
	_, ok := s.FindStudentByID("1001")
	assert.False(t, ok)
	assert.Equal(t, 0, p.saves)
}

func TestInitFailsOnLoadError(t *testing.T) {
	s := NewStore(&memoryPersister{loadErr: errors.New("corrupt")}, Options{})
	require.Error(t, s.Init(context.Background()))
	assert.False(t, s.Ready())
}

func TestApplyPersistsEverySuccessfulMutation(t *testing.T) {
	p := &memoryPersister{}
	s, obs := newTestStore(t, p, false)

	err := s.Apply(context.Background(), "add_student", func(tx *Tx) error {
		_, err := AddSingleStudent(tx, "Ana", "7-A", "Math")
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 2, p.saves)
	require.Len(t, p.saved, 1)
	assert.Equal(t, "Ana", p.saved[0].Name)
	assert.Equal(t, 1, obs.mutations["add_student:applied"])
}

func TestApplyFailureLeavesStateUntouched(t *testing.T) {
	p := &memoryPersister{}
	s, obs := newTestStore(t, p, true)
	before := s.Snapshot()

	err := s.Apply(context.Background(), "bulk", func(tx *Tx) error {
		_, _ = AddBulkRoster(tx, "7-A", "Math", []string{"Ana", "Budi"})
		return appErrors.Clone(appErrors.ErrValidation, "abort")
	})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 1, p.saves)
	assert.Equal(t, 1, obs.mutations["bulk:rejected"])
}

func TestPersistFailureKeepsStateAndRetries(t *testing.T) {
	p := &memoryPersister{}
	s, obs := newTestStore(t, p, false)
	p.failing = true

	err := s.Apply(context.Background(), "add_student", func(tx *Tx) error {
		_, err := AddSingleStudent(tx, "Ana", "7-A", "Math")
		return err
	})
	require.NoError(t, err)
	assert.Len(t, s.Snapshot(), 1)
	assert.True(t, s.Dirty())
	assert.Equal(t, 1, obs.failures)

	p.failing = false
	require.NoError(t, s.Close(context.Background()))
	assert.False(t, s.Dirty())
	require.Len(t, p.saved, 1)

	err = s.Apply(context.Background(), "late", func(*Tx) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestApplyPersistsWhenCallerContextIsCancelled(t *testing.T) {
	p := &memoryPersister{}
	s, _ := newTestStore(t, p, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Apply(ctx, "delete_student", func(tx *Tx) error {
		DeleteStudent(tx, "1001")
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot())
	assert.False(t, s.Dirty())
	assert.Empty(t, p.saved)
	assert.Equal(t, 2, p.saves)
}

func TestSnapshotIsIsolatedFromLaterMutations(t *testing.T) {
	s, _ := newTestStore(t, &memoryPersister{}, true)
	snap := s.Snapshot()

	require.NoError(t, s.Apply(context.Background(), "attendance", func(tx *Tx) error {
		return RecordAttendance(tx, "1001", "Matematika", "2023-10-01", models.AttendanceStatusAbsent)
	}))

	assert.Equal(t, models.AttendanceStatusPresent, snap[0].Subjects[0].Attendance[0].Status)
	live, _ := s.FindStudentByID("1001")
	assert.Equal(t, models.AttendanceStatusAbsent, live.Subjects[0].Attendance[0].Status)

	snap[0].Name = "mutated"
	live, _ = s.FindStudentByID("1001")
	assert.Equal(t, "Budi Santoso", live.Name)
}

func TestConcurrentAppliesAreSerialised(t *testing.T) {
	s, _ := newTestStore(t, &memoryPersister{}, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Apply(context.Background(), "roster", func(tx *Tx) error {
				_, err := AddBulkRoster(tx, "7-A", "Math", []string{"Ana", "Budi"})
				return err
			})
		}()
	}
	wg.Wait()

	assert.Len(t, s.Snapshot(), 2)
}

func TestReplaceAllValidatesCollection(t *testing.T) {
	p := &memoryPersister{}
	s, _ := newTestStore(t, p, true)

	dup := []models.Student{studentWithSubject("x", "A", "7-A", "IPA"), studentWithSubject("x", "B", "7-A", "IPA")}
	require.ErrorIs(t, s.ReplaceAll(context.Background(), dup), appErrors.ErrValidation)
	assert.Len(t, s.Snapshot(), 1)

	require.NoError(t, s.ReplaceAll(context.Background(), []models.Student{studentWithSubject("y", "C", "8-A", "IPS")}))
	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "y", snap[0].ID)
	assert.Equal(t, "y", p.saved[0].ID)
}
