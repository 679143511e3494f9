package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
)

var testNow = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type memoryPersister struct {
	mu    sync.Mutex
	saved []models.Student
	saves int
}

func (m *memoryPersister) Load(context.Context) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return nil, records.ErrNoSnapshot
	}
	return models.CloneStudents(m.saved), nil
}

func (m *memoryPersister) Save(_ context.Context, students []models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = models.CloneStudents(students)
	m.saves++
	return nil
}

// newSeededStore returns a store holding the demo student 1001 (Budi Santoso,
// 7-A, Matematika).
func newSeededStore(t *testing.T) *records.Store {
	t.Helper()
	store := records.NewStore(&memoryPersister{}, records.Options{Now: fixedClock, SeedDemo: true})
	require.NoError(t, store.Init(context.Background()))
	return store
}
