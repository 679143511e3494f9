// Package records holds the in-memory student records and every rule for
// changing and summarising them. Storage happens only through a Persister.
package records

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/eduscan-api/internal/models"
)

var (
	// ErrNoSnapshot is returned by a Persister when nothing has been saved yet.
	ErrNoSnapshot = errors.New("no snapshot stored")
	// ErrClosed is returned by Apply after Close.
	ErrClosed = errors.New("record store closed")
)

// Persister loads and saves the full student collection as one snapshot.
type Persister interface {
	Load(ctx context.Context) ([]models.Student, error)
	Save(ctx context.Context, students []models.Student) error
}

// Observer receives mutation and persistence outcomes.
type Observer interface {
	ObserveMutation(name, result string)
	ObservePersist(duration time.Duration, err error)
}

// Mutation results reported to the Observer.
const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
)

// Options tune a Store.
type Options struct {
	Logger   *zap.Logger
	Observer Observer
	// Now defaults to time.Now; "today" for new records is taken from it.
	Now func() time.Time
	// SeedDemo seeds one demo student when the persister has no snapshot.
	SeedDemo bool
}

// Store owns the student collection. Writers are serialised and every
// successful Apply is followed by a synchronous persist of the whole
// collection. Readers get deep copies.
type Store struct {
	persister Persister
	logger    *zap.Logger
	observer  Observer
	now       func() time.Time
	seedDemo  bool
	ids       *IDGenerator

	writeMu sync.Mutex

	mu       sync.RWMutex
	students []models.Student
	dirty    bool
	closed   bool
	ready    bool
}

// NewStore builds an empty store. Call Init before use.
func NewStore(persister Persister, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		persister: persister,
		logger:    opts.Logger,
		observer:  opts.Observer,
		now:       opts.Now,
		seedDemo:  opts.SeedDemo,
		ids:       NewIDGenerator(opts.Now),
		students:  []models.Student{},
	}
}

// Init loads the persisted snapshot. When none exists the store starts empty,
// or with the demo record when SeedDemo is set, and writes that state back.
func (s *Store) Init(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	students, err := s.persister.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		students = []models.Student{}
		if s.seedDemo {
			students = DemoStudents()
		}
		s.logger.Info("no snapshot found, starting fresh", zap.Int("students", len(students)))
		s.swap(students, true)
		s.flush(ctx)
	case err != nil:
		return fmt.Errorf("load snapshot: %w", err)
	default:
		if students == nil {
			students = []models.Student{}
		}
		s.logger.Info("snapshot loaded", zap.Int("students", len(students)))
		s.swap(students, false)
	}

	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	return nil
}

// Ready reports whether Init completed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready && !s.closed
}

// Apply runs fn against a private working copy of the collection. If fn
// fails nothing changes and nothing is persisted. On success the copy becomes
// the live collection and is persisted before Apply returns. A failed persist
// keeps the new state, marks the store dirty and is retried on the next
// Apply or on Close.
func (s *Store) Apply(ctx context.Context, name string, fn func(*Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	closed := s.closed
	working := models.CloneStudents(s.students)
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	tx := &Tx{students: working, now: s.now, ids: s.ids}
	if err := fn(tx); err != nil {
		s.observeMutation(name, ResultRejected)
		s.logger.Debug("mutation rejected", zap.String("mutation", name), zap.Error(err))
		return err
	}

	s.swap(tx.students, true)
	s.observeMutation(name, ResultApplied)
	// Persist even when the caller's context is already done.
	_ = s.flush(context.WithoutCancel(ctx))
	return nil
}

// ReplaceAll swaps the whole collection, e.g. when restoring a backup.
func (s *Store) ReplaceAll(ctx context.Context, students []models.Student) error {
	return s.Apply(ctx, "replace_all", func(tx *Tx) error {
		if err := ValidateCollection(students); err != nil {
			return err
		}
		tx.students = models.CloneStudents(students)
		return nil
	})
}

// Snapshot returns a deep copy of the collection.
func (s *Store) Snapshot() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneStudents(s.students)
}

// FindStudentByID returns a copy of the student with id.
func (s *Store) FindStudentByID(id string) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.students {
		if s.students[i].ID == id {
			return s.students[i].Clone(), true
		}
	}
	return models.Student{}, false
}

// Dirty reports whether the live collection differs from what was last saved.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Flush persists a dirty collection immediately.
func (s *Store) Flush(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.flush(ctx)
}

// Close flushes pending state and rejects further mutations.
func (s *Store) Close(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.flush(ctx)
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}

func (s *Store) swap(students []models.Student, dirty bool) {
	s.mu.Lock()
	s.students = students
	s.dirty = s.dirty || dirty
	s.mu.Unlock()
}

// flush must be called with writeMu held. Writers are excluded, so the live
// slice can be handed to the persister without copying.
func (s *Store) flush(ctx context.Context) error {
	s.mu.RLock()
	dirty := s.dirty
	students := s.students
	s.mu.RUnlock()
	if !dirty {
		return nil
	}

	start := time.Now()
	err := s.persister.Save(ctx, students)
	if s.observer != nil {
		s.observer.ObservePersist(time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("persist snapshot failed, will retry", zap.Int("students", len(students)), zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
	return nil
}

func (s *Store) observeMutation(name, result string) {
	if s.observer != nil {
		s.observer.ObserveMutation(name, result)
	}
}
