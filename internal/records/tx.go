package records

import (
	"time"

	"github.com/noah-isme/eduscan-api/internal/models"
)

// Tx is the private working copy handed to a mutation by Store.Apply.
type Tx struct {
	students []models.Student
	now      func() time.Time
	ids      *IDGenerator
}

// NewTx wraps students for use outside a Store, mainly in tests.
func NewTx(students []models.Student, now func() time.Time) *Tx {
	if now == nil {
		now = time.Now
	}
	return &Tx{students: students, now: now, ids: NewIDGenerator(now)}
}

// Students exposes the working collection.
func (tx *Tx) Students() []models.Student {
	return tx.students
}

// Today is the current calendar date.
func (tx *Tx) Today() string {
	return tx.now().Format(models.DateLayout)
}

func (tx *Tx) indexByID(id string) int {
	for i := range tx.students {
		if tx.students[i].ID == id {
			return i
		}
	}
	return -1
}

func (tx *Tx) indexByIdentity(name, classGroup string) int {
	for i := range tx.students {
		if tx.students[i].Name == name && tx.students[i].ClassGroup == classGroup {
			return i
		}
	}
	return -1
}

func (tx *Tx) idTaken(id string) bool {
	return tx.indexByID(id) >= 0
}
