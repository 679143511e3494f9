package records

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator issues student ids of the form <classGroup>-<base36 millis>.
// The time component never repeats within a process even when the clock
// stalls or steps back.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDGenerator returns a generator reading the given clock.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id for classGroup that taken reports as unused.
func (g *IDGenerator) Next(classGroup string, taken func(string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		ms := g.now().UnixMilli()
		if ms <= g.last {
			ms = g.last + 1
		}
		g.last = ms
		id := classGroup + "-" + strconv.FormatInt(ms, 36)
		if taken == nil || !taken(id) {
			return id
		}
	}
}
