// Package ids hands out millisecond-timestamp identifiers for locally
// authored records.
package ids

import (
	"sync"
	"time"
)

// Generator never returns the same id twice; when the clock has not moved
// past the previous id it returns previous+1.
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock is used by tests to pin time.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Observe raises the floor so ids stay above ones already persisted.
func (g *Generator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}

func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
