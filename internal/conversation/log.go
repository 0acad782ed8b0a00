package conversation

import (
	"sync"

	"guardian/pkg/models"
)

// Log is the append-only conversation transcript. Insertion order is
// the display order and is never reordered.
type Log struct {
	mu    sync.Mutex
	turns []models.Turn
}

// NewLog creates a log pre-seeded with the given turns.
func NewLog(seed ...models.Turn) *Log {
	l := &Log{turns: make([]models.Turn, 0, len(seed)+16)}
	l.turns = append(l.turns, seed...)
	return l
}

// Append adds one turn to the end of the transcript.
func (l *Log) Append(turn models.Turn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn)
}

// Turns returns a copy of the transcript in append order.
func (l *Log) Turns() []models.Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of turns.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}
