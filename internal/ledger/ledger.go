// Package ledger records every value the staging pipeline generated during a
// run, one append-only sequence per field.
package ledger

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cbo-qa/cbo-smoke/internal/models"
)

type Ledger struct {
	runID   uuid.UUID
	mu      sync.RWMutex
	entries map[models.LedgerField][]string
}

func New() *Ledger {
	return &Ledger{
		runID:   uuid.New(),
		entries: make(map[models.LedgerField][]string),
	}
}

// RunID identifies the run that owns this ledger.
func (l *Ledger) RunID() uuid.UUID {
	return l.runID
}

func (l *Ledger) Append(field models.LedgerField, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[field] = append(l.entries[field], value)
}

// Record appends all entries under a single lock so readers never observe
// a partially recorded insertion.
func (l *Ledger) Record(entries []models.LedgerEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range entries {
		l.entries[e.Field] = append(l.entries[e.Field], e.Value)
	}
}

// Last returns the most recently recorded value for field.
func (l *Ledger) Last(field models.LedgerField) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	values := l.entries[field]
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

func (l *Ledger) Values(field models.LedgerField) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	values := l.entries[field]
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func (l *Ledger) Len(field models.LedgerField) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries[field])
}

// Snapshot copies every sequence.
func (l *Ledger) Snapshot() map[models.LedgerField][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[models.LedgerField][]string, len(l.entries))
	for k, v := range l.entries {
		c := make([]string, len(v))
		copy(c, v)
		out[k] = c
	}
	return out
}

// Reset drops every recorded value. The run ID is kept.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[models.LedgerField][]string)
}
