// Package reminders holds the in-memory fallback reminder list used when no
// calendar account is configured. Records live for the process lifetime only;
// non-persistence is deliberate.
package reminders

import (
	"sync"
	"time"
)

// Record is one stored reminder. Records are append-only: never mutated or
// deleted once stored.
type Record struct {
	Title     string
	DateText  string
	TimeText  string
	Notes     string
	CreatedAt time.Time
}

// Store is a process-lifetime, mutex-guarded append-only list. Safe for
// concurrent append and snapshot reads from independent turns.
type Store struct {
	mu      sync.Mutex
	records []Record
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add appends a reminder and returns the stored record.
func (s *Store) Add(title, dateText, timeText, notes string) Record {
	rec := Record{
		Title:     title,
		DateText:  dateText,
		TimeText:  timeText,
		Notes:     notes,
		CreatedAt: s.now(),
	}
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
	return rec
}

// All returns a snapshot copy of the stored records in insertion order.
func (s *Store) All() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
