// Package tiles keeps the user's ordered list of tracked places.
package tiles

import (
	"fmt"

	"github.com/tilewx/backend/internal/models"
)

// List is an ordered set of entries with no two at the same coordinates.
// It is not safe for concurrent use.
type List struct {
	entries []models.LocationEntry
}

// NewList builds a list from entries, dropping later duplicates.
func NewList(entries []models.LocationEntry) *List {
	l := &List{}
	l.Replace(entries)
	return l
}

// Add appends entry unless a tile at the same coordinates already exists.
// It reports whether the entry was added.
func (l *List) Add(entry models.LocationEntry) bool {
	if l.indexOfPlace(entry) >= 0 {
		return false
	}
	l.entries = append(l.entries, entry)
	return true
}

// Remove deletes the entry with the given ID and reports whether it existed.
func (l *List) Remove(id string) bool {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Move relocates the entry at index from to index to, shifting the ones in between.
func (l *List) Move(from, to int) error {
	n := len(l.entries)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d -> %d out of range (len %d)", from, to, n)
	}
	if from == to {
		return nil
	}

	entry := l.entries[from]
	if from < to {
		copy(l.entries[from:to], l.entries[from+1:to+1])
	} else {
		copy(l.entries[to+1:from+1], l.entries[to:from])
	}
	l.entries[to] = entry
	return nil
}

// Replace swaps the contents for entries, e.g. after loading a share.
func (l *List) Replace(entries []models.LocationEntry) {
	l.entries = make([]models.LocationEntry, 0, len(entries))
	for _, e := range entries {
		l.Add(e)
	}
}

// Find returns the entry with the given ID.
func (l *List) Find(id string) (models.LocationEntry, bool) {
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.LocationEntry{}, false
}

// Entries returns a copy of the entries in display order.
func (l *List) Entries() []models.LocationEntry {
	out := make([]models.LocationEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of tiles.
func (l *List) Len() int {
	return len(l.entries)
}

func (l *List) indexOfPlace(entry models.LocationEntry) int {
	for i, e := range l.entries {
		if e.SamePlace(entry) {
			return i
		}
	}
	return -1
}
