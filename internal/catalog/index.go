package catalog

import (
	"sync/atomic"
	"time"

	"shade-match/internal/region"
)

// snapshot is an immutable, fully built view of the catalog.
type snapshot struct {
	entries    []Entry
	byCategory map[region.Kind][]Entry
	builtAt    time.Time
}

// Index is a catalog that many goroutines may read while another reloads it.
// Readers see either the old or the new snapshot, never a partial one.
type Index struct {
	current atomic.Pointer[snapshot]
}

// NewIndex builds an index over entries.
func NewIndex(entries []Entry) *Index {
	ix := &Index{}
	ix.Reload(entries)
	return ix
}

// Reload builds a new snapshot from entries and publishes it.
func (ix *Index) Reload(entries []Entry) {
	ix.current.Store(build(entries))
}

func build(entries []Entry) *snapshot {
	s := &snapshot{
		entries:    make([]Entry, len(entries)),
		byCategory: make(map[region.Kind][]Entry),
		builtAt:    time.Now(),
	}
	for i, e := range entries {
		e.annotate(i)
		s.entries[i] = e
		s.byCategory[e.Category] = append(s.byCategory[e.Category], e)
	}
	return s
}

func (ix *Index) load() *snapshot {
	if s := ix.current.Load(); s != nil {
		return s
	}
	return &snapshot{}
}

// Category returns the entries for kind in insertion order. The slice is
// shared by all readers and must not be modified.
func (ix *Index) Category(kind region.Kind) []Entry {
	return ix.load().byCategory[kind]
}

// All returns every entry in insertion order. The slice must not be modified.
func (ix *Index) All() []Entry {
	return ix.load().entries
}

// Len returns the number of entries.
func (ix *Index) Len() int {
	return len(ix.load().entries)
}

// Categories returns the count of entries per category.
func (ix *Index) Categories() map[region.Kind]int {
	counts := make(map[region.Kind]int)
	for k, v := range ix.load().byCategory {
		counts[k] = len(v)
	}
	return counts
}

// BuiltAt returns when the current snapshot was published.
func (ix *Index) BuiltAt() time.Time {
	return ix.load().builtAt
}
