// Package names implements the AAMP name-recovery table: a hash→string
// resolver that services the AAMP parser's human-readable export path.
// Hashes are one-way, so a Table can never be complete; it combines a cache
// of known strings with a heuristic guesser that reconstructs the common
// "numbered child" naming patterns BOTW's own tools generate.
package names

import (
	"sync"

	"github.com/switchtools/bgpak/internal/namehash"
)

// Table is safe for concurrent reads and writes. The only mutation is
// insert-if-absent, so a lookup that triggers a successful guess can safely
// upgrade to a write lock to cache it for subsequent callers.
type Table struct {
	mu                sync.RWMutex
	known             map[uint32]string
	numberedTemplates []string
}

// New returns an empty table with no known names and no numbered-name
// templates; guesses using "Children"/"Child" fallbacks still work.
func New() *Table {
	return &Table{known: make(map[uint32]string)}
}

// AddName inserts s into the table, keyed by its AAMP hash, if a string for
// that hash isn't already known.
func (t *Table) AddName(s string) {
	t.cache(namehash.Aamp(s), s)
}

// SetNumberedTemplates replaces the templates step 3 of the guess pipeline
// expands. Each template is expected to contain exactly one of
// %d/%02d/%03d/%04d/%u/%02u.
func (t *Table) SetNumberedTemplates(templates []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.numberedTemplates = templates
}

func (t *Table) lookupCached(hash uint32) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.known[hash]
	return s, ok
}

func (t *Table) cache(hash uint32, s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.known[hash]; !ok {
		t.known[hash] = s
	}
}

func (t *Table) templatesSnapshot() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.numberedTemplates
}

// GetName resolves hash to a string. It first consults the cache; on a
// miss, it runs the guess pipeline in §4.3's exact order, using index (the
// child's position within its parent) and parentHash (the parent's AAMP
// hash, itself looked up in the cache only — never guessed) as context. A
// successful guess is cached before being returned, so repeated lookups of
// the same hash are O(1) after the first.
func (t *Table) GetName(hash uint32, index int, parentHash uint32) (string, bool) {
	if s, ok := t.lookupCached(hash); ok {
		return s, true
	}
	parentName, parentKnown := t.lookupCached(parentHash)
	if s, ok := t.guess(hash, index, parentName, parentKnown); ok {
		t.cache(hash, s)
		return s, true
	}
	return "", false
}
