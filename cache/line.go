package cache

import (
	"github.com/sarchlab/quadsim/mesi"
)

// Line is the metadata of one cache block. Blocks carry no data bytes; only
// the tag and coherence state matter for the simulation.
type Line struct {
	Valid bool
	Tag   uint64
	State mesi.State

	// Dirty marks a block that must be written back on eviction. On a valid
	// line, Dirty implies State == mesi.Modified.
	Dirty bool

	// LastAccess is the cycle stamp used for LRU replacement.
	LastAccess int
}

// Invalidate clears the line back to its cold state. The storage itself is
// reused in place across evictions.
func (l *Line) Invalidate() {
	l.Valid = false
	l.State = mesi.Invalid
	l.Dirty = false
}
