// Package core models a processor core driving its private L1 from a
// memory-reference trace.
//
// A core issues at most one reference per cycle. A miss stalls it until the
// cycle the transaction resolves; the stall is a counter, not a suspension.
package core

import (
	"github.com/sarchlab/quadsim/cache"
	"github.com/sarchlab/quadsim/trace"
)

// Stats holds the per-core execution counters.
type Stats struct {
	// TotalCycles counts cycles in which an instruction was issued.
	TotalCycles uint64

	// IdleCycles counts cycles spent stalled waiting for a miss to resolve.
	IdleCycles uint64

	// InstructionCount counts references consumed from the trace.
	InstructionCount uint64
}

// ExecutionTime returns the core's total execution time in cycles.
func (s Stats) ExecutionTime() uint64 {
	return s.TotalCycles + s.IdleCycles
}

// Core reads one trace and issues loads and stores to its cache.
type Core struct {
	id     int
	cache  *cache.Cache
	reader *trace.Reader

	stalled    bool
	stallUntil int

	stats Stats
}

// New creates a core with its cache and trace source. The cache handle is
// non-owning.
func New(id int, c *cache.Cache, r *trace.Reader) *Core {
	return &Core{
		id:     id,
		cache:  c,
		reader: r,
	}
}

// ID returns the core id.
func (c *Core) ID() int {
	return c.id
}

// Cache returns the core's L1.
func (c *Core) Cache() *cache.Cache {
	return c.cache
}

// Stats returns a snapshot of the execution counters.
func (c *Core) Stats() Stats {
	return c.stats
}

// Step advances the core by one cycle. It returns false once the trace is
// exhausted; a stalled or skipping core is still active.
func (c *Core) Step(currentCycle int) (active bool) {
	if c.stalled && currentCycle < c.stallUntil {
		c.stats.IdleCycles++
		return true
	}
	c.stalled = false

	inst, status := c.reader.Next()
	switch status {
	case trace.StatusEOF:
		return false
	case trace.StatusSkipped:
		return true
	}

	c.stats.InstructionCount++

	var hit bool
	var cyclesTaken int
	if inst.Op == trace.OpWrite {
		hit, cyclesTaken = c.cache.Write(inst.Addr, currentCycle)
	} else {
		hit, cyclesTaken = c.cache.Read(inst.Addr, currentCycle)
	}

	c.stats.TotalCycles++

	if !hit {
		c.stalled = true
		c.stallUntil = currentCycle + cyclesTaken
	}

	return true
}
