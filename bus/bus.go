// Package bus models the shared snooping bus that serializes all coherence
// traffic between the private L1 caches.
//
// The bus owns no cache; it holds non-owning handles registered at
// construction time. Registration order is iteration order, which keeps
// multi-supplier snoops reproducible.
package bus

import (
	"github.com/sarchlab/quadsim/cache"
	"github.com/sarchlab/quadsim/latency"
)

// Stats holds the global bus counters.
type Stats struct {
	// Invalidations counts peer copies dropped from a valid shareable
	// state.
	Invalidations uint64

	// DataTrafficBytes counts bytes moved cache-to-cache. It grows by one
	// block for every snoop that supplies data.
	DataTrafficBytes uint64
}

// Bus broadcasts coherence transactions to all registered caches. It
// implements cache.Transactor.
type Bus struct {
	caches []*cache.Cache
	timing *latency.Config

	stats Stats
}

// New creates an empty bus.
func New(timing *latency.Config) *Bus {
	return &Bus{timing: timing}
}

// Register adds a cache to the snoop set. Caches must be registered in
// core-id order.
func (b *Bus) Register(c *cache.Cache) {
	b.caches = append(b.caches, c)
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	return b.stats
}

// ProcessRead broadcasts a read miss to every peer. If any peer supplies the
// block, the transfer cost is the maximum over the suppliers; 0 means the
// requester must fetch from memory.
func (b *Bus) ProcessRead(requesterID int, addr uint64) int {
	maxCycles := 0

	for _, c := range b.caches {
		if c.CoreID() == requesterID {
			continue
		}

		if cycles := c.SnoopRead(addr); cycles > maxCycles {
			maxCycles = cycles
		}
	}

	return maxCycles
}

// ProcessWrite broadcasts a write miss: first the acquisition phase, which
// snoops every peer for the data exactly as a read does, then the
// invalidation phase, which drops every remaining peer copy. The phases must
// not interleave; a Modified owner is downgraded to Shared by the first
// phase before the second sees it.
func (b *Bus) ProcessWrite(requesterID int, addr uint64) int {
	maxCycles := 0

	for _, c := range b.caches {
		if c.CoreID() == requesterID {
			continue
		}

		if cycles := c.SnoopRead(addr); cycles > maxCycles {
			maxCycles = cycles
		}
	}

	for _, c := range b.caches {
		if c.CoreID() == requesterID {
			continue
		}

		c.SnoopWrite(addr)
	}

	return maxCycles
}

// ProcessUpgrade broadcasts an upgrade, dropping peer Shared copies. No data
// moves; the cost is the fixed bus transaction overhead.
func (b *Bus) ProcessUpgrade(requesterID int, addr uint64) int {
	for _, c := range b.caches {
		if c.CoreID() == requesterID {
			continue
		}

		c.SnoopUpgrade(addr)
	}

	return b.timing.UpgradeLatency
}

// AddDataTraffic accounts bytes supplied cache-to-cache. Called from snoop
// handlers while a transaction is on the bus.
func (b *Bus) AddDataTraffic(bytes int) {
	b.stats.DataTrafficBytes += uint64(bytes)
}

// AddInvalidation accounts one peer copy invalidated by a snoop.
func (b *Bus) AddInvalidation() {
	b.stats.Invalidations++
}
