// Package cache models a private write-back L1 cache kept coherent with its
// peers through a snooping bus running the MESI protocol.
//
// A Cache serves the local core's loads and stores through Read and Write,
// and serves the bus through the Snoop methods, which peers' transactions
// invoke. Local operations return the cycle cost of the access; stalling for
// that cost is the core's job.
package cache

import (
	"github.com/sarchlab/quadsim/latency"
	"github.com/sarchlab/quadsim/mesi"
)

// Stats holds the monotonic access counters of one cache.
type Stats struct {
	ReadCount   uint64
	WriteCount  uint64
	ReadMisses  uint64
	WriteMisses uint64
	Evictions   uint64
	Writebacks  uint64
}

// Accesses returns the total number of reads and writes.
func (s Stats) Accesses() uint64 {
	return s.ReadCount + s.WriteCount
}

// MissRate returns misses over accesses, or 0 for an untouched cache.
func (s Stats) MissRate() float64 {
	accesses := s.Accesses()
	if accesses == 0 {
		return 0
	}
	return float64(s.ReadMisses+s.WriteMisses) / float64(accesses)
}

// Cache is one core's private L1.
type Cache struct {
	coreID    int
	setBits   int
	blockBits int
	numSets   int
	assoc     int
	blockSize int

	sets   []Set
	bus    Transactor
	timing *latency.Config

	stats Stats
}

// New creates a cache with 2^setBits sets of assoc ways and 2^blockBits-byte
// blocks. The bus handle is non-owning; the bus learns about this cache
// through its own registration.
func New(coreID, setBits, assoc, blockBits int, bus Transactor, timing *latency.Config) *Cache {
	numSets := 1 << setBits

	c := &Cache{
		coreID:    coreID,
		setBits:   setBits,
		blockBits: blockBits,
		numSets:   numSets,
		assoc:     assoc,
		blockSize: 1 << blockBits,
		bus:       bus,
		timing:    timing,
		sets:      make([]Set, numSets),
	}

	for i := range c.sets {
		c.sets[i] = NewSet(assoc)
	}

	return c
}

// CoreID returns the id of the owning core.
func (c *Cache) CoreID() int {
	return c.coreID
}

// BlockSize returns the block size in bytes.
func (c *Cache) BlockSize() int {
	return c.blockSize
}

// NumSets returns the number of sets.
func (c *Cache) NumSets() int {
	return c.numSets
}

// Assoc returns the associativity.
func (c *Cache) Assoc() int {
	return c.assoc
}

// Stats returns a snapshot of the access counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

// decode splits an address into its tag and set index.
func (c *Cache) decode(addr uint64) (tag uint64, setIdx int) {
	setIdx = int((addr >> c.blockBits) & uint64(c.numSets-1))
	tag = addr >> (c.blockBits + c.setBits)
	return tag, setIdx
}

// Read serves a load at the given cycle. It returns whether the access hit
// and the cycles it takes to complete.
func (c *Cache) Read(addr uint64, cycle int) (hit bool, cyclesTaken int) {
	c.stats.ReadCount++

	tag, setIdx := c.decode(addr)
	set := &c.sets[setIdx]

	if line := set.FindLine(tag); line != nil && line.State != mesi.Invalid {
		set.UpdateLRU(line, cycle)
		return true, c.timing.HitLatency
	}

	c.stats.ReadMisses++

	busCycles := c.bus.ProcessRead(c.coreID, addr)

	line, kind := set.FindReplacement()
	cyclesTaken = c.displace(kind)

	line.Valid = true
	line.Tag = tag
	line.Dirty = false
	if busCycles > 0 {
		// A peer supplied the block, so at least one other copy exists.
		cyclesTaken += busCycles
		line.State = mesi.Shared
	} else {
		cyclesTaken += c.timing.MemoryLatency
		line.State = mesi.Exclusive
	}
	set.UpdateLRU(line, cycle)

	return false, cyclesTaken
}

// Write serves a store at the given cycle. It returns whether the access hit
// and the cycles it takes to complete.
func (c *Cache) Write(addr uint64, cycle int) (hit bool, cyclesTaken int) {
	c.stats.WriteCount++

	tag, setIdx := c.decode(addr)
	set := &c.sets[setIdx]

	if line := set.FindLine(tag); line != nil && line.State != mesi.Invalid {
		return true, c.writeHit(set, line, addr, cycle)
	}

	c.stats.WriteMisses++

	busCycles := c.bus.ProcessWrite(c.coreID, addr)

	line, kind := set.FindReplacement()
	cyclesTaken = c.displace(kind)

	if busCycles > 0 {
		cyclesTaken += busCycles
	} else {
		cyclesTaken += c.timing.MemoryLatency
	}

	line.Valid = true
	line.Tag = tag
	line.State = mesi.Modified
	line.Dirty = true
	set.UpdateLRU(line, cycle)

	return false, cyclesTaken
}

func (c *Cache) writeHit(set *Set, line *Line, addr uint64, cycle int) int {
	set.UpdateLRU(line, cycle)
	cyclesTaken := c.timing.HitLatency

	switch line.State {
	case mesi.Modified:
		// Already owned, nothing on the bus.
	case mesi.Exclusive:
		// Silent promotion.
		line.State = mesi.Modified
		line.Dirty = true
	case mesi.Shared:
		cyclesTaken += c.bus.ProcessUpgrade(c.coreID, addr)
		line.State = mesi.Modified
		line.Dirty = true
	}

	return cyclesTaken
}

// displace accounts for the line chosen by FindReplacement and returns the
// writeback penalty, if any.
func (c *Cache) displace(kind EvictionKind) int {
	switch kind {
	case EvictionClean:
		c.stats.Evictions++
		return 0
	case EvictionDirty:
		c.stats.Evictions++
		c.stats.Writebacks++
		return c.timing.WritebackLatency
	default:
		return 0
	}
}

// SnoopRead reacts to a peer's read on the bus. If this cache holds the
// block, it supplies it: the data-transfer cost is returned, the bus traffic
// counter grows by one block, and a Modified or Exclusive copy downgrades to
// Shared. Returns 0 when this cache holds nothing.
func (c *Cache) SnoopRead(addr uint64) (transferCycles int) {
	tag, setIdx := c.decode(addr)

	line := c.sets[setIdx].FindLine(tag)
	if line == nil {
		return 0
	}

	next, supplies := mesi.OnSnoopRead(line.State)
	if !supplies {
		return 0
	}

	line.State = next
	line.Dirty = false
	c.bus.AddDataTraffic(c.blockSize)

	return c.timing.TransferLatency(c.blockSize)
}

// SnoopWrite reacts to a peer's write on the bus by dropping any shareable
// copy of the block. A Modified copy never reaches this point within a write
// transaction: the transaction's acquisition phase has already downgraded it
// to Shared.
func (c *Cache) SnoopWrite(addr uint64) {
	tag, setIdx := c.decode(addr)

	line := c.sets[setIdx].FindLine(tag)
	if line == nil {
		return
	}

	_, invalidated := mesi.OnSnoopWrite(line.State)
	if !invalidated {
		return
	}

	line.Invalidate()
	c.bus.AddInvalidation()
}

// SnoopUpgrade reacts to a peer's upgrade by dropping a Shared copy of the
// block.
func (c *Cache) SnoopUpgrade(addr uint64) {
	tag, setIdx := c.decode(addr)

	line := c.sets[setIdx].FindLine(tag)
	if line == nil {
		return
	}

	_, invalidated := mesi.OnSnoopUpgrade(line.State)
	if !invalidated {
		return
	}

	line.Invalidate()
	c.bus.AddInvalidation()
}

// State returns the coherence state of the line holding addr and whether
// such a line exists.
func (c *Cache) State(addr uint64) (mesi.State, bool) {
	tag, setIdx := c.decode(addr)

	line := c.sets[setIdx].FindLine(tag)
	if line == nil {
		return mesi.Invalid, false
	}
	return line.State, true
}

// ForEachLine calls fn with a copy of every line in the cache, in set then
// way order.
func (c *Cache) ForEachLine(fn func(Line)) {
	for s := range c.sets {
		for w := 0; w < c.sets[s].Ways(); w++ {
			fn(*c.sets[s].Line(w))
		}
	}
}
