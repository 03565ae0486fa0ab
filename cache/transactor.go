package cache

// Transactor is the bus as a cache sees it. Local misses and upgrades go
// through the Process methods, which snoop the peer caches and return the
// bus cycles consumed (0 from ProcessRead/ProcessWrite means no peer
// supplied the block and the fill comes from memory). The accounting methods
// are called from within snoop handlers, which run while a peer's
// transaction holds the bus.
type Transactor interface {
	// ProcessRead broadcasts a read miss. Returns the cache-to-cache
	// transfer cycles, or 0 if the block must be fetched from memory.
	ProcessRead(requesterID int, addr uint64) int

	// ProcessWrite broadcasts a write miss: data acquisition first, then
	// invalidation of all peer copies. Returns transfer cycles as
	// ProcessRead does.
	ProcessWrite(requesterID int, addr uint64) int

	// ProcessUpgrade broadcasts an upgrade of a Shared line. Returns the
	// bus transaction overhead.
	ProcessUpgrade(requesterID int, addr uint64) int

	// AddDataTraffic accounts bytes moved cache-to-cache.
	AddDataTraffic(bytes int)

	// AddInvalidation accounts one peer copy leaving a valid shareable
	// state.
	AddInvalidation()
}
