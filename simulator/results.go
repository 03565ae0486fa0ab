package simulator

// CoreResult is the final statistics snapshot of one core and its cache.
type CoreResult struct {
	CoreID           int
	ReadCount        uint64
	WriteCount       uint64
	InstructionCount uint64
	TotalCycles      uint64
	IdleCycles       uint64
	MissRate         float64
	Evictions        uint64
	Writebacks       uint64
}

// ExecutionTime returns the core's execution time in cycles.
func (r CoreResult) ExecutionTime() uint64 {
	return r.TotalCycles + r.IdleCycles
}

// Results aggregates everything the report needs from one run.
type Results struct {
	App            string
	SetBits        int
	Assoc          int
	BlockBits      int
	NumSets        int
	BlockSize      int
	CacheSizeBytes int
	Seed           int64

	Cores []CoreResult

	Invalidations    uint64
	DataTrafficBytes uint64

	// MaxExecutionTime is the slowest core's execution time.
	MaxExecutionTime uint64
}

// Results snapshots the run's statistics.
func (s *Simulator) Results() *Results {
	r := &Results{
		App:            s.config.App,
		SetBits:        s.config.SetBits,
		Assoc:          s.config.Assoc,
		BlockBits:      s.config.BlockBits,
		NumSets:        s.config.NumSets(),
		BlockSize:      s.config.BlockSize(),
		CacheSizeBytes: s.config.CacheSizeBytes(),
		Seed:           s.config.Seed,
	}

	for i, c := range s.cores {
		coreStats := c.Stats()
		cacheStats := s.caches[i].Stats()

		cr := CoreResult{
			CoreID:           i,
			ReadCount:        cacheStats.ReadCount,
			WriteCount:       cacheStats.WriteCount,
			InstructionCount: coreStats.InstructionCount,
			TotalCycles:      coreStats.TotalCycles,
			IdleCycles:       coreStats.IdleCycles,
			MissRate:         cacheStats.MissRate(),
			Evictions:        cacheStats.Evictions,
			Writebacks:       cacheStats.Writebacks,
		}
		r.Cores = append(r.Cores, cr)

		if cr.ExecutionTime() > r.MaxExecutionTime {
			r.MaxExecutionTime = cr.ExecutionTime()
		}
	}

	busStats := s.bus.Stats()
	r.Invalidations = busStats.Invalidations
	r.DataTrafficBytes = busStats.DataTrafficBytes

	return r
}
