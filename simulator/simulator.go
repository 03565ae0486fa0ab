// Package simulator wires the caches, bus, and cores together and drives
// them in lockstep.
//
// All four cores advance at one-cycle granularity. Within a cycle, cores are
// stepped in ascending id order, so the coherence effects of a lower-id
// core's transaction are visible to higher-id cores issuing in the same
// cycle. The engine is single-threaded; concurrency is modeled, never real.
package simulator

import (
	"fmt"

	"github.com/sarchlab/quadsim/bus"
	"github.com/sarchlab/quadsim/cache"
	"github.com/sarchlab/quadsim/core"
	"github.com/sarchlab/quadsim/trace"
)

// Simulator owns the bus, the caches, and the cores for one run.
type Simulator struct {
	config Config

	bus    *bus.Bus
	caches []*cache.Cache
	cores  []*core.Core

	currentCycle int
}

// New builds a simulator from a validated config and one trace reader per
// core.
func New(config Config, readers []*trace.Reader) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(readers) != NumCores {
		return nil, fmt.Errorf("need %d trace readers, got %d", NumCores, len(readers))
	}

	timing := config.timing()

	s := &Simulator{config: config}
	s.bus = bus.New(timing)

	for i := 0; i < NumCores; i++ {
		c := cache.New(i, config.SetBits, config.Assoc, config.BlockBits, s.bus, timing)
		s.bus.Register(c)
		s.caches = append(s.caches, c)
		s.cores = append(s.cores, core.New(i, c, readers[i]))
	}

	return s, nil
}

// Run drives the cycle loop until every core has drained its trace.
func (s *Simulator) Run() {
	for {
		allDone := true

		for _, c := range s.cores {
			if c.Step(s.currentCycle) {
				allDone = false
			}
		}

		if allDone {
			return
		}

		s.currentCycle++
	}
}

// CurrentCycle returns the cycle the engine halted at.
func (s *Simulator) CurrentCycle() int {
	return s.currentCycle
}

// Cores returns the cores in id order.
func (s *Simulator) Cores() []*core.Core {
	return s.cores
}

// Bus returns the shared bus.
func (s *Simulator) Bus() *bus.Bus {
	return s.bus
}
