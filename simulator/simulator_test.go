package simulator_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/quadsim/cache"
	"github.com/sarchlab/quadsim/mesi"
	"github.com/sarchlab/quadsim/simulator"
	"github.com/sarchlab/quadsim/trace"
)

// newSim builds a simulator over in-memory traces with the s=1, E=2, b=2
// geometry: 2 sets, 2 ways, 4-byte blocks.
func newSim(traces [simulator.NumCores]string) *simulator.Simulator {
	config := simulator.Config{
		App:       "test",
		SetBits:   1,
		Assoc:     2,
		BlockBits: 2,
	}

	readers := make([]*trace.Reader, simulator.NumCores)
	for i, text := range traces {
		readers[i] = trace.NewReader("test", strings.NewReader(text),
			trace.WithWarningWriter(GinkgoWriter))
	}

	sim, err := simulator.New(config, readers)
	Expect(err).NotTo(HaveOccurred())
	return sim
}

func cacheOf(sim *simulator.Simulator, coreID int) *cache.Cache {
	return sim.Cores()[coreID].Cache()
}

var _ = Describe("Simulator", func() {
	It("should reject an invalid config", func() {
		_, err := simulator.New(simulator.Config{App: "x"}, nil)
		Expect(err).To(HaveOccurred())
	})

	It("should terminate immediately on empty traces", func() {
		sim := newSim([simulator.NumCores]string{})

		sim.Run()

		Expect(sim.CurrentCycle()).To(BeZero())

		results := sim.Results()
		for _, cr := range results.Cores {
			Expect(cr.InstructionCount).To(BeZero())
			Expect(cr.TotalCycles).To(BeZero())
			Expect(cr.IdleCycles).To(BeZero())
		}
		Expect(results.Invalidations).To(BeZero())
		Expect(results.DataTrafficBytes).To(BeZero())
		Expect(results.MaxExecutionTime).To(BeZero())
	})

	It("should serve a cold read from memory as Exclusive", func() {
		sim := newSim([simulator.NumCores]string{"R 0x0\n"})

		sim.Run()

		state, ok := cacheOf(sim, 0).State(0x0)
		Expect(ok).To(BeTrue())
		Expect(state).To(Equal(mesi.Exclusive))

		results := sim.Results()
		Expect(results.Cores[0].ReadCount).To(Equal(uint64(1)))
		Expect(results.Cores[0].MissRate).To(Equal(1.0))
		Expect(results.Cores[0].Evictions).To(BeZero())
		Expect(results.Cores[0].Writebacks).To(BeZero())
		Expect(results.Invalidations).To(BeZero())
		Expect(results.DataTrafficBytes).To(BeZero())

		// Issue cycle plus a 99-cycle stall tail.
		Expect(results.Cores[0].TotalCycles).To(Equal(uint64(1)))
		Expect(results.Cores[0].IdleCycles).To(Equal(uint64(99)))
		Expect(results.MaxExecutionTime).To(Equal(uint64(100)))
	})

	It("should share a block read by two cores", func() {
		sim := newSim([simulator.NumCores]string{"R 0x0\n", "R 0x0\n"})

		sim.Run()

		// Core 0 issues first in the cycle and fills from memory; core 1's
		// miss in the same cycle is supplied by core 0.
		state0, _ := cacheOf(sim, 0).State(0x0)
		state1, _ := cacheOf(sim, 1).State(0x0)
		Expect(state0).To(Equal(mesi.Shared))
		Expect(state1).To(Equal(mesi.Shared))

		results := sim.Results()
		Expect(results.DataTrafficBytes).To(Equal(uint64(4)))
		Expect(results.Invalidations).To(BeZero())
	})

	It("should invalidate both sharers on a third core's write", func() {
		sim := newSim([simulator.NumCores]string{
			"R 0x0\n", "R 0x0\n", "W 0x0\n",
		})

		sim.Run()

		_, ok := cacheOf(sim, 0).State(0x0)
		Expect(ok).To(BeFalse())
		_, ok = cacheOf(sim, 1).State(0x0)
		Expect(ok).To(BeFalse())

		state2, _ := cacheOf(sim, 2).State(0x0)
		Expect(state2).To(Equal(mesi.Modified))

		results := sim.Results()
		Expect(results.Invalidations).To(Equal(uint64(2)))
		// One supply for core 1's read, two more in the write's
		// acquisition phase.
		Expect(results.DataTrafficBytes).To(Equal(uint64(12)))
	})

	It("should upgrade a sharer in place and drop the peer copy", func() {
		sim := newSim([simulator.NumCores]string{
			"R 0x0\nW 0x0\n", "R 0x0\n",
		})

		sim.Run()

		state0, _ := cacheOf(sim, 0).State(0x0)
		Expect(state0).To(Equal(mesi.Modified))
		_, ok := cacheOf(sim, 1).State(0x0)
		Expect(ok).To(BeFalse())

		results := sim.Results()
		Expect(results.Invalidations).To(Equal(uint64(1)))
		Expect(results.DataTrafficBytes).To(Equal(uint64(4)))

		// The upgrade is a hit: no extra stall beyond the read miss.
		Expect(results.Cores[0].TotalCycles).To(Equal(uint64(2)))
		Expect(results.Cores[0].IdleCycles).To(Equal(uint64(99)))
	})

	It("should write back the dirty victim of a full set", func() {
		sim := newSim([simulator.NumCores]string{
			"W 0x00\nW 0x10\nW 0x20\n",
		})

		sim.Run()

		results := sim.Results()
		Expect(results.Cores[0].Evictions).To(Equal(uint64(1)))
		Expect(results.Cores[0].Writebacks).To(Equal(uint64(1)))

		// Two plain misses stall 99 cycles each; the third pays the
		// 100-cycle writeback on top of the memory fetch.
		Expect(results.Cores[0].TotalCycles).To(Equal(uint64(3)))
		Expect(results.Cores[0].IdleCycles).To(Equal(uint64(99 + 99 + 199)))
		Expect(results.MaxExecutionTime).To(Equal(uint64(400)))
	})

	It("should miss then hit on back-to-back reads of one address", func() {
		sim := newSim([simulator.NumCores]string{"R 0x40\nR 0x40\n"})

		sim.Run()

		results := sim.Results()
		Expect(results.Cores[0].ReadCount).To(Equal(uint64(2)))
		Expect(results.Cores[0].MissRate).To(Equal(0.5))
	})

	It("should keep the coherence invariants across a contended run", func() {
		sim := newSim([simulator.NumCores]string{
			"R 0x0\nW 0x0\nR 0x10\n",
			"R 0x0\nR 0x10\nW 0x10\n",
			"W 0x0\nR 0x10\n",
			"R 0x20\nW 0x20\nR 0x0\n",
		})

		sim.Run()

		for _, addr := range []uint64{0x0, 0x10, 0x20} {
			modified := 0
			exclusive := 0
			valid := 0

			for id := 0; id < simulator.NumCores; id++ {
				state, ok := cacheOf(sim, id).State(addr)
				if !ok {
					continue
				}
				valid++
				switch state {
				case mesi.Modified:
					modified++
				case mesi.Exclusive:
					exclusive++
				}
			}

			Expect(modified).To(BeNumerically("<=", 1))
			if modified == 1 || exclusive == 1 {
				Expect(valid).To(Equal(1))
			}
		}

		results := sim.Results()
		for id := 0; id < simulator.NumCores; id++ {
			cacheStats := cacheOf(sim, id).Stats()
			Expect(cacheStats.ReadMisses).To(BeNumerically("<=", cacheStats.ReadCount))
			Expect(cacheStats.WriteMisses).To(BeNumerically("<=", cacheStats.WriteCount))
			Expect(cacheStats.Writebacks).To(BeNumerically("<=", cacheStats.Evictions))

			cacheOf(sim, id).ForEachLine(func(l cache.Line) {
				if !l.Valid {
					Expect(l.State).To(Equal(mesi.Invalid))
				}
				if l.Dirty {
					Expect(l.State).To(Equal(mesi.Modified))
				}
			})
		}
		Expect(results.DataTrafficBytes % 4).To(BeZero())
	})

	It("should skip malformed lines without touching statistics", func() {
		sim := newSim([simulator.NumCores]string{
			"R 0x0\n\ngarbage\nR 0x0\n",
		})

		sim.Run()

		results := sim.Results()
		Expect(results.Cores[0].InstructionCount).To(Equal(uint64(2)))
		Expect(results.Cores[0].ReadCount).To(Equal(uint64(2)))
	})
})
