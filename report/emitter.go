// Package report renders simulation results: a plain-text report for humans
// and an optional SQLite recording for plotting and comparison runs.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sarchlab/quadsim/simulator"
)

// Emitter writes a results report somewhere.
type Emitter interface {
	Emit(r *simulator.Results) error
}

// TextEmitter renders the plain-text report.
type TextEmitter struct {
	w io.Writer
}

// NewTextEmitter creates a TextEmitter writing to w.
func NewTextEmitter(w io.Writer) *TextEmitter {
	return &TextEmitter{w: w}
}

// Emit writes the header, the per-core table, and the global section.
func (e *TextEmitter) Emit(r *simulator.Results) error {
	w := bufio.NewWriter(e.w)

	fmt.Fprintf(w, "Cache Simulator Results for %s\n", r.App)
	fmt.Fprintf(w, "===================================\n")
	fmt.Fprintf(w, "Cache parameters:\n")
	fmt.Fprintf(w, "  Set bits (s): %d (Sets: %d)\n", r.SetBits, r.NumSets)
	fmt.Fprintf(w, "  Associativity (E): %d\n", r.Assoc)
	fmt.Fprintf(w, "  Block bits (b): %d (Block size: %d bytes)\n", r.BlockBits, r.BlockSize)
	fmt.Fprintf(w, "  Total cache size per core: %d bytes\n", r.CacheSizeBytes)
	fmt.Fprintf(w, "  Random seed: %d\n\n", r.Seed)

	fmt.Fprintf(w, "Per-core Statistics:\n")
	fmt.Fprintf(w, "-------------------\n")
	fmt.Fprintf(w, "%10s%15s%15s%15s%15s%15s%15s%15s%15s\n",
		"Core ID", "Read Instr", "Write Instr", "Total Instr",
		"Total Cycles", "Idle Cycles", "Miss Rate", "Evictions", "Writebacks")

	for _, cr := range r.Cores {
		fmt.Fprintf(w, "%10d%15d%15d%15d%15d%15d%15.4f%15d%15d\n",
			cr.CoreID, cr.ReadCount, cr.WriteCount, cr.InstructionCount,
			cr.TotalCycles, cr.IdleCycles, cr.MissRate,
			cr.Evictions, cr.Writebacks)
	}

	fmt.Fprintf(w, "\nGlobal Statistics:\n")
	fmt.Fprintf(w, "-----------------\n")
	fmt.Fprintf(w, "Invalidations on bus: %d\n", r.Invalidations)
	fmt.Fprintf(w, "Data traffic on bus: %d bytes\n", r.DataTrafficBytes)
	fmt.Fprintf(w, "Maximum execution time: %d cycles\n", r.MaxExecutionTime)

	return w.Flush()
}
