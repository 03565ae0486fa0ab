package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/quadsim/latency"
	"github.com/sarchlab/quadsim/report"
	"github.com/sarchlab/quadsim/simulator"
	"github.com/sarchlab/quadsim/trace"
)

var (
	appName    string
	setBits    int
	assoc      int
	blockBits  int
	outputPath string
	seed       int64
	timingPath string
	recordPath string
)

// rootCmd is the quadsim command itself; there are no subcommands.
var rootCmd = &cobra.Command{
	Use:   "quadsim",
	Short: "Simulate a quad-core machine with MESI-coherent private L1 caches",
	Long: `Quadsim drives four cores in lockstep from per-core memory traces
named <app>_proc<i>.trace and reports per-core and bus statistics.`,
	SilenceUsage: true,
	RunE:         runSimulation,
}

func init() {
	rootCmd.Flags().StringVarP(&appName, "trace", "t", "",
		"application base name whose four traces are used")
	rootCmd.Flags().IntVarP(&setBits, "set-bits", "s", 0,
		"number of set index bits (sets = 2^s)")
	rootCmd.Flags().IntVarP(&assoc, "assoc", "E", 0,
		"associativity (cache lines per set)")
	rootCmd.Flags().IntVarP(&blockBits, "block-bits", "b", 0,
		"number of block bits (block size = 2^b bytes)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"write the report to a file instead of stdout")
	rootCmd.Flags().Int64Var(&seed, "seed", 0,
		"random seed recorded in the report (0 picks one)")
	rootCmd.Flags().StringVar(&timingPath, "timing", "",
		"JSON file overriding the default cycle costs")
	rootCmd.Flags().StringVar(&recordPath, "record", "",
		"record statistics to a SQLite database at this path")

	for _, name := range []string{"trace", "set-bits", "assoc", "block-bits"} {
		if err := rootCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

// Execute runs the root command, exiting non-zero on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	config := simulator.Config{
		App:       appName,
		SetBits:   setBits,
		Assoc:     assoc,
		BlockBits: blockBits,
		Seed:      seed,
	}

	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}

	if timingPath != "" {
		timing, err := latency.Load(timingPath)
		if err != nil {
			return err
		}
		config.Timing = timing
	}

	if err := config.Validate(); err != nil {
		cmd.SilenceUsage = false
		return err
	}

	traces, err := trace.OpenApp(config.App, simulator.NumCores)
	if err != nil {
		return err
	}
	defer traces.Close()

	sim, err := simulator.New(config, traces.Readers)
	if err != nil {
		return err
	}

	sim.Run()
	results := sim.Results()

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("could not open output file %s: %w", outputPath, err)
		}
		defer f.Close()
		out = f
	}

	if err := report.NewTextEmitter(out).Emit(results); err != nil {
		return err
	}

	if recordPath != "" {
		rec, err := report.NewRecorder(recordPath)
		if err != nil {
			return err
		}
		report.RecordResults(rec, results)
	}

	return nil
}
