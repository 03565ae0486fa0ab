// Package main provides the entry point for quadsim.
// Quadsim is a cycle-driven simulator of a four-core shared-memory machine
// whose private L1 caches stay coherent over a snooping MESI bus.
//
// For the full CLI, use: go run ./cmd/quadsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("Quadsim - Quad-Core MESI Cache Simulator")
	fmt.Println("")
	fmt.Println("Usage: quadsim -t <app> -s <int> -E <int> -b <int> [-o <path>]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -t <app>   application base name whose four traces are used")
	fmt.Println("  -s <int>   number of set index bits (sets = 2^s)")
	fmt.Println("  -E <int>   associativity (cache lines per set)")
	fmt.Println("  -b <int>   number of block bits (block size = 2^b bytes)")
	fmt.Println("  -o <path>  write the report to a file instead of stdout")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/quadsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/quadsim' instead.")
	}
}
