// Package main provides the entry point for quadsim, a cycle-driven
// simulator of a four-core machine with MESI-coherent private L1 caches.
package main

import (
	"github.com/tebeka/atexit"
)

func main() {
	Execute()
	atexit.Exit(0)
}
