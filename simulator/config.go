package simulator

import (
	"fmt"

	"github.com/sarchlab/quadsim/latency"
)

// NumCores is the number of cores in the simulated machine.
const NumCores = 4

// Config holds the simulated cache geometry and run parameters.
type Config struct {
	// App is the application base name the traces were taken from.
	App string

	// SetBits is s: the cache has 2^s sets.
	SetBits int

	// Assoc is E: lines per set.
	Assoc int

	// BlockBits is b: blocks are 2^b bytes.
	BlockBits int

	// Seed is recorded in the report. Replacement tie-breaking is
	// deterministic, so nothing consumes it yet.
	Seed int64

	// Timing overrides the default cycle costs when non-nil.
	Timing *latency.Config
}

// Validate checks the required parameters.
func (c *Config) Validate() error {
	if c.App == "" {
		return fmt.Errorf("application name is required")
	}
	if c.SetBits <= 0 {
		return fmt.Errorf("set-index bits must be > 0, got %d", c.SetBits)
	}
	if c.Assoc <= 0 {
		return fmt.Errorf("associativity must be > 0, got %d", c.Assoc)
	}
	if c.BlockBits <= 0 {
		return fmt.Errorf("block bits must be > 0, got %d", c.BlockBits)
	}
	if c.Timing != nil {
		if err := c.Timing.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NumSets returns 2^SetBits.
func (c *Config) NumSets() int {
	return 1 << c.SetBits
}

// BlockSize returns the block size in bytes.
func (c *Config) BlockSize() int {
	return 1 << c.BlockBits
}

// CacheSizeBytes returns the per-core cache capacity in bytes.
func (c *Config) CacheSizeBytes() int {
	return c.NumSets() * c.Assoc * c.BlockSize()
}

func (c *Config) timing() *latency.Config {
	if c.Timing != nil {
		return c.Timing
	}
	return latency.Default()
}
