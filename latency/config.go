// Package latency holds the timing parameters of the memory system.
package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the cycle costs used by the caches and the bus.
type Config struct {
	// HitLatency is the cost of an L1 hit. Default: 1 cycle.
	HitLatency int `json:"hit_latency"`

	// MemoryLatency is the cost of fetching a block from main memory when no
	// peer cache supplies it. Default: 100 cycles.
	MemoryLatency int `json:"memory_latency"`

	// WritebackLatency is the cost of flushing a dirty evicted block to main
	// memory. Default: 100 cycles.
	WritebackLatency int `json:"writeback_latency"`

	// UpgradeLatency is the bus overhead of an upgrade transaction. No data
	// moves; the cost covers winning the bus. Default: 2 cycles.
	UpgradeLatency int `json:"upgrade_latency"`

	// WordTransferLatency is the cost of moving one word cache-to-cache over
	// the bus. Default: 2 cycles.
	WordTransferLatency int `json:"word_transfer_latency"`

	// WordBytes is the bus word size. Default: 4 bytes.
	WordBytes int `json:"word_bytes"`
}

// Default returns the Config used when no timing file is given.
func Default() *Config {
	return &Config{
		HitLatency:          1,
		MemoryLatency:       100,
		WritebackLatency:    100,
		UpgradeLatency:      2,
		WordTransferLatency: 2,
		WordBytes:           4,
	}
}

// Load reads a Config from a JSON file. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save writes the Config to a JSON file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all cycle costs are usable.
func (c *Config) Validate() error {
	if c.HitLatency <= 0 {
		return fmt.Errorf("hit_latency must be > 0")
	}
	if c.MemoryLatency <= 0 {
		return fmt.Errorf("memory_latency must be > 0")
	}
	if c.WritebackLatency <= 0 {
		return fmt.Errorf("writeback_latency must be > 0")
	}
	if c.UpgradeLatency <= 0 {
		return fmt.Errorf("upgrade_latency must be > 0")
	}
	if c.WordTransferLatency <= 0 {
		return fmt.Errorf("word_transfer_latency must be > 0")
	}
	if c.WordBytes <= 0 || c.WordBytes&(c.WordBytes-1) != 0 {
		return fmt.Errorf("word_bytes must be a power of two")
	}
	return nil
}

// TransferLatency returns the cost of supplying one block of blockSize bytes
// cache-to-cache over the bus.
func (c *Config) TransferLatency(blockSize int) int {
	return c.WordTransferLatency * (blockSize / c.WordBytes)
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
