package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for the opcode classes of the word
// machine. The defaults approximate a modern out-of-order core; all values
// are configurable via JSON.
type TimingConfig struct {
	// ALULatency covers register moves, immediates, add/sub and
	// comparisons. Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// ConvertLatency covers the numeric-cast opcodes (U2F, I2F, F2U,
	// F2I). Default: 3 cycles.
	ConvertLatency uint64 `json:"convert_latency"`

	// BranchLatency is the base latency of BT/BF. Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// LoadLatency is the latency of ULD/FLD assuming a cache hit.
	// Default: 4 cycles.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the latency of UST/FST. Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// MultiplyLatency covers UMUL/IMUL/FMUL. Default: 3 cycles.
	MultiplyLatency uint64 `json:"multiply_latency"`

	// DivideLatency covers UDIV/IDIV/FDIV. Default: 12 cycles.
	DivideLatency uint64 `json:"divide_latency"`

	// HostCallLatency is charged for CALL; the host function itself runs
	// outside the cycle model. Default: 1 cycle.
	HostCallLatency uint64 `json:"host_call_latency"`

	// CacheHitLatency is the data-cache hit latency. Default: 3 cycles.
	CacheHitLatency uint64 `json:"cache_hit_latency"`

	// MemoryLatency is the cost of a data-cache miss. Default: 150
	// cycles.
	MemoryLatency uint64 `json:"memory_latency"`
}

// DefaultTimingConfig returns a TimingConfig with default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:      1,
		ConvertLatency:  3,
		BranchLatency:   1,
		LoadLatency:     4,
		StoreLatency:    1,
		MultiplyLatency: 3,
		DivideLatency:   12,
		HostCallLatency: 1,
		CacheHitLatency: 3,
		MemoryLatency:   150,
	}
}

// LoadConfig loads a TimingConfig from a JSON file.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.ConvertLatency == 0 {
		return fmt.Errorf("convert_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	if c.MultiplyLatency == 0 {
		return fmt.Errorf("multiply_latency must be > 0")
	}
	if c.DivideLatency == 0 {
		return fmt.Errorf("divide_latency must be > 0")
	}
	if c.HostCallLatency == 0 {
		return fmt.Errorf("host_call_latency must be > 0")
	}
	if c.CacheHitLatency == 0 {
		return fmt.Errorf("cache_hit_latency must be > 0")
	}
	if c.MemoryLatency == 0 {
		return fmt.Errorf("memory_latency must be > 0")
	}
	return nil
}
