// Package latency provides an instruction timing model for the word
// machine's cycle estimator.
package latency

import "wordvm/emu"

// Table provides per-opcode latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a latency table with default timing values.
func NewTable() *Table {
	return &Table{config: DefaultTimingConfig()}
}

// NewTableWithConfig creates a latency table with a custom configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{config: config}
}

// Latency returns the execution latency in cycles for the opcode.
func (t *Table) Latency(op emu.Opcode) uint64 {
	switch op {
	case emu.OpUIMM, emu.OpFIMM, emu.OpUMOV, emu.OpFMOV,
		emu.OpUADD, emu.OpUSUB, emu.OpFADD, emu.OpFSUB,
		emu.OpUEQ, emu.OpFEQ, emu.OpUGT, emu.OpIGT, emu.OpFGT,
		emu.OpULT, emu.OpILT, emu.OpFLT:
		return t.config.ALULatency

	case emu.OpU2F, emu.OpI2F, emu.OpF2U, emu.OpF2I:
		return t.config.ConvertLatency

	case emu.OpBT, emu.OpBF:
		return t.config.BranchLatency

	case emu.OpULD, emu.OpFLD:
		return t.config.LoadLatency

	case emu.OpUST, emu.OpFST:
		return t.config.StoreLatency

	case emu.OpUMUL, emu.OpIMUL, emu.OpFMUL:
		return t.config.MultiplyLatency

	case emu.OpUDIV, emu.OpIDIV, emu.OpFDIV:
		return t.config.DivideLatency

	case emu.OpCALL:
		return t.config.HostCallLatency

	default:
		return 1
	}
}

// IsMemoryOp returns true if the opcode accesses data memory.
func (t *Table) IsMemoryOp(op emu.Opcode) bool {
	switch op {
	case emu.OpULD, emu.OpFLD, emu.OpUST, emu.OpFST:
		return true
	default:
		return false
	}
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
