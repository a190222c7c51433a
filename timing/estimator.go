// Package timing estimates the cycle cost of a program run. It implements
// the engine's observer hook, charging each instruction from the latency
// table and routing data accesses through the cache model. Host-call
// bodies run outside the cycle model.
package timing

import (
	"wordvm/emu"
	"wordvm/timing/cache"
	"wordvm/timing/latency"
)

// Estimator accumulates instruction and cycle counts during execution.
type Estimator struct {
	table  *latency.Table
	dcache *cache.Cache

	instructions uint64
	cycles       uint64
}

// NewEstimator creates an estimator over the given latency table and data
// cache. The cache may be nil to charge flat load/store latencies.
func NewEstimator(table *latency.Table, dcache *cache.Cache) *Estimator {
	return &Estimator{table: table, dcache: dcache}
}

// Instruction charges the base latency of one executed instruction.
func (e *Estimator) Instruction(op emu.Opcode) {
	e.instructions++
	e.cycles += e.table.Latency(op)
}

// MemAccess charges the cache cost of one data access.
func (e *Estimator) MemAccess(addr uint64, write bool) {
	if e.dcache == nil {
		return
	}
	var r cache.AccessResult
	if write {
		r = e.dcache.Write(addr)
	} else {
		r = e.dcache.Read(addr)
	}
	if !r.Hit {
		e.cycles += r.Latency
	}
}

// Instructions returns the number of instructions executed.
func (e *Estimator) Instructions() uint64 {
	return e.instructions
}

// Cycles returns the estimated cycle count.
func (e *Estimator) Cycles() uint64 {
	return e.cycles
}

// CPI returns cycles per instruction.
func (e *Estimator) CPI() float64 {
	if e.instructions == 0 {
		return 0
	}
	return float64(e.cycles) / float64(e.instructions)
}

// CacheStats returns the data-cache counters, or zeroes without a cache.
func (e *Estimator) CacheStats() cache.Statistics {
	if e.dcache == nil {
		return cache.Statistics{}
	}
	return e.dcache.Stats()
}
