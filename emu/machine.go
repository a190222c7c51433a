package emu

import (
	"io"
	"os"
)

// Aliases for the special unsigned registers. Except PC they remain fully
// general; the aliases only name the roles the engine and the host-call ABI
// assign to them.
const (
	PC       = 0 // program counter
	BASE     = 1 // variadic-argument anchor
	FRAME    = 2 // caller-defined frame pointer
	OVERFLOW = 3 // high word of multiplication, remainder of division
	COND     = 4 // last comparison result
)

// LoadAddress is the word address where program images are loaded and
// where execution starts. Words below it form the scratch region.
const LoadAddress = 1024

// Observer receives per-instruction events from the execute loop. It is
// consulted only when installed, so functional emulation pays nothing
// for it.
type Observer interface {
	// Instruction is called once per executed instruction.
	Instruction(op Opcode)

	// MemAccess is called for each data load or store with the word
	// address touched.
	MemAccess(addr uint64, write bool)
}

// Machine is the full state of one word machine. A machine may be executed
// from exactly one goroutine at a time; host functions may re-enter Execute
// only on a different machine.
type Machine struct {
	// URegs are the eight shared unsigned/signed registers. URegs[PC]
	// is the program counter.
	URegs [8]uint64

	// FRegs are the eight floating registers.
	FRegs [8]float64

	// Mem is the word-addressed linear memory.
	Mem []uint64

	// ImgLen is the length of the loaded program image in words.
	ImgLen uint64

	host   HostTable
	stdout io.Writer
	stderr io.Writer
	obs    Observer
}

// MachineOption is a functional option for configuring a Machine.
type MachineOption func(*Machine)

// WithStdout sets a custom stdout writer for host services.
func WithStdout(w io.Writer) MachineOption {
	return func(m *Machine) {
		m.stdout = w
	}
}

// WithStderr sets a custom stderr writer for host diagnostics.
func WithStderr(w io.Writer) MachineOption {
	return func(m *Machine) {
		m.stderr = w
	}
}

// WithObserver installs an execution observer (e.g. a timing estimator).
func WithObserver(obs Observer) MachineOption {
	return func(m *Machine) {
		m.obs = obs
	}
}

// NewMachine creates a machine over the given word memory. The memory is
// used as-is; callers that need guard-page faulting allocate it through
// the mem package.
func NewMachine(memory []uint64, opts ...MachineOption) *Machine {
	m := &Machine{
		Mem:    memory,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bind registers a host function and returns the call word that bytecode
// materializes into a register for CALL.
func (m *Machine) Bind(f HostFunc) uint64 {
	return m.host.Bind(f)
}

// Stdout returns the machine's stdout writer.
func (m *Machine) Stdout() io.Writer {
	return m.stdout
}

// Stderr returns the machine's stderr writer.
func (m *Machine) Stderr() io.Writer {
	return m.stderr
}
