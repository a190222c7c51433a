package emu

import "fmt"

// HostFunc is a native service callable from bytecode via CALL. It reads
// its arguments from the machine per the call ABI (integer arguments in
// U[3..7], float arguments in F[0..4], overflow arguments in memory
// relative to BASE) and returns one result word.
type HostFunc func(*Machine) uint64

// HostTable maps call words to host functions. It is the only place a
// memory word becomes executable host code; everything else in the engine
// treats words as data.
type HostTable struct {
	funcs []HostFunc
}

// Bind registers f and returns its call word. Call words start at 1 so
// that a zeroed register never resolves.
func (t *HostTable) Bind(f HostFunc) uint64 {
	t.funcs = append(t.funcs, f)
	return uint64(len(t.funcs))
}

// resolve returns the host function for a call word, aborting with a
// diagnostic on an unbound word.
func (t *HostTable) resolve(word uint64) HostFunc {
	if word == 0 || word > uint64(len(t.funcs)) {
		panic(fmt.Sprintf("wordvm: CALL through unbound host word %#x", word))
	}
	return t.funcs[word-1]
}

// Scratch-region words where BindStdlib publishes the call words of the
// standard services, so images can ULD them by fixed address.
const (
	VecPrintf = 8 + iota
	VecOpen
	VecClose
	VecSeek
	VecWriteTxt
	VecWriteBytes
	VecReadTxt
	VecReadBytes
)

// BindStdlib binds the standard host services against the process-wide
// file table and publishes their call words in the scratch region.
func BindStdlib(m *Machine) {
	t := DefaultFileTable
	m.Mem[VecPrintf] = m.Bind(Printf)
	m.Mem[VecOpen] = m.Bind(t.Open)
	m.Mem[VecClose] = m.Bind(t.Close)
	m.Mem[VecSeek] = m.Bind(t.Seek)
	m.Mem[VecWriteTxt] = m.Bind(t.WriteTxt)
	m.Mem[VecWriteBytes] = m.Bind(t.WriteBytes)
	m.Mem[VecReadTxt] = m.Bind(t.ReadTxt)
	m.Mem[VecReadBytes] = m.Bind(t.ReadBytes)
}
