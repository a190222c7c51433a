package emu

import (
	"encoding/binary"
	"io"
	"os"
	"strings"

	"wordvm/utf64"
)

// FDCount is the fixed capacity of a file table.
const FDCount = 2048

// failure is the -1 word every host service returns on error.
const failure = ^uint64(0)

// FileTable maps small nonnegative descriptors to host files. Slots 0, 1
// and 2 are bound to the standard streams; the rest are nil until an open
// succeeds. The descriptor handed to bytecode is the slot index.
//
// The table is shared by every machine in the process; at most one machine
// may be executing at a time in the current design.
type FileTable struct {
	fds [FDCount]*os.File
}

// DefaultFileTable is the process-wide table used by BindStdlib.
var DefaultFileTable = NewFileTable()

// NewFileTable returns a table with every slot cleared and the standard
// streams bound afterwards, in that order.
func NewFileTable() *FileTable {
	t := &FileTable{}
	t.fds[0] = os.Stdin
	t.fds[1] = os.Stdout
	t.fds[2] = os.Stderr
	return t
}

// lookup bounds-checks a descriptor word and returns the open file.
func (t *FileTable) lookup(fd uint64) *os.File {
	if U2I(fd) < 0 || fd >= FDCount {
		return nil
	}
	return t.fds[fd]
}

// readC64String collects the zero-terminated codepoint string at mem[ptr..]
// into a host string.
func readC64String(mem []uint64, ptr uint64) (string, bool) {
	var sb strings.Builder
	var seq [4]byte
	for ; mem[ptr] != 0; ptr++ {
		n := utf64.C64ToMB(seq[:], mem[ptr])
		if n <= 0 {
			return "", false
		}
		sb.Write(seq[:n])
	}
	return sb.String(), true
}

// openFlags maps a C-style fopen mode string to host open flags.
func openFlags(mode string) (int, bool) {
	mode = strings.ReplaceAll(mode, "b", "")
	switch mode {
	case "r":
		return os.O_RDONLY, true
	case "r+":
		return os.O_RDWR, true
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, true
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, true
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, true
	case "a+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, true
	}
	return 0, false
}

// Open opens the file named by the codepoint string at mem[U[3]] with the
// mode string at mem[U[4]]. It returns the descriptor, or -1 on any
// failure; a file opened before a later failure is closed again.
func (t *FileTable) Open(m *Machine) uint64 {
	name, ok := readC64String(m.Mem, m.URegs[3])
	if !ok {
		return failure
	}
	mode, ok := readC64String(m.Mem, m.URegs[4])
	if !ok {
		return failure
	}

	flags, ok := openFlags(mode)
	if !ok {
		return failure
	}
	f, err := os.OpenFile(name, flags, 0644)
	if err != nil {
		return failure
	}

	for i := uint64(3); i < FDCount; i++ {
		if t.fds[i] == nil {
			t.fds[i] = f
			return i
		}
	}

	// Table full.
	f.Close()
	return failure
}

// Close closes the descriptor in U[3] and clears its slot. Double-close
// returns -1.
func (t *FileTable) Close(m *Machine) uint64 {
	fd := m.URegs[3]
	f := t.lookup(fd)
	if f == nil {
		return failure
	}
	t.fds[fd] = nil
	if f.Close() != nil {
		return failure
	}
	return 0
}

// Seek repositions the descriptor in U[3] by the signed offset in U[4]
// and the whence selector in U[5] (0 set, 1 cur, 2 end). Returns 0 on
// success.
func (t *FileTable) Seek(m *Machine) uint64 {
	f := t.lookup(m.URegs[3])
	if f == nil {
		return failure
	}

	var whence int
	switch m.URegs[5] {
	case 0:
		whence = io.SeekStart
	case 1:
		whence = io.SeekCurrent
	case 2:
		whence = io.SeekEnd
	default:
		return failure
	}

	if _, err := f.Seek(U2I(m.URegs[4]), whence); err != nil {
		return failure
	}
	return 0
}

// WriteTxt encodes U[5] codepoints from mem[U[4]..] to UTF-8 and writes
// them to the descriptor in U[3]. It returns the number of codepoints
// written; on a short write, only codepoints whose full encoding reached
// the file count. Returns -1 on an encode error.
func (t *FileTable) WriteTxt(m *Machine) uint64 {
	f := t.lookup(m.URegs[3])
	if f == nil {
		return failure
	}
	ptr, count := m.URegs[4], m.URegs[5]

	var buf [8192]byte
	written := uint64(0)
	for written < count {
		nchars, nbytes := utf64.MC64ToMB(buf[:], m.Mem[ptr+written:ptr+count])
		if nchars < 0 {
			return failure
		}
		n, err := f.Write(buf[:nbytes])
		if n != nbytes || err != nil {
			if n < 0 {
				n = 0
			}
			return written + completeChars(buf[:n])
		}
		written += uint64(nchars)
	}
	return written
}

// completeChars counts the codepoints in b whose encoding fits entirely
// within b, trimming any trailing incomplete sequence.
func completeChars(b []byte) uint64 {
	cnt := uint64(0)
	for i := 0; i < len(b); {
		n := utf64.MBLen(b[i])
		if n < 0 || i+n > len(b) {
			break
		}
		i += n
		cnt++
	}
	return cnt
}

// WriteBytes writes U[5] raw words from mem[U[4]..] to the descriptor in
// U[3] and returns the number of whole words written.
func (t *FileTable) WriteBytes(m *Machine) uint64 {
	f := t.lookup(m.URegs[3])
	if f == nil {
		return failure
	}
	ptr, count := m.URegs[4], m.URegs[5]

	buf := make([]byte, 8*count)
	for i := uint64(0); i < count; i++ {
		binary.NativeEndian.PutUint64(buf[i*8:], m.Mem[ptr+i])
	}
	n, _ := f.Write(buf)
	return uint64(n / 8)
}

// ReadTxt decodes up to U[5] codepoints from the descriptor in U[3] into
// mem[U[4]..]. Malformed lead bytes are skipped; a character whose
// continuation bytes fail validation is discarded together with the failing
// byte, and decoding restarts at the byte after it. Returns the number of
// codepoints decoded.
func (t *FileTable) ReadTxt(m *Machine) uint64 {
	f := t.lookup(m.URegs[3])
	if f == nil {
		return failure
	}
	dst, count := m.URegs[4], m.URegs[5]

	readcnt := uint64(0)
retry:
	for readcnt < count {
		// First byte, skipping anything that cannot start a character.
		var buf [8]byte
		for {
			c, ok := readByte(f)
			if !ok {
				return readcnt
			}
			if utf64.MBLen(c) >= 0 {
				buf[0] = c
				break
			}
		}
		chlen := utf64.MBLen(buf[0])

		for i := 1; i < chlen; i++ {
			c, ok := readByte(f)
			if !ok {
				return readcnt
			}
			if c>>6 != 0b10 {
				continue retry
			}
			buf[i] = c
		}

		if cp, n := utf64.MBToC64(buf[:chlen]); n > 0 {
			m.Mem[dst+readcnt] = cp
			readcnt++
		}
	}
	return readcnt
}

// ReadBytes reads up to U[5] raw words from the descriptor in U[3] into
// mem[U[4]..] and returns the number of whole words read.
func (t *FileTable) ReadBytes(m *Machine) uint64 {
	f := t.lookup(m.URegs[3])
	if f == nil {
		return failure
	}
	dst, count := m.URegs[4], m.URegs[5]

	buf := make([]byte, 8*count)
	n, _ := io.ReadFull(f, buf)
	words := uint64(n / 8)
	for i := uint64(0); i < words; i++ {
		m.Mem[dst+i] = binary.NativeEndian.Uint64(buf[i*8:])
	}
	return words
}

func readByte(f *os.File) (byte, bool) {
	var one [1]byte
	n, _ := f.Read(one[:])
	return one[0], n == 1
}
