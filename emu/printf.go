package emu

import (
	"fmt"
	"io"
	"strconv"

	"wordvm/utf64"
)

const lineBufSize = 8192

// printer buffers encoded output and counts codepoints. All scratch state
// lives on the stack of the Printf invocation.
type printer struct {
	w   io.Writer
	buf []byte
	cnt uint64
	err error
}

func (p *printer) flush() {
	if len(p.buf) == 0 {
		return
	}
	if _, err := p.w.Write(p.buf); err != nil && p.err == nil {
		p.err = err
	}
	p.buf = p.buf[:0]
}

// putASCII appends an already-formatted ASCII string, one codepoint per byte.
func (p *printer) putASCII(s []byte) {
	for _, c := range s {
		if len(p.buf) >= lineBufSize {
			p.flush()
		}
		p.buf = append(p.buf, c)
		p.cnt++
	}
}

// putCh encodes one codepoint. Reports false on an unencodable word.
func (p *printer) putCh(cp uint64) bool {
	var seq [4]byte
	n := utf64.C64ToMB(seq[:], cp)
	if n <= 0 {
		return false
	}
	if len(p.buf)+n > lineBufSize {
		p.flush()
	}
	p.buf = append(p.buf, seq[:n]...)
	p.cnt++
	return true
}

// Printf is the formatted-output host service. U[3] points at a
// zero-terminated codepoint format string; directive arguments follow the
// call ABI, starting at U[4] for integer-class and F[0] for float-class,
// overflowing into memory relative to BASE. It returns the number of
// codepoints written, or -1 on a conversion or write error.
func Printf(m *Machine) uint64 {
	mem := m.Mem
	p := printer{w: m.stdout, buf: make([]byte, 0, lineBufSize)}
	var tmp [64]byte

	// The format pointer itself is the first integer-class argument.
	nthInt, nthFlo, nthArg := 4, 0, uint64(1)

loop:
	for i := m.URegs[3]; mem[i] != 0; i++ {
		ch := mem[i]
		if ch != '%' {
			if !p.putCh(ch) {
				fmt.Fprintf(m.stderr, "wordvm: string conversion error\n")
				return failure
			}
			continue
		}

		// Extract the next candidate argument of each class before the
		// directive is known; consuming a directive advances the cursor.
		var uarg uint64
		if nthInt <= 7 {
			uarg = m.URegs[nthInt]
		} else {
			uarg = mem[m.URegs[BASE]-nthArg+3]
		}
		var farg float64
		if nthFlo <= 7 {
			farg = m.FRegs[nthFlo]
		} else {
			farg = U2F(mem[m.URegs[BASE]-nthArg+8])
		}

		i++
		switch mem[i] {
		case '%':
			p.putCh('%')
		case 's':
			nthInt++
			nthArg++
			for j := uarg; mem[j] != 0; j++ {
				if !p.putCh(mem[j]) {
					fmt.Fprintf(m.stderr, "wordvm: string conversion error\n")
					return failure
				}
			}
		case 'd':
			nthInt++
			nthArg++
			p.putASCII(strconv.AppendInt(tmp[:0], U2I(uarg), 10))
		case 'u':
			nthInt++
			nthArg++
			p.putASCII(strconv.AppendUint(tmp[:0], uarg, 10))
		case 'x':
			nthInt++
			nthArg++
			p.putASCII(strconv.AppendUint(tmp[:0], uarg, 16))
		case 'c':
			nthInt++
			nthArg++
			if !p.putCh(uarg) {
				fmt.Fprintf(m.stderr, "wordvm: string conversion error\n")
				return failure
			}
		case 'f':
			nthFlo++
			nthArg++
			p.putASCII(strconv.AppendFloat(tmp[:0], farg, 'f', 6, 64))
		case 0:
			break loop
		default:
			p.putCh(mem[i])
		}
	}

	p.flush()
	if p.err != nil {
		return failure
	}
	return p.cnt
}
