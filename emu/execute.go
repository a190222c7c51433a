package emu

import (
	"fmt"
	"math/bits"
)

// Execute runs the machine until a STOP instruction and returns its value.
//
// Registers are copied into locals for the duration of the loop and synced
// back through the Machine around host calls and at STOP, so host functions always
// observe a consistent register file (with PC already advanced past the
// CALL instruction). An unknown opcode aborts with a diagnostic.
func (m *Machine) Execute() uint64 {
	var (
		uregs [8]uint64
		fregs [8]float64
	)
	uregs = m.URegs
	fregs = m.FRegs
	mem := m.Mem

	for {
		op := Opcode(mem[uregs[PC]])
		if m.obs != nil {
			m.obs.Instruction(op)
		}
		switch op {
		case OpULD:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			if m.obs != nil {
				m.obs.MemAccess(uregs[b], false)
			}
			uregs[a] = mem[uregs[b]]
			uregs[PC] += 3
		case OpFLD:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			if m.obs != nil {
				m.obs.MemAccess(uregs[b], false)
			}
			fregs[a] = U2F(mem[uregs[b]])
			uregs[PC] += 3
		case OpUST:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			if m.obs != nil {
				m.obs.MemAccess(uregs[a], true)
			}
			mem[uregs[a]] = uregs[b]
			uregs[PC] += 3
		case OpFST:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			if m.obs != nil {
				m.obs.MemAccess(uregs[a], true)
			}
			mem[uregs[a]] = F2U(fregs[b])
			uregs[PC] += 3
		case OpUIMM:
			a, imm := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[a] = imm
			uregs[PC] += 3
		case OpFIMM:
			a, imm := mem[uregs[PC]+1], mem[uregs[PC]+2]
			fregs[a] = U2F(imm)
			uregs[PC] += 3
		case OpUMOV:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[a] = uregs[b]
			uregs[PC] += 3
		case OpFMOV:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			fregs[a] = fregs[b]
			uregs[PC] += 3
		case OpU2F:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			fregs[a] = float64(uregs[b])
			uregs[PC] += 3
		case OpI2F:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			fregs[a] = float64(U2I(uregs[b]))
			uregs[PC] += 3
		case OpF2U:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[a] = uint64(fregs[b])
			uregs[PC] += 3
		case OpF2I:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[a] = I2U(int64(fregs[b]))
			uregs[PC] += 3
		case OpBT:
			off := U2I(mem[uregs[PC]+1])
			if uregs[COND] != 0 {
				uregs[PC] = uint64(int64(uregs[PC]) + off)
			} else {
				uregs[PC] += 2
			}
		case OpBF:
			off := U2I(mem[uregs[PC]+1])
			if uregs[COND] != 0 {
				uregs[PC] += 2
			} else {
				uregs[PC] = uint64(int64(uregs[PC]) + off)
			}
		case OpUEQ:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[COND] = boolWord(uregs[a] == uregs[b])
			uregs[PC] += 3
		case OpFEQ:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[COND] = boolWord(fregs[a] == fregs[b])
			uregs[PC] += 3
		case OpUGT:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[COND] = boolWord(uregs[a] > uregs[b])
			uregs[PC] += 3
		case OpIGT:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[COND] = boolWord(U2I(uregs[a]) > U2I(uregs[b]))
			uregs[PC] += 3
		case OpFGT:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[COND] = boolWord(fregs[a] > fregs[b])
			uregs[PC] += 3
		case OpULT:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[COND] = boolWord(uregs[a] < uregs[b])
			uregs[PC] += 3
		case OpILT:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[COND] = boolWord(U2I(uregs[a]) < U2I(uregs[b]))
			uregs[PC] += 3
		case OpFLT:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[COND] = boolWord(fregs[a] < fregs[b])
			uregs[PC] += 3
		case OpUADD:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[a] += uregs[b]
			uregs[PC] += 3
		case OpFADD:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			fregs[a] += fregs[b]
			uregs[PC] += 3
		case OpUSUB:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			uregs[a] -= uregs[b]
			uregs[PC] += 3
		case OpFSUB:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			fregs[a] -= fregs[b]
			uregs[PC] += 3
		case OpUMUL:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			hi, lo := bits.Mul64(uregs[a], uregs[b])
			uregs[a] = lo
			uregs[OVERFLOW] = hi
			uregs[PC] += 3
		case OpIMUL:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			x, y := uregs[a], uregs[b]
			hi, lo := bits.Mul64(x, y)
			// Adjust the unsigned high word to the signed 128-bit product.
			if U2I(x) < 0 {
				hi -= y
			}
			if U2I(y) < 0 {
				hi -= x
			}
			uregs[a] = lo
			uregs[OVERFLOW] = hi
			uregs[PC] += 3
		case OpFMUL:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			fregs[a] *= fregs[b]
			uregs[PC] += 3
		case OpUDIV:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			// Remainder comes from the pre-division numerator.
			rem := uregs[a] % uregs[b]
			uregs[a] /= uregs[b]
			uregs[OVERFLOW] = rem
			uregs[PC] += 3
		case OpIDIV:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			t1, t2 := U2I(uregs[a]), U2I(uregs[b])
			uregs[a] = I2U(t1 / t2)
			uregs[OVERFLOW] = I2U(t1 % t2)
			uregs[PC] += 3
		case OpFDIV:
			a, b := mem[uregs[PC]+1], mem[uregs[PC]+2]
			fregs[a] /= fregs[b]
			uregs[PC] += 3
		case OpCALL:
			r := mem[uregs[PC]+1]
			f := m.host.resolve(uregs[mem[uregs[PC]+2]])
			// Host functions observe the post-call PC.
			uregs[PC] += 3

			m.URegs = uregs
			m.FRegs = fregs
			m.Mem = mem

			ret := f(m)

			uregs = m.URegs
			fregs = m.FRegs
			mem = m.Mem
			uregs[r] = ret
		case OpSTOP:
			m.URegs = uregs
			m.FRegs = fregs
			return uregs[mem[uregs[PC]+1]]
		default:
			panic(fmt.Sprintf("wordvm: bad opcode %d at word %d", uint64(op), uregs[PC]))
		}
	}
}

func boolWord(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
