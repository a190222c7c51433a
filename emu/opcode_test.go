package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"wordvm/emu"
)

var _ = Describe("Opcode", func() {
	It("should name every opcode", func() {
		Expect(emu.OpULD.String()).To(Equal("ULD"))
		Expect(emu.OpIMUL.String()).To(Equal("IMUL"))
		Expect(emu.OpSTOP.String()).To(Equal("STOP"))
		Expect(emu.Opcode(9999).String()).To(Equal("BAD"))
	})

	It("should report branch and stop widths as two words", func() {
		Expect(emu.OpBT.Width()).To(Equal(uint64(2)))
		Expect(emu.OpBF.Width()).To(Equal(uint64(2)))
		Expect(emu.OpSTOP.Width()).To(Equal(uint64(2)))
		Expect(emu.OpUADD.Width()).To(Equal(uint64(3)))
		Expect(emu.OpUIMM.Width()).To(Equal(uint64(3)))
	})
})
