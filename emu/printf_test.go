package emu_test

import (
	"bytes"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"wordvm/emu"
)

var _ = Describe("Printf", func() {
	var (
		m   *emu.Machine
		out *bytes.Buffer
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		m = emu.NewMachine(make([]uint64, memWords),
			emu.WithStdout(out),
			emu.WithStderr(&bytes.Buffer{}),
		)
	})

	// format places the format string in memory and points U[3] at it.
	format := func(fmt string) {
		putC64String(m.Mem, 2000, fmt)
		m.URegs[3] = 2000
	}

	It("should emit plain characters and count codepoints", func() {
		format("hello\n")
		Expect(emu.Printf(m)).To(Equal(uint64(6)))
		Expect(out.String()).To(Equal("hello\n"))
	})

	It("should count a non-ASCII character as one codepoint", func() {
		format("é\n")
		Expect(emu.Printf(m)).To(Equal(uint64(2)))
		Expect(out.String()).To(Equal("é\n"))
	})

	It("should format a signed decimal", func() {
		format("Hi %d\n")
		m.URegs[4] = ^uint64(0) // -1
		Expect(emu.Printf(m)).To(Equal(uint64(6)))
		Expect(out.String()).To(Equal("Hi -1\n"))
	})

	It("should format unsigned and hexadecimal", func() {
		format("%u %x")
		m.URegs[4] = ^uint64(0)
		m.URegs[5] = 255
		emu.Printf(m)
		Expect(out.String()).To(Equal("18446744073709551615 ff"))
	})

	It("should encode %c as a codepoint", func() {
		format("%c")
		m.URegs[4] = 0x00E9
		Expect(emu.Printf(m)).To(Equal(uint64(1)))
		Expect(out.String()).To(Equal("é"))
	})

	It("should format floats with default precision", func() {
		format("%f")
		m.FRegs[0] = 1.5
		emu.Printf(m)
		Expect(out.String()).To(Equal("1.500000"))
	})

	It("should walk %s strings to the zero terminator", func() {
		format("[%s]")
		putC64String(m.Mem, 3000, "abc")
		m.URegs[4] = 3000
		Expect(emu.Printf(m)).To(Equal(uint64(5)))
		Expect(out.String()).To(Equal("[abc]"))
	})

	It("should emit a literal percent for %%", func() {
		format("100%%")
		Expect(emu.Printf(m)).To(Equal(uint64(4)))
		Expect(out.String()).To(Equal("100%"))
	})

	It("should emit an unknown directive character literally", func() {
		format("%q")
		emu.Printf(m)
		Expect(out.String()).To(Equal("q"))
	})

	It("should terminate on a percent at the end of the format", func() {
		format("ok%")
		Expect(emu.Printf(m)).To(Equal(uint64(2)))
		Expect(out.String()).To(Equal("ok"))
	})

	It("should take integer arguments from U[4..7] in order", func() {
		format("%d %d %d %d")
		m.URegs[4] = 1
		m.URegs[5] = 2
		m.URegs[6] = 3
		m.URegs[7] = 4
		emu.Printf(m)
		Expect(out.String()).To(Equal("1 2 3 4"))
	})

	It("should fetch overflow integer arguments relative to BASE", func() {
		format("%d%d%d%d%d")
		m.URegs[4] = 1
		m.URegs[5] = 2
		m.URegs[6] = 3
		m.URegs[7] = 4
		// The fifth directive is overflow argument ordinal 5:
		// mem[BASE - 5 + 3].
		m.URegs[emu.BASE] = 500
		m.Mem[500-5+3] = 5
		emu.Printf(m)
		Expect(out.String()).To(Equal("12345"))
	})

	It("should advance only the integer cursor for %s", func() {
		// After %s consumes U[4], %f must still read F[0] and %d must
		// read U[5].
		format("%s %f %d")
		putC64String(m.Mem, 3000, "s")
		m.URegs[4] = 3000
		m.URegs[5] = 7
		m.FRegs[0] = 0.5
		emu.Printf(m)
		Expect(out.String()).To(Equal("s 0.500000 7"))
	})

	It("should fetch overflow float arguments from the float slots", func() {
		// Nine float directives: the first eight come from F[0..7], the
		// ninth is overflow argument ordinal 9: mem[BASE - 9 + 8].
		format("%f%f%f%f%f%f%f%f%f")
		for i := 0; i < 8; i++ {
			m.FRegs[i] = float64(i)
		}
		m.URegs[emu.BASE] = 500
		m.Mem[500-9+8] = math.Float64bits(8.0)
		emu.Printf(m)
		Expect(out.String()).To(Equal(
			"0.0000001.0000002.0000003.0000004.0000005.000000" +
				"6.0000007.0000008.000000"))
	})

	It("should return -1 on an unencodable codepoint", func() {
		putC64String(m.Mem, 2000, "x")
		m.Mem[2000] = 0x110000 // beyond the Unicode range
		m.URegs[3] = 2000
		Expect(emu.Printf(m)).To(Equal(neg1))
	})
})
