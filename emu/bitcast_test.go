package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"wordvm/emu"
)

var _ = Describe("Bit casts", func() {
	It("should round-trip finite and infinite doubles", func() {
		for _, f := range []float64{0, -0, 1.5, -1.5, math.MaxFloat64,
			math.SmallestNonzeroFloat64, math.Inf(1), math.Inf(-1)} {
			Expect(emu.U2F(emu.F2U(f))).To(Equal(f))
		}
	})

	It("should round-trip arbitrary words without NaN normalization", func() {
		words := []uint64{
			0, 1, ^uint64(0),
			0x7FF0000000000001, // signaling NaN pattern
			0x7FF8000000000000, // quiet NaN pattern
			0xFFF8DEADBEEF0000, // NaN with payload
		}
		for _, w := range words {
			Expect(emu.F2U(emu.U2F(w))).To(Equal(w))
		}
	})

	It("should reinterpret signed values bit-exactly", func() {
		Expect(emu.U2I(^uint64(0))).To(Equal(int64(-1)))
		Expect(emu.I2U(int64(-1))).To(Equal(^uint64(0)))
		Expect(emu.U2I(emu.I2U(math.MinInt64))).To(Equal(int64(math.MinInt64)))
	})
})
