package emu

import "math"

// Bit-preserving reinterpretations between the views of a 64-bit word.
// No value conversion happens here; the numeric-cast opcodes (U2F, F2I, ...)
// are the only place values change representation.

// U2F reinterprets a word as an IEEE-754 double.
func U2F(x uint64) float64 {
	return math.Float64frombits(x)
}

// F2U reinterprets an IEEE-754 double as a word.
func F2U(x float64) uint64 {
	return math.Float64bits(x)
}

// U2I reinterprets a word as a two's-complement signed integer.
func U2I(x uint64) int64 {
	return int64(x)
}

// I2U reinterprets a signed integer as a word.
func I2U(x int64) uint64 {
	return uint64(x)
}
