// Package loader reads raw bytecode images into VM memory.
//
// An image is a headerless sequence of native-endian 64-bit words copied
// verbatim into memory starting at the load address; the first word is the
// first opcode executed.
package loader

import (
	"encoding/binary"
	"fmt"
	"io"
)

// LoadAddress is the word address where images are placed and where the
// program counter starts.
const LoadAddress = 1024

// ErrAddressSpaceFull is returned when the image does not fit above the
// load address.
var ErrAddressSpaceFull = fmt.Errorf("address space is full")

// Load copies the image from r into mem starting at LoadAddress and
// returns its length in words. Only whole words count; a trailing partial
// word is discarded.
func Load(r io.Reader, mem []uint64) (uint64, error) {
	if len(mem) <= LoadAddress {
		return 0, ErrAddressSpaceFull
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read image: %w", err)
	}

	nwords := uint64(len(data) / 8)
	if nwords > uint64(len(mem)-LoadAddress) {
		return 0, ErrAddressSpaceFull
	}

	for i := uint64(0); i < nwords; i++ {
		mem[LoadAddress+i] = binary.NativeEndian.Uint64(data[i*8:])
	}
	return nwords, nil
}
