// Package mem allocates the VM's word-addressed linear memory inside a
// mapping flanked by inaccessible guard pages, so stray host-side pointer
// arithmetic past either end faults deterministically. VM-level accesses go
// through the bounds-checked word slice.
package mem

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Arena is one guard-paged allocation of VM memory.
type Arena struct {
	words []uint64
	raw   []byte
}

// NewArena maps nwords of zeroed word memory, rounded up to a whole page,
// with a PROT_NONE page before and after the usable range.
func NewArena(nwords int) (*Arena, error) {
	if nwords <= 0 {
		return nil, fmt.Errorf("arena: invalid size %d words", nwords)
	}

	page := os.Getpagesize()
	datalen := nwords * 8
	if datalen%page != 0 {
		datalen = (datalen/page + 1) * page
	}

	raw, err := unix.Mmap(-1, 0, datalen+2*page,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap: %w", err)
	}
	if err := unix.Mprotect(raw[:page], unix.PROT_NONE); err != nil {
		_ = unix.Munmap(raw)
		return nil, fmt.Errorf("arena: mprotect low guard: %w", err)
	}
	if err := unix.Mprotect(raw[page+datalen:], unix.PROT_NONE); err != nil {
		_ = unix.Munmap(raw)
		return nil, fmt.Errorf("arena: mprotect high guard: %w", err)
	}

	data := raw[page : page+datalen]
	words := unsafe.Slice((*uint64)(unsafe.Pointer(&data[0])), nwords)
	return &Arena{words: words, raw: raw}, nil
}

// Words returns the usable word memory. Its length is exactly the nwords
// the arena was created with.
func (a *Arena) Words() []uint64 {
	return a.words
}

// Release unmaps the arena including both guard pages. The word slice must
// not be used afterwards.
func (a *Arena) Release() error {
	a.words = nil
	return unix.Munmap(a.raw)
}
