package mem_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"wordvm/mem"
)

var _ = Describe("Arena", func() {
	It("should expose exactly the requested number of words", func() {
		a, err := mem.NewArena(1000)
		Expect(err).NotTo(HaveOccurred())
		defer a.Release()

		Expect(a.Words()).To(HaveLen(1000))
	})

	It("should hand out zeroed, writable memory", func() {
		a, err := mem.NewArena(4096)
		Expect(err).NotTo(HaveOccurred())
		defer a.Release()

		words := a.Words()
		Expect(words[0]).To(BeZero())
		Expect(words[4095]).To(BeZero())

		words[0] = ^uint64(0)
		words[4095] = 42
		Expect(words[0]).To(Equal(^uint64(0)))
		Expect(words[4095]).To(Equal(uint64(42)))
	})

	It("should survive sizes that are not a page multiple", func() {
		a, err := mem.NewArena(3)
		Expect(err).NotTo(HaveOccurred())
		defer a.Release()

		words := a.Words()
		Expect(words).To(HaveLen(3))
		words[2] = 7
		Expect(words[2]).To(Equal(uint64(7)))
	})

	It("should reject non-positive sizes", func() {
		_, err := mem.NewArena(0)
		Expect(err).To(HaveOccurred())
		_, err = mem.NewArena(-5)
		Expect(err).To(HaveOccurred())
	})

	It("should release cleanly", func() {
		a, err := mem.NewArena(128)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Release()).To(Succeed())
	})
})
