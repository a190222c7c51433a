package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"wordvm/timing/cache"
)

var _ = Describe("Cache", func() {
	var (
		c       *cache.Cache
		traffic *cache.TrafficCounter
	)

	// Small geometry so evictions are easy to force: 4 sets, 2 ways,
	// 4-word lines.
	config := cache.Config{
		Words:         32,
		Associativity: 2,
		BlockWords:    4,
		HitLatency:    3,
		MissLatency:   150,
	}

	BeforeEach(func() {
		traffic = &cache.TrafficCounter{}
		c = cache.New(config, traffic)
	})

	It("should miss cold and hit warm", func() {
		r := c.Read(0)
		Expect(r.Hit).To(BeFalse())
		Expect(r.Latency).To(Equal(config.MissLatency))

		r = c.Read(0)
		Expect(r.Hit).To(BeTrue())
		Expect(r.Latency).To(Equal(config.HitLatency))
	})

	It("should hit anywhere within a fetched line", func() {
		c.Read(0)
		for addr := uint64(1); addr < uint64(config.BlockWords); addr++ {
			Expect(c.Read(addr).Hit).To(BeTrue())
		}
	})

	It("should count reads, writes, hits and misses", func() {
		c.Read(0)
		c.Read(1)
		c.Write(2)
		c.Read(100)

		stats := c.Stats()
		Expect(stats.Reads).To(Equal(uint64(3)))
		Expect(stats.Writes).To(Equal(uint64(1)))
		Expect(stats.Hits).To(Equal(uint64(2)))
		Expect(stats.Misses).To(Equal(uint64(2)))
	})

	It("should evict the LRU way when a set overflows", func() {
		// Word addresses 0, 16 and 32 all land in set 0 of the 4-set,
		// 2-way geometry.
		c.Read(0)
		c.Read(16)
		r := c.Read(32)
		Expect(r.Hit).To(BeFalse())
		Expect(r.Evicted).To(BeTrue())
		Expect(r.EvictedAddr).To(Equal(uint64(0)))

		Expect(c.Read(16).Hit).To(BeTrue())
		Expect(c.Read(0).Hit).To(BeFalse())
	})

	It("should write back dirty blocks on eviction", func() {
		c.Write(0)
		c.Read(16)
		c.Read(32) // evicts the dirty block at 0

		Expect(c.Stats().Writebacks).To(Equal(uint64(1)))
		Expect(traffic.WrittenWords).To(Equal(uint64(config.BlockWords)))
	})

	It("should account fetch traffic per miss", func() {
		c.Read(0)
		c.Read(16)
		Expect(traffic.FetchedWords).To(Equal(uint64(2 * config.BlockWords)))
	})

	It("should flush dirty blocks and invalidate everything", func() {
		c.Write(0)
		c.Write(16)
		c.Flush()

		Expect(c.Stats().Writebacks).To(Equal(uint64(2)))
		Expect(c.Read(0).Hit).To(BeFalse())
	})

	It("should reset statistics and contents", func() {
		c.Write(0)
		c.Read(0)
		c.Reset()

		Expect(c.Stats()).To(Equal(cache.Statistics{}))
		Expect(c.Read(0).Hit).To(BeFalse())
	})
})
