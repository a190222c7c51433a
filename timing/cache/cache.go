// Package cache models the data cache seen by the word machine's memory
// opcodes, using Akita cache components for tag and replacement state.
// Addresses and block sizes are in 64-bit words, the machine's addressable
// unit.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters.
type Config struct {
	// Words is the total capacity in 64-bit words.
	Words int
	// Associativity is the number of ways per set.
	Associativity int
	// BlockWords is the cache-line size in words.
	BlockWords int
	// HitLatency in cycles.
	HitLatency uint64
	// MissLatency in cycles, including the memory access.
	MissLatency uint64
}

// DefaultDataConfig returns the default data-cache configuration:
// 16 Ki words (128 KB), 8-way, 8-word lines.
func DefaultDataConfig() Config {
	return Config{
		Words:         16 * 1024,
		Associativity: 8,
		BlockWords:    8,
		HitLatency:    3,
		MissLatency:   150,
	}
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Latency is the number of cycles this access takes.
	Latency uint64
	// Evicted is true if a valid block was evicted.
	Evicted bool
	// EvictedAddr is the word address of the evicted block.
	EvictedAddr uint64
}

// Statistics holds cache performance counters.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// BackingStore is the next level in the memory hierarchy. The cache only
// tracks residency and dirtiness; writebacks notify the backing store of
// the block address so it can account for traffic.
type BackingStore interface {
	// FetchBlock is called when a block is brought into the cache.
	FetchBlock(addr uint64, words int)
	// WritebackBlock is called when a dirty block is written back.
	WritebackBlock(addr uint64, words int)
}

// Cache is a set-associative, write-allocate, writeback data cache.
type Cache struct {
	config    Config
	directory *akitacache.DirectoryImpl
	stats     Statistics
	backing   BackingStore
}

// New creates a cache with the given configuration.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Words / (config.Associativity * config.BlockWords)

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockWords,
			akitacache.NewLRUVictimFinder(),
		),
		backing: backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// Read performs a cache read at the given word address.
func (c *Cache) Read(addr uint64) AccessResult {
	c.stats.Reads++
	return c.access(addr, false)
}

// Write performs a cache write at the given word address.
func (c *Cache) Write(addr uint64) AccessResult {
	c.stats.Writes++
	return c.access(addr, true)
}

func (c *Cache) access(addr uint64, isWrite bool) AccessResult {
	blockAddr := addr / uint64(c.config.BlockWords) * uint64(c.config.BlockWords)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		if isWrite {
			block.IsDirty = true
		}
		return AccessResult{Hit: true, Latency: c.config.HitLatency}
	}

	c.stats.Misses++
	return c.handleMiss(blockAddr, isWrite)
}

// handleMiss allocates a block for blockAddr, evicting a victim if needed.
func (c *Cache) handleMiss(blockAddr uint64, isWrite bool) AccessResult {
	result := AccessResult{Latency: c.config.MissLatency}

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return result
	}

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = victim.Tag
		if victim.IsDirty && c.backing != nil {
			c.stats.Writebacks++
			c.backing.WritebackBlock(victim.Tag, c.config.BlockWords)
		}
	}

	if c.backing != nil {
		c.backing.FetchBlock(blockAddr, c.config.BlockWords)
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = isWrite
	c.directory.Visit(victim)

	return result
}

// Flush writes back all dirty blocks and invalidates the cache.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty && c.backing != nil {
				c.stats.Writebacks++
				c.backing.WritebackBlock(block.Tag, c.config.BlockWords)
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all cache lines without writeback and clears the
// statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
