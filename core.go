package qchash

import (
	"math/bits"

	"github.com/cockroachdb/errors"
)

// defaultMinBucketCount and defaultMinCapacity are the configuration
// constants from spec §6.4: the floor bucketCount can never rehash below,
// and the capacity threshold under which a requested capacity just uses
// that floor directly.
const (
	defaultMinBucketCount = 16
	defaultMinCapacity    = defaultMinBucketCount / 2
)

// core is the shared Robin Hood engine behind both Set[K] and Map[K, V].
// E is the entry shape stored per slot: K itself for a set, Kv[K, V] for a
// map. keyOf extracts the key a given entry is indexed under.
//
// Allocation of slots is lazy: a freshly constructed core has
// bucketCount recorded but slots == nil, matching spec §3's "construction
// stores only the requested bucketCount and defers allocation".
type core[K any, E any] struct {
	slots       []slot[E]
	size        int
	bucketCount int
	minBuckets  int
	hash        HashFunc[K]
	equal       EqualFunc[K]
	keyOf       func(E) K
	alloc       Allocator[E]

	rehashCount  uint64
	maxProbeSeen uint32
}

func newCore[K any, E any](minCapacity int, hash HashFunc[K], equal EqualFunc[K], keyOf func(E) K, alloc Allocator[E]) core[K, E] {
	if minCapacity < defaultMinCapacity {
		minCapacity = defaultMinCapacity
	}
	minBuckets := nextPow2(minCapacity * 2)
	if minBuckets < defaultMinBucketCount {
		minBuckets = defaultMinBucketCount
	}
	if alloc == nil {
		alloc = defaultAllocator[E]{}
	}
	return core[K, E]{
		bucketCount: minBuckets,
		minBuckets:  minBuckets,
		hash:        hash,
		equal:       equal,
		keyOf:       keyOf,
		alloc:       alloc,
	}
}

func nextPow2(n int) int {
	if n < 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func (c *core[K, E]) index(h uint64) int {
	return int(h & uint64(c.bucketCount-1))
}

func (c *core[K, E]) ensureAllocated() {
	if c.slots != nil {
		return
	}
	c.allocateSlots()
}

func (c *core[K, E]) allocateSlots() {
	c.slots = make([]slot[E], c.bucketCount+1)
	c.slots[c.bucketCount].dist = sentinelDist
}

func (c *core[K, E]) len() int { return c.size }

func (c *core[K, E]) isEmpty() bool { return c.size == 0 }

func (c *core[K, E]) capacity() int { return c.bucketCount / 2 }

// find returns the slot index holding key, or ok=false. Scanning stops
// as soon as the current slot's distance is smaller than the distance
// we'd be at were the key present — the Robin Hood ordering invariant
// (spec §3, §8 invariant 2) guarantees nothing further down the probe
// sequence can hold it. This shortcut is grounded on the reference
// material's own Get (pkg/fileservice/memorycache/lrucache/internal/hashmap).
func (c *core[K, E]) find(key K) (int, bool) {
	if c.slots == nil || c.size == 0 {
		return 0, false
	}
	h := c.hash(key)
	i := c.index(h)
	d := uint32(1)
	for {
		s := &c.slots[i]
		if s.dist < d {
			return 0, false
		}
		if c.equal(c.keyOf(s.entry), key) {
			return i, true
		}
		i++
		if i == c.bucketCount {
			i = 0
		}
		d++
	}
}

// tryEmplace implements spec §4.3. It returns a pointer to the slot's
// entry (valid until the next rehash), whether a new entry was
// constructed, and any error from the allocator's Acquire hook. On error
// the table is left exactly as it was: Acquire is called only after the
// target slot has been identified but before anything is written or
// displaced.
func (c *core[K, E]) tryEmplace(key K, entry E) (*E, bool, error) {
	c.ensureAllocated()
	h := c.hash(key)

	for {
		i := c.index(h)
		d := uint32(1)
		for {
			s := &c.slots[i]
			if s.dist < d {
				if c.size >= c.bucketCount/2 {
					c.rehash(c.bucketCount * 2)
					break // restart the outer loop on the new table
				}
				if err := c.alloc.Acquire(); err != nil {
					return nil, false, errors.Wrap(err, "qchash: acquire entry storage")
				}
				if s.dist > 0 {
					c.displace(s.entry, i+1, s.dist+1)
				}
				s.entry = entry
				s.dist = d
				c.size++
				c.noteProbe(d)
				return &s.entry, true, nil
			}
			if c.equal(c.keyOf(s.entry), key) {
				return &s.entry, false, nil
			}
			i++
			if i == c.bucketCount {
				i = 0
			}
			d++
			if d >= maxLiveDist {
				c.rehash(c.bucketCount * 2)
				break
			}
		}
	}
}

// displace is spec §4.4's propagate: it carries a just-ejected entry
// forward through the probe sequence, continuing the Robin Hood
// discipline among the entries downstream of an insertion.
func (c *core[K, E]) displace(e E, i int, d uint32) {
	if i == c.bucketCount {
		i = 0
	}
	for {
		s := &c.slots[i]
		if s.dist == 0 {
			s.entry = e
			s.dist = d
			c.noteProbe(d)
			return
		}
		if s.dist < d {
			e, s.entry = s.entry, e
			d, s.dist = s.dist, d
			c.noteProbe(s.dist)
		}
		i++
		if i == c.bucketCount {
			i = 0
		}
		d++
	}
}

func (c *core[K, E]) noteProbe(d uint32) {
	if d > c.maxProbeSeen {
		c.maxProbeSeen = d
	}
}

// insertNoGrow re-inserts an entry known to belong to a table with
// sufficient headroom (used by rehash) and a key not already present
// (the source table held it uniquely). It skips the equality check and
// the load-factor/grow check that tryEmplace needs for fresh inserts.
func (c *core[K, E]) insertNoGrow(e E) {
	h := c.hash(c.keyOf(e))
	i := c.index(h)
	d := uint32(1)
	for {
		s := &c.slots[i]
		if s.dist < d {
			if s.dist > 0 {
				c.displace(s.entry, i+1, s.dist+1)
			}
			s.entry = e
			s.dist = d
			c.size++
			c.noteProbe(d)
			return
		}
		i++
		if i == c.bucketCount {
			i = 0
		}
		d++
	}
}

// eraseAtCore performs the backward-shift deletion of spec §4.5 on the
// slot at index i, without considering a shrink rehash. The removed entry
// is swapped along the shift, so Release receives the removed entry itself.
// It returns the argument i: after the shift, the first shifted successor
// (if any) occupies that slot, so callers that need to keep iterating
// seek forward from it.
func (c *core[K, E]) eraseAtCore(i int) int {
	start := i
	j := i + 1
	if j == c.bucketCount {
		j = 0
	}
	for c.slots[j].dist > 1 {
		c.slots[i].entry, c.slots[j].entry = c.slots[j].entry, c.slots[i].entry
		c.slots[i].dist = c.slots[j].dist - 1
		i = j
		j++
		if j == c.bucketCount {
			j = 0
		}
	}
	c.alloc.Release(&c.slots[i].entry)
	c.slots[i].dist = 0
	c.size--
	return start
}

// eraseAt erases the entry at slot index i and applies the shrink
// hysteresis from spec §4.5, returning an iterator to the slot the next
// live entry (if any) now occupies.
func (c *core[K, E]) eraseAt(i int) Iterator[E] {
	landedAt := c.eraseAtCore(i)
	it := c.seekFrom(landedAt)
	if it.idx == c.bucketCount {
		c.maybeShrink()
		return c.end()
	}
	// A shrink rehash moves every entry, so re-locate the next entry by key.
	next := c.keyOf(c.slots[it.idx].entry)
	c.maybeShrink()
	j, _ := c.find(next)
	return Iterator[E]{slots: c.slots, idx: j}
}

// eraseRange erases every live entry with an index in [first.idx,
// last.idx), deferring the shrink rehash to a single pass at the end
// (spec §4.5: "implementations MAY defer shrinking ... call a
// consolidating rehash once at the end").
func (c *core[K, E]) eraseRange(first, last Iterator[E]) int {
	if c.slots == nil {
		return 0
	}
	hi := last.idx
	if hi > c.bucketCount {
		hi = c.bucketCount
	}
	var keys []K
	for i := first.idx; i < hi; i++ {
		if c.slots[i].dist > 0 {
			keys = append(keys, c.keyOf(c.slots[i].entry))
		}
	}
	for _, k := range keys {
		if idx, ok := c.find(k); ok {
			c.eraseAtCore(idx)
		}
	}
	c.maybeShrink()
	return len(keys)
}

// eraseKey removes the entry for key, if present, applying the same
// shrink hysteresis as eraseAt. It returns whether anything was removed.
func (c *core[K, E]) eraseKey(key K) bool {
	i, ok := c.find(key)
	if !ok {
		return false
	}
	c.eraseAtCore(i)
	c.maybeShrink()
	return true
}

func (c *core[K, E]) maybeShrink() {
	if c.bucketCount <= c.minBuckets {
		return
	}
	if c.size > c.bucketCount/8 {
		return
	}
	target := c.bucketCount / 2
	if target < c.minBuckets {
		target = c.minBuckets
	}
	c.rehash(target)
}

// rehash implements spec §4.7: round the request up to a power of two,
// clamp to the minimum and to at least 2×size, no-op if unchanged, defer
// to lazy allocation if storage doesn't exist yet, otherwise move every
// live entry into a freshly allocated array in index order.
func (c *core[K, E]) rehash(requested int) {
	n := nextPow2(requested)
	if n < c.minBuckets {
		n = c.minBuckets
	}
	if minForSize := nextPow2(2 * c.size); n < minForSize {
		n = minForSize
	}
	if n == c.bucketCount {
		return
	}
	if c.slots == nil {
		c.bucketCount = n
		return
	}

	old := c.slots
	oldCount := c.bucketCount
	c.bucketCount = n
	c.size = 0
	c.allocateSlots()
	c.rehashCount++

	for idx := 0; idx < oldCount; idx++ {
		if old[idx].dist > 0 {
			c.insertNoGrow(old[idx].entry)
		}
	}
}

func (c *core[K, E]) reserve(n int) {
	c.rehash(n * 2)
}

func (c *core[K, E]) clear() {
	if c.slots == nil {
		c.size = 0
		return
	}
	if !isDefaultAllocator(c.alloc) {
		for i := 0; i < c.bucketCount; i++ {
			if c.slots[i].dist > 0 {
				c.alloc.Release(&c.slots[i].entry)
			}
		}
	}
	clear(c.slots[:c.bucketCount])
	c.size = 0
}

func (c *core[K, E]) begin() Iterator[E] {
	if c.slots == nil || c.size == 0 {
		return c.end()
	}
	return c.seekFrom(0)
}

func (c *core[K, E]) end() Iterator[E] {
	return Iterator[E]{slots: c.slots, idx: c.bucketCount}
}

// seekFrom returns an iterator to the first live slot at or after index
// i, within the table's current slots array.
func (c *core[K, E]) seekFrom(i int) Iterator[E] {
	for i < c.bucketCount && c.slots[i].dist == 0 {
		i++
	}
	return Iterator[E]{slots: c.slots, idx: i}
}

// equalTo implements spec §4.8: two tables compare equal iff their sizes
// match and every key in one is present in the other under equal.
func (c *core[K, E]) equalTo(other *core[K, E]) bool {
	if c.size != other.size {
		return false
	}
	if c.size == 0 {
		return true
	}
	for i := 0; i < c.bucketCount; i++ {
		if c.slots[i].dist == 0 {
			continue
		}
		if _, ok := other.find(c.keyOf(c.slots[i].entry)); !ok {
			return false
		}
	}
	return true
}

// emptyLike returns a fresh, empty core sharing c's adaptors and minimum
// bucket count but owning none of c's storage — the starting point for
// both Clone (spec §6's copy-construct) and the destination side of
// Absorb (spec §6's move-construct/assign across possibly unequal
// allocators).
func (c *core[K, E]) emptyLike() core[K, E] {
	return core[K, E]{
		bucketCount: c.minBuckets,
		minBuckets:  c.minBuckets,
		hash:        c.hash,
		equal:       c.equal,
		keyOf:       c.keyOf,
		alloc:       c.alloc,
	}
}

// cloneInto copy-constructs every live entry of c into dst by way of
// dst.tryEmplace, so each entry is acquired through dst's own allocator
// (not c's) and dst grows exactly as it would from a sequence of ordinary
// inserts. c is left untouched. This is the shared engine behind both
// Clone (dst starts empty, same adaptors as c) and Absorb (dst may
// already hold entries and may use different adaptors than c).
func (c *core[K, E]) cloneInto(dst *core[K, E]) error {
	if c.slots == nil {
		return nil
	}
	for i := 0; i < c.bucketCount; i++ {
		if c.slots[i].dist == 0 {
			continue
		}
		entry := c.slots[i].entry
		if _, _, err := dst.tryEmplace(c.keyOf(entry), entry); err != nil {
			return err
		}
	}
	return nil
}

// statsSnapshot snapshots the table's bookkeeping for the rhstat package.
func (c *core[K, E]) statsSnapshot() (size, bucketCount int, loadFactor float64, rehashes uint64, maxProbe int) {
	size = c.size
	bucketCount = c.bucketCount
	if bucketCount > 0 {
		loadFactor = float64(size) / float64(bucketCount)
	}
	rehashes = c.rehashCount
	maxProbe = int(c.maxProbeSeen)
	return
}
