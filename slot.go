package qchash

// slot is one addressable cell of the table's backing array: a probe
// distance tag plus storage for one entry. dist == 0 means the slot is
// empty; dist == d > 0 means the slot holds an entry currently d probe
// steps (1-based) from its ideal index. dist == sentinelDist marks the
// trailing sentinel slot and is never produced by a live entry.
type slot[E any] struct {
	dist  uint32
	entry E
}

// sentinelDist is the maximum representable distance. It is reserved for
// the table's trailing sentinel slot so that iterator advancement can stop
// without comparing the slot index against bucketCount.
const sentinelDist = ^uint32(0)

// maxLiveDist is the largest distance a real entry may carry. Saturating
// at this value (rather than sentinelDist itself) keeps a live entry from
// ever being mistaken for the sentinel under adversarial hashes; reaching
// it forces a rehash instead of letting dist wrap or collide with
// sentinelDist (spec open question: distance-tag saturation).
const maxLiveDist = sentinelDist - 1
