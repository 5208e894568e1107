package qchash

// TableStats is a point-in-time snapshot of a table's bookkeeping,
// exposed so ambient instrumentation (see the rhstat package) can report
// on a table without reaching into its internals.
type TableStats struct {
	Size        int
	BucketCount int
	LoadFactor  float64
	Rehashes    uint64
	MaxProbe    int
}

func (c *core[K, E]) stats() TableStats {
	size, bucketCount, loadFactor, rehashes, maxProbe := c.statsSnapshot()
	return TableStats{
		Size:        size,
		BucketCount: bucketCount,
		LoadFactor:  loadFactor,
		Rehashes:    rehashes,
		MaxProbe:    maxProbe,
	}
}
