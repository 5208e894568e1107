package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/daskie/qchash"
)

// runWorkload drives a qchash.Map[string, int64] through an insert /
// delete / lookup pattern described by cfg, logging progress every
// cfg.ReportEvery inserts and the table's final bookkeeping on exit.
func runWorkload(logger *zap.Logger, cfg workloadConfig) error {
	m := qchash.NewMapWith[string, int64](
		cfg.MinCapacity,
		qchash.DefaultStringHasher(),
		qchash.DefaultEqual[string](),
		nil,
	)

	logger.Info("workload starting",
		zap.Int("inserts", cfg.Inserts),
		zap.Int("deletes", cfg.Deletes),
		zap.Int("lookups", cfg.Lookups),
		zap.Int("min_capacity", cfg.MinCapacity),
	)

	for i := 0; i < cfg.Inserts; i++ {
		key := fmt.Sprintf("%s%d", cfg.KeyPrefix, i)
		m.Emplace(key, int64(i))

		if cfg.DeleteStride > 0 && i%cfg.DeleteStride == 0 {
			victim := fmt.Sprintf("%s%d", cfg.KeyPrefix, i/2)
			m.Delete(victim)
		}

		if (i+1)%cfg.ReportEvery == 0 {
			s := m.Stats()
			logger.Info("progress",
				zap.Int("processed", i+1),
				zap.Int("size", s.Size),
				zap.Int("bucket_count", s.BucketCount),
				zap.Float64("load_factor", s.LoadFactor),
				zap.Uint64("rehashes", s.Rehashes),
			)
		}
	}

	hits := 0
	for i := 0; i < cfg.Lookups; i++ {
		key := fmt.Sprintf("%s%d", cfg.KeyPrefix, i)
		if m.Contains(key) {
			hits++
		}
	}

	final := m.Stats()
	logger.Info("workload complete",
		zap.Int("final_size", final.Size),
		zap.Int("final_bucket_count", final.BucketCount),
		zap.Float64("final_load_factor", final.LoadFactor),
		zap.Uint64("rehashes", final.Rehashes),
		zap.Int("max_probe_distance", final.MaxProbe),
		zap.Int("lookup_hits", hits),
		zap.Int("lookups_attempted", cfg.Lookups),
	)
	return nil
}
