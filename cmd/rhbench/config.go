package main

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// workloadConfig describes a synthetic benchmark run against a
// qchash.Map[string, int64], loaded from a TOML file.
type workloadConfig struct {
	Inserts      int    `toml:"inserts"`
	Deletes      int    `toml:"deletes"`
	Lookups      int    `toml:"lookups"`
	MinCapacity  int    `toml:"min_capacity"`
	KeyPrefix    string `toml:"key_prefix"`
	DeleteStride int    `toml:"delete_stride"`
	ReportEvery  int    `toml:"report_every"`
}

func loadWorkloadConfig(path string) (workloadConfig, error) {
	var cfg workloadConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return workloadConfig{}, errors.Wrapf(err, "qchash: decode workload config %q", path)
	}
	if cfg.Inserts <= 0 {
		return workloadConfig{}, errors.Newf("qchash: workload config %q: inserts must be positive", path)
	}
	if cfg.DeleteStride <= 0 {
		cfg.DeleteStride = 3
	}
	if cfg.ReportEvery <= 0 {
		cfg.ReportEvery = cfg.Inserts
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "key-"
	}
	return cfg, nil
}
