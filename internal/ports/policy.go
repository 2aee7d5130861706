package ports

import "time"

type Policy struct {
	Interval       time.Duration `yaml:"interval"`
	MaxSpoolBytes  int64         `yaml:"max_spool_bytes"`
	MaxBatchPoints int           `yaml:"max_batch_points"`
}
