package tutor

import "sync/atomic"

// Stats holds in-memory diagnostic counters for the pipeline.
type Stats struct {
	asks        atomic.Int64
	cacheHits   atomic.Int64
	generations atomic.Int64
	degraded    atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Asks            int64 `json:"asks"`
	CacheHits       int64 `json:"cacheHits"`
	Generations     int64 `json:"generations"`
	DegradedLookups int64 `json:"degradedLookups"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Asks:            s.asks.Load(),
		CacheHits:       s.cacheHits.Load(),
		Generations:     s.generations.Load(),
		DegradedLookups: s.degraded.Load(),
	}
}
