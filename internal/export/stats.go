package export

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	at time.Time
	d  time.Duration
}

// StatsSnapshot is a point-in-time aggregate of per-article export latencies.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Stats tracks recent article export latencies within a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds one latency sample.
func (s *Stats) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, d: d})
}

// Snapshot aggregates the samples still inside the window.
func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	ms := make([]float64, len(s.samples))
	var sum float64
	for i, sm := range s.samples {
		v := float64(sm.d.Milliseconds())
		ms[i] = v
		sum += v
	}
	sort.Float64s(ms)

	return StatsSnapshot{
		Count: len(ms),
		MinMs: int64(ms[0]),
		MaxMs: int64(ms[len(ms)-1]),
		AvgMs: sum / float64(len(ms)),
		P50Ms: percentile(ms, 0.50),
		P95Ms: percentile(ms, 0.95),
		P99Ms: percentile(ms, 0.99),
	}
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	keep := s.samples[:0]
	for _, sm := range s.samples {
		if sm.at.After(cutoff) {
			keep = append(keep, sm)
		}
	}
	s.samples = keep
}

// percentile reads the pth quantile from an already-sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
