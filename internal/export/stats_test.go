package export

import (
	"testing"
	"time"
)

func TestStats_Empty(t *testing.T) {
	s := NewStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestStats_Aggregates(t *testing.T) {
	s := NewStats(time.Hour)
	for _, ms := range []int64{10, 20, 30, 40, 50} {
		s.Record(time.Duration(ms) * time.Millisecond)
	}

	snap := s.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("count: got %d", snap.Count)
	}
	if snap.MinMs != 10 || snap.MaxMs != 50 {
		t.Errorf("min/max: got %d/%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 30 {
		t.Errorf("avg: got %f", snap.AvgMs)
	}
	if snap.P50Ms != 30 {
		t.Errorf("p50: got %f", snap.P50Ms)
	}
	if snap.P95Ms < snap.P50Ms || snap.P99Ms < snap.P95Ms {
		t.Errorf("percentiles not monotonic: %+v", snap)
	}
}

func TestStats_NegativeClamped(t *testing.T) {
	s := NewStats(time.Hour)
	s.Record(-5 * time.Millisecond)
	snap := s.Snapshot()
	if snap.MinMs != 0 {
		t.Errorf("expected negative sample clamped to 0, got %d", snap.MinMs)
	}
}

func TestStats_WindowPrunes(t *testing.T) {
	s := NewStats(10 * time.Millisecond)
	s.Record(5 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if snap := s.Snapshot(); snap.Count != 0 {
		t.Errorf("expected sample pruned, got %+v", snap)
	}
}
