package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tickbench/internal/bench"
)

func TestSampleStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	samples := []bench.Sample{
		{Strategy: "naive", Size: 1000, Elapsed: 5 * time.Millisecond, PeakMemory: 4096, Signals: 300, Completed: true},
		{Strategy: "naive", Size: 100_000, Elapsed: 10 * time.Second, Completed: false},
	}
	if err := s.SaveAll(ctx, samples); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}

	latest, err := s.Latest(ctx, 10)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(latest))
	}
	// Most recent insert first.
	if latest[0].Size != 100_000 || latest[0].Completed {
		t.Fatalf("unexpected first sample %+v", latest[0])
	}
	if latest[1].Strategy != "naive" || latest[1].Elapsed != 5*time.Millisecond || latest[1].PeakMemory != 4096 {
		t.Fatalf("unexpected second sample %+v", latest[1])
	}
}

func TestLatestHonorsLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := s.Save(ctx, bench.Sample{Strategy: "cumulative", Size: i, Completed: true}); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}
	latest, err := s.Latest(ctx, 3)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if len(latest) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(latest))
	}
	if latest[0].Size != 4 {
		t.Fatalf("expected newest sample first, got size %d", latest[0].Size)
	}
}
