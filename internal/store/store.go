// Package store persists benchmark samples across invocations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"tickbench/internal/bench"
)

// SampleStore keeps a history of benchmark samples in SQLite so runs can be
// compared over time.
type SampleStore struct {
	db *sql.DB
}

// Open creates the store, enabling WAL mode and creating the schema if needed.
func Open(dbPath string) (*SampleStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			strategy TEXT NOT NULL,
			size INTEGER NOT NULL,
			elapsed_ns INTEGER NOT NULL,
			peak_bytes INTEGER NOT NULL,
			signals INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			recorded_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("create samples table: %w", err)
	}

	return &SampleStore{db: db}, nil
}

// Save inserts one sample with the current wall-clock time.
func (s *SampleStore) Save(ctx context.Context, sample bench.Sample) error {
	completed := 0
	if sample.Completed {
		completed = 1
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO samples (strategy, size, elapsed_ns, peak_bytes, signals, completed, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		sample.Strategy, sample.Size, int64(sample.Elapsed), int64(sample.PeakMemory), sample.Signals, completed, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// SaveAll inserts every sample in order.
func (s *SampleStore) SaveAll(ctx context.Context, samples []bench.Sample) error {
	for _, sample := range samples {
		if err := s.Save(ctx, sample); err != nil {
			return err
		}
	}
	return nil
}

// Latest returns up to limit samples, most recently inserted first.
func (s *SampleStore) Latest(ctx context.Context, limit int) ([]bench.Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT strategy, size, elapsed_ns, peak_bytes, signals, completed FROM samples ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []bench.Sample
	for rows.Next() {
		var sample bench.Sample
		var elapsed, peak int64
		var completed int
		if err := rows.Scan(&sample.Strategy, &sample.Size, &elapsed, &peak, &sample.Signals, &completed); err != nil {
			return nil, err
		}
		sample.Elapsed = time.Duration(elapsed)
		sample.PeakMemory = uint64(peak)
		sample.Completed = completed == 1
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// Close releases the underlying database handle.
func (s *SampleStore) Close() error {
	return s.db.Close()
}
