// Package ingest turns external sources (CSV files, live feeds, synthetic
// generators) into ordered tick sequences for the benchmark harness.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tickbench/internal/tick"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format %q", raw)
}

// columnIndex maps required and optional header names to their positions.
type columnIndex struct {
	timestamp int
	symbol    int
	price     int
	volume    int // -1 when the column is absent
}

func indexColumns(header []string) (columnIndex, error) {
	idx := columnIndex{timestamp: -1, symbol: -1, price: -1, volume: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "timestamp":
			idx.timestamp = i
		case "symbol":
			idx.symbol = i
		case "price":
			idx.price = i
		case "volume":
			idx.volume = i
		}
	}
	if idx.timestamp < 0 || idx.symbol < 0 || idx.price < 0 {
		return idx, fmt.Errorf("csv header must contain timestamp, symbol, price; got %v", header)
	}
	return idx, nil
}

// LoadCSV reads every row of a tick CSV into memory, preserving file order.
func LoadCSV(path string) ([]tick.Tick, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var ticks []tick.Tick
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}
		row++

		ts, err := parseTimestamp(record[idx.timestamp])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[idx.price]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price %q", row, record[idx.price])
		}
		var volume int64
		if idx.volume >= 0 {
			volume, err = strconv.ParseInt(strings.TrimSpace(record[idx.volume]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid volume %q", row, record[idx.volume])
			}
		}
		ticks = append(ticks, tick.Tick{
			Symbol: strings.TrimSpace(record[idx.symbol]),
			Price:  price,
			Volume: volume,
			Ts:     ts,
		})
	}
	return ticks, nil
}

// WriteCSV persists a tick sequence as a fixture readable by LoadCSV.
func WriteCSV(path string, ticks []tick.Tick) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"timestamp", "symbol", "price", "volume"}); err != nil {
		return err
	}
	for _, tk := range ticks {
		record := []string{
			tk.Ts.Format(time.RFC3339),
			tk.Symbol,
			strconv.FormatFloat(tk.Price, 'f', 4, 64),
			strconv.FormatInt(tk.Volume, 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
