package ingest

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(500, GenOptions{})
	b := Generate(500, GenOptions{})
	if len(a) != 500 || len(b) != 500 {
		t.Fatalf("expected 500 ticks, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tick %d differs between identical seeds: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateRespectsOptions(t *testing.T) {
	ticks := Generate(10, GenOptions{Symbol: "XYZ", StartPrice: 50, Seed: 7})
	for i, tk := range ticks {
		if tk.Symbol != "XYZ" {
			t.Fatalf("tick %d: unexpected symbol %s", i, tk.Symbol)
		}
		if tk.Price <= 0 {
			t.Fatalf("tick %d: non-positive price %.4f", i, tk.Price)
		}
		if tk.Volume <= 0 {
			t.Fatalf("tick %d: non-positive volume %d", i, tk.Volume)
		}
		if i > 0 && tk.Ts.Before(ticks[i-1].Ts) {
			t.Fatalf("tick %d: timestamps went backwards", i)
		}
	}
}

func TestWriteAndLoadCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures", "ticks.csv")
	original := Generate(50, GenOptions{})
	if err := WriteCSV(path, original); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	loaded, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV returned error: %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("expected %d ticks, got %d", len(original), len(loaded))
	}
	for i := range loaded {
		if loaded[i].Symbol != original[i].Symbol {
			t.Fatalf("tick %d: symbol %s != %s", i, loaded[i].Symbol, original[i].Symbol)
		}
		// Prices are persisted with four decimals.
		if math.Abs(loaded[i].Price-original[i].Price) > 1e-4 {
			t.Fatalf("tick %d: price drifted %.6f vs %.6f", i, loaded[i].Price, original[i].Price)
		}
		if loaded[i].Volume != original[i].Volume {
			t.Fatalf("tick %d: volume %d != %d", i, loaded[i].Volume, original[i].Volume)
		}
		if !loaded[i].Ts.Equal(original[i].Ts) {
			t.Fatalf("tick %d: timestamp %s != %s", i, loaded[i].Ts, original[i].Ts)
		}
	}
}

func TestLoadCSVLegacyTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticks.csv")
	content := strings.Join([]string{
		"timestamp,symbol,price",
		"2026-01-01 09:30:00,ABC,100.5",
		"2026/01/01 09:31:00,ABC,101.0",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ticks, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV returned error: %v", err)
	}
	if len(ticks) != 2 {
		t.Fatalf("expected 2 ticks, got %d", len(ticks))
	}
	if ticks[0].Volume != 0 {
		t.Fatalf("expected zero volume when column missing, got %d", ticks[0].Volume)
	}
	if !ticks[1].Ts.After(ticks[0].Ts) {
		t.Fatalf("expected ordered timestamps")
	}
}

func TestLoadCSVRejectsBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("time,ticker,close\n1,ABC,2\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadCSV(path); err == nil {
		t.Fatalf("expected header validation error")
	}
}

func TestLoadCSVRejectsBadPrice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "timestamp,symbol,price\n2026-01-01T09:30:00Z,ABC,not-a-price\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadCSV(path); err == nil {
		t.Fatalf("expected price parse error")
	}
}

func TestDecodeTrade(t *testing.T) {
	message := []byte(`{"stream":"btcusdt@trade","data":{"p":"65000.10","q":"2.4","T":1735689600000}}`)
	tk, err := decodeTrade(message)
	if err != nil {
		t.Fatalf("decodeTrade returned error: %v", err)
	}
	if tk.Symbol != "BTCUSDT" {
		t.Fatalf("unexpected symbol %s", tk.Symbol)
	}
	if tk.Price != 65000.10 {
		t.Fatalf("unexpected price %.4f", tk.Price)
	}
	if tk.Volume != 2 {
		t.Fatalf("unexpected volume %d", tk.Volume)
	}
	if !tk.Ts.Equal(time.UnixMilli(1735689600000)) {
		t.Fatalf("unexpected timestamp %s", tk.Ts)
	}
}

func TestDecodeTradeRejectsBadPrice(t *testing.T) {
	message := []byte(`{"stream":"btcusdt@trade","data":{"p":"oops","q":"1","T":0}}`)
	if _, err := decodeTrade(message); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestParseStreamSymbol(t *testing.T) {
	cases := map[string]string{
		"btcusdt@trade": "BTCUSDT",
		"ethusdt":       "ETHUSDT",
		"":              "",
	}
	for stream, expected := range cases {
		if got := parseStreamSymbol(stream); got != expected {
			t.Fatalf("expected %s got %s", expected, got)
		}
	}
}
