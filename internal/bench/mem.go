package bench

import "runtime"

// MemSampler observes memory usage during a run and reports the peak.
// Implementations are free to define "memory" however their runtime allows;
// the harness treats the figure as a diagnostic, not a contract.
type MemSampler interface {
	Reset()
	Sample()
	Peak() uint64
}

// HeapSampler tracks peak heap growth relative to the start of a run using
// runtime.MemStats.
type HeapSampler struct {
	baseline uint64
	peak     uint64
}

// NewHeapSampler returns an unarmed sampler; Reset arms it for a run.
func NewHeapSampler() *HeapSampler {
	return &HeapSampler{}
}

// Reset collects garbage and records the current heap as the run baseline.
func (h *HeapSampler) Reset() {
	runtime.GC()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	h.baseline = ms.HeapAlloc
	h.peak = 0
}

// Sample reads the heap and keeps the largest growth seen since Reset.
func (h *HeapSampler) Sample() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapAlloc <= h.baseline {
		return
	}
	if delta := ms.HeapAlloc - h.baseline; delta > h.peak {
		h.peak = delta
	}
}

// Peak returns the largest heap growth observed during the run, in bytes.
func (h *HeapSampler) Peak() uint64 {
	return h.peak
}
