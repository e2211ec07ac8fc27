// Package metrics reads runtime memory statistics around a solve, shown by
// --details.
package metrics

import (
	"runtime"
	"unsafe"

	"github.com/agbru/friedmann/internal/cosmo"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
	TotalAlloc   uint64 // cumulative bytes allocated
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
		TotalAlloc:   m.TotalAlloc,
	}
}

// MemoryDelta summarizes what happened between two snapshots.
type MemoryDelta struct {
	Allocated uint64 // bytes allocated in between
	GCCycles  uint32 // collections in between
	PeakHeap  uint64 // larger of the two heap readings
}

// Delta compares a snapshot taken before a solve with one taken after.
func Delta(before, after MemorySnapshot) MemoryDelta {
	d := MemoryDelta{PeakHeap: max(before.HeapAlloc, after.HeapAlloc)}
	if after.TotalAlloc > before.TotalAlloc {
		d.Allocated = after.TotalAlloc - before.TotalAlloc
	}
	if after.NumGC > before.NumGC {
		d.GCCycles = after.NumGC - before.NumGC
	}
	return d
}

// SolutionFootprint estimates the bytes retained by the sample arrays of a
// solution: the merged series and the guide lines.
func SolutionFootprint(sol *cosmo.Solution) uint64 {
	if sol == nil {
		return 0
	}
	n := len(sol.Points)
	for _, g := range sol.Guides {
		n += len(g.Points)
	}
	return uint64(n) * uint64(unsafe.Sizeof(cosmo.Point{}))
}
