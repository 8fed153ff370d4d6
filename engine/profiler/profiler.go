// Package profiler tracks frame rate, pass execution counts, and memory
// statistics for performance monitoring. Stats go to the engine logger at a
// configurable interval.
package profiler

import (
	"runtime"
	"time"

	"github.com/lumen3d/lumen-go/common"
	"github.com/lumen3d/lumen-go/engine/graph"
)

// Profiler aggregates per-frame samples and reports them periodically.
type Profiler struct {
	frameCount     int
	executed       int
	passthrough    int
	skipped        int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// Tick should be called once per frame with the frame's execution stats.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, pass counts, heap usage, allocation rate, GC
// count/pause times, total memory.
//
// Parameters:
//   - stats: the stats of the frame just rendered
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats graph.FrameStats) bool {
	p.frameCount++
	p.executed += stats.Executed
	p.passthrough += stats.Passthrough
	p.skipped += stats.Skipped

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	// Calculate allocation rate (MB/sec)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// Calculate GC pause stats (last pause and max recent pause)
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		// Find max pause since last tick
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	frames := float64(p.frameCount)
	common.Logger().Info("frame stats",
		"fps", fps,
		"passesPerFrame", float64(p.executed)/frames,
		"passthroughPerFrame", float64(p.passthrough)/frames,
		"skippedPerFrame", float64(p.skipped)/frames,
		"heapMB", allocMB,
		"allocRateMBs", allocRateMB,
		"gcCount", gcCount,
		"gcLastPauseUs", lastPauseUs,
		"gcMaxPauseUs", maxPauseUs,
		"sysMB", sysMB,
	)

	p.frameCount = 0
	p.executed, p.passthrough, p.skipped = 0, 0, 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
