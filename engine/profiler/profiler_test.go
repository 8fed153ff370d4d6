package profiler

import (
	"testing"
	"time"

	"github.com/lumen3d/lumen-go/engine/graph"
)

func TestTickAccumulatesUntilIntervalElapses(t *testing.T) {
	p := NewProfiler()

	if p.Tick(graph.FrameStats{Executed: 3, Passthrough: 1}) {
		t.Fatal("expected no report before the interval elapses")
	}
	if p.frameCount != 1 || p.executed != 3 || p.passthrough != 1 {
		t.Fatalf("counters not accumulated: frames=%d executed=%d passthrough=%d",
			p.frameCount, p.executed, p.passthrough)
	}

	p.lastTime = time.Now().Add(-2 * time.Second)
	if !p.Tick(graph.FrameStats{Executed: 3, Skipped: 2}) {
		t.Fatal("expected a report once the interval has elapsed")
	}
	if p.frameCount != 0 || p.executed != 0 || p.passthrough != 0 || p.skipped != 0 {
		t.Fatalf("counters not reset after report: frames=%d executed=%d passthrough=%d skipped=%d",
			p.frameCount, p.executed, p.passthrough, p.skipped)
	}
}
