package renderer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/vkngwrapper/hello-triangle/internal/gamelog"
)

// fakeClock advances by step on every reading.
type fakeClock struct {
	t    time.Duration
	step time.Duration
}

func (c *fakeClock) now() time.Duration {
	c.t += c.step
	return c.t
}

func newTestStats(interval int, step time.Duration, out *bytes.Buffer) *FrameStats {
	stats := NewFrameStats(interval, gamelog.New(out, false, false))
	clock := &fakeClock{step: step}
	stats.now = clock.now
	return stats
}

func TestFrameStatsInterval(t *testing.T) {
	var out bytes.Buffer
	stats := newTestStats(2, 8*time.Millisecond, &out)

	for i := 0; i < 5; i++ {
		stats.Done(stats.Start())
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out.String())
	}
	want := "[Info] frame timing frames=2 avg=8ms fps=125"
	if lines[0] != want {
		t.Errorf("got %q, want %q", lines[0], want)
	}
	if !strings.Contains(lines[1], "frames=4") {
		t.Errorf("second report %q should cover 4 frames", lines[1])
	}
	if stats.Frames() != 5 || stats.Average() != 8*time.Millisecond {
		t.Errorf("frames=%d avg=%v", stats.Frames(), stats.Average())
	}
}

func TestFrameStatsDisabledInterval(t *testing.T) {
	var out bytes.Buffer
	stats := newTestStats(0, time.Millisecond, &out)

	for i := 0; i < 100; i++ {
		stats.Done(stats.Start())
	}
	if out.Len() != 0 {
		t.Errorf("expected no periodic output, got %q", out.String())
	}

	stats.Summary()
	want := "[Info] rendered frames frames=100 avg=1ms fps=1000\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestFrameStatsSummaryWithoutFrames(t *testing.T) {
	var out bytes.Buffer
	stats := newTestStats(10, time.Millisecond, &out)

	stats.Summary()
	if out.Len() != 0 {
		t.Errorf("expected no summary, got %q", out.String())
	}
	if stats.Average() != 0 {
		t.Errorf("Average() = %v, want 0", stats.Average())
	}
}
