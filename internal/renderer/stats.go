package renderer

import (
	"time"

	"github.com/loov/hrtime"
	"github.com/vkngwrapper/hello-triangle/internal/gamelog"
)

// FrameStats accumulates CPU-side frame times. Every interval frames it logs
// the average over that window; an interval of 0 disables periodic output.
type FrameStats struct {
	now      func() time.Duration
	interval int
	log      *gamelog.Logger

	frames int
	total  time.Duration

	windowFrames int
	window       time.Duration
}

func NewFrameStats(interval int, log *gamelog.Logger) *FrameStats {
	return &FrameStats{
		now:      hrtime.Now,
		interval: interval,
		log:      log,
	}
}

func (s *FrameStats) Start() time.Duration {
	return s.now()
}

func (s *FrameStats) Done(start time.Duration) {
	elapsed := s.now() - start

	s.frames++
	s.total += elapsed
	s.windowFrames++
	s.window += elapsed

	if s.interval > 0 && s.windowFrames >= s.interval {
		avg := s.window / time.Duration(s.windowFrames)
		s.log.Info("frame timing", "frames", s.frames, "avg", avg, "fps", fps(avg))
		s.windowFrames = 0
		s.window = 0
	}
}

func (s *FrameStats) Frames() int { return s.frames }

// Average is the mean frame time over every frame recorded.
func (s *FrameStats) Average() time.Duration {
	if s.frames == 0 {
		return 0
	}
	return s.total / time.Duration(s.frames)
}

// Summary logs totals for the whole run.
func (s *FrameStats) Summary() {
	if s.frames == 0 {
		return
	}
	avg := s.Average()
	s.log.Info("rendered frames", "frames", s.frames, "avg", avg, "fps", fps(avg))
}

func fps(frameTime time.Duration) float64 {
	if frameTime <= 0 {
		return 0
	}
	return float64(time.Second) / float64(frameTime)
}
