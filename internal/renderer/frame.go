package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/hello-triangle/internal/gamelog"
)

// FrameState is where the executor is within the current frame.
type FrameState int

const (
	FrameIdle FrameState = iota
	FrameAcquiring
	FrameRecording
	FrameSubmitted
	FramePresenting
	FrameFailed
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameAcquiring:
		return "acquiring"
	case FrameRecording:
		return "recording"
	case FrameSubmitted:
		return "submitted"
	case FramePresenting:
		return "presenting"
	case FrameFailed:
		return "failed"
	}
	return "unknown"
}

// frameBackend issues the per-frame GPU calls for the single frame slot.
type frameBackend interface {
	WaitForFence() (common.VkResult, error)
	ResetFence() (common.VkResult, error)
	AcquireNextImage() (int, common.VkResult, error)
	Record(imageIndex int) (common.VkResult, error)
	Submit() (common.VkResult, error)
	Present(imageIndex int) (common.VkResult, error)
}

// FrameExecutor drives one frame slot through wait, acquire, record, submit
// and present. It is not safe for concurrent use. Once a frame fails every
// later call returns ErrExecutorFailed.
type FrameExecutor struct {
	backend frameBackend
	stats   *FrameStats
	log     *gamelog.Logger

	state  FrameState
	frames int
	err    error
}

func newFrameExecutor(backend frameBackend, stats *FrameStats, log *gamelog.Logger) *FrameExecutor {
	return &FrameExecutor{
		backend: backend,
		stats:   stats,
		log:     log,
	}
}

func (e *FrameExecutor) State() FrameState { return e.state }

// Frames is the number of frames presented so far.
func (e *FrameExecutor) Frames() int { return e.frames }

func (e *FrameExecutor) RenderFrame() error {
	if e.state == FrameFailed {
		return errors.WithSecondaryError(
			errors.Wrapf(ErrExecutorFailed, "frame %d", e.frames+1), e.err)
	}

	start := e.stats.Start()
	if err := e.renderFrame(); err != nil {
		e.setState(FrameFailed)
		e.err = err
		return err
	}
	e.frames++
	e.stats.Done(start)
	return nil
}

func (e *FrameExecutor) setState(s FrameState) {
	e.log.Debug("frame state", "frame", e.frames+1, "from", e.state, "to", s)
	e.state = s
}

func (e *FrameExecutor) renderFrame() error {
	e.setState(FrameAcquiring)

	res, err := e.backend.WaitForFence()
	if err := frameResult(OpWaitForFences, res, err); err != nil {
		return err
	}
	res, err = e.backend.ResetFence()
	if err := frameResult(OpResetFences, res, err); err != nil {
		return err
	}

	imageIndex, res, err := e.backend.AcquireNextImage()
	if err := frameResult(OpAcquireNextImage, res, err); err != nil {
		return err
	}

	e.setState(FrameRecording)
	res, err = e.backend.Record(imageIndex)
	if err := frameResult(OpRecordCommandBuffer, res, err); err != nil {
		return err
	}

	e.setState(FrameSubmitted)
	res, err = e.backend.Submit()
	if err := frameResult(OpQueueSubmit, res, err); err != nil {
		return err
	}

	e.setState(FramePresenting)
	res, err = e.backend.Present(imageIndex)
	if err := frameResult(OpQueuePresent, res, err); err != nil {
		return err
	}

	e.setState(FrameIdle)
	return nil
}
