// Package frame drives per-frame callbacks at the display refresh cadence.
//
// A Scheduler starts a loop around a tick function and hands back a Handle.
// Cancelling the handle guarantees that no tick starts afterwards, including
// a frame that was already signalled but not yet run. Each Start creates an
// independent loop; a cancelled handle is never revived.
package frame

import (
	"sync"
	"sync/atomic"
)

// State of a loop.
type State int32

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Scheduler starts frame loops.
type Scheduler interface {
	Start(tick func()) *Handle
}

// Handle controls one loop.
type Handle struct {
	cancelled  atomic.Bool
	cancelOnce sync.Once
	doneOnce   sync.Once
	stop       chan struct{}
	done       chan struct{}

	// Driven loops have no goroutine to close done, so Cancel does it
	// unless the tick is executing.
	finishOnCancel bool
	busy           atomic.Bool
}

func newHandle() *Handle {
	return &Handle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Cancel stops future ticks. It is safe to call repeatedly, concurrently,
// and from inside the tick itself. A tick already executing runs to
// completion; wait on Done to observe that.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() {
		h.cancelled.Store(true)
		close(h.stop)
	})
	if h.finishOnCancel && !h.busy.Load() {
		h.finish()
	}
}

// Done is closed once the loop can no longer run a tick.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// State reports whether the loop still accepts ticks.
func (h *Handle) State() State {
	if h.cancelled.Load() {
		return Idle
	}
	return Running
}

func (h *Handle) running() bool {
	return !h.cancelled.Load()
}

func (h *Handle) finish() {
	h.doneOnce.Do(func() { close(h.done) })
}
