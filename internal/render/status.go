package render

import "sync/atomic"

// Status is the lifecycle of render passes as seen from outside.
type Status int32

const (
	Idle Status = iota
	Running
	Completed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// StatusHandle holds the current Status. The renderer is its only writer
// while a pass is Running; the controller moves it into Running.
type StatusHandle struct {
	v atomic.Int32
}

func (h *StatusHandle) Load() Status { return Status(h.v.Load()) }

// Busy reports whether a pass is in flight.
func (h *StatusHandle) Busy() bool { return h.Load() == Running }

// Begin moves the handle into Running. It fails if a pass is already
// running.
func (h *StatusHandle) Begin() bool {
	for {
		cur := h.v.Load()
		if Status(cur) == Running {
			return false
		}
		if h.v.CompareAndSwap(cur, int32(Running)) {
			return true
		}
	}
}

// Finish records how the running pass ended.
func (h *StatusHandle) Finish(outcome Status) { h.v.Store(int32(outcome)) }

// Force sets the status unconditionally.
func (h *StatusHandle) Force(s Status) { h.v.Store(int32(s)) }
