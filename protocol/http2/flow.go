package http2

import "errors"

// ErrFlowControlOverflow is returned when a WINDOW_UPDATE increment would
// push a window above the RFC 7540 §6.9.1 ceiling of 2^31-1.
var ErrFlowControlOverflow = errors.New("http2: flow control window overflow")

const maxWindowSize = 1<<31 - 1

// flowWindow is a signed flow-control window: RFC 7540 §6.9.2 allows it
// to go negative when a SETTINGS_INITIAL_WINDOW_SIZE decrease is applied
// while data already counted against the old, larger window is in
// flight.
type flowWindow struct {
	size int64
}

func newFlowWindow(initial uint32) flowWindow {
	return flowWindow{size: int64(initial)}
}

// increase applies a WINDOW_UPDATE increment (delta must be > 0, validated
// by the caller as a frame-parsing rule).
func (w *flowWindow) increase(delta uint32) error {
	next := w.size + int64(delta)
	if next > maxWindowSize {
		return ErrFlowControlOverflow
	}
	w.size = next
	return nil
}

// shiftInitial applies the signed delta of a SETTINGS_INITIAL_WINDOW_SIZE
// change to every open stream's send window (spec.md §4.4).
func (w *flowWindow) shiftInitial(delta int32) {
	w.size += int64(delta)
}

func (w *flowWindow) consume(n int) {
	w.size -= int64(n)
}

func (w *flowWindow) available() int64 {
	if w.size < 0 {
		return 0
	}
	return w.size
}

// blockedWriter is parked on a Stream when its send window cannot absorb
// the next chunk of response body; it is a plain callback rather than a
// goroutine because the engine has no stack-resumable coroutine to park
// on (spec.md §5, invariant on cooperative scheduling). A WINDOW_UPDATE
// that makes room calls resume once, then clears the slot.
type blockedWriter struct {
	resume func()
}
