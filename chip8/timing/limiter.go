package timing

import "time"

// Limiter controls the real-time pacing of the host loop.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

const (
	// TimerFrequency is the rate at which the delay and sound timers count down.
	TimerFrequency = 60
	// DefaultClockFrequency is the default number of instructions per second.
	DefaultClockFrequency = 700
)

// FrameDuration returns the duration of one timer tick, which is also the
// host frame duration.
func FrameDuration() time.Duration {
	return time.Second / TimerFrequency
}
