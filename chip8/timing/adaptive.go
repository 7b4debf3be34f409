package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter sleeps until the next frame deadline and then measures how
// long the frame actually took, so the emulator can be fed the real elapsed
// time instead of assuming a perfect 60Hz.
type AdaptiveLimiter struct {
	period       time.Duration
	nextDeadline time.Time
	lastFrame    time.Time
	frameCounter int64

	now   func() time.Time
	sleep func(time.Duration)
}

func NewAdaptiveLimiter(period time.Duration) *AdaptiveLimiter {
	if period <= 0 {
		period = FrameDuration()
	}
	a := &AdaptiveLimiter{
		period: period,
		now:    time.Now,
		sleep:  time.Sleep,
	}
	a.Reset()
	return a
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	a.Elapsed()
}

// Elapsed waits for the next deadline and returns the time since the
// previous call.
func (a *AdaptiveLimiter) Elapsed() time.Duration {
	if wait := a.nextDeadline.Sub(a.now()); wait > 0 {
		a.sleep(wait)
	}

	now := a.now()
	elapsed := now.Sub(a.lastFrame)
	a.lastFrame = now

	// too far behind (e.g. the process was suspended): resync instead of
	// running a long burst of frames
	if now.Sub(a.nextDeadline) > 5*a.period {
		slog.Debug("Frame timing resync", "behind_ms", now.Sub(a.nextDeadline).Milliseconds())
		a.nextDeadline = now
		elapsed = a.period
	}

	a.nextDeadline = a.nextDeadline.Add(a.period)
	a.frameCounter++

	return elapsed
}

func (a *AdaptiveLimiter) Reset() {
	now := a.now()
	a.nextDeadline = now.Add(a.period)
	a.lastFrame = now
	a.frameCounter = 0
}

// Frames returns the number of frames waited for since the last Reset.
func (a *AdaptiveLimiter) Frames() int64 {
	return a.frameCounter
}
