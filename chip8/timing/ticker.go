package timing

import "time"

// TickerLimiter paces frames with a time.Ticker. Missed ticks are dropped by
// the ticker, so a slow frame never causes a burst of catch-up frames.
type TickerLimiter struct {
	period time.Duration
	ticker *time.Ticker
}

// NewTickerLimiter creates a limiter ticking every period. A non-positive
// period falls back to FrameDuration.
func NewTickerLimiter(period time.Duration) *TickerLimiter {
	if period <= 0 {
		period = FrameDuration()
	}
	return &TickerLimiter{
		period: period,
		ticker: time.NewTicker(period),
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
