package memory

// Timers holds the delay and sound countdown registers. Both are decremented
// once per Tick, which the host is expected to call at 60Hz regardless of how
// many instructions run in between.
type Timers struct {
	delay uint8
	sound uint8
}

// Tick decrements both timers, stopping at zero.
func (t *Timers) Tick() {
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
	}
}

// Delay returns the current value of the delay timer.
func (t *Timers) Delay() uint8 { return t.delay }

// Sound returns the current value of the sound timer.
func (t *Timers) Sound() uint8 { return t.sound }

// SetDelay loads the delay timer.
func (t *Timers) SetDelay(value uint8) { t.delay = value }

// SetSound loads the sound timer.
func (t *Timers) SetSound(value uint8) { t.sound = value }

// SoundActive reports whether the buzzer should currently be sounding.
func (t *Timers) SoundActive() bool {
	return t.sound > 0
}

// Reset zeroes both timers.
func (t *Timers) Reset() {
	t.delay = 0
	t.sound = 0
}
