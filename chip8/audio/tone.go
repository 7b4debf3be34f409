package audio

import (
	"encoding/binary"
	"sync/atomic"
)

const (
	DefaultSampleRate = 44100
	DefaultFrequency  = 440
	DefaultVolume     = 0.2
)

// Beeper plays the sound timer buzzer. SetActive is called once per frame
// with the emulator's sound state.
type Beeper interface {
	SetActive(active bool)
	Close() error
}

// Tone is an io.Reader producing mono signed 16-bit little-endian samples:
// a square wave while active, silence otherwise. It is safe to toggle from
// the emulation loop while an audio driver reads from another goroutine.
type Tone struct {
	sampleRate int
	halfPeriod int
	amplitude  int16

	active atomic.Bool
	phase  int
}

func NewTone(sampleRate, frequency int, volume float64) *Tone {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	volume = min(max(volume, 0), 1)

	halfPeriod := sampleRate / (2 * frequency)
	if halfPeriod < 1 {
		halfPeriod = 1
	}

	return &Tone{
		sampleRate: sampleRate,
		halfPeriod: halfPeriod,
		amplitude:  int16(volume * 32767),
	}
}

func (t *Tone) SetActive(active bool) {
	t.active.Store(active)
}

func (t *Tone) Active() bool {
	return t.active.Load()
}

func (t *Tone) SampleRate() int {
	return t.sampleRate
}

// Read fills p with whole samples. A trailing odd byte is left untouched.
func (t *Tone) Read(p []byte) (int, error) {
	n := len(p) &^ 1
	active := t.active.Load()

	for i := 0; i < n; i += 2 {
		var sample int16
		if active {
			sample = t.amplitude
			if (t.phase/t.halfPeriod)%2 == 1 {
				sample = -t.amplitude
			}
			t.phase = (t.phase + 1) % (2 * t.halfPeriod)
		} else {
			t.phase = 0
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(sample))
	}

	return n, nil
}

// Silent is a Beeper that only tracks state.
type Silent struct {
	active atomic.Bool
}

func (s *Silent) SetActive(active bool) {
	s.active.Store(active)
}

func (s *Silent) Active() bool {
	return s.active.Load()
}

func (s *Silent) Close() error {
	return nil
}
