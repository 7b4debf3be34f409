//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/veandco/go-sdl2/sdl"
)

// queueTarget is how much audio is kept queued while the tone plays, in
// bytes. Two frames worth avoids gaps when a frame runs late.
const queueTarget = audio.DefaultSampleRate / 60 * 2 * 2

// Beeper plays the tone through an SDL2 audio queue.
type Beeper struct {
	device sdl.AudioDeviceID
	tone   *audio.Tone
	buf    []byte
}

// NewBeeper opens the default SDL2 audio device.
func NewBeeper() (*Beeper, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL2 audio: %w", err)
	}

	tone := audio.NewTone(audio.DefaultSampleRate, audio.DefaultFrequency, audio.DefaultVolume)
	spec := &sdl.AudioSpec{
		Freq:     int32(tone.SampleRate()),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  512,
	}

	device, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	sdl.PauseAudioDevice(device, false)
	tone.SetActive(true)

	slog.Debug("SDL2 audio opened", "device", device, "sample_rate", spec.Freq)
	return &Beeper{device: device, tone: tone, buf: make([]byte, queueTarget)}, nil
}

// SetActive tops up the queue while active and drops it otherwise.
func (b *Beeper) SetActive(active bool) {
	if !active {
		sdl.ClearQueuedAudio(b.device)
		return
	}

	queued := int(sdl.GetQueuedAudioSize(b.device))
	if queued >= queueTarget {
		return
	}

	n, _ := b.tone.Read(b.buf[:queueTarget-queued])
	if err := sdl.QueueAudio(b.device, b.buf[:n]); err != nil {
		slog.Warn("Failed to queue audio", "error", err)
	}
}

func (b *Beeper) Close() error {
	sdl.CloseAudioDevice(b.device)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
