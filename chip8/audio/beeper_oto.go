//go:build oto

package audio

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"
)

type otoBeeper struct {
	ctx    *oto.Context
	player *oto.Player
	tone   *Tone
}

// NewBeeper opens the default audio device and starts streaming a tone that
// is audible while SetActive(true).
func NewBeeper() (Beeper, error) {
	tone := NewTone(DefaultSampleRate, DefaultFrequency, DefaultVolume)

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   tone.SampleRate(),
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(tone)
	player.Play()
	slog.Debug("Audio beeper started", "sample_rate", tone.SampleRate(), "frequency", DefaultFrequency)

	return &otoBeeper{ctx: ctx, player: player, tone: tone}, nil
}

func (b *otoBeeper) SetActive(active bool) {
	b.tone.SetActive(active)
}

func (b *otoBeeper) Close() error {
	b.tone.SetActive(false)
	if err := b.player.Close(); err != nil {
		return fmt.Errorf("failed to close audio player: %w", err)
	}
	return nil
}
