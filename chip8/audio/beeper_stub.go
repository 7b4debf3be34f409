//go:build !oto

package audio

import "log/slog"

// NewBeeper returns a silent beeper. Build with -tags oto for sound output.
func NewBeeper() (Beeper, error) {
	slog.Info("Audio output not compiled in, build with -tags oto to enable it")
	return &Silent{}, nil
}
