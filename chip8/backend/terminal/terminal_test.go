package terminal

import (
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

func newSimBackend(t *testing.T) (*Backend, tcell.SimulationScreen, *time.Time) {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	b := NewWithScreen(sim)
	require.NoError(t, b.Init(backend.BackendConfig{Title: "test"}))
	sim.SetSize(100, 30)
	t.Cleanup(func() { _ = b.Cleanup() })

	now := time.Unix(1000, 0)
	b.now = func() time.Time { return now }
	return b, sim, &now
}

func TestTerminal_RendersDisplay(t *testing.T) {
	b, sim, _ := newSimBackend(t)

	fb := video.NewFrameBuffer()
	fb.SetPixel(0, 0, true)
	fb.SetPixel(1, 1, true)

	_, err := b.Update(fb)
	require.NoError(t, err)

	cells, width, _ := sim.GetContents()
	cell := func(x, y int) rune {
		runes := cells[y*width+x].Runes
		if len(runes) == 0 {
			return ' '
		}
		return runes[0]
	}

	// display starts at column 1, row 1
	assert.Equal(t, '▀', cell(1, 1))
	assert.Equal(t, '▄', cell(2, 1))
	assert.Equal(t, '│', cell(gameAreaWidth+2, 1))
}

func TestTerminal_KeypadPressHoldRelease(t *testing.T) {
	b, sim, now := newSimBackend(t)
	fb := video.NewFrameBuffer()

	sim.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	events, err := b.Update(fb)
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{{Action: action.Key5, Type: event.Press}}, events)

	// key repeat keeps it held
	*now = now.Add(50 * time.Millisecond)
	sim.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	events, err = b.Update(fb)
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{{Action: action.Key5, Type: event.Hold}}, events)

	*now = now.Add(keyTimeout)
	events, err = b.Update(fb)
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{{Action: action.Key5, Type: event.Release}}, events)

	events, err = b.Update(fb)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTerminal_ControlKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want action.Action
	}{
		{"escape quits", tcell.KeyEscape, 0, action.EmulatorQuit},
		{"ctrl-c quits", tcell.KeyCtrlC, 0, action.EmulatorQuit},
		{"space pauses", tcell.KeyRune, ' ', action.EmulatorPauseToggle},
		{"backspace resets", tcell.KeyBackspace2, 0, action.EmulatorReset},
		{"f9 snapshots", tcell.KeyF9, 0, action.EmulatorSnapshot},
		{"plus raises log level", tcell.KeyRune, '+', action.DebugLogLevelIncrease},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, sim, _ := newSimBackend(t)

			sim.InjectKey(tt.key, tt.r, tcell.ModNone)
			events, err := b.Update(video.NewFrameBuffer())
			require.NoError(t, err)
			assert.Equal(t, []backend.InputEvent{{Action: tt.want, Type: event.Press}}, events)
		})
	}
}

func TestTerminal_UnmappedKeyIgnored(t *testing.T) {
	b, sim, _ := newSimBackend(t)

	sim.InjectKey(tcell.KeyRune, 'k', tcell.ModNone)
	events, err := b.Update(video.NewFrameBuffer())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTerminal_ChangeLogLevel(t *testing.T) {
	b, _, _ := newSimBackend(t)
	require.Equal(t, slog.LevelInfo, b.logLevel)

	b.HandleAction(action.DebugLogLevelIncrease)
	assert.Equal(t, slog.LevelDebug, b.logLevel)
	b.HandleAction(action.DebugLogLevelIncrease)
	assert.Equal(t, slog.LevelDebug, b.logLevel)

	for i := 0; i < 5; i++ {
		b.HandleAction(action.DebugLogLevelDecrease)
	}
	assert.Equal(t, slog.LevelError, b.logLevel)
}

func TestTerminalImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*Backend)(nil)
	var _ backend.ActionHandler = (*Backend)(nil)
}
