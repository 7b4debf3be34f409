package chip8

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/memory"
)

func program(words ...uint16) []byte {
	data := make([]byte, 0, len(words)*2)
	for _, w := range words {
		data = append(data, bit.High(w), bit.Low(w))
	}
	return data
}

func newTestEmulator(t *testing.T, clockHz int, words ...uint16) *Emulator {
	t.Helper()
	e := New(Config{ClockHz: clockHz, Seed: 42})
	require.NoError(t, e.LoadROM(program(words...)))
	return e
}

func TestEmulator_LoadAndStep(t *testing.T) {
	e := New(Config{})
	require.NoError(t, e.LoadROM([]byte{0x60, 0x05}))

	require.NoError(t, e.Step())

	assert.Equal(t, uint8(5), e.CPU().V(0))
	assert.Equal(t, memory.ProgramStart+2, e.CPU().GetPC())
	assert.Equal(t, uint64(1), e.GetInstructionCount())
}

func TestEmulator_LoadTooLargeLeavesStateUntouched(t *testing.T) {
	e := newTestEmulator(t, 0, 0x6007)

	err := e.LoadROM(make([]byte, memory.MaxProgramSize+1))
	assert.ErrorIs(t, err, memory.ErrProgramTooLarge)

	require.NoError(t, e.Step())
	assert.Equal(t, uint8(7), e.CPU().V(0))
}

func TestEmulator_LoadMaxSize(t *testing.T) {
	e := New(Config{})
	assert.NoError(t, e.LoadROM(make([]byte, memory.MaxProgramSize)))
}

func TestEmulator_TimersAreDecoupledFromSteps(t *testing.T) {
	// V0 = 60; DT = V0; loop forever
	e := newTestEmulator(t, 0, 0x603C, 0xF015, 0x1204)

	for i := 0; i < 10; i++ {
		require.NoError(t, e.Step())
	}
	assert.Equal(t, uint8(60), e.CPU().GetDelayTimer(), "steps alone never decrement timers")

	for i := 0; i < 10; i++ {
		e.TickTimers()
	}
	assert.Equal(t, uint8(50), e.CPU().GetDelayTimer())
	assert.Equal(t, uint64(10), e.GetFrameCount())
}

func TestEmulator_SoundActive(t *testing.T) {
	e := newTestEmulator(t, 0, 0x6002, 0xF018)
	assert.False(t, e.IsSoundActive())

	require.NoError(t, e.Step())
	require.NoError(t, e.Step())
	assert.True(t, e.IsSoundActive())

	e.TickTimers()
	assert.True(t, e.IsSoundActive())
	e.TickTimers()
	assert.False(t, e.IsSoundActive())
	e.TickTimers()
	assert.Equal(t, uint8(0), e.CPU().GetSoundTimer(), "timers saturate at zero")
}

func TestEmulator_Advance(t *testing.T) {
	tests := []struct {
		name         string
		clockHz      int
		slices       []time.Duration
		instructions uint64
		frames       uint64
	}{
		{"one second at default clock", 0, []time.Duration{time.Second}, 700, 60},
		{"two halves", 700, []time.Duration{time.Second / 2, time.Second / 2}, 700, 60},
		{"fractional steps carry over", 500, []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond}, 2, 0},
		{"sub-frame slices accumulate", 1000, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond}, 20, 1},
		{"fast clock", 10000, []time.Duration{100 * time.Millisecond}, 1000, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// jump to self
			e := newTestEmulator(t, tt.clockHz, 0x1200)

			for _, d := range tt.slices {
				require.NoError(t, e.Advance(d))
			}

			assert.Equal(t, tt.instructions, e.GetInstructionCount())
			assert.Equal(t, tt.frames, e.GetFrameCount())
		})
	}
}

func TestEmulator_RunFrames(t *testing.T) {
	e := newTestEmulator(t, 0, 0x1200)

	require.NoError(t, e.RunFrames(60))

	assert.Equal(t, uint64(60), e.GetFrameCount())
	assert.InDelta(t, 700, float64(e.GetInstructionCount()), 1)
}

func TestEmulator_TimerTicksInterleaveWithSteps(t *testing.T) {
	// DT = 2, then spin reading DT into V1
	e := newTestEmulator(t, 121, 0x6002, 0xF015, 0xF107, 0x1204)

	// two steps per frame: the first tick happens after DT was loaded
	require.NoError(t, e.RunUntilFrame())
	assert.Equal(t, uint8(1), e.CPU().GetDelayTimer())

	require.NoError(t, e.RunUntilFrame())
	assert.Equal(t, uint8(0), e.CPU().GetDelayTimer())
}

func TestEmulator_WaitForKey(t *testing.T) {
	// V3 = key; V4 = 1; loop
	e := newTestEmulator(t, 0, 0xF30A, 0x6401, 0x1204)

	// held before the wait started: must not satisfy it
	e.SetKey(0x7, true)

	require.NoError(t, e.Advance(time.Second))
	assert.True(t, e.AwaitingKey())
	assert.Equal(t, memory.ProgramStart, e.CPU().GetPC())
	assert.Equal(t, uint64(60), e.GetFrameCount(), "timers keep running while waiting")

	e.SetKey(0x7, false)
	require.NoError(t, e.Advance(time.Second/10))
	assert.True(t, e.AwaitingKey(), "a release is not a press")

	e.SetKey(0xA, true)
	require.NoError(t, e.Advance(time.Second/10))

	assert.False(t, e.AwaitingKey())
	assert.Equal(t, uint8(0xA), e.CPU().V(3))
	assert.Equal(t, uint8(1), e.CPU().V(4))
}

func TestEmulator_WaitForKeyWithStep(t *testing.T) {
	e := newTestEmulator(t, 0, 0xF20A, 0x6401)

	require.NoError(t, e.Step())
	require.NoError(t, e.Step())
	assert.Equal(t, memory.ProgramStart, e.CPU().GetPC(), "waiting steps are no-ops")

	e.HandleAction(action.KeyB, true)
	require.NoError(t, e.Step())
	assert.Equal(t, uint8(0xB), e.CPU().V(2))
	assert.Equal(t, memory.ProgramStart+2, e.CPU().GetPC())
}

func TestEmulator_HaltsOnFatalError(t *testing.T) {
	// return with an empty stack
	e := newTestEmulator(t, 0, 0x00EE)

	err := e.Step()
	require.Error(t, err)
	assert.ErrorIs(t, err, cpu.ErrStackUnderflow)
	assert.Equal(t, memory.ProgramStart, e.CPU().GetPC())

	assert.Equal(t, err, e.Advance(time.Second))
	assert.Equal(t, err, e.Step())
	assert.Equal(t, err, e.Err())
	assert.Equal(t, uint64(0), e.GetFrameCount())

	e.Reset()
	assert.NoError(t, e.Err())
}

func TestEmulator_StackOverflowThroughAdvance(t *testing.T) {
	// call self forever
	e := newTestEmulator(t, 0, 0x2200)

	err := e.Advance(time.Second)
	assert.True(t, errors.Is(err, cpu.ErrStackOverflow))
	assert.Equal(t, uint64(cpu.StackSize), e.GetInstructionCount())
}

func TestEmulator_UnknownOpcodeIsNotFatal(t *testing.T) {
	e := newTestEmulator(t, 0, 0x8AB9, 0x6001)

	require.NoError(t, e.Step())
	require.NoError(t, e.Step())
	assert.Equal(t, uint8(1), e.CPU().V(0))
}

func TestEmulator_KeypadActions(t *testing.T) {
	// V1 = 5; skip if key V1 pressed; V0 = 1; V2 = 2
	e := newTestEmulator(t, 0, 0x6105, 0xE19E, 0x6001, 0x6202)

	e.HandleAction(action.Key5, true)
	for i := 0; i < 3; i++ {
		require.NoError(t, e.Step())
	}

	assert.Equal(t, uint8(0), e.CPU().V(0))
	assert.Equal(t, uint8(2), e.CPU().V(2))
}

func TestEmulator_SetKeyOutOfRange(t *testing.T) {
	e := newTestEmulator(t, 0, 0xF00A)
	require.NoError(t, e.Step())

	assert.NotPanics(t, func() { e.SetKey(0x10, true) })
	require.NoError(t, e.Step())
	assert.True(t, e.AwaitingKey())
}

func TestEmulator_PauseAndReset(t *testing.T) {
	e := newTestEmulator(t, 0, 0x6009, 0x1202)

	e.HandleAction(action.EmulatorPauseToggle, true)
	assert.True(t, e.Paused())
	require.NoError(t, e.Advance(time.Second))
	assert.Equal(t, uint64(0), e.GetInstructionCount())

	e.HandleAction(action.EmulatorPauseToggle, false)
	assert.True(t, e.Paused(), "releases do not toggle")

	e.HandleAction(action.EmulatorPauseToggle, true)
	require.NoError(t, e.Advance(time.Second))
	assert.Equal(t, uint8(9), e.CPU().V(0))

	e.HandleAction(action.EmulatorReset, true)
	assert.Equal(t, uint8(0), e.CPU().V(0))
	assert.Equal(t, memory.ProgramStart, e.CPU().GetPC())
	assert.Equal(t, uint64(0), e.GetInstructionCount())

	require.NoError(t, e.Step())
	assert.Equal(t, uint8(9), e.CPU().V(0), "reset restarts the loaded program")
}

func TestEmulator_DisplayAfterDraw(t *testing.T) {
	// I = font digit of V0 (0); draw 5 rows at (0,0)
	e := newTestEmulator(t, 0, 0xF029, 0xD005)

	require.NoError(t, e.Step())
	require.NoError(t, e.Step())

	frame := e.GetCurrentFrame()
	// digit 0 top row is 0xF0
	for x := 0; x < 4; x++ {
		assert.True(t, frame.GetPixel(x, 0))
	}
	assert.False(t, frame.GetPixel(4, 0))
	assert.Equal(t, uint8(0), e.CPU().V(0xF))
}

func TestEmulator_SeededRandomIsDeterministic(t *testing.T) {
	a := newTestEmulator(t, 0, 0xC0FF, 0xC1FF, 0xC20F)
	b := newTestEmulator(t, 0, 0xC0FF, 0xC1FF, 0xC20F)

	for i := 0; i < 3; i++ {
		require.NoError(t, a.Step())
		require.NoError(t, b.Step())
	}

	assert.Equal(t, a.CPU().GetRegisters(), b.CPU().GetRegisters())
	assert.LessOrEqual(t, a.CPU().V(2), uint8(0x0F))
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ch8")
	require.NoError(t, os.WriteFile(path, []byte{0x60, 0x2A}, 0644))

	e, err := NewWithFile(path, Config{Seed: 1})
	require.NoError(t, err)
	require.NoError(t, e.Step())
	assert.Equal(t, uint8(0x2A), e.CPU().V(0))

	_, err = NewWithFile(filepath.Join(t.TempDir(), "missing.ch8"), Config{})
	assert.Error(t, err)

	big := filepath.Join(t.TempDir(), "big.ch8")
	require.NoError(t, os.WriteFile(big, make([]byte, memory.MaxProgramSize+1), 0644))
	_, err = NewWithFile(big, Config{})
	assert.ErrorIs(t, err, memory.ErrProgramTooLarge)
}

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, 700, DefaultConfig().ClockHz)
}
