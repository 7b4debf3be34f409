package chip8

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// Config holds the emulator settings.
type Config struct {
	// ClockHz is the number of instructions executed per second of emulated
	// time. Zero means timing.DefaultClockFrequency.
	ClockHz int
	// Seed initializes the random number generator used by Cxkk.
	Seed uint64
}

// DefaultConfig returns the default clock and a time-based seed.
func DefaultConfig() Config {
	return Config{
		ClockHz: timing.DefaultClockFrequency,
		Seed:    uint64(time.Now().UnixNano()),
	}
}

// Emulator drives the CPU from wall-clock time: timers tick at 60Hz and
// instructions run at the configured clock, both derived from the elapsed
// time handed to Advance.
type Emulator struct {
	cpu     *cpu.CPU
	clockHz int64
	program []byte

	timerAcc time.Duration // time not yet turned into timer ticks
	stepAcc  int64         // nanoseconds × ClockHz not yet turned into steps

	paused           bool
	halted           error
	frameCount       uint64
	instructionCount uint64
}

// New creates an emulator with an empty program.
func New(config Config) *Emulator {
	if config.ClockHz <= 0 {
		config.ClockHz = timing.DefaultClockFrequency
	}

	return &Emulator{
		cpu:     cpu.New(config.Seed),
		clockHz: int64(config.ClockHz),
	}
}

// NewWithFile creates an emulator and loads the ROM at path into it.
func NewWithFile(path string, config Config) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}

	e := New(config)
	if err := e.LoadROM(data); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Info("Loaded ROM", "path", path, "bytes", len(data), "clock_hz", e.clockHz)
	return e, nil
}

// LoadROM resets the machine and loads program at the program start. The
// program is kept so that Reset can restart it.
// A program that does not fit leaves the emulator untouched.
func (e *Emulator) LoadROM(program []byte) error {
	if len(program) > memory.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", memory.ErrProgramTooLarge, len(program), memory.MaxProgramSize)
	}

	e.cpu.Reset()
	if err := e.cpu.LoadProgram(program); err != nil {
		return err
	}

	e.program = append(e.program[:0], program...)
	e.resetCounters()
	return nil
}

// Reset restarts the loaded program from a clean machine state.
func (e *Emulator) Reset() {
	e.cpu.Reset()
	// the program fitted when it was loaded
	_ = e.cpu.LoadProgram(e.program)
	e.resetCounters()
	slog.Info("Emulator reset")
}

func (e *Emulator) resetCounters() {
	e.timerAcc = 0
	e.stepAcc = 0
	e.halted = nil
	e.frameCount = 0
	e.instructionCount = 0
}

// Step executes a single instruction. Once an error is returned the emulator
// is halted and keeps returning it until Reset or LoadROM.
func (e *Emulator) Step() error {
	if e.halted != nil {
		return e.halted
	}

	_, waiting := e.cpu.AwaitingKey()
	if err := e.cpu.Step(); err != nil {
		e.halted = err
		slog.Error("Emulator halted", "error", err)
		return err
	}
	if !waiting {
		e.instructionCount++
	}
	return nil
}

// TickTimers decrements the delay and sound timers once.
func (e *Emulator) TickTimers() {
	e.cpu.TickTimers()
	e.frameCount++
}

// Advance runs the machine for elapsed emulated time. Timer ticks are
// interleaved with the instructions that fall before them.
func (e *Emulator) Advance(elapsed time.Duration) error {
	if e.halted != nil {
		return e.halted
	}
	if e.paused || elapsed <= 0 {
		return nil
	}

	frame := timing.FrameDuration()
	e.timerAcc += elapsed
	ticks := int64(e.timerAcc / frame)
	e.timerAcc -= time.Duration(ticks) * frame

	e.stepAcc += elapsed.Nanoseconds() * e.clockHz
	steps := e.stepAcc / int64(time.Second)
	e.stepAcc -= steps * int64(time.Second)

	done := int64(0)
	for tick := int64(1); tick <= ticks; tick++ {
		if err := e.runSteps(steps*tick/ticks - done); err != nil {
			return err
		}
		done = steps * tick / ticks
		e.TickTimers()
	}

	return e.runSteps(steps - done)
}

func (e *Emulator) runSteps(n int64) error {
	for ; n > 0; n-- {
		// blocked on Fx0A: the rest of the budget is spent waiting
		if !e.cpu.CanStep() {
			return nil
		}
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunUntilFrame advances the machine by one 60Hz frame.
func (e *Emulator) RunUntilFrame() error {
	return e.Advance(timing.FrameDuration())
}

// RunFrames runs n frames, stopping at the first error.
func (e *Emulator) RunFrames(n int) error {
	for i := 0; i < n; i++ {
		if err := e.RunUntilFrame(); err != nil {
			return err
		}
	}
	return nil
}

// SetKey updates the state of keypad key 0x0-0xF.
func (e *Emulator) SetKey(key uint8, pressed bool) {
	if key >= memory.KeyCount {
		slog.Warn("Ignoring out of range key", "key", key)
		return
	}
	slog.Debug("Key state changed", "key", fmt.Sprintf("%X", key), "pressed", pressed)
	e.cpu.SetKey(key, pressed)
}

// HandleAction applies an input action. Keypad actions follow pressed; the
// emulator controls only react to presses.
func (e *Emulator) HandleAction(act action.Action, pressed bool) {
	if key, ok := action.KeyIndex(act); ok {
		e.SetKey(key, pressed)
		return
	}
	if !pressed {
		return
	}

	switch act {
	case action.EmulatorPauseToggle:
		e.SetPaused(!e.paused)
	case action.EmulatorReset:
		e.Reset()
	}
}

// SetPaused stops or resumes Advance. Step still works while paused.
func (e *Emulator) SetPaused(paused bool) {
	if e.paused == paused {
		return
	}
	e.paused = paused
	slog.Info("Emulator pause toggled", "paused", paused)
}

func (e *Emulator) Paused() bool {
	return e.paused
}

// Err returns the error that halted the emulator, if any.
func (e *Emulator) Err() error {
	return e.halted
}

// GetCurrentFrame returns the display. Callers must not modify it.
func (e *Emulator) GetCurrentFrame() *video.FrameBuffer {
	return e.cpu.FrameBuffer()
}

func (e *Emulator) IsSoundActive() bool {
	return e.cpu.IsSoundActive()
}

// AwaitingKey reports whether the program is blocked on Fx0A.
func (e *Emulator) AwaitingKey() bool {
	_, waiting := e.cpu.AwaitingKey()
	return waiting
}

// GetFrameCount returns the number of timer ticks since the last reset.
func (e *Emulator) GetFrameCount() uint64 {
	return e.frameCount
}

// GetInstructionCount returns the number of instructions executed since the
// last reset.
func (e *Emulator) GetInstructionCount() uint64 {
	return e.instructionCount
}

// CPU exposes the processor for inspection.
func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}
