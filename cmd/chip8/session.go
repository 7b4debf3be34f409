package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
)

// frameClock waits for the next host frame and returns the emulated time it
// covers.
type frameClock func() time.Duration

func fixedStep(limiter timing.Limiter) frameClock {
	return func() time.Duration {
		limiter.WaitForNextFrame()
		return timing.FrameDuration()
	}
}

// session is the host loop: advance the emulator, show the frame, apply the
// input collected by the backend.
type session struct {
	emu     *chip8.Emulator
	backend backend.Backend
	beeper  audio.Beeper
	clock   frameClock
	input   *input.Manager
	running bool
}

func newSession(emu *chip8.Emulator, be backend.Backend, beeper audio.Beeper, clock frameClock) *session {
	s := &session{
		emu:     emu,
		backend: be,
		beeper:  beeper,
		clock:   clock,
		input:   input.NewManager(emu),
		running: true,
	}

	s.input.On(action.EmulatorQuit, event.Press, func() {
		s.running = false
	})
	for _, act := range []action.Action{action.EmulatorPauseToggle, action.EmulatorReset} {
		s.input.On(act, event.Press, func() {
			s.emu.HandleAction(act, true)
		})
	}

	// snapshots and log filters are up to the backend
	if handler, ok := be.(backend.ActionHandler); ok {
		for _, act := range []action.Action{action.EmulatorSnapshot, action.DebugLogLevelIncrease, action.DebugLogLevelDecrease} {
			s.input.On(act, event.Press, func() {
				handler.HandleAction(act)
			})
		}
	}

	return s
}

func (s *session) run() error {
	for s.running {
		if err := s.emu.Advance(s.clock()); err != nil {
			s.beeper.SetActive(false)
			return fmt.Errorf("emulation stopped after %d frames: %w", s.emu.GetFrameCount(), err)
		}

		events, err := s.backend.Update(s.emu.GetCurrentFrame())
		if err != nil {
			return fmt.Errorf("backend update failed: %w", err)
		}
		s.input.Dispatch(events)

		s.beeper.SetActive(s.emu.IsSoundActive() && !s.emu.Paused())
	}

	slog.Info("Emulator stopped",
		"frames", s.emu.GetFrameCount(),
		"instructions", s.emu.GetInstructionCount())
	return nil
}

// pressDuration is how many frames a scripted key press is held for.
const pressDuration = 6

// parsePress parses FRAME:KEY, KEY being a hexadecimal keypad digit.
func parsePress(arg string) (frame int, key uint8, err error) {
	frameStr, keyStr, ok := strings.Cut(arg, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid press %q, expected FRAME:KEY", arg)
	}

	frame, err = strconv.Atoi(strings.TrimSpace(frameStr))
	if err != nil || frame <= 0 {
		return 0, 0, fmt.Errorf("invalid frame in press %q", arg)
	}

	k, err := strconv.ParseUint(strings.TrimSpace(keyStr), 16, 8)
	if err != nil || k > 0xF {
		return 0, 0, fmt.Errorf("invalid key in press %q, expected 0-F", arg)
	}

	return frame, uint8(k), nil
}

func schedulePresses(h *headless.Backend, args []string) error {
	for _, arg := range args {
		frame, key, err := parsePress(arg)
		if err != nil {
			return err
		}

		act := action.ForKey(key)
		h.Schedule(frame, backend.InputEvent{Action: act, Type: event.Press})
		h.Schedule(frame+pressDuration, backend.InputEvent{Action: act, Type: event.Release})
	}
	return nil
}
