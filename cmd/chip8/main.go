package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 interpreter"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without any output device",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "clock",
			Usage: "Instructions executed per second",
			Value: timing.DefaultClockFrequency,
		},
		cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed for the random number generator (default: time based)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringSliceFlag{
			Name:  "press",
			Usage: "Press a key in headless mode, as FRAME:KEY (e.g. 30:5), can be repeated",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Interactive backend: terminal or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window pixels per display pixel (sdl2 only)",
			Value: 10,
		},
		cli.BoolFlag{
			Name:  "fixed-step",
			Usage: "Advance exactly one 60Hz frame per host frame instead of measuring real time",
		},
		cli.BoolFlag{
			Name:  "beep",
			Usage: "Play the sound timer buzzer",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		romPath = c.Args().Get(0)
	}

	config := chip8.DefaultConfig()
	config.ClockHz = c.Int("clock")
	if c.IsSet("seed") {
		config.Seed = c.Uint64("seed")
	}

	emu, err := chip8.NewWithFile(romPath, config)
	if err != nil {
		return err
	}

	be, clock, err := createBackend(c, romPath)
	if err != nil {
		return err
	}

	beeper := createBeeper(c)
	defer func() {
		if err := beeper.Close(); err != nil {
			slog.Warn("Failed to close audio", "error", err)
		}
	}()

	title := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	if err := be.Init(backend.BackendConfig{Title: title, Scale: c.Int("scale")}); err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	defer func() {
		if err := be.Cleanup(); err != nil {
			slog.Warn("Backend cleanup failed", "error", err)
		}
	}()

	return newSession(emu, be, beeper, clock).run()
}

func createBackend(c *cli.Context, romPath string) (backend.Backend, frameClock, error) {
	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, nil, errors.New("headless mode requires --frames option with a positive value")
		}

		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, nil, err
		}

		h := headless.New(frames, snapshotConfig)
		if err := schedulePresses(h, c.StringSlice("press")); err != nil {
			return nil, nil, err
		}
		return h, fixedStep(timing.NewNoOpLimiter()), nil
	}

	var clock frameClock
	if c.Bool("fixed-step") {
		clock = fixedStep(timing.NewTickerLimiter(timing.FrameDuration()))
	} else {
		clock = timing.NewAdaptiveLimiter(timing.FrameDuration()).Elapsed
	}

	switch c.String("backend") {
	case "terminal":
		return terminal.New(), clock, nil
	case "sdl2":
		return sdl2.New(), clock, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q, expected terminal or sdl2", c.String("backend"))
	}
}

func createBeeper(c *cli.Context) audio.Beeper {
	if !c.Bool("beep") || c.Bool("headless") {
		return &audio.Silent{}
	}

	var (
		beeper audio.Beeper
		err    error
	)
	if c.String("backend") == "sdl2" {
		beeper, err = sdl2.NewBeeper()
	} else {
		beeper, err = audio.NewBeeper()
	}
	if err != nil {
		slog.Warn("Audio unavailable, continuing without sound", "error", err)
		return &audio.Silent{}
	}
	return beeper
}
