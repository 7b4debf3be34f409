package chip8

import (
	"testing"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
)

func BenchmarkEmulatorHeadless(b *testing.B) {
	// redraws the hex digits forever
	rom := program(
		0x00E0,
		0x6000, 0x6100, 0x6200,
		0xF029, 0xD125, 0x7001, 0x7104,
		0x3010, 0x1208,
		0x1200,
	)

	for _, tc := range []struct {
		name    string
		clockHz int
		frames  int
	}{
		{"700hz_100_frames", 700, 100},
		{"700hz_1000_frames", 700, 1000},
		{"50khz_100_frames", 50000, 100},
	} {
		b.Run(tc.name, func(b *testing.B) {
			emu := New(Config{ClockHz: tc.clockHz, Seed: 1})
			if err := emu.LoadROM(rom); err != nil {
				b.Fatalf("Failed to load program: %v", err)
			}

			hBackend := headless.New(0, headless.SnapshotConfig{})
			if err := hBackend.Init(backend.BackendConfig{Title: "Benchmark"}); err != nil {
				b.Fatalf("Failed to initialize backend: %v", err)
			}
			defer hBackend.Cleanup()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				for frame := 0; frame < tc.frames; frame++ {
					if err := emu.RunUntilFrame(); err != nil {
						b.Fatalf("Emulation failed: %v", err)
					}
					if _, err := hBackend.Update(emu.GetCurrentFrame()); err != nil {
						b.Fatalf("Backend update failed: %v", err)
					}
				}
			}
		})
	}
}
