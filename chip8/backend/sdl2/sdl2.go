//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	defaultScale  = 10
	bytesPerPixel = 4
)

// Backend renders the display in an SDL2 window.
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stub, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	config   backend.BackendConfig
	pixels   []byte
	events   []backend.InputEvent

	currentFrame *video.FrameBuffer
}

func New() *Backend {
	return &Backend{
		pixels: make([]byte, video.FramebufferSize*bytesPerPixel),
	}
}

func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	scale := int32(config.Scale)
	if scale <= 0 {
		scale = defaultScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		video.FramebufferWidth*scale,
		video.FramebufferHeight*scale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	slog.Info("SDL2 backend initialized", "scale", scale)
	return nil
}

// Update renders a frame and returns the input collected since the last call.
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		s.handleEvent(e)
	}

	s.currentFrame = frame
	if err := s.renderFrame(frame); err != nil {
		return nil, err
	}

	events := s.events
	s.events = nil
	return events, nil
}

func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

// HandleAction processes backend-specific actions
func (s *Backend) HandleAction(act action.Action) {
	if act == action.EmulatorSnapshot {
		debug.TakeSnapshot(s.currentFrame)
	}
}

func (s *Backend) handleEvent(e sdl.Event) {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		s.events = append(s.events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})

	case *sdl.KeyboardEvent:
		act, ok := keyMapping[e.Keysym.Sym]
		if !ok {
			return
		}
		keypad := action.GetInfo(act).Category == action.CategoryKeypad

		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat == 0:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Press})
		case e.Type == sdl.KEYDOWN && keypad:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Hold})
		case e.Type == sdl.KEYUP && keypad:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

// keyNames maps the non-printable names used by input.DefaultKeyMap.
var keyNames = map[string]sdl.Keycode{
	"Space":     sdl.K_SPACE,
	"Backspace": sdl.K_BACKSPACE,
	"Escape":    sdl.K_ESCAPE,
	"F9":        sdl.K_F9,
}

// keycodeFor returns the SDL keycode for a key name. Printable keys use
// their own character as keycode.
func keycodeFor(name string) (sdl.Keycode, bool) {
	if code, ok := keyNames[name]; ok {
		return code, true
	}
	if r := []rune(name); len(r) == 1 && r[0] < 0x80 {
		return sdl.Keycode(r[0]), true
	}
	return 0, false
}

func buildKeyMapping() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action)
	for name, act := range input.DefaultKeyMap {
		if code, ok := keycodeFor(name); ok {
			mapping[code] = act
		}
	}
	return mapping
}

var keyMapping = buildKeyMapping()

// fillPixels writes the frame as little-endian RGBA8888, i.e. ABGR bytes.
func fillPixels(frame *video.FrameBuffer, dst []byte) {
	for i, on := range frame.ToSlice() {
		var c byte
		if on {
			c = 0xFF
		}
		idx := i * bytesPerPixel
		dst[idx] = 0xFF
		dst[idx+1] = c
		dst[idx+2] = c
		dst[idx+3] = c
	}
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	fillPixels(frame, s.pixels)

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*bytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}

	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}
