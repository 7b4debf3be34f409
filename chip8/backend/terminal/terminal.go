package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	gameAreaWidth  = video.FramebufferWidth
	gameAreaHeight = video.FramebufferHeight / 2
	minTermWidth   = gameAreaWidth + 4
	minTermHeight  = gameAreaHeight + 3
	logCapacity    = 200
)

// Terminals only report key presses (and auto-repeat), never releases. A
// keypad key is considered held until no press arrived for keyTimeout,
// slightly longer than a typical key repeat interval.
const keyTimeout = 150 * time.Millisecond

// Backend renders the display with half-block characters in a terminal,
// next to a panel showing recent log lines.
type Backend struct {
	screen    tcell.Screen
	newScreen func() (tcell.Screen, error)
	config    backend.BackendConfig

	logBuffer *render.LogBuffer
	logLevel  slog.Level

	eventQueue []backend.InputEvent
	keyStates  map[action.Action]time.Time // last press seen per keypad key
	activeKeys map[action.Action]bool      // keypad keys held during the previous Update
	now        func() time.Time

	signals      chan os.Signal
	currentFrame *video.FrameBuffer
}

// New creates a terminal backend drawing on the controlling terminal.
func New() *Backend {
	return NewWithScreen(nil)
}

// NewWithScreen creates a backend drawing on the given screen, e.g. a
// tcell.SimulationScreen. A nil screen means the real terminal.
func NewWithScreen(screen tcell.Screen) *Backend {
	b := &Backend{
		logLevel: slog.LevelInfo,
		now:      time.Now,
	}
	if screen != nil {
		b.newScreen = func() (tcell.Screen, error) { return screen, nil }
	} else {
		b.newScreen = tcell.NewScreen
	}
	return b
}

func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	screen, err := t.newScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen = screen

	t.logBuffer = render.NewLogBuffer(logCapacity)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	slog.Info("Terminal backend initialized")
	return nil
}

// Update drains pending terminal events, renders the frame and returns the
// resulting input events.
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	now := t.now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	select {
	case sig := <-t.signals:
		slog.Info("Received signal, quitting", "signal", sig)
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}

	events := t.keypadEvents(now)
	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	t.currentFrame = frame
	t.render(frame)
	t.screen.Show()

	return events, nil
}

func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame)
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

// keypadEvents turns press timestamps into Press/Hold/Release transitions.
func (t *Backend) keypadEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	active := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}
		active[act] = true
		if t.activeKeys[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		} else {
			slog.Debug("Key press", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		}
	}

	for act := range t.activeKeys {
		if !active[act] {
			slog.Debug("Key release", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = active
	return events
}

// tcellKeyNames maps special keys to the names used by input.DefaultKeyMap.
var tcellKeyNames = map[tcell.Key]string{
	tcell.KeyEscape:     "Escape",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyF9:         "F9",
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	var name string
	switch {
	case ev.Key() == tcell.KeyCtrlC:
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
		return
	case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
		name = "Space"
	case ev.Key() == tcell.KeyRune:
		name = string(ev.Rune())
	default:
		name = tcellKeyNames[ev.Key()]
	}

	act, ok := input.GetDefaultMapping(name)
	if !ok {
		return
	}

	if action.GetInfo(act).Category == action.CategoryKeypad {
		t.keyStates[act] = now
		return
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

func (t *Backend) changeLogLevel(direction int) {
	levels := []slog.Level{slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug}

	current := 0
	for i, l := range levels {
		if l == t.logLevel {
			current = i
		}
	}
	next := min(max(current+direction, 0), len(levels)-1)

	if levels[next] != t.logLevel {
		old := t.logLevel
		t.logLevel = levels[next]
		slog.Info("Log filter changed", "from", old, "to", t.logLevel)
	}
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	dividerX := gameAreaWidth + 2
	t.drawBorders(termWidth, termHeight, dividerX)
	t.drawDisplay(frame)
	t.drawLogs(dividerX+2, 1, termWidth-dividerX-2, termHeight-1)
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := " CHIP-8 "
	if t.config.Title != "" {
		title = fmt.Sprintf(" CHIP-8: %s ", t.config.Title)
	}
	t.drawText(1, 0, dividerX-1, title, titleStyle)

	logTitle := fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel)
	t.drawText(dividerX+2, 0, termWidth-dividerX-2, logTitle, titleStyle)

	help := " Keys: 1234/QWER/ASDF/ZXCV | SPACE=pause BKSP=reset F9=snapshot ESC=quit "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

func (t *Backend) drawDisplay(frame *video.FrameBuffer) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for y, line := range render.FrameLines(frame) {
		x := 1
		for _, ch := range line {
			t.screen.SetContent(x, y+1, ch, nil, style)
			x++
		}
	}
}

func (t *Backend) drawLogs(startX, startY, width, bottom int) {
	height := bottom - startY
	if width <= 0 || height <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	y := startY
	for _, entry := range t.logBuffer.GetRecent(0) {
		if y >= bottom {
			break
		}
		if entry.Level < t.logLevel {
			continue
		}

		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}

		text := render.FormatLogEntry(entry)
		if runes := []rune(text); len(runes) > width && width > 3 {
			text = string(runes[:width-3]) + "..."
		}
		t.drawText(startX, y, width, text, style)
		y++
	}
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		if i >= width {
			break
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
	}
}
