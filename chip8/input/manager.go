package input

import (
	"log/slog"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

// KeySetter receives keypad state changes.
type KeySetter interface {
	SetKey(key uint8, pressed bool)
}

// Manager routes keypad actions to the emulator and every other action to
// the callbacks registered with On.
type Manager struct {
	handlers map[action.Action]map[event.Type][]func()
	filter   *Handler
	keys     KeySetter
}

func NewManager(keys KeySetter) *Manager {
	return &Manager{
		handlers: make(map[action.Action]map[event.Type][]func()),
		filter:   NewHandler(),
		keys:     keys,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}

	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if !m.filter.ProcessEvent(backend.InputEvent{Action: act, Type: evt}) {
		return
	}

	// keypad keys go straight to the emulator
	if key, ok := action.KeyIndex(act); ok {
		if m.keys == nil {
			return
		}
		switch evt {
		case event.Press, event.Hold:
			m.keys.SetKey(key, true)
		case event.Release:
			m.keys.SetKey(key, false)
		}
		return
	}

	callbacks := m.handlers[act][evt]
	if len(callbacks) == 0 {
		slog.Debug("No handler for action", "action", action.GetInfo(act).Description, "type", evt)
		return
	}
	for _, callback := range callbacks {
		callback()
	}
}

// Dispatch triggers every event in order.
func (m *Manager) Dispatch(events []backend.InputEvent) {
	for _, evt := range events {
		m.Trigger(evt.Action, evt.Type)
	}
}
