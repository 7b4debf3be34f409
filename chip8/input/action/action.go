package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Keypad keys, in hexadecimal order so that Key0+n is key n.
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Emulator features
	EmulatorPauseToggle
	EmulatorReset
	EmulatorSnapshot
	EmulatorQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by how backends should deliver them.
type Category int

const (
	// CategoryKeypad actions mirror a held key, they need Press and Release.
	CategoryKeypad Category = iota
	// CategoryEmulator actions are one-shot commands.
	CategoryEmulator
	CategoryDebug
)

// Info describes an action.
type Info struct {
	Category    Category
	Description string
}

var infos = map[Action]Info{
	EmulatorPauseToggle:   {CategoryEmulator, "Pause/resume"},
	EmulatorReset:         {CategoryEmulator, "Reset"},
	EmulatorSnapshot:      {CategoryEmulator, "Save snapshot"},
	EmulatorQuit:          {CategoryEmulator, "Quit"},
	DebugLogLevelIncrease: {CategoryDebug, "More verbose logs"},
	DebugLogLevelDecrease: {CategoryDebug, "Less verbose logs"},
}

// GetInfo returns the category and description of an action.
func GetInfo(act Action) Info {
	if key, ok := KeyIndex(act); ok {
		return Info{Category: CategoryKeypad, Description: fmt.Sprintf("Key %X", key)}
	}
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Category: CategoryEmulator, Description: fmt.Sprintf("Action(%d)", int(act))}
}

// KeyIndex returns the keypad index 0x0-0xF of a keypad action.
func KeyIndex(act Action) (uint8, bool) {
	if act < Key0 || act > KeyF {
		return 0, false
	}
	return uint8(act - Key0), true
}

// ForKey returns the keypad action for the key index. Only the low nibble is used.
func ForKey(key uint8) Action {
	return Key0 + Action(key&0x0F)
}
