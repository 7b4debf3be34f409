package memory

// KeyCount is the number of keys on the hexadecimal keypad.
const KeyCount = 16

// Key is a keypad key index, 0x0-0xF.
type Key uint8

// Keypad holds the pressed state of the 16 keys. It also latches the most
// recent released->pressed transition, which is what Fx0A waits for.
type Keypad struct {
	pressed    [KeyCount]bool
	latched    Key
	hasLatched bool
}

// NewKeypad creates a keypad with every key released.
func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press marks the key as held. A key that was not already held is latched.
func (k *Keypad) Press(key Key) {
	if key >= KeyCount {
		return
	}
	if !k.pressed[key] {
		k.latched = key
		k.hasLatched = true
	}
	k.pressed[key] = true
}

// Release marks the key as no longer held.
func (k *Keypad) Release(key Key) {
	if key >= KeyCount {
		return
	}
	k.pressed[key] = false
}

// Set is a convenience for Press/Release.
func (k *Keypad) Set(key Key, pressed bool) {
	if pressed {
		k.Press(key)
		return
	}
	k.Release(key)
}

// IsPressed reports whether the key is held. Only the low nibble is used.
func (k *Keypad) IsPressed(key Key) bool {
	return k.pressed[key&0x0F]
}

// ClearLatch forgets any press that happened before now.
func (k *Keypad) ClearLatch() {
	k.hasLatched = false
}

// TakeLatched returns and consumes the last latched press, if any.
func (k *Keypad) TakeLatched() (Key, bool) {
	if !k.hasLatched {
		return 0, false
	}
	k.hasLatched = false
	return k.latched, true
}

// HasLatched reports whether a press is waiting to be consumed.
func (k *Keypad) HasLatched() bool {
	return k.hasLatched
}

// Reset releases every key and clears the latch.
func (k *Keypad) Reset() {
	*k = Keypad{}
}
