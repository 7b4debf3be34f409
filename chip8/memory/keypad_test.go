package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad_PressRelease(t *testing.T) {
	k := NewKeypad()

	for key := Key(0); key < KeyCount; key++ {
		assert.False(t, k.IsPressed(key))
	}

	k.Press(0xA)
	assert.True(t, k.IsPressed(0xA))
	assert.False(t, k.IsPressed(0xB))

	k.Release(0xA)
	assert.False(t, k.IsPressed(0xA))
}

func TestKeypad_IgnoresInvalidKeys(t *testing.T) {
	k := NewKeypad()
	k.Press(16)
	k.Set(200, true)

	assert.False(t, k.HasLatched())
	for key := Key(0); key < KeyCount; key++ {
		assert.False(t, k.IsPressed(key))
	}
}

func TestKeypad_Latch(t *testing.T) {
	t.Run("press latches", func(t *testing.T) {
		k := NewKeypad()
		k.Press(5)

		key, ok := k.TakeLatched()
		assert.True(t, ok)
		assert.Equal(t, Key(5), key)

		_, ok = k.TakeLatched()
		assert.False(t, ok, "latch is consumed")
	})

	t.Run("holding a key does not latch again", func(t *testing.T) {
		k := NewKeypad()
		k.Press(5)
		k.ClearLatch()
		k.Press(5)

		assert.False(t, k.HasLatched())
	})

	t.Run("release then press latches again", func(t *testing.T) {
		k := NewKeypad()
		k.Press(5)
		k.ClearLatch()
		k.Release(5)
		k.Press(5)

		key, ok := k.TakeLatched()
		assert.True(t, ok)
		assert.Equal(t, Key(5), key)
	})

	t.Run("last press wins", func(t *testing.T) {
		k := NewKeypad()
		k.Press(1)
		k.Press(2)

		key, ok := k.TakeLatched()
		assert.True(t, ok)
		assert.Equal(t, Key(2), key)
	})
}

func TestKeypad_Reset(t *testing.T) {
	k := NewKeypad()
	k.Press(3)
	k.Reset()

	assert.False(t, k.IsPressed(3))
	assert.False(t, k.HasLatched())
}
