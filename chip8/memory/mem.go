package memory

import (
	"errors"
	"fmt"
)

const (
	// Size is the amount of addressable bytes, 0x000-0xFFF.
	Size = 0x1000
	// ProgramStart is where programs are loaded and where PC starts.
	ProgramStart uint16 = 0x200
	// FontStart is the address of the first hexadecimal digit sprite.
	FontStart uint16 = 0x050
	// FontSpriteHeight is the amount of bytes (rows) of each digit sprite.
	FontSpriteHeight = 5
	// MaxProgramSize is the largest program that fits above ProgramStart.
	MaxProgramSize = Size - int(ProgramStart)
)

var (
	// ErrMemoryOutOfRange is returned for any access outside 0x000-0xFFF.
	ErrMemoryOutOfRange = errors.New("memory access out of range")
	// ErrProgramTooLarge is returned when a program does not fit above ProgramStart.
	ErrProgramTooLarge = errors.New("program too large")
)

// fontSet holds the 4x5 sprites for the hexadecimal digits 0-F.
var fontSet = [16 * FontSpriteHeight]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4KB RAM of the machine. The area below ProgramStart is
// reserved for the interpreter and holds the font sprites.
type Memory struct {
	data [Size]byte
}

// New creates a zeroed memory with the font installed.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset zeroes the whole memory and re-installs the font sprites.
func (m *Memory) Reset() {
	m.data = [Size]byte{}
	copy(m.data[FontStart:], fontSet[:])
}

// LoadProgram copies the program at ProgramStart. Nothing else is touched.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	copy(m.data[ProgramStart:], program)
	return nil
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if int(address) >= Size {
		return 0, outOfRange(address)
	}

	return m.data[address], nil
}

// Write stores a byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if int(address) >= Size {
		return outOfRange(address)
	}

	m.data[address] = value
	return nil
}

// ReadWord returns the big-endian 16 bit word at address and address+1.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	if int(address)+1 >= Size {
		return 0, outOfRange(address)
	}

	return uint16(m.data[address])<<8 | uint16(m.data[address+1]), nil
}

// ReadRange returns a copy of length bytes starting at address.
func (m *Memory) ReadRange(address uint16, length int) ([]byte, error) {
	if int(address)+length > Size {
		return nil, outOfRange(address)
	}

	out := make([]byte, length)
	copy(out, m.data[address:])
	return out, nil
}

// WriteRange stores values starting at address. Either all bytes are
// written or none is.
func (m *Memory) WriteRange(address uint16, values []byte) error {
	if int(address)+len(values) > Size {
		return outOfRange(address)
	}

	copy(m.data[address:], values)
	return nil
}

// FontAddress returns the address of the sprite for the given hex digit.
// Only the low nibble of digit is used.
func FontAddress(digit uint8) uint16 {
	return FontStart + uint16(digit&0x0F)*FontSpriteHeight
}

func outOfRange(address uint16) error {
	return fmt.Errorf("%w: 0x%04X", ErrMemoryOutOfRange, address)
}
