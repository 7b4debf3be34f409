package cpu

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	// RegisterCount is the number of general purpose registers, V0-VF.
	RegisterCount = 16
	// StackSize is the maximum call depth.
	StackSize = 16

	// flagRegister is VF. It is an ordinary register that flag-producing
	// instructions overwrite.
	flagRegister = 0xF
)

var (
	ErrStackOverflow      = errors.New("stack overflow")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrUnrecognizedOpcode = errors.New("unrecognized opcode")
)

// CPU holds the whole interpreter state and executes one instruction per Step.
type CPU struct {
	v     [RegisterCount]uint8
	i     uint16
	pc    uint16
	stack [StackSize]uint16
	sp    uint8

	mem    *memory.Memory
	fb     *video.FrameBuffer
	keypad *memory.Keypad
	timers *memory.Timers
	rng    *rand.Rand

	// set by Fx0A, cleared once a key press is latched
	awaitingKey bool
	keyRegister uint8

	currentOpcode uint16
	cycles        uint64
}

// New returns a CPU in its reset state, with random numbers drawn from a
// PCG generator seeded with seed.
func New(seed uint64) *CPU {
	c := &CPU{
		mem:    memory.New(),
		fb:     video.NewFrameBuffer(),
		keypad: memory.NewKeypad(),
		timers: &memory.Timers{},
		rng:    rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
	c.Reset()

	return c
}

// Reset zeroes registers, stack, timers, memory and display, re-installs the
// font and points PC at the program start. Held keys are left alone since
// the keypad belongs to the input side.
func (c *CPU) Reset() {
	c.v = [RegisterCount]uint8{}
	c.i = 0
	c.pc = memory.ProgramStart
	c.stack = [StackSize]uint16{}
	c.sp = 0
	c.awaitingKey = false
	c.keyRegister = 0
	c.currentOpcode = 0
	c.cycles = 0

	c.mem.Reset()
	c.fb.Clear()
	c.timers.Reset()
	c.keypad.ClearLatch()
}

// LoadProgram copies the program into memory at the program start.
func (c *CPU) LoadProgram(program []byte) error {
	return c.mem.LoadProgram(program)
}

// Step executes a single fetch-decode-execute cycle. While awaiting a key
// (Fx0A) it only checks for a latched press. A returned error is fatal.
func (c *CPU) Step() error {
	if c.awaitingKey {
		c.resumeKeyWait()
		return nil
	}

	address := c.pc
	opcode, err := c.mem.ReadWord(address)
	if err != nil {
		return fmt.Errorf("fetch at 0x%03X: %w", address, err)
	}

	c.currentOpcode = opcode
	instr := Decode(opcode)

	c.pc += 2
	if err := c.execute(instr); err != nil {
		c.pc = address
		return fmt.Errorf("%s at 0x%03X: %w", instr, address, err)
	}

	c.cycles++
	return nil
}

// TickTimers decrements the delay and sound timers once.
func (c *CPU) TickTimers() {
	c.timers.Tick()
}

// SetKey updates the pressed state of a keypad key.
func (c *CPU) SetKey(key uint8, pressed bool) {
	c.keypad.Set(memory.Key(key), pressed)
}

// FrameBuffer returns the display. Callers must treat it as read-only.
func (c *CPU) FrameBuffer() *video.FrameBuffer {
	return c.fb
}

// IsSoundActive reports whether the sound timer is running.
func (c *CPU) IsSoundActive() bool {
	return c.timers.SoundActive()
}

// AwaitingKey reports whether the CPU is blocked on Fx0A, and for which register.
func (c *CPU) AwaitingKey() (register uint8, waiting bool) {
	return c.keyRegister, c.awaitingKey
}

// CanStep reports whether a Step would make progress.
func (c *CPU) CanStep() bool {
	return !c.awaitingKey || c.keypad.HasLatched()
}

func (c *CPU) resumeKeyWait() {
	key, ok := c.keypad.TakeLatched()
	if !ok {
		return
	}

	c.setV(c.keyRegister, uint8(key))
	c.awaitingKey = false
	c.pc += 2
}

// V returns the value held by register x.
func (c *CPU) V(x uint8) uint8 {
	return c.v[x&0x0F]
}

func (c *CPU) setV(x, value uint8) {
	c.v[x&0x0F] = value
}

func (c *CPU) setFlag(value uint8) {
	c.v[flagRegister] = value
}

func (c *CPU) pushStack(address uint16) error {
	if int(c.sp) >= StackSize {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, c.sp)
	}

	c.stack[c.sp] = address
	c.sp++
	return nil
}

func (c *CPU) popStack() (uint16, error) {
	if c.sp == 0 {
		return 0, ErrStackUnderflow
	}

	c.sp--
	return c.stack[c.sp], nil
}

// Debug getter methods for register display
func (c *CPU) GetPC() uint16            { return c.pc }
func (c *CPU) GetI() uint16             { return c.i }
func (c *CPU) GetSP() uint8             { return c.sp }
func (c *CPU) GetDelayTimer() uint8     { return c.timers.Delay() }
func (c *CPU) GetSoundTimer() uint8     { return c.timers.Sound() }
func (c *CPU) GetCycles() uint64        { return c.cycles }
func (c *CPU) GetCurrentOpcode() uint16 { return c.currentOpcode }

// GetRegisters returns a copy of V0-VF.
func (c *CPU) GetRegisters() [RegisterCount]uint8 { return c.v }

// GetStack returns a copy of the active part of the call stack, oldest first.
func (c *CPU) GetStack() []uint16 {
	out := make([]uint16, c.sp)
	copy(out, c.stack[:c.sp])
	return out
}
