package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
)

// execute applies a decoded instruction. PC already points past it.
func (c *CPU) execute(in Instruction) error {
	switch in.Op {
	case OpCLS:
		c.fb.Clear()
	case OpRET:
		return c.ret()
	case OpJP:
		c.pc = in.NNN
	case OpCALL:
		return c.call(in.NNN)
	case OpSEImm:
		c.skipIf(c.V(in.X) == in.KK)
	case OpSNEImm:
		c.skipIf(c.V(in.X) != in.KK)
	case OpSEReg:
		c.skipIf(c.V(in.X) == c.V(in.Y))
	case OpSNEReg:
		c.skipIf(c.V(in.X) != c.V(in.Y))
	case OpLDImm:
		c.setV(in.X, in.KK)
	case OpADDImm:
		c.setV(in.X, c.V(in.X)+in.KK)
	case OpLDReg:
		c.setV(in.X, c.V(in.Y))
	case OpOR:
		c.setV(in.X, c.V(in.X)|c.V(in.Y))
	case OpAND:
		c.setV(in.X, c.V(in.X)&c.V(in.Y))
	case OpXOR:
		c.setV(in.X, c.V(in.X)^c.V(in.Y))
	case OpADDReg:
		c.add(in.X, c.V(in.Y))
	case OpSUB:
		c.sub(in.X, c.V(in.X), c.V(in.Y))
	case OpSUBN:
		c.sub(in.X, c.V(in.Y), c.V(in.X))
	case OpSHR:
		c.shr(in.X)
	case OpSHL:
		c.shl(in.X)
	case OpLDI:
		c.i = in.NNN
	case OpJPV0:
		c.pc = in.NNN + uint16(c.V(0))
	case OpRND:
		c.setV(in.X, uint8(c.rng.Uint32())&in.KK)
	case OpDRW:
		return c.draw(in.X, in.Y, in.N)
	case OpSKP:
		c.skipIf(c.keypad.IsPressed(memory.Key(c.V(in.X))))
	case OpSKNP:
		c.skipIf(!c.keypad.IsPressed(memory.Key(c.V(in.X))))
	case OpLDVxDT:
		c.setV(in.X, c.timers.Delay())
	case OpLDVxK:
		c.waitForKey(in.X)
	case OpLDDTVx:
		c.timers.SetDelay(c.V(in.X))
	case OpLDSTVx:
		c.timers.SetSound(c.V(in.X))
	case OpADDI:
		c.i += uint16(c.V(in.X))
	case OpLDF:
		c.i = memory.FontAddress(c.V(in.X))
	case OpLDB:
		return c.storeBCD(in.X)
	case OpLDIVx:
		return c.storeRegisters(in.X)
	case OpLDVxI:
		return c.loadRegisters(in.X)
	case OpUnknown:
		// ROMs occasionally contain words that are data or target other
		// interpreters; treat them as no-ops.
		slog.Warn("Unimplemented opcode, skipping",
			"opcode", fmt.Sprintf("0x%04X", in.Opcode),
			"pc", fmt.Sprintf("0x%03X", c.pc-2))
	default:
		return fmt.Errorf("%w: 0x%04X", ErrUnrecognizedOpcode, in.Opcode)
	}

	return nil
}

// skipIf skips the next instruction when the condition holds.
func (c *CPU) skipIf(condition bool) {
	if condition {
		c.pc += 2
	}
}

// call pushes the address of the next instruction and jumps to address.
func (c *CPU) call(address uint16) error {
	if err := c.pushStack(c.pc); err != nil {
		return err
	}
	c.pc = address
	return nil
}

func (c *CPU) ret() error {
	address, err := c.popStack()
	if err != nil {
		return err
	}
	c.pc = address
	return nil
}

// add sets Vx to Vx + value, VF to the carry.
func (c *CPU) add(x, value uint8) {
	result, carry := bit.CheckedAdd(c.V(x), value)

	c.setFlag(bit.FromBool(carry))
	c.setV(x, result)
}

// sub sets Vx to a - b. VF is set when a > b, i.e. no borrow happened.
func (c *CPU) sub(x, a, b uint8) {
	result, _ := bit.CheckedSub(a, b)

	c.setFlag(bit.FromBool(a > b))
	c.setV(x, result)
}

// shr shifts Vx right by one, VF gets the bit shifted out.
func (c *CPU) shr(x uint8) {
	value := c.V(x)

	c.setFlag(bit.GetBitValue(0, value))
	c.setV(x, value>>1)
}

// shl shifts Vx left by one, VF gets the bit shifted out.
func (c *CPU) shl(x uint8) {
	value := c.V(x)

	c.setFlag(bit.GetBitValue(7, value))
	c.setV(x, value<<1)
}

// draw blits an n byte sprite read from I at (Vx, Vy). VF is set if any
// pixel was turned off.
func (c *CPU) draw(x, y, n uint8) error {
	rows, err := c.mem.ReadRange(c.i, int(n))
	if err != nil {
		return err
	}

	collision := c.fb.Blit(c.V(x), c.V(y), rows)
	c.setFlag(bit.FromBool(collision))
	return nil
}

// waitForKey parks the CPU on the current instruction until a key goes down.
// Presses that happened before this point do not count.
func (c *CPU) waitForKey(x uint8) {
	c.keypad.ClearLatch()
	c.awaitingKey = true
	c.keyRegister = x
	c.pc -= 2
}

// storeBCD writes the hundreds, tens and ones digits of Vx at I, I+1, I+2.
func (c *CPU) storeBCD(x uint8) error {
	value := c.V(x)
	digits := []byte{value / 100, (value / 10) % 10, value % 10}

	return c.mem.WriteRange(c.i, digits)
}

// storeRegisters writes V0-Vx at I. I is left unchanged.
func (c *CPU) storeRegisters(x uint8) error {
	return c.mem.WriteRange(c.i, c.v[:x+1])
}

// loadRegisters reads V0-Vx from I. I is left unchanged.
func (c *CPU) loadRegisters(x uint8) error {
	values, err := c.mem.ReadRange(c.i, int(x)+1)
	if err != nil {
		return err
	}

	copy(c.v[:], values)
	return nil
}
