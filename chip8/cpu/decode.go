package cpu

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
)

// Op identifies one of the base instructions.
type Op uint8

const (
	// OpUnknown is a word whose group exists but whose sub-operation does not.
	OpUnknown Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEImm      // 3xkk
	OpSNEImm     // 4xkk
	OpSEReg      // 5xy0
	OpLDImm      // 6xkk
	OpADDImm     // 7xkk
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADDReg     // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxkk
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDVxK      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDI       // Fx1E
	OpLDF        // Fx29
	OpLDB        // Fx33
	OpLDIVx      // Fx55
	OpLDVxI      // Fx65
)

var opNames = [...]string{
	OpUnknown: "???",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEImm:   "SE",
	OpSNEImm:  "SNE",
	OpSEReg:   "SE",
	OpLDImm:   "LD",
	OpADDImm:  "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpLDIVx:   "LD",
	OpLDVxI:   "LD",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Instruction is a decoded instruction word. Every operand field is always
// extracted; which ones are meaningful depends on Op.
type Instruction struct {
	Op     Op
	Opcode uint16

	X   uint8  // bits 8-11, register index
	Y   uint8  // bits 4-7, register index
	N   uint8  // bits 0-3
	KK  uint8  // bits 0-7
	NNN uint16 // bits 0-11
}

// Decode maps an instruction word to an Instruction. It never fails: words
// without a defined meaning decode to OpUnknown.
func Decode(opcode uint16) Instruction {
	in := Instruction{
		Opcode: opcode,
		X:      bit.Nibble(opcode, 2),
		Y:      bit.Nibble(opcode, 1),
		N:      bit.Nibble(opcode, 0),
		KK:     bit.Low(opcode),
		NNN:    bit.Address(opcode),
	}

	switch bit.Nibble(opcode, 3) {
	case 0x0:
		switch opcode {
		case 0x00E0:
			in.Op = OpCLS
		case 0x00EE:
			in.Op = OpRET
		}
	case 0x1:
		in.Op = OpJP
	case 0x2:
		in.Op = OpCALL
	case 0x3:
		in.Op = OpSEImm
	case 0x4:
		in.Op = OpSNEImm
	case 0x5:
		if in.N == 0 {
			in.Op = OpSEReg
		}
	case 0x6:
		in.Op = OpLDImm
	case 0x7:
		in.Op = OpADDImm
	case 0x8:
		in.Op = decodeALU(in.N)
	case 0x9:
		if in.N == 0 {
			in.Op = OpSNEReg
		}
	case 0xA:
		in.Op = OpLDI
	case 0xB:
		in.Op = OpJPV0
	case 0xC:
		in.Op = OpRND
	case 0xD:
		in.Op = OpDRW
	case 0xE:
		switch in.KK {
		case 0x9E:
			in.Op = OpSKP
		case 0xA1:
			in.Op = OpSKNP
		}
	case 0xF:
		in.Op = decodeMisc(in.KK)
	}

	return in
}

func decodeALU(n uint8) Op {
	switch n {
	case 0x0:
		return OpLDReg
	case 0x1:
		return OpOR
	case 0x2:
		return OpAND
	case 0x3:
		return OpXOR
	case 0x4:
		return OpADDReg
	case 0x5:
		return OpSUB
	case 0x6:
		return OpSHR
	case 0x7:
		return OpSUBN
	case 0xE:
		return OpSHL
	}
	return OpUnknown
}

func decodeMisc(kk uint8) Op {
	switch kk {
	case 0x07:
		return OpLDVxDT
	case 0x0A:
		return OpLDVxK
	case 0x15:
		return OpLDDTVx
	case 0x18:
		return OpLDSTVx
	case 0x1E:
		return OpADDI
	case 0x29:
		return OpLDF
	case 0x33:
		return OpLDB
	case 0x55:
		return OpLDIVx
	case 0x65:
		return OpLDVxI
	}
	return OpUnknown
}

// String returns the assembly mnemonic of the instruction, e.g. "ADD V1, V2".
func (in Instruction) String() string {
	name := in.Op.String()

	switch in.Op {
	case OpCLS, OpRET:
		return name
	case OpJP, OpCALL:
		return fmt.Sprintf("%s 0x%03X", name, in.NNN)
	case OpSEImm, OpSNEImm, OpLDImm, OpADDImm:
		return fmt.Sprintf("%s V%X, 0x%02X", name, in.X, in.KK)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSHR, OpSUBN, OpSHL:
		return fmt.Sprintf("%s V%X, V%X", name, in.X, in.Y)
	case OpLDI:
		return fmt.Sprintf("%s I, 0x%03X", name, in.NNN)
	case OpJPV0:
		return fmt.Sprintf("%s V0, 0x%03X", name, in.NNN)
	case OpRND:
		return fmt.Sprintf("%s V%X, 0x%02X", name, in.X, in.KK)
	case OpDRW:
		return fmt.Sprintf("%s V%X, V%X, %d", name, in.X, in.Y, in.N)
	case OpSKP, OpSKNP:
		return fmt.Sprintf("%s V%X", name, in.X)
	case OpLDVxDT:
		return fmt.Sprintf("%s V%X, DT", name, in.X)
	case OpLDVxK:
		return fmt.Sprintf("%s V%X, K", name, in.X)
	case OpLDDTVx:
		return fmt.Sprintf("%s DT, V%X", name, in.X)
	case OpLDSTVx:
		return fmt.Sprintf("%s ST, V%X", name, in.X)
	case OpADDI:
		return fmt.Sprintf("%s I, V%X", name, in.X)
	case OpLDF:
		return fmt.Sprintf("%s F, V%X", name, in.X)
	case OpLDB:
		return fmt.Sprintf("%s B, V%X", name, in.X)
	case OpLDIVx:
		return fmt.Sprintf("%s [I], V%X", name, in.X)
	case OpLDVxI:
		return fmt.Sprintf("%s V%X, [I]", name, in.X)
	}

	return fmt.Sprintf("%s 0x%04X", name, in.Opcode)
}
