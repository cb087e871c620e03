// Package cpu implements the Hack CPU interpreter of spec.md §4.1: A/D/PC
// registers executing 16-bit A- and C-instructions out of ROM against the
// shared main memory model. Grounded on chippy/internal/chip8.VM's
// register-struct-plus-fetch-loop shape, adapted from an 8-bit opcode
// dispatch to the Hack two-instruction-format ISA.
package cpu

import (
	"github.com/hackcore-emu/hackcore/internal/emu"
	"github.com/hackcore-emu/hackcore/internal/memory"
)

// CPU holds the three Hack registers and the program ROM. M is not a
// register; it is always memory[A].
type CPU struct {
	A, D emu.Word
	PC   int

	ROM    []emu.Word
	Memory *memory.Memory
}

// New returns a CPU with the given ROM image loaded and all registers at
// their reset state.
func New(rom []emu.Word, mem *memory.Memory) *CPU {
	return &CPU{ROM: rom, Memory: mem}
}

// Reset zeros A, D, and PC without altering the loaded ROM or main memory's
// contents (the driver is responsible for re-initializing memory via
// internal/loader when that's wanted).
func (c *CPU) Reset() {
	c.A, c.D, c.PC = 0, 0, 0
}

const (
	destM = 1 << 0
	destD = 1 << 1
	destA = 1 << 2
)

// Step executes exactly one instruction, per spec.md §4.1.
func (c *CPU) Step() error {
	if c.PC < 0 || c.PC >= len(c.ROM) {
		return &emu.NoInstructionsError{PC: c.PC}
	}
	instr := c.ROM[c.PC].Uint16()

	if instr&0x8000 == 0 {
		// A-instruction: low 15 bits loaded as an unsigned constant.
		c.A = emu.Word(int16(instr & 0x7FFF))
		c.PC++
		return nil
	}

	return c.stepC(instr)
}

func (c *CPU) stepC(instr uint16) error {
	aBit := instr & 0x1000
	compCode := (instr >> 6) & 0x7F
	destCode := (instr >> 3) & 0x7
	jumpCode := instr & 0x7

	var y emu.Word
	if aBit == 0 {
		y = c.A
	} else {
		v, err := c.Memory.Read(c.A.Int())
		if err != nil {
			return &emu.OutOfBoundsError{Address: c.A.Int(), Instruction: "C-instruction operand M"}
		}
		y = v
	}

	result, err := compute(compCode, c.D, y)
	if err != nil {
		return err
	}

	if destCode&destM != 0 {
		if err := c.Memory.Write(c.A.Int(), result); err != nil {
			return &emu.OutOfBoundsError{Address: c.A.Int(), Instruction: "C-instruction dest M"}
		}
	}
	if destCode&destA != 0 {
		c.A = result
	}
	if destCode&destD != 0 {
		c.D = result
	}

	if jumps(jumpCode, result) {
		c.PC = c.A.Int()
	} else {
		c.PC++
	}
	return nil
}

// compute evaluates one of the 18 fixed ALU computations over D and y,
// selected by the 7-bit a-c1..c6 field exactly as encoded by internal/asm's
// compTable, so the same 7-bit code produced by the assembler decodes back
// to the same operation here.
func compute(code uint16, d, y emu.Word) (emu.Word, error) {
	switch code {
	case 0b0101010:
		return 0, nil
	case 0b0111111:
		return 1, nil
	case 0b0111010:
		return -1, nil
	case 0b0001100:
		return d, nil
	case 0b0110000, 0b1110000:
		return y, nil
	case 0b0001101:
		return ^d, nil
	case 0b0110001, 0b1110001:
		return ^y, nil
	case 0b0001111:
		return -d, nil
	case 0b0110011, 0b1110011:
		return -y, nil
	case 0b0011111:
		return d + 1, nil
	case 0b0110111, 0b1110111:
		return y + 1, nil
	case 0b0001110:
		return d - 1, nil
	case 0b0110010, 0b1110010:
		return y - 1, nil
	case 0b0000010, 0b1000010:
		return d + y, nil
	case 0b0010011, 0b1010011:
		return d - y, nil
	case 0b0000111, 0b1000111:
		return y - d, nil
	case 0b0000000, 0b1000000:
		return d & y, nil
	case 0b0010101, 0b1010101:
		return d | y, nil
	default:
		return 0, &emu.OutOfBoundsError{Address: int(code), Instruction: "unknown comp code"}
	}
}

func jumps(code uint16, result emu.Word) bool {
	neg, zero, pos := result < 0, result == 0, result > 0
	switch code {
	case 0b000:
		return false
	case 0b001: // JGT
		return pos
	case 0b010: // JEQ
		return zero
	case 0b011: // JGE
		return pos || zero
	case 0b100: // JLT
		return neg
	case 0b101: // JNE
		return !zero
	case 0b110: // JLE
		return neg || zero
	case 0b111: // JMP
		return true
	default:
		return false
	}
}
