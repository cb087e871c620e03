// Package memory implements the Hack platform's 32768-word main memory,
// including the memory-mapped screen and keyboard regions of spec.md §3.1.
package memory

import "github.com/hackcore-emu/hackcore/internal/emu"

// Memory is the shared 16-bit word array every interpreter mode reads and
// writes. It owns no behavior beyond bounds-checked access; segment
// addressing rules live in internal/vm.
type Memory struct {
	words [emu.MainMemorySize]emu.Word
}

// New returns a zeroed Memory, matching the reset state of spec.md §5
// ("loading a program resets all state").
func New() *Memory {
	return &Memory{}
}

// Read returns memory[addr], or OutOfBoundsError if addr is not a legal
// main-memory address.
func (m *Memory) Read(addr int) (emu.Word, error) {
	if !emu.InBounds(addr) {
		return 0, &emu.OutOfBoundsError{Address: addr}
	}
	return m.words[addr], nil
}

// Write sets memory[addr] = v, or returns OutOfBoundsError.
func (m *Memory) Write(addr int, v emu.Word) error {
	if !emu.InBounds(addr) {
		return &emu.OutOfBoundsError{Address: addr}
	}
	m.words[addr] = v
	return nil
}

// MustRead panics on an out-of-bounds address; only used internally where
// the caller has already validated addr (e.g. fixed register slots).
func (m *Memory) MustRead(addr int) emu.Word {
	v, err := m.Read(addr)
	if err != nil {
		panic(err)
	}
	return v
}

// MustWrite panics on an out-of-bounds address; see MustRead.
func (m *Memory) MustWrite(addr int, v emu.Word) {
	if err := m.Write(addr, v); err != nil {
		panic(err)
	}
}

// Reset zeroes every word, including the screen and keyboard regions.
func (m *Memory) Reset() {
	for i := range m.words {
		m.words[i] = 0
	}
}

// SetKey writes the current key code into the keyboard register. A code of
// 0 means no key pressed.
func (m *Memory) SetKey(code emu.Word) {
	m.words[emu.KeyboardAddr] = code
}

// Key reads the current key code from the keyboard register.
func (m *Memory) Key() emu.Word {
	return m.words[emu.KeyboardAddr]
}

// ScreenRow returns the 32 words backing screen row r (0..255), a direct
// slice into main memory, row-major per spec.md §3.1.
func (m *Memory) ScreenRow(r int) []emu.Word {
	start := emu.ScreenBase + r*emu.ScreenColsPer
	return m.words[start : start+emu.ScreenColsPer]
}
