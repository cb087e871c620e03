package builtin_test

import (
	"testing"

	"github.com/hackcore-emu/hackcore/internal/builtin"
	"github.com/hackcore-emu/hackcore/internal/emu"
	"github.com/hackcore-emu/hackcore/internal/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stack is a minimal builtin.VMStack for exercising routines directly,
// without a full internal/vm interpreter driving call/return framing.
type stack struct {
	mem    *memory.Memory
	heap   *builtin.Heap
	cursor *builtin.OutputCursor
	screen *builtin.ScreenState
}

func newStack() *stack {
	return &stack{
		mem:    memory.New(),
		heap:   builtin.NewHeap(),
		cursor: &builtin.OutputCursor{},
		screen: builtin.NewScreenState(),
	}
}

func (s *stack) Push(emu.Word) error           { return nil }
func (s *stack) Pop() (emu.Word, error)        { return 0, nil }
func (s *stack) Mem() *memory.Memory           { return s.mem }
func (s *stack) Heap() *builtin.Heap           { return s.heap }
func (s *stack) Cursor() *builtin.OutputCursor { return s.cursor }
func (s *stack) ScreenState() *builtin.ScreenState { return s.screen }

// drive runs a routine to completion, recursively resolving any
// CallBuiltin requests it issues, and fails the test on CallVM (this
// package alone never needs to build a real VM frame) or on error.
func drive(t *testing.T, s *stack, name string, args ...emu.Word) emu.Word {
	t.Helper()
	r, ok := builtin.New(name, args)
	require.True(t, ok, "unknown builtin %s", name)
	for {
		res := r.Step(s)
		switch res.Kind {
		case builtin.ReturnKind:
			return res.Value
		case builtin.ErrorKind:
			t.Fatalf("%s: %v", name, res.Err)
		case builtin.CallBuiltinKind:
			v := drive(t, s, res.Func, res.Args...)
			r.Resume(v)
		case builtin.CallVMKind:
			t.Fatalf("%s: unexpected CallVM(%s) in builtin-only test", name, res.Func)
		default:
			t.Fatalf("%s: unexpected yield in builtin-only test", name)
		}
	}
}

func TestMathMultiplyDivide(t *testing.T) {
	s := newStack()
	assert.Equal(t, emu.Word(42), drive(t, s, "Math.multiply", 6, 7))
	assert.Equal(t, emu.Word(3), drive(t, s, "Math.divide", 10, 3))
}

func TestMathDivideByZero(t *testing.T) {
	s := newStack()
	r, _ := builtin.New("Math.divide", []emu.Word{5, 0})
	res := r.Step(s)
	assert.Equal(t, builtin.ErrorKind, res.Kind)
	assert.Error(t, res.Err)
}

func TestMathSqrtAndAbs(t *testing.T) {
	s := newStack()
	assert.Equal(t, emu.Word(13), drive(t, s, "Math.sqrt", 169))
	assert.Equal(t, emu.Word(12), drive(t, s, "Math.abs", -12))
}

func TestMemoryAllocDeallocReuses(t *testing.T) {
	s := newStack()
	a := drive(t, s, "Memory.alloc", 10)
	drive(t, s, "Memory.deAlloc", a)
	b := drive(t, s, "Memory.alloc", 10)
	assert.Equal(t, a, b, "dealloc should make the block available for reuse")
}

func TestStringAppendAndIntValue(t *testing.T) {
	s := newStack()
	strPtr := drive(t, s, "String.new", 10)

	for _, c := range "123" {
		strPtr = drive(t, s, "String.appendChar", strPtr, emu.Word(c))
	}
	assert.Equal(t, emu.Word(3), drive(t, s, "String.length", strPtr))
	assert.Equal(t, emu.Word(123), drive(t, s, "String.intValue", strPtr))
}

func TestStringSetIntNegative(t *testing.T) {
	s := newStack()
	strPtr := drive(t, s, "String.new", 10)
	drive(t, s, "String.setInt", strPtr, -45)
	assert.Equal(t, emu.Word(-45), drive(t, s, "String.intValue", strPtr))
}

func TestOutputPrintStringAdvancesCursorAndDrawsPixels(t *testing.T) {
	s := newStack()
	strPtr := drive(t, s, "String.new", 5)
	for _, c := range "AB" {
		strPtr = drive(t, s, "String.appendChar", strPtr, emu.Word(c))
	}
	drive(t, s, "Output.printString", strPtr)

	found := false
	for i := 0; i < emu.ScreenColsPer*2; i++ {
		v, err := s.Mem().Read(emu.ScreenBase + i)
		require.NoError(t, err)
		if v != 0 {
			found = true
		}
	}
	assert.True(t, found, "printString should have set at least one screen word")
	// Glyph row 1 of both 'A' and 'B' is 0b01111110: 'A' at text column 0
	// sets pixels 1..6, 'B' at text column 1 sets pixels 9..14.
	assert.Equal(t, emu.Word(0x7E7E), s.Mem().ScreenRow(1)[0], "the cursor should advance one cell per character")
}

func TestScreenDrawPixelAndRectangle(t *testing.T) {
	s := newStack()
	drive(t, s, "Screen.drawPixel", 0, 0)
	v, err := s.Mem().Read(emu.ScreenBase)
	require.NoError(t, err)
	assert.Equal(t, emu.Word(1), v)

	drive(t, s, "Screen.drawRectangle", 0, 1, 15, 1)
	row := s.Mem().ScreenRow(1)
	assert.Equal(t, emu.Word(-1), row[0], "16 contiguous set bits pack to -1 in a signed word")
}

func TestScreenSetColorWhiteClears(t *testing.T) {
	s := newStack()
	drive(t, s, "Screen.drawPixel", 0, 0)
	drive(t, s, "Screen.setColor", 0)
	drive(t, s, "Screen.drawPixel", 0, 0)
	v, err := s.Mem().Read(emu.ScreenBase)
	require.NoError(t, err)
	assert.Equal(t, emu.Word(0), v)
}

func TestOutputAndScreenStateAreNotSharedAcrossInstances(t *testing.T) {
	a := newStack()
	drive(t, a, "Output.moveCursor", 5, 5)
	drive(t, a, "Screen.setColor", 0)

	b := newStack()
	drive(t, b, "Screen.drawPixel", 0, 0)
	v, err := b.Mem().Read(emu.ScreenBase)
	require.NoError(t, err)
	assert.Equal(t, emu.Word(1), v, "a fresh stack's Screen state must default to black, unaffected by a's setColor(0)")

	const charHeight = 11 // Output's glyph cell height in pixels
	drive(t, b, "Output.printChar", emu.Word('A'))
	inTextRow0 := false
	inTextRow5 := false
	for i := 0; i < emu.ScreenColsPer*charHeight; i++ {
		w, err := b.Mem().Read(emu.ScreenBase + i)
		require.NoError(t, err)
		if w != 0 {
			inTextRow0 = true
		}
	}
	for i := 0; i < emu.ScreenColsPer*charHeight; i++ {
		w, err := b.Mem().Read(emu.ScreenBase + 5*charHeight*emu.ScreenColsPer + i)
		require.NoError(t, err)
		if w != 0 {
			inTextRow5 = true
		}
	}
	assert.True(t, inTextRow0, "a fresh stack's cursor must start at text row 0")
	assert.False(t, inTextRow5, "a fresh stack's cursor must not inherit a's moveCursor(5, 5)")
}

func TestKeyboardReadCharPressThenRelease(t *testing.T) {
	s := newStack()
	r, ok := builtin.New("Keyboard.readChar", nil)
	require.True(t, ok)

	res := r.Step(s)
	assert.Equal(t, builtin.Yield, res.Kind, "should wait while no key is down")

	s.Mem().SetKey(65)
	res = r.Step(s)
	assert.Equal(t, builtin.Yield, res.Kind, "should wait for release before returning")

	res = r.Step(s)
	assert.Equal(t, builtin.Yield, res.Kind, "key still held")

	s.Mem().SetKey(0)
	res = r.Step(s)
	require.Equal(t, builtin.ReturnKind, res.Kind)
	assert.Equal(t, emu.Word(65), res.Value)
}

func TestSysInitCallsMainThenHalts(t *testing.T) {
	s := newStack()
	r, ok := builtin.New("Sys.init", nil)
	require.True(t, ok)

	res := r.Step(s)
	require.Equal(t, builtin.CallVMKind, res.Kind)
	assert.Equal(t, "Main.main", res.Func)

	r.Resume(0)
	res = r.Step(s)
	require.Equal(t, builtin.CallBuiltinKind, res.Kind)
	assert.Equal(t, "Sys.halt", res.Func)
}

func TestSysWaitCountsTicks(t *testing.T) {
	s := newStack()
	r, ok := builtin.New("Sys.wait", []emu.Word{3})
	require.True(t, ok)
	for i := 0; i < 3; i++ {
		res := r.Step(s)
		assert.Equal(t, builtin.Yield, res.Kind)
	}
	res := r.Step(s)
	assert.Equal(t, builtin.ReturnKind, res.Kind)
}
