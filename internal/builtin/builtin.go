// Package builtin implements the Hack standard library (Math, Memory,
// Array, String, Output, Screen, Keyboard, Sys) as resumable state
// machines, per spec.md §4.5 and the design note in spec.md §9. Each
// routine advances a small amount of work per Step and may ask its caller
// (internal/vm) to invoke another VM or built-in function on its behalf,
// continuing from saved state once that call completes — the "resumable
// built-ins vs threads" design the spec calls for.
package builtin

import (
	"github.com/hackcore-emu/hackcore/internal/emu"
	"github.com/hackcore-emu/hackcore/internal/memory"
)

// VMStack is the slice of VM capability a routine needs: push/pop on the
// shared stack (SP-relative) and direct addressed access to main memory
// (for Memory.peek/poke, Screen's pixel writes, Output's glyph blits).
type VMStack interface {
	Push(emu.Word) error
	Pop() (emu.Word, error)
	Mem() *memory.Memory
	Heap() *Heap
	Cursor() *OutputCursor
	ScreenState() *ScreenState
}

// Kind tags a StepResult's variant.
type Kind int

const (
	Yield Kind = iota
	CallVMKind
	CallBuiltinKind
	ReturnKind
	ErrorKind
)

// StepResult is the tagged result of one Step call, matching spec.md §4.5's
// four-way contract, plus an ErrorKind variant a routine uses to surface a
// spec.md §7 error (e.g. Math.divide's DivisionByZeroError) instead of
// completing normally.
type StepResult struct {
	Kind  Kind
	Func  string
	Args  []emu.Word
	Value emu.Word
	Err   error
}

// YieldResult advances one tick with no further side effect this step.
func YieldResult() StepResult { return StepResult{Kind: Yield} }

// CallVM asks the interpreter to invoke a VM-defined function, building a
// real call frame, and to resume this routine once it returns.
func CallVM(name string, args ...emu.Word) StepResult {
	return StepResult{Kind: CallVMKind, Func: name, Args: args}
}

// CallBuiltin asks the interpreter to invoke another built-in routine
// directly (no VM frame), resuming this routine with its return value.
func CallBuiltin(name string, args ...emu.Word) StepResult {
	return StepResult{Kind: CallBuiltinKind, Func: name, Args: args}
}

// Return completes this routine with value v.
func Return(v emu.Word) StepResult {
	return StepResult{Kind: ReturnKind, Value: v}
}

// ErrorResult halts the interpreter with err, per spec.md §7's policy that
// a runtime error halts execution and surfaces to the driver.
func ErrorResult(err error) StepResult {
	return StepResult{Kind: ErrorKind, Err: err}
}

// Routine is one built-in's resumable state machine.
type Routine interface {
	// Step advances the routine by one tick.
	Step(stack VMStack) StepResult
	// Resume delivers the return value of a nested CallVM/CallBuiltin
	// invocation, called once before the next Step.
	Resume(value emu.Word)
}

// NoResume is embedded by routines that never issue CallVM/CallBuiltin.
type NoResume struct{}

func (NoResume) Resume(emu.Word) {}

// ctor builds a fresh routine instance for one invocation, given its
// already-popped arguments.
type ctor func(args []emu.Word) Routine

var registry = map[string]ctor{
	"Math.multiply": newMathMultiply,
	"Math.divide":   newMathDivide,
	"Math.min":      newMathMin,
	"Math.max":      newMathMax,
	"Math.sqrt":     newMathSqrt,
	"Math.abs":      newMathAbs,

	"Memory.peek":    newMemoryPeek,
	"Memory.poke":    newMemoryPoke,
	"Memory.alloc":   newMemoryAlloc,
	"Memory.deAlloc": newMemoryDeAlloc,

	"Array.new":     newMemoryAlloc,
	"Array.dispose": newMemoryDeAlloc,

	"String.new":           newStringNew,
	"String.dispose":       newStringDispose,
	"String.length":        newStringLength,
	"String.charAt":        newStringCharAt,
	"String.setCharAt":     newStringSetCharAt,
	"String.appendChar":    newStringAppendChar,
	"String.eraseLastChar": newStringEraseLastChar,
	"String.intValue":      newStringIntValue,
	"String.setInt":        newStringSetInt,
	"String.newLine":       newStringConst(128),
	"String.backSpace":     newStringConst(129),
	"String.doubleQuote":   newStringConst(34),

	"Output.init":        newOutputInit,
	"Output.moveCursor":  newOutputMoveCursor,
	"Output.printChar":   newOutputPrintChar,
	"Output.printString": newOutputPrintString,
	"Output.printInt":    newOutputPrintInt,
	"Output.println":     newOutputPrintln,
	"Output.backSpace":   newOutputBackSpace,

	"Screen.init":          newScreenInit,
	"Screen.clearScreen":   newScreenClear,
	"Screen.setColor":      newScreenSetColor,
	"Screen.drawPixel":     newScreenDrawPixel,
	"Screen.drawLine":      newScreenDrawLine,
	"Screen.drawRectangle": newScreenDrawRectangle,
	"Screen.drawCircle":    newScreenDrawCircle,

	"Keyboard.keyPressed": newKeyboardKeyPressed,
	"Keyboard.readChar":   newKeyboardReadChar,
	"Keyboard.readLine":   newKeyboardReadLine,
	"Keyboard.readInt":    newKeyboardReadInt,

	"Sys.init":  newSysInit,
	"Sys.halt":  newSysHalt,
	"Sys.error": newSysError,
	"Sys.wait":  newSysWait,
}

// IsBuiltin reports whether name is one of the standard-library routines.
func IsBuiltin(name string) bool {
	_, ok := registry[name]
	return ok
}

// New instantiates the routine for name with its popped arguments. Ok is
// false if name is not a built-in.
func New(name string, args []emu.Word) (Routine, bool) {
	c, ok := registry[name]
	if !ok {
		return nil, false
	}
	return c(args), true
}
