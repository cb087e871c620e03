package builtin

import "github.com/hackcore-emu/hackcore/internal/emu"

const (
	keyNewline   = 128
	keyBackspace = 129
)

type keyboardKeyPressed struct{ NoResume }

func newKeyboardKeyPressed([]emu.Word) Routine { return &keyboardKeyPressed{} }

func (r *keyboardKeyPressed) Step(stack VMStack) StepResult {
	return Return(stack.Mem().Key())
}

// readChar phases: wait for a nonzero key code, then wait for it to clear,
// returning the code it saw pressed. This turns the tick-driven keyboard
// register into the press-then-release semantics Jack programs expect.
const (
	readCharWaitPress = iota
	readCharWaitRelease
)

type keyboardReadChar struct {
	NoResume
	phase int
	code  emu.Word
}

func newKeyboardReadChar([]emu.Word) Routine { return &keyboardReadChar{} }

func (r *keyboardReadChar) Step(stack VMStack) StepResult {
	key := stack.Mem().Key()
	switch r.phase {
	case readCharWaitPress:
		if key == 0 {
			return YieldResult()
		}
		r.code = key
		r.phase = readCharWaitRelease
		return YieldResult()
	default:
		if key != 0 {
			return YieldResult()
		}
		return Return(r.code)
	}
}

const (
	readLinePrompt = iota
	readLineNewString
	readLineReadChar
	readLineErase
	readLineEraseEcho
	readLineAppend
	readLineAppendEcho
	readLineNewlineEcho
	readLineDone
)

type keyboardReadLine struct {
	prompt       emu.Word
	phase        int
	strPtr       emu.Word
	last         emu.Word
	awaitingChar bool
}

func newKeyboardReadLine(args []emu.Word) Routine { return &keyboardReadLine{prompt: arg(args, 0)} }

func (r *keyboardReadLine) Step(VMStack) StepResult {
	switch r.phase {
	case readLinePrompt:
		r.phase = readLineNewString
		return CallBuiltin("Output.printString", r.prompt)
	case readLineNewString:
		r.phase = readLineReadChar
		return CallBuiltin("String.new", emu.ToWord(80))
	case readLineReadChar:
		r.awaitingChar = true
		return CallBuiltin("Keyboard.readChar")
	case readLineErase:
		r.phase = readLineEraseEcho
		return CallBuiltin("String.eraseLastChar", r.strPtr)
	case readLineEraseEcho:
		r.phase = readLineReadChar
		return CallBuiltin("Output.backSpace")
	case readLineAppend:
		r.phase = readLineAppendEcho
		return CallBuiltin("String.appendChar", r.strPtr, r.last)
	case readLineAppendEcho:
		r.phase = readLineReadChar
		return CallBuiltin("Output.printChar", r.last)
	case readLineNewlineEcho:
		r.phase = readLineDone
		return CallBuiltin("Output.println")
	default:
		return Return(r.strPtr)
	}
}

func (r *keyboardReadLine) Resume(v emu.Word) {
	if r.phase != readLineReadChar {
		return
	}
	// The first arrival here is String.new's return value (heap addresses
	// are never 0). Later arrivals are either a character from
	// Keyboard.readChar (awaitingChar set) or the return value of the
	// Output echo call that preceded it, which is ignored.
	if r.strPtr == 0 {
		r.strPtr = v
		return
	}
	if !r.awaitingChar {
		return
	}
	r.awaitingChar = false
	r.last = v
	switch v {
	case keyNewline:
		r.phase = readLineNewlineEcho
	case keyBackspace:
		r.phase = readLineErase
	default:
		r.phase = readLineAppend
	}
}

type keyboardReadInt struct {
	prompt emu.Word
	phase  int
	strPtr emu.Word
	value  emu.Word
}

const (
	readIntLine = iota
	readIntParse
	readIntDispose
	readIntDone
)

func newKeyboardReadInt(args []emu.Word) Routine { return &keyboardReadInt{prompt: arg(args, 0)} }

func (r *keyboardReadInt) Step(VMStack) StepResult {
	switch r.phase {
	case readIntLine:
		r.phase = readIntParse
		return CallBuiltin("Keyboard.readLine", r.prompt)
	case readIntParse:
		r.phase = readIntDispose
		return CallBuiltin("String.intValue", r.strPtr)
	case readIntDispose:
		r.phase = readIntDone
		return CallBuiltin("String.dispose", r.strPtr)
	default:
		return Return(r.value)
	}
}

func (r *keyboardReadInt) Resume(v emu.Word) {
	switch r.phase {
	case readIntParse:
		r.strPtr = v
	case readIntDispose:
		r.value = v
	}
}
