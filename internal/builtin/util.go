package builtin

import "github.com/hackcore-emu/hackcore/internal/emu"

// immediate is a one-tick routine that returns a fixed value on its first
// Step, used for the String.* character-constant "functions".
type immediate struct {
	NoResume
	value emu.Word
}

func (r *immediate) Step(VMStack) StepResult { return Return(r.value) }

func newStringConst(v emu.Word) ctor {
	return func([]emu.Word) Routine { return &immediate{value: v} }
}

func arg(args []emu.Word, i int) emu.Word {
	if i < len(args) {
		return args[i]
	}
	return 0
}
