package builtin

import "github.com/hackcore-emu/hackcore/internal/emu"

// divisionByZero is returned by Math.divide(x, 0), per spec.md §7/§8.
type divisionByZero = emu.DivisionByZeroError

type mathMultiply struct {
	NoResume
	x, y emu.Word
}

func newMathMultiply(args []emu.Word) Routine { return &mathMultiply{x: arg(args, 0), y: arg(args, 1)} }

func (r *mathMultiply) Step(VMStack) StepResult {
	return Return(emu.ToWord(r.x.Int() * r.y.Int()))
}

type mathDivide struct {
	NoResume
	x, y emu.Word
}

func newMathDivide(args []emu.Word) Routine { return &mathDivide{x: arg(args, 0), y: arg(args, 1)} }

func (r *mathDivide) Step(VMStack) StepResult {
	if r.y == 0 {
		return ErrorResult(&divisionByZero{})
	}
	return Return(emu.ToWord(r.x.Int() / r.y.Int())) // Go's / truncates toward zero, matching spec.md §4.5
}

type mathMinMax struct {
	NoResume
	x, y  emu.Word
	isMax bool
}

func newMathMin(args []emu.Word) Routine { return &mathMinMax{x: arg(args, 0), y: arg(args, 1)} }
func newMathMax(args []emu.Word) Routine {
	return &mathMinMax{x: arg(args, 0), y: arg(args, 1), isMax: true}
}

func (r *mathMinMax) Step(VMStack) StepResult {
	if (r.isMax && r.x > r.y) || (!r.isMax && r.x < r.y) {
		return Return(r.x)
	}
	return Return(r.y)
}

type mathSqrt struct {
	NoResume
	n emu.Word
}

func newMathSqrt(args []emu.Word) Routine { return &mathSqrt{n: arg(args, 0)} }

func (r *mathSqrt) Step(VMStack) StepResult {
	n := r.n.Int()
	if n < 0 {
		n = 0
	}
	// Classic bit-by-bit 16-bit integer square root: the largest y such
	// that y*y <= n, built by trying each bit from the top down.
	var y int
	for b := 7; b >= 0; b-- {
		candidate := y + (1 << uint(b))
		if candidate*candidate <= n {
			y = candidate
		}
	}
	return Return(emu.ToWord(y))
}

type mathAbs struct {
	NoResume
	n emu.Word
}

func newMathAbs(args []emu.Word) Routine { return &mathAbs{n: arg(args, 0)} }

func (r *mathAbs) Step(VMStack) StepResult {
	if r.n < 0 {
		return Return(-r.n)
	}
	return Return(r.n)
}
