package builtin

import (
	"github.com/hackcore-emu/hackcore/internal/emu"
	"github.com/hackcore-emu/hackcore/internal/memory"
)

// ScreenState holds the current draw color (true = black) Screen.* calls
// persist across one VM instance's lifetime, owned by the interpreter
// (reachable through VMStack.ScreenState()) rather than a package global,
// matching Heap's no-process-wide-state rule (spec.md §9).
type ScreenState struct {
	Black bool
}

// NewScreenState returns screen state with the default black-on-white draw
// color, matching Screen.init's reset behavior.
func NewScreenState() *ScreenState {
	return &ScreenState{Black: true}
}

// setPixel sets or clears one screen pixel, bounds-checked against the
// 512x256 memory-mapped display (spec.md §3.1).
func setPixel(m *memory.Memory, x, y int, on bool) error {
	if x < 0 || x >= 512 || y < 0 || y >= emu.ScreenRows {
		return &emu.OutOfBoundsError{Address: y*512 + x, Instruction: "Screen: pixel out of range"}
	}
	wordAddr := emu.ScreenBase + y*emu.ScreenColsPer + x/16
	bit := uint(x % 16)
	v, err := m.Read(wordAddr)
	if err != nil {
		return err
	}
	mask := emu.Word(1 << bit)
	if on {
		v |= mask
	} else {
		v &^= mask
	}
	return m.Write(wordAddr, v)
}

type screenInit struct{ NoResume }

func newScreenInit([]emu.Word) Routine { return &screenInit{} }

func (r *screenInit) Step(stack VMStack) StepResult {
	stack.ScreenState().Black = true
	return Return(0)
}

type screenClear struct{ NoResume }

func newScreenClear([]emu.Word) Routine { return &screenClear{} }

func (r *screenClear) Step(stack VMStack) StepResult {
	m := stack.Mem()
	for row := 0; row < emu.ScreenRows; row++ {
		addr := emu.ScreenBase + row*emu.ScreenColsPer
		for i := 0; i < emu.ScreenColsPer; i++ {
			if err := m.Write(addr+i, 0); err != nil {
				return ErrorResult(err)
			}
		}
	}
	return Return(0)
}

type screenSetColor struct {
	NoResume
	black emu.Word
}

func newScreenSetColor(args []emu.Word) Routine { return &screenSetColor{black: arg(args, 0)} }

func (r *screenSetColor) Step(stack VMStack) StepResult {
	stack.ScreenState().Black = r.black != 0
	return Return(0)
}

type screenDrawPixel struct {
	NoResume
	x, y emu.Word
}

func newScreenDrawPixel(args []emu.Word) Routine {
	return &screenDrawPixel{x: arg(args, 0), y: arg(args, 1)}
}

func (r *screenDrawPixel) Step(stack VMStack) StepResult {
	if err := setPixel(stack.Mem(), r.x.Int(), r.y.Int(), stack.ScreenState().Black); err != nil {
		return ErrorResult(err)
	}
	return Return(0)
}

type screenDrawLine struct {
	NoResume
	x1, y1, x2, y2 emu.Word
}

func newScreenDrawLine(args []emu.Word) Routine {
	return &screenDrawLine{x1: arg(args, 0), y1: arg(args, 1), x2: arg(args, 2), y2: arg(args, 3)}
}

// Step draws the whole line in one tick using Bresenham's algorithm — short
// enough, and simple enough to verify against spec.md's pixel invariants,
// that it doesn't need its own resumable sub-stepping.
func (r *screenDrawLine) Step(stack VMStack) StepResult {
	m := stack.Mem()
	black := stack.ScreenState().Black
	x1, y1, x2, y2 := r.x1.Int(), r.y1.Int(), r.x2.Int(), r.y2.Int()
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	x, y := x1, y1
	for {
		if e := setPixel(m, x, y, black); e != nil {
			return ErrorResult(e)
		}
		if x == x2 && y == y2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return Return(0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type screenDrawRectangle struct {
	NoResume
	x1, y1, x2, y2 emu.Word
}

func newScreenDrawRectangle(args []emu.Word) Routine {
	return &screenDrawRectangle{x1: arg(args, 0), y1: arg(args, 1), x2: arg(args, 2), y2: arg(args, 3)}
}

func (r *screenDrawRectangle) Step(stack VMStack) StepResult {
	m := stack.Mem()
	black := stack.ScreenState().Black
	for y := r.y1.Int(); y <= r.y2.Int(); y++ {
		for x := r.x1.Int(); x <= r.x2.Int(); x++ {
			if err := setPixel(m, x, y, black); err != nil {
				return ErrorResult(err)
			}
		}
	}
	return Return(0)
}

type screenDrawCircle struct {
	NoResume
	cx, cy, radius emu.Word
}

func newScreenDrawCircle(args []emu.Word) Routine {
	return &screenDrawCircle{cx: arg(args, 0), cy: arg(args, 1), radius: arg(args, 2)}
}

// Step fills the circle's interior scanline-by-scanline, matching the
// filled-disc semantics of Jack's Screen.drawCircle. Each scanline's
// half-width is the integer square root of radius²−dy² taken directly from
// the circle equation; the incremental midpoint algorithm is not used.
func (r *screenDrawCircle) Step(stack VMStack) StepResult {
	m := stack.Mem()
	black := stack.ScreenState().Black
	cx, cy, radius := r.cx.Int(), r.cy.Int(), r.radius.Int()
	for dy := -radius; dy <= radius; dy++ {
		dx := isqrt(radius*radius - dy*dy)
		for x := cx - dx; x <= cx+dx; x++ {
			if err := setPixel(m, x, cy+dy, black); err != nil {
				return ErrorResult(err)
			}
		}
	}
	return Return(0)
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	y := 0
	for (y+1)*(y+1) <= n {
		y++
	}
	return y
}
