package builtin

import "github.com/hackcore-emu/hackcore/internal/emu"

const (
	sysInitRunMain = iota
	sysInitHalt
)

// sysInit is the program's synthetic entry point: it calls Main.main as a
// real VM call (so stack frames and static segments behave exactly as if
// Main.main had been called from ordinary code), then halts forever.
type sysInit struct {
	phase int
}

func newSysInit([]emu.Word) Routine { return &sysInit{} }

func (r *sysInit) Step(VMStack) StepResult {
	switch r.phase {
	case sysInitRunMain:
		r.phase = sysInitHalt
		return CallVM("Main.main")
	default:
		return CallBuiltin("Sys.halt")
	}
}

func (r *sysInit) Resume(emu.Word) {}

// sysHalt never returns; it is the terminal state of every normally
// finishing program, spinning in place the way the compiled Jack bootstrap
// does with its own infinite loop.
type sysHalt struct{ NoResume }

func newSysHalt([]emu.Word) Routine { return &sysHalt{} }

func (r *sysHalt) Step(VMStack) StepResult { return YieldResult() }

var sysErrorPrefix = []emu.Word{'E', 'R', 'R'}

type sysError struct {
	code  emu.Word
	phase int // 0..len(sysErrorPrefix)-1 prints the prefix, then code, then halt
}

func newSysError(args []emu.Word) Routine { return &sysError{code: arg(args, 0)} }

func (r *sysError) Step(VMStack) StepResult {
	if r.phase < len(sysErrorPrefix) {
		c := sysErrorPrefix[r.phase]
		r.phase++
		return CallBuiltin("Output.printChar", c)
	}
	if r.phase == len(sysErrorPrefix) {
		r.phase++
		return CallBuiltin("Output.printInt", r.code)
	}
	return CallBuiltin("Sys.halt")
}

func (r *sysError) Resume(emu.Word) {}

// sysWait spins for the given number of ticks, substituting the
// interpreter's own step count for wall-clock milliseconds (spec.md §9's
// decision that this platform has no real-time clock to wait against).
type sysWait struct {
	NoResume
	remaining emu.Word
}

func newSysWait(args []emu.Word) Routine { return &sysWait{remaining: arg(args, 0)} }

func (r *sysWait) Step(VMStack) StepResult {
	if r.remaining <= 0 {
		return Return(0)
	}
	r.remaining--
	return YieldResult()
}
