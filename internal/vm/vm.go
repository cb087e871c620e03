// Package vm interprets a parsed Hack VM bytecode program: stack-machine
// dispatch, the eight memory segments, the call/return frame protocol, and
// the resumable built-in continuation stack, per spec.md §4.3–§4.5.
package vm

import (
	"context"

	"github.com/hackcore-emu/hackcore/internal/builtin"
	"github.com/hackcore-emu/hackcore/internal/emu"
	"github.com/hackcore-emu/hackcore/internal/memory"
	"github.com/hackcore-emu/hackcore/internal/vmlang"
)

// Stack bounds, per spec.md §4.3 ("SP ≥ 256") and §4.4 ("StackOverflow fails
// if SP would exceed 2048").
const (
	stackBase  = 256
	stackLimit = 2048
)

// Sentinel return-address markers pushed in place of a real instruction
// index at frame-5, per spec.md §9's resumable-builtins design note. Both
// are outside the range of any real instruction index (always ≥ 0), so a
// `return` handler can distinguish them from a genuine return address with
// a single comparison.
const (
	sentinelBuiltinReturn = -1 // this frame was entered by a builtin's CallVM
	sentinelProgramEnd    = -2 // this frame is the synthetic bootstrap call
)

// runMode tracks whether the interpreter is currently executing ordinary VM
// instructions or driving the top of the built-in continuation stack.
type runMode int

const (
	modeVM runMode = iota
	modeBuiltin
)

// builtinFrame is one entry on the built-in continuation stack (spec.md
// §4.5). bottom frames are the ones created directly by a `call` to a
// built-in or by the bootstrap; their completion resumes VM execution (or
// halts it). Non-bottom frames were pushed by a builtin's own CallBuiltin
// and simply resume their parent routine.
type builtinFrame struct {
	routine   builtin.Routine
	name      string
	bottom    bool
	retPC     int
	bootstrap bool
}

// VM is one interpreter instance over a linked Program. It owns no
// process-wide state: every field lives on the struct, so multiple VMs can
// run independently (spec.md §9).
type VM struct {
	prog   *vmlang.Program
	mem    *memory.Memory
	heap   *builtin.Heap
	cursor *builtin.OutputCursor
	screen *builtin.ScreenState

	pc   int
	mode runMode

	builtinStack []*builtinFrame

	halted bool
	err    error

	entryFunc string
	startPC   int

	// Initial register values applied on every Reset; WithStack overrides
	// these from their spec.md §4.3 defaults (SP=256, everything else 0).
	initSP, initLCL, initARG, initTHIS, initTHAT int
}

// New returns a VM over prog, reset to its initial state.
func New(prog *vmlang.Program, opts ...Option) *VM {
	v := &VM{
		prog:   prog,
		mem:    memory.New(),
		heap:   builtin.NewHeap(),
		cursor: &builtin.OutputCursor{},
		screen: builtin.NewScreenState(),
		initSP: stackBase,
	}
	for _, o := range opts {
		o.apply(v)
	}
	v.Reset()
	return v
}

// Reset clears memory, the built-in continuation stack, and re-establishes
// the initial registers and entry point (spec.md §9's "loading a program
// resets all state").
func (v *VM) Reset() {
	v.mem.Reset()
	v.heap = builtin.NewHeap()
	v.cursor = &builtin.OutputCursor{}
	v.screen = builtin.NewScreenState()
	v.builtinStack = nil
	v.halted = false
	v.err = nil
	v.mode = modeVM
	v.setSP(v.initSP)
	v.setLCL(v.initLCL)
	v.setARG(v.initARG)
	v.setTHIS(v.initTHIS)
	v.setTHAT(v.initTHAT)
	v.pc = v.startPC

	if v.entryFunc == "" {
		return
	}
	if err := v.bootstrap(v.entryFunc); err != nil {
		v.err = err
		v.halted = true
	}
}

// bootstrap synthesizes a call to name as if it had been invoked by a host
// caller, so Sys.init (whether VM-defined or the built-in fallback) starts
// with an ordinary, well-formed frame.
func (v *VM) bootstrap(name string) error {
	if fn, ok := v.prog.Functions[name]; ok {
		return v.pushFrame(fn, 0, emu.ToWord(sentinelProgramEnd))
	}
	if r, ok := builtin.New(name, nil); ok {
		v.builtinStack = append(v.builtinStack, &builtinFrame{routine: r, name: name, bottom: true, bootstrap: true})
		v.mode = modeBuiltin
		if name == "Sys.halt" {
			v.halted = true
		}
		return nil
	}
	return &emu.LinkError{Name: name, Site: "bootstrap"}
}

// Halted reports whether the VM has stopped making progress, either because
// a runtime error occurred or because Sys.halt (directly or via Sys.init)
// was reached.
func (v *VM) Halted() bool { return v.halted }

// Err returns the runtime error that halted the VM, if any.
func (v *VM) Err() error { return v.err }

// PC returns the current VM-mode instruction index.
func (v *VM) PC() int { return v.pc }

// Mem exposes the shared main memory, implementing builtin.VMStack and
// letting drivers inspect/poke arbitrary cells (spec.md §6.2 "set").
func (v *VM) Mem() *memory.Memory { return v.mem }

// Heap exposes the allocator backing Memory.alloc/deAlloc, implementing
// builtin.VMStack.
func (v *VM) Heap() *builtin.Heap { return v.heap }

// Cursor exposes the Output text-cursor state, implementing builtin.VMStack.
func (v *VM) Cursor() *builtin.OutputCursor { return v.cursor }

// ScreenState exposes the Screen draw-color state, implementing
// builtin.VMStack.
func (v *VM) ScreenState() *builtin.ScreenState { return v.screen }

// Step advances the interpreter by one tick: one VM instruction, or one
// built-in routine step if a built-in call is in progress.
func (v *VM) Step() error {
	if v.halted || v.err != nil {
		return v.err
	}
	if v.mode == modeBuiltin {
		return v.stepBuiltin()
	}
	return v.stepVM()
}

// StepTimes advances the interpreter up to n ticks, stopping early if it
// halts.
func (v *VM) StepTimes(n int) error {
	for i := 0; i < n; i++ {
		if v.halted || v.err != nil {
			return v.err
		}
		if err := v.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run steps until the VM halts or ctx is done.
func (v *VM) Run(ctx context.Context) error {
	for !v.halted {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := v.Step(); err != nil {
			return err
		}
	}
	return v.err
}

// CallChain reconstructs the sequence of LCL frame bases from the current
// frame back to the outermost, without maintaining a parallel call stack
// (spec.md §9's "frame pointer vs. frame-on-stack" note), for debug views.
func (v *VM) CallChain() []int {
	var chain []int
	frame := v.lcl()
	for frame >= stackBase+5 {
		chain = append(chain, frame)
		ret, err := v.mem.Read(frame - 5)
		if err != nil || ret.Int() < 0 {
			break
		}
		prevLCL, err := v.mem.Read(frame - 4)
		if err != nil {
			break
		}
		frame = prevLCL.Int()
	}
	return chain
}

func (v *VM) sp() int   { return v.mem.MustRead(emu.SPAddr).Int() }
func (v *VM) lcl() int  { return v.mem.MustRead(emu.LCLAddr).Int() }
func (v *VM) arg() int  { return v.mem.MustRead(emu.ARGAddr).Int() }
func (v *VM) this() int { return v.mem.MustRead(emu.THISAddr).Int() }
func (v *VM) that() int { return v.mem.MustRead(emu.THATAddr).Int() }

func (v *VM) setSP(n int)   { v.mem.MustWrite(emu.SPAddr, emu.ToWord(n)) }
func (v *VM) setLCL(n int)  { v.mem.MustWrite(emu.LCLAddr, emu.ToWord(n)) }
func (v *VM) setARG(n int)  { v.mem.MustWrite(emu.ARGAddr, emu.ToWord(n)) }
func (v *VM) setTHIS(n int) { v.mem.MustWrite(emu.THISAddr, emu.ToWord(n)) }
func (v *VM) setTHAT(n int) { v.mem.MustWrite(emu.THATAddr, emu.ToWord(n)) }

// Push implements builtin.VMStack and backs every VM-level push.
func (v *VM) Push(val emu.Word) error {
	sp := v.sp()
	if sp+1 > stackLimit {
		return &emu.StackOverflowError{SP: sp}
	}
	if err := v.mem.Write(sp, val); err != nil {
		return err
	}
	v.setSP(sp + 1)
	return nil
}

// Pop implements builtin.VMStack and backs every VM-level pop.
func (v *VM) Pop() (emu.Word, error) {
	sp := v.sp()
	if sp <= stackBase {
		return 0, &emu.StackUnderflowError{SP: sp}
	}
	newSP := sp - 1
	val, err := v.mem.Read(newSP)
	if err != nil {
		return 0, err
	}
	v.setSP(newSP)
	return val, nil
}
