package vm

import (
	"github.com/hackcore-emu/hackcore/internal/builtin"
	"github.com/hackcore-emu/hackcore/internal/emu"
	"github.com/hackcore-emu/hackcore/internal/vmlang"
)

// addr resolves a segment/index pair to a concrete main-memory address, per
// the addressing table in spec.md §4.3.
func (v *VM) addr(seg vmlang.Segment, i int, file string) (int, error) {
	switch seg {
	case vmlang.SegArgument:
		return v.arg() + i, nil
	case vmlang.SegLocal:
		return v.lcl() + i, nil
	case vmlang.SegThis:
		return v.this() + i, nil
	case vmlang.SegThat:
		return v.that() + i, nil
	case vmlang.SegPointer:
		if i != 0 && i != 1 {
			return 0, &emu.InvalidSegmentAccessError{Segment: "pointer", Index: i}
		}
		return emu.PointerBase + i, nil
	case vmlang.SegTemp:
		if i < 0 || i >= emu.TempSize {
			return 0, &emu.InvalidSegmentAccessError{Segment: "temp", Index: i}
		}
		return emu.TempBase + i, nil
	case vmlang.SegStatic:
		base, ok := v.prog.StaticBase[file]
		if !ok {
			base = emu.StaticBase
		}
		return base + i, nil
	default:
		return 0, &emu.InvalidSegmentAccessError{Segment: seg.String(), Index: i}
	}
}

func (v *VM) fail(err error) error {
	v.err = err
	v.halted = true
	return err
}

func (v *VM) stepVM() error {
	if v.pc < 0 || v.pc >= len(v.prog.Instructions) {
		return v.fail(&emu.NoInstructionsError{PC: v.pc})
	}
	instr := v.prog.Instructions[v.pc]

	switch instr.Op {
	case vmlang.OpPush:
		val, err := v.readSegment(instr)
		if err != nil {
			return v.fail(err)
		}
		if err := v.Push(val); err != nil {
			return v.fail(err)
		}
		v.pc++

	case vmlang.OpPop:
		if instr.Segment == vmlang.SegConstant {
			return v.fail(&emu.InvalidSegmentAccessError{Segment: "constant", Index: instr.Index})
		}
		a, err := v.addr(instr.Segment, instr.Index, instr.File)
		if err != nil {
			return v.fail(err)
		}
		val, err := v.Pop()
		if err != nil {
			return v.fail(err)
		}
		if err := v.mem.Write(a, val); err != nil {
			return v.fail(err)
		}
		v.pc++

	case vmlang.OpAdd, vmlang.OpSub, vmlang.OpAnd, vmlang.OpOr, vmlang.OpEq, vmlang.OpGt, vmlang.OpLt:
		y, err := v.Pop()
		if err != nil {
			return v.fail(err)
		}
		x, err := v.Pop()
		if err != nil {
			return v.fail(err)
		}
		if err := v.Push(binaryOp(instr.Op, x, y)); err != nil {
			return v.fail(err)
		}
		v.pc++

	case vmlang.OpNot, vmlang.OpNeg:
		x, err := v.Pop()
		if err != nil {
			return v.fail(err)
		}
		if err := v.Push(unaryOp(instr.Op, x)); err != nil {
			return v.fail(err)
		}
		v.pc++

	case vmlang.OpGoto:
		v.pc = instr.Index

	case vmlang.OpIfGoto:
		x, err := v.Pop()
		if err != nil {
			return v.fail(err)
		}
		if x != 0 {
			v.pc = instr.Index
		} else {
			v.pc++
		}

	case vmlang.OpFunction:
		for i := 0; i < instr.NLocals; i++ {
			if err := v.Push(0); err != nil {
				return v.fail(err)
			}
		}
		v.pc++

	case vmlang.OpCall:
		if err := v.dispatchCall(instr.Label, instr.Index, v.pc+1); err != nil {
			return v.fail(err)
		}

	case vmlang.OpReturn:
		if err := v.doReturn(); err != nil {
			return v.fail(err)
		}

	default:
		return v.fail(&emu.ParseError{File: instr.File, Msg: "unhandled opcode in dispatch"})
	}
	return nil
}

// readSegment computes the value a push instruction contributes, handling
// constant specially since it has no backing address.
func (v *VM) readSegment(instr vmlang.Instruction) (emu.Word, error) {
	if instr.Segment == vmlang.SegConstant {
		return emu.ToWord(instr.Index), nil
	}
	a, err := v.addr(instr.Segment, instr.Index, instr.File)
	if err != nil {
		return 0, err
	}
	return v.mem.Read(a)
}

func binaryOp(op vmlang.Op, x, y emu.Word) emu.Word {
	switch op {
	case vmlang.OpAdd:
		return x + y
	case vmlang.OpSub:
		return x - y
	case vmlang.OpAnd:
		return x & y
	case vmlang.OpOr:
		return x | y
	case vmlang.OpEq:
		return boolWord(x == y)
	case vmlang.OpGt:
		return boolWord(x > y)
	default: // OpLt
		return boolWord(x < y)
	}
}

func unaryOp(op vmlang.Op, x emu.Word) emu.Word {
	if op == vmlang.OpNot {
		return ^x
	}
	return -x
}

// boolWord maps a comparison result to Hack's true/false word encoding:
// true is all bits set (-1), false is 0.
func boolWord(b bool) emu.Word {
	if b {
		return -1
	}
	return 0
}

// dispatchCall handles a `call` instruction, building a real frame for a
// VM-defined target or entering built-in mode for a library routine.
// retPC is where VM execution resumes once the call completes: for a
// built-in it is stored on the continuation frame, for a VM-defined target
// it is pushed as the frame's return address for `return` to jump to.
func (v *VM) dispatchCall(name string, nargs int, retPC int) error {
	if fn, ok := v.prog.Functions[name]; ok {
		return v.pushFrame(fn, nargs, emu.ToWord(retPC))
	}
	if builtin.IsBuiltin(name) {
		args, err := v.popArgs(nargs)
		if err != nil {
			return err
		}
		r, _ := builtin.New(name, args)
		v.builtinStack = append(v.builtinStack, &builtinFrame{routine: r, name: name, bottom: true, retPC: retPC})
		v.mode = modeBuiltin
		if name == "Sys.halt" {
			v.halted = true
		}
		return nil
	}
	return &emu.LinkError{Name: name, Site: "call"}
}

func (v *VM) popArgs(n int) ([]emu.Word, error) {
	args := make([]emu.Word, n)
	for i := n - 1; i >= 0; i-- {
		val, err := v.Pop()
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	return args, nil
}

// pushFrame builds a real call frame for fn, per spec.md §4.4 steps 1-4:
// push the return marker and the four saved segment bases, then rebase
// ARG/LCL. The callee's own `function` instruction completes the frame by
// pushing its locals.
func (v *VM) pushFrame(fn vmlang.FunctionInfo, nargs int, retMarker emu.Word) error {
	if err := v.Push(retMarker); err != nil {
		return err
	}
	if err := v.Push(emu.ToWord(v.lcl())); err != nil {
		return err
	}
	if err := v.Push(emu.ToWord(v.arg())); err != nil {
		return err
	}
	if err := v.Push(emu.ToWord(v.this())); err != nil {
		return err
	}
	if err := v.Push(emu.ToWord(v.that())); err != nil {
		return err
	}
	sp := v.sp()
	v.setARG(sp - 5 - nargs)
	v.setLCL(sp)
	v.pc = fn.EntryAddr
	return nil
}

// doReturn implements spec.md §4.4's return protocol, including the two
// sentinel cases: an outermost program-end frame halts the VM, and a
// builtin-originated frame resumes the builtin continuation stack instead
// of jumping to a real instruction.
func (v *VM) doReturn() error {
	frame := v.lcl()
	retRaw, err := v.mem.Read(frame - 5)
	if err != nil {
		return err
	}
	val, err := v.Pop()
	if err != nil {
		return err
	}
	that, err := v.mem.Read(frame - 1)
	if err != nil {
		return err
	}
	this, err := v.mem.Read(frame - 2)
	if err != nil {
		return err
	}
	arg, err := v.mem.Read(frame - 3)
	if err != nil {
		return err
	}
	lcl, err := v.mem.Read(frame - 4)
	if err != nil {
		return err
	}

	argAddr := v.arg()
	if err := v.mem.Write(argAddr, val); err != nil {
		return err
	}
	v.setSP(argAddr + 1)
	v.setTHAT(that.Int())
	v.setTHIS(this.Int())
	v.setARG(arg.Int())
	v.setLCL(lcl.Int())

	ret := retRaw.Int()
	switch ret {
	case sentinelProgramEnd:
		v.halted = true
	case sentinelBuiltinReturn:
		v.mode = modeBuiltin
		top := v.builtinStack[len(v.builtinStack)-1]
		top.routine.Resume(val)
	default:
		v.pc = ret
	}
	return nil
}

func (v *VM) stepBuiltin() error {
	top := v.builtinStack[len(v.builtinStack)-1]
	res := top.routine.Step(v)
	switch res.Kind {
	case builtin.Yield:
		return nil

	case builtin.ErrorKind:
		return v.fail(res.Err)

	case builtin.CallBuiltinKind:
		nr, ok := builtin.New(res.Func, res.Args)
		if !ok {
			return v.fail(&emu.LinkError{Name: res.Func, Site: top.name})
		}
		v.builtinStack = append(v.builtinStack, &builtinFrame{routine: nr, name: res.Func})
		if res.Func == "Sys.halt" {
			v.halted = true
		}
		return nil

	case builtin.CallVMKind:
		fn, ok := v.prog.Functions[res.Func]
		if !ok {
			return v.fail(&emu.LinkError{Name: res.Func, Site: top.name})
		}
		for _, a := range res.Args {
			if err := v.Push(a); err != nil {
				return v.fail(err)
			}
		}
		if err := v.pushFrame(fn, len(res.Args), emu.ToWord(sentinelBuiltinReturn)); err != nil {
			return v.fail(err)
		}
		v.mode = modeVM
		return nil

	default: // ReturnKind
		v.builtinStack = v.builtinStack[:len(v.builtinStack)-1]
		if top.bottom {
			if top.bootstrap {
				v.halted = true
				return nil
			}
			if err := v.Push(res.Value); err != nil {
				return v.fail(err)
			}
			v.pc = top.retPC
			v.mode = modeVM
			return nil
		}
		if len(v.builtinStack) == 0 {
			return v.fail(&emu.LinkError{Name: top.name, Site: "builtin continuation underflow"})
		}
		parent := v.builtinStack[len(v.builtinStack)-1]
		parent.routine.Resume(res.Value)
		return nil
	}
}
