package builtin

import "github.com/hackcore-emu/hackcore/internal/emu"

type memoryPeek struct {
	NoResume
	addr emu.Word
}

func newMemoryPeek(args []emu.Word) Routine { return &memoryPeek{addr: arg(args, 0)} }

func (r *memoryPeek) Step(stack VMStack) StepResult {
	v, err := stack.Mem().Read(r.addr.Int())
	if err != nil {
		return ErrorResult(err)
	}
	return Return(v)
}

type memoryPoke struct {
	NoResume
	addr emu.Word
	val  emu.Word
}

func newMemoryPoke(args []emu.Word) Routine {
	return &memoryPoke{addr: arg(args, 0), val: arg(args, 1)}
}

func (r *memoryPoke) Step(stack VMStack) StepResult {
	if err := stack.Mem().Write(r.addr.Int(), r.val); err != nil {
		return ErrorResult(err)
	}
	return Return(0)
}

type memoryAlloc struct {
	NoResume
	size emu.Word
}

func newMemoryAlloc(args []emu.Word) Routine { return &memoryAlloc{size: arg(args, 0)} }

func (r *memoryAlloc) Step(stack VMStack) StepResult {
	base, err := stack.Heap().Alloc(r.size.Int())
	if err != nil {
		return ErrorResult(err)
	}
	return Return(emu.ToWord(base))
}

type memoryDeAlloc struct {
	NoResume
	ptr emu.Word
}

func newMemoryDeAlloc(args []emu.Word) Routine { return &memoryDeAlloc{ptr: arg(args, 0)} }

func (r *memoryDeAlloc) Step(stack VMStack) StepResult {
	stack.Heap().Dealloc(r.ptr.Int())
	return Return(0)
}
