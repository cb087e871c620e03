package builtin

import "github.com/hackcore-emu/hackcore/internal/emu"

// String object layout (spec.md §4.5 "String"): word 0 = max length, word
// 1 = current length, words 2.. = characters.
const (
	strMaxLenOff = 0
	strLenOff    = 1
	strCharsOff  = 2
)

type stringNew struct {
	NoResume
	maxLen emu.Word
	phase  int
	base   emu.Word
}

func newStringNew(args []emu.Word) Routine { return &stringNew{maxLen: arg(args, 0)} }

func (r *stringNew) Step(VMStack) StepResult {
	if r.phase == 0 {
		r.phase = 1
		size := r.maxLen.Int() + strCharsOff
		if size < strCharsOff {
			size = strCharsOff
		}
		return CallBuiltin("Memory.alloc", emu.ToWord(size))
	}
	return Return(r.base)
}

func (r *stringNew) Resume(v emu.Word) { r.base = v }

type stringDispose struct {
	NoResume
	ptr  emu.Word
	done bool
}

func newStringDispose(args []emu.Word) Routine { return &stringDispose{ptr: arg(args, 0)} }

func (r *stringDispose) Step(VMStack) StepResult {
	if r.done {
		return Return(0)
	}
	r.done = true
	return CallBuiltin("Memory.deAlloc", r.ptr)
}

func (r *stringDispose) Resume(emu.Word) {}

type stringLength struct {
	NoResume
	ptr emu.Word
}

func newStringLength(args []emu.Word) Routine { return &stringLength{ptr: arg(args, 0)} }

func (r *stringLength) Step(stack VMStack) StepResult {
	v, err := stack.Mem().Read(r.ptr.Int() + strLenOff)
	if err != nil {
		return ErrorResult(err)
	}
	return Return(v)
}

type stringCharAt struct {
	NoResume
	ptr, i emu.Word
}

func newStringCharAt(args []emu.Word) Routine {
	return &stringCharAt{ptr: arg(args, 0), i: arg(args, 1)}
}

func (r *stringCharAt) Step(stack VMStack) StepResult {
	v, err := stack.Mem().Read(r.ptr.Int() + strCharsOff + r.i.Int())
	if err != nil {
		return ErrorResult(err)
	}
	return Return(v)
}

type stringSetCharAt struct {
	NoResume
	ptr, i, c emu.Word
}

func newStringSetCharAt(args []emu.Word) Routine {
	return &stringSetCharAt{ptr: arg(args, 0), i: arg(args, 1), c: arg(args, 2)}
}

func (r *stringSetCharAt) Step(stack VMStack) StepResult {
	if err := stack.Mem().Write(r.ptr.Int()+strCharsOff+r.i.Int(), r.c); err != nil {
		return ErrorResult(err)
	}
	return Return(0)
}

type stringAppendChar struct {
	NoResume
	ptr, c emu.Word
}

func newStringAppendChar(args []emu.Word) Routine {
	return &stringAppendChar{ptr: arg(args, 0), c: arg(args, 1)}
}

func (r *stringAppendChar) Step(stack VMStack) StepResult {
	m := stack.Mem()
	n, err := m.Read(r.ptr.Int() + strLenOff)
	if err != nil {
		return ErrorResult(err)
	}
	if err := m.Write(r.ptr.Int()+strCharsOff+n.Int(), r.c); err != nil {
		return ErrorResult(err)
	}
	if err := m.Write(r.ptr.Int()+strLenOff, n+1); err != nil {
		return ErrorResult(err)
	}
	return Return(r.ptr)
}

type stringEraseLastChar struct {
	NoResume
	ptr emu.Word
}

func newStringEraseLastChar(args []emu.Word) Routine { return &stringEraseLastChar{ptr: arg(args, 0)} }

func (r *stringEraseLastChar) Step(stack VMStack) StepResult {
	m := stack.Mem()
	n, err := m.Read(r.ptr.Int() + strLenOff)
	if err != nil {
		return ErrorResult(err)
	}
	if n > 0 {
		if err := m.Write(r.ptr.Int()+strLenOff, n-1); err != nil {
			return ErrorResult(err)
		}
	}
	return Return(0)
}

type stringIntValue struct {
	NoResume
	ptr emu.Word
}

func newStringIntValue(args []emu.Word) Routine { return &stringIntValue{ptr: arg(args, 0)} }

func (r *stringIntValue) Step(stack VMStack) StepResult {
	m := stack.Mem()
	n, err := m.Read(r.ptr.Int() + strLenOff)
	if err != nil {
		return ErrorResult(err)
	}
	length := n.Int()
	neg := false
	i := 0
	value := 0
	if length > 0 {
		c0, err := m.Read(r.ptr.Int() + strCharsOff)
		if err != nil {
			return ErrorResult(err)
		}
		if c0 == '-' {
			neg = true
			i = 1
		}
	}
	for ; i < length; i++ {
		c, err := m.Read(r.ptr.Int() + strCharsOff + i)
		if err != nil {
			return ErrorResult(err)
		}
		if c < '0' || c > '9' {
			break
		}
		value = value*10 + int(c-'0')
	}
	if neg {
		value = -value
	}
	return Return(emu.ToWord(value))
}

type stringSetInt struct {
	NoResume
	ptr emu.Word
	n   emu.Word
}

func newStringSetInt(args []emu.Word) Routine {
	return &stringSetInt{ptr: arg(args, 0), n: arg(args, 1)}
}

func (r *stringSetInt) Step(stack VMStack) StepResult {
	m := stack.Mem()
	v := r.n.Int()
	neg := v < 0
	if neg {
		v = -v
	}
	digits := []byte{}
	if v == 0 {
		digits = append(digits, '0')
	}
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	chars := []byte{}
	if neg {
		chars = append(chars, '-')
	}
	chars = append(chars, digits...)

	for idx, c := range chars {
		if err := m.Write(r.ptr.Int()+strCharsOff+idx, emu.Word(c)); err != nil {
			return ErrorResult(err)
		}
	}
	if err := m.Write(r.ptr.Int()+strLenOff, emu.ToWord(len(chars))); err != nil {
		return ErrorResult(err)
	}
	return Return(0)
}
