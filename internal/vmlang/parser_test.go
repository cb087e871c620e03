package vmlang_test

import (
	"testing"

	"github.com/hackcore-emu/hackcore/internal/vmlang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicArithmetic(t *testing.T) {
	src := `
push constant 7
push constant 8
add
pop local 0
`
	prog, err := vmlang.Parse([]vmlang.SourceFile{{Name: "Basic.vm", Text: src}})
	require.NoError(t, err)
	require.Len(t, prog.Instructions, 4)
	assert.Equal(t, vmlang.OpPush, prog.Instructions[0].Op)
	assert.Equal(t, vmlang.SegConstant, prog.Instructions[0].Segment)
	assert.Equal(t, 7, prog.Instructions[0].Index)
	assert.Equal(t, vmlang.OpPop, prog.Instructions[3].Op)
	assert.Equal(t, vmlang.SegLocal, prog.Instructions[3].Segment)
}

func TestParseForwardLabelReference(t *testing.T) {
	src := `
function Main.loop 0
push constant 0
if-goto END
goto START
label START
push constant 1
label END
return
`
	prog, err := vmlang.Parse([]vmlang.SourceFile{{Name: "Main.vm", Text: src}})
	require.NoError(t, err)
	var ifGoto, start, end vmlang.Instruction
	for _, in := range prog.Instructions {
		switch {
		case in.Op == vmlang.OpIfGoto:
			ifGoto = in
		case in.Op == vmlang.OpGoto:
			start = in
		}
		_ = end
	}
	assert.Greater(t, ifGoto.Index, start.Index) // END resolves after START
}

func TestParseUnknownLabelFails(t *testing.T) {
	src := "goto NOWHERE\n"
	_, err := vmlang.Parse([]vmlang.SourceFile{{Name: "x.vm", Text: src}})
	assert.Error(t, err)
}

func TestParseDuplicateFunctionFails(t *testing.T) {
	src := `
function Foo.bar 0
return
function Foo.bar 1
return
`
	_, err := vmlang.Parse([]vmlang.SourceFile{{Name: "x.vm", Text: src}})
	assert.Error(t, err)
}

func TestParseDuplicateFunctionAcrossFilesFails(t *testing.T) {
	fileA := "function Foo.bar 0\nreturn\n"
	fileB := "function Foo.bar 1\nreturn\n"
	_, err := vmlang.Parse([]vmlang.SourceFile{
		{Name: "a.vm", Text: fileA},
		{Name: "b.vm", Text: fileB},
	})
	assert.Error(t, err)
}

func TestParsePushConstantOverflowFails(t *testing.T) {
	_, err := vmlang.Parse([]vmlang.SourceFile{{Name: "x.vm", Text: "push constant 99999\n"}})
	assert.Error(t, err)
}

func TestParsePopConstantFails(t *testing.T) {
	_, err := vmlang.Parse([]vmlang.SourceFile{{Name: "x.vm", Text: "pop constant 0\n"}})
	assert.Error(t, err)
}

func TestStaticBasesAreSequentialPerFile(t *testing.T) {
	a := "push static 2\n" // uses static 0,1,2 -> count 3
	b := "push static 0\n" // count 1
	prog, err := vmlang.Parse([]vmlang.SourceFile{
		{Name: "A.vm", Text: a},
		{Name: "B.vm", Text: b},
	})
	require.NoError(t, err)
	assert.Equal(t, 16, prog.StaticBase["A.vm"])
	assert.Equal(t, 19, prog.StaticBase["B.vm"])
}

func TestFunctionEntryRecorded(t *testing.T) {
	src := "function Sys.init 2\npush constant 0\nreturn\n"
	prog, err := vmlang.Parse([]vmlang.SourceFile{{Name: "Sys.vm", Text: src}})
	require.NoError(t, err)
	fi, ok := prog.Functions["Sys.init"]
	require.True(t, ok)
	assert.Equal(t, 0, fi.EntryAddr)
	assert.Equal(t, 2, fi.NLocals)
}
