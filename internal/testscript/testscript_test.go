package testscript_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hackcore-emu/hackcore/internal/emu"
	"github.com/hackcore-emu/hackcore/internal/testscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleStatements(t *testing.T) {
	src := `
load BasicTest.vm,
output-file BasicTest.out,
compare-to BasicTest.cmp,
output-list RAM[0]%D1.6.1;

set RAM[0] 256,
set RAM[1] 300;

repeat 3 {
  vmstep;
  output;
}
`
	stmts, err := testscript.Parse(src)
	require.NoError(t, err)
	require.Len(t, stmts, 7)
	assert.Equal(t, testscript.KindLoad, stmts[0].Kind)
	assert.Equal(t, []string{"BasicTest.vm"}, stmts[0].Args)
	assert.Equal(t, testscript.KindOutputList, stmts[3].Kind)
	assert.Equal(t, testscript.KindSet, stmts[4].Kind)

	repeatStmt := stmts[6]
	require.Equal(t, testscript.KindRepeat, repeatStmt.Kind)
	assert.Equal(t, 3, repeatStmt.Count)
	require.Len(t, repeatStmt.Body, 2)
	assert.Equal(t, testscript.KindStep, repeatStmt.Body[0].Kind)
	assert.Equal(t, testscript.KindOutput, repeatStmt.Body[1].Kind)
}

func TestParseUnknownCommandFails(t *testing.T) {
	_, err := testscript.Parse("bogus foo;")
	assert.Error(t, err)
}

func TestParseUnterminatedRepeatFails(t *testing.T) {
	_, err := testscript.Parse("repeat 3 { vmstep;")
	assert.Error(t, err)
}

func TestCompareDetectsFirstMismatch(t *testing.T) {
	err := testscript.Compare("|   0|\n|   1|\n", "|   0|\n|   2|\n")
	require.Error(t, err)
	mm, ok := err.(*emu.CompareMismatchError)
	require.True(t, ok)
	assert.Equal(t, 2, mm.Line)
}

func TestCompareIdenticalSucceeds(t *testing.T) {
	err := testscript.Compare("abc\ndef\n", "abc\ndef\n")
	assert.NoError(t, err)
}

// TestRunSumScriptMatchesCompareFile drives the Sum 1..3 scenario from
// spec.md §8 end-to-end through a script file, writing and then
// successfully comparing its own output file.
func TestRunSumScriptMatchesCompareFile(t *testing.T) {
	dir := t.TempDir()
	vmSrc := `
push constant 1
pop local 0
push constant 0
pop local 1
label LOOP
push local 0
push constant 4
eq
if-goto END
push local 1
push local 0
add
pop local 1
push local 0
push constant 1
add
pop local 0
goto LOOP
label END
call Sys.halt 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sum.vm"), []byte(vmSrc), 0o644))

	script := `
load Sum.vm,
output-file Sum.out,
compare-to Sum.cmp,
output-list RAM[300]%D0.6.0 RAM[301]%D0.6.0;

set SP 256,
set LCL 300;

repeat 100 {
  vmstep;
}

output;
`
	scriptPath := filepath.Join(dir, "Sum.tst")
	require.NoError(t, os.WriteFile(scriptPath, []byte(script), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sum.cmp"), []byte("|     4|     6|\n"), 0o644))

	err := testscript.Run(scriptPath, testscript.NewVMDriver())
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(dir, "Sum.out"))
	require.NoError(t, err)
	assert.Equal(t, "|     4|     6|\n", string(out))
}

func TestRunReportsCompareMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "X.vm"), []byte("push constant 1\npop local 0\n"), 0o644))
	script := `
load X.vm,
output-file X.out,
compare-to X.cmp,
output-list RAM[300]%D1.6.1;

set SP 256,
set LCL 300;

vmstep;
output;
`
	scriptPath := filepath.Join(dir, "X.tst")
	require.NoError(t, os.WriteFile(scriptPath, []byte(script), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "X.cmp"), []byte("|     9|\n"), 0o644))

	err := testscript.Run(scriptPath, testscript.NewVMDriver())
	require.Error(t, err)
	assert.IsType(t, &emu.CompareMismatchError{}, err)
}
