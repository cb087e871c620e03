package vmcli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hackcore-emu/hackcore/internal/vmcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTimeoutAbortsInfiniteLoop(t *testing.T) {
	dir := t.TempDir()
	src := `
function Main.main 0
label LOOP
goto LOOP
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.vm"), []byte(src), 0o644))

	root := vmcli.NewRootCommand()
	root.SetArgs([]string{dir, "--timeout", "10ms"})
	err := root.Execute()
	assert.Error(t, err)
}

func TestRootCommandRunsVMDirectory(t *testing.T) {
	dir := t.TempDir()
	src := `
function Main.main 0
push constant 42
call Sys.halt 0
return
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.vm"), []byte(src), 0o644))

	root := vmcli.NewRootCommand()
	root.SetArgs([]string{dir})
	err := root.Execute()
	assert.NoError(t, err)
}

func TestRootCommandSurfacesLinkError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.vm"), []byte("call Nowhere.nope 0\n"), 0o644))

	root := vmcli.NewRootCommand()
	root.SetArgs([]string{dir})
	err := root.Execute()
	assert.Error(t, err)
}

func TestRootCommandRunsTestScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "X.vm"), []byte("push constant 1\npop local 0\n"), 0o644))
	script := `
load X.vm,
output-file X.out,
compare-to X.cmp,
output-list RAM[300]%D0.6.0;

set SP 256,
set LCL 300;

vmstep;
vmstep;
output;
`
	scriptPath := filepath.Join(dir, "X.tst")
	require.NoError(t, os.WriteFile(scriptPath, []byte(script), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "X.cmp"), []byte("|     1|\n"), 0o644))

	root := vmcli.NewRootCommand()
	root.SetArgs([]string{scriptPath})
	assert.NoError(t, root.Execute())
}

func TestVersionSubcommand(t *testing.T) {
	root := vmcli.NewRootCommand()
	root.SetArgs([]string{"version"})
	assert.NoError(t, root.Execute())
}
