// Package cpucli assembles the `cpu` binary's Cobra command tree: a root
// command accepting a .tst test script, plus a version subcommand, per
// spec.md §6.3. Grounded on chippy/cmd's root.go + version.go scaffolding,
// mirroring internal/vmcli's shape for the CPU's single test-script mode.
package cpucli

import (
	"fmt"
	"os"

	"github.com/hackcore-emu/hackcore/internal/display"
	"github.com/hackcore-emu/hackcore/internal/testscript"
	"github.com/spf13/cobra"
)

// currentReleaseVersion is printed by the version subcommand.
const currentReleaseVersion = "v0.1.0"

// NewRootCommand builds the `cpu` command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "cpu [path/to/script.tst]",
		Short: "cpu drives Hack assembly test scripts against the CPU emulator",
		Long:  "cpu reads a .tst test script, assembles and loads its program, and drives it against the Hack CPU emulator",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCPU,
	}
	root.AddCommand(versionCmd)
	return root
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the installed cpu version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(currentReleaseVersion)
	},
}

// Execute runs the `cpu` command tree and exits non-zero on any runtime
// error or compare mismatch, per spec.md §6.3.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCPU(cmd *cobra.Command, args []string) error {
	path, err := resolvePath(args)
	if err != nil {
		return err
	}
	return testscript.Run(path, testscript.NewCPUDriver())
}

func resolvePath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return display.PickScriptPath()
}
