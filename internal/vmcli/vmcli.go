// Package vmcli assembles the `vm` binary's Cobra command tree: a root
// command accepting a path to either a directory of .vm files or a .tst
// test script, plus a version subcommand, per spec.md §6.3. Grounded on
// chippy/cmd's root.go + run.go + version.go scaffolding (one root command
// dispatching into a run command, plus a version command), collapsed here
// into a single root `RunE` that itself picks the mode from the path it is
// given (.tst script or program directory).
package vmcli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hackcore-emu/hackcore/internal/display"
	"github.com/hackcore-emu/hackcore/internal/loader"
	"github.com/hackcore-emu/hackcore/internal/testscript"
	"github.com/hackcore-emu/hackcore/internal/vm"
	"github.com/spf13/cobra"
)

// currentReleaseVersion is printed by the version subcommand.
const currentReleaseVersion = "v0.1.0"

// NewRootCommand builds the `vm` command tree.
func NewRootCommand() *cobra.Command {
	var timeout time.Duration
	root := &cobra.Command{
		Use:   "vm [path/to/program-dir-or-script.tst]",
		Short: "vm runs Hack VM bytecode programs and test scripts",
		Long:  "vm interprets a directory of .vm files or drives a .tst test script against the Hack VM emulator",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVM(args, timeout)
		},
	}
	root.Flags().DurationVar(&timeout, "timeout", 0, "abort a running program directory after this long (0 = no limit)")
	root.AddCommand(versionCmd)
	return root
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the installed vm version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(currentReleaseVersion)
	},
}

// Execute runs the `vm` command tree and exits non-zero on any runtime
// error or compare mismatch, per spec.md §6.3.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runVM(args []string, timeout time.Duration) error {
	path, err := resolvePath(args)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".tst") {
		return testscript.Run(path, testscript.NewVMDriver())
	}
	return runProgramDir(path, timeout)
}

// resolvePath returns the explicit argument, or falls back to a gui-build
// native picker when the binary was invoked with no path at all.
func resolvePath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	path, err := display.PickScriptPath()
	if err == nil && path != "" {
		return path, nil
	}
	return display.PickVMPath()
}

func runProgramDir(dir string, timeout time.Duration) error {
	linked, err := loader.LoadVMDir(dir)
	if err != nil {
		return err
	}

	var opts []vm.Option
	if linked.EntryFunc != "" {
		opts = append(opts, vm.WithEntryFunction(linked.EntryFunc))
	}
	v := vm.New(linked.Program, opts...)

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return driveVM(v, ctx)
}
