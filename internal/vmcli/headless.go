//go:build !gui

package vmcli

import (
	"context"

	"github.com/hackcore-emu/hackcore/internal/vm"
)

// driveVM runs v to completion with no display, the default per spec.md
// §6.3 ("otherwise the program runs headless"), bounded by ctx when the
// caller set --timeout.
func driveVM(v *vm.VM, ctx context.Context) error {
	if err := v.Run(ctx); err != nil {
		return err
	}
	return v.Err()
}
