//go:build gui

package vmcli

import (
	"context"
	"time"

	"github.com/faiface/pixel/pixelgl"
	"github.com/hackcore-emu/hackcore/internal/display"
	"github.com/hackcore-emu/hackcore/internal/vm"
)

const (
	refreshRate   = 60
	ticksPerFrame = 1000
)

// driveVM opens a live window and drives v one frame's worth of ticks at a
// time, rendering the screen and feeding keyboard input each frame, the way
// chippy's root main.go tickers EmulateCycle/DrawGraphics/HandleKeyInput.
// pixelgl needs the OS main thread, hence the pixelgl.Run wrapper.
func driveVM(v *vm.VM, ctx context.Context) error {
	var runErr error
	pixelgl.Run(func() {
		win, err := display.NewWindow()
		if err != nil {
			runErr = err
			return
		}

		ticker := time.NewTicker(time.Second / refreshRate)
		defer ticker.Stop()

		for range ticker.C {
			select {
			case <-ctx.Done():
				runErr = ctx.Err()
				return
			default:
			}
			if win.Closed() {
				return
			}
			for i := 0; i < ticksPerFrame && !v.Halted(); i++ {
				if err := v.Step(); err != nil {
					runErr = err
					return
				}
			}
			win.UpdateInput()
			v.Mem().SetKey(win.PressedKey())
			win.Draw(v.Mem())
			if v.Halted() {
				runErr = v.Err()
				return
			}
		}
	})
	return runErr
}
