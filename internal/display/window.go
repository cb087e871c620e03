//go:build gui

package display

import (
	"fmt"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"github.com/hackcore-emu/hackcore/internal/emu"
	"golang.org/x/image/colornames"
)

const (
	winScale     = 2
	windowWidth  = Width * winScale
	windowHeight = Height * winScale
)

// Window is a live pixelgl window onto the Hack screen, grounded on
// chippy/internal/pixel.Window: an embedded *pixelgl.Window plus a
// hex-key -> pixelgl.Button map, here carrying the keyboard register's
// codes (uppercase letters, Enter, Backspace, Space) instead of a 16-key
// hex pad.
type Window struct {
	*pixelgl.Window
	KeyMap map[pixelgl.Button]emu.Word
}

// NewWindow opens a window sized to the Hack screen's 512x256 bitmap,
// scaled up for visibility, the way chippy.NewWindow sizes its Chip-8
// window off winX/winY/screenWidth/screenHeight.
func NewWindow() (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  "hackcore",
		Bounds: pixel.R(0, 0, windowWidth, windowHeight),
		VSync:  true,
	}
	w, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating new window: %v", err)
	}
	return &Window{
		Window: w,
		KeyMap: defaultKeyMap(),
	}, nil
}

// Draw renders the current screen bitmap into the window, the way
// chippy.Window.DrawGraphics pushes one rectangle per set bit.
func (w *Window) Draw(src ScreenSource) {
	w.Clear(colornames.White)
	imDraw := imdraw.New(nil)
	imDraw.Color = pixel.RGB(0, 0, 0)

	for y := 0; y < Height; y++ {
		row := src.ScreenRow(y)
		for wi, word := range row {
			bits := word.Uint16()
			if bits == 0 {
				continue
			}
			for bit := 0; bit < 16; bit++ {
				if bits&(1<<uint(bit)) == 0 {
					continue
				}
				x := wi*16 + bit
				px := float64(x * winScale)
				// flip Y: Hack row 0 is the top of the screen, pixelgl's
				// origin is bottom-left.
				py := float64((Height - 1 - y) * winScale)
				imDraw.Push(pixel.V(px, py))
				imDraw.Push(pixel.V(px+winScale, py+winScale))
				imDraw.Rectangle(0)
			}
		}
	}

	imDraw.Draw(w)
	w.Update()
}

// PressedKey returns the key code currently held down, or 0: an uppercase
// letter code for A..Z (never lowercase, matching the reference emulator's
// documented uppercase-only behavior, spec.md §9 "Keyboard uppercasing
// bug"), 128 for Enter, 129 for Backspace, or 32 for Space.
func (w *Window) PressedKey() emu.Word {
	for btn, code := range w.KeyMap {
		if w.Pressed(btn) {
			return code
		}
	}
	return 0
}

func defaultKeyMap() map[pixelgl.Button]emu.Word {
	m := make(map[pixelgl.Button]emu.Word, 26)
	for b := pixelgl.KeyA; b <= pixelgl.KeyZ; b++ {
		m[b] = emu.Word('A' + (b - pixelgl.KeyA))
	}
	m[pixelgl.KeyEnter] = 128
	m[pixelgl.KeyBackspace] = 129
	m[pixelgl.KeySpace] = 32
	return m
}
