// Package display renders the Hack screen's memory-mapped bitmap into an
// RGBA buffer for a driver to present, and, under the "gui" build tag, into
// a live pixel/pixelgl window the way chippy renders its Chip-8 framebuffer.
package display

import "github.com/hackcore-emu/hackcore/internal/emu"

// Width and Height are the Hack screen's pixel dimensions (spec.md §3.1).
const (
	Width  = 512
	Height = 256
)

// ScreenSource is anything that can hand back the live screen row words;
// internal/memory.Memory satisfies this.
type ScreenSource interface {
	ScreenRow(r int) []emu.Word
}

// RGBA renders the current screen bitmap into a 512x256x4-byte buffer: one
// byte per channel, alpha always 255, black (0,0,0) for a set pixel, white
// (255,255,255) otherwise. This is the buffer the driver API's
// display_data() returns (spec.md §6.1).
func RGBA(src ScreenSource) []byte {
	buf := make([]byte, Width*Height*4)
	for row := 0; row < Height; row++ {
		words := src.ScreenRow(row)
		rowOff := row * Width * 4
		for w := 0; w < emu.ScreenColsPer; w++ {
			bits := words[w].Uint16()
			base := rowOff + w*16*4
			for bit := 0; bit < 16; bit++ {
				set := bits&(1<<uint(bit)) != 0
				px := base + bit*4
				var c byte = 255
				if set {
					c = 0
				}
				buf[px+0] = c
				buf[px+1] = c
				buf[px+2] = c
				buf[px+3] = 255
			}
		}
	}
	return buf
}

// PixelAt reports whether the pixel at (x, y) is set (black), reading
// directly from the packed screen words without allocating a full frame.
func PixelAt(src ScreenSource, x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	row := src.ScreenRow(y)
	word := row[x/16]
	return word.Uint16()&(1<<uint(x%16)) != 0
}
