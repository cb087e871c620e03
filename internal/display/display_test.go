package display_test

import (
	"testing"

	"github.com/hackcore-emu/hackcore/internal/display"
	"github.com/hackcore-emu/hackcore/internal/emu"
	"github.com/hackcore-emu/hackcore/internal/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGBABijection(t *testing.T) {
	m := memory.New()
	require.NoError(t, m.Write(emu.ScreenBase, 0x0001)) // row 0, word 0, bit 0 set

	buf := display.RGBA(m)
	// pixel (0,0) should be black
	assert.Equal(t, []byte{0, 0, 0, 255}, buf[0:4])
	// pixel (1,0) should be white
	assert.Equal(t, []byte{255, 255, 255, 255}, buf[4:8])
}

func TestPixelAtMatchesRGBA(t *testing.T) {
	m := memory.New()
	require.NoError(t, m.Write(emu.ScreenBase+32+2, 1<<5)) // row 1, word 2, bit 5

	assert.True(t, display.PixelAt(m, 2*16+5, 1))
	assert.False(t, display.PixelAt(m, 2*16+4, 1))
	assert.False(t, display.PixelAt(m, -1, 0))
	assert.False(t, display.PixelAt(m, 0, 9999))
}
