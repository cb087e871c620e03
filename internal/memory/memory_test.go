package memory_test

import (
	"testing"

	"github.com/hackcore-emu/hackcore/internal/emu"
	"github.com/hackcore-emu/hackcore/internal/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	m := memory.New()
	require.NoError(t, m.Write(300, 42))
	v, err := m.Read(300)
	require.NoError(t, err)
	assert.Equal(t, emu.Word(42), v)
}

func TestOutOfBounds(t *testing.T) {
	m := memory.New()
	_, err := m.Read(-1)
	assert.Error(t, err)

	err = m.Write(emu.MainMemorySize, 1)
	assert.Error(t, err)
}

func TestKeyboardRegister(t *testing.T) {
	m := memory.New()
	assert.Equal(t, emu.Word(0), m.Key())
	m.SetKey(65)
	assert.Equal(t, emu.Word(65), m.Key())
	v, err := m.Read(emu.KeyboardAddr)
	require.NoError(t, err)
	assert.Equal(t, emu.Word(65), v)
}

func TestScreenRowIsLiveSlice(t *testing.T) {
	m := memory.New()
	require.NoError(t, m.Write(emu.ScreenBase, 0x00FF))
	row := m.ScreenRow(0)
	assert.Equal(t, emu.Word(0x00FF), row[0])

	row[1] = 7
	v, err := m.Read(emu.ScreenBase + 1)
	require.NoError(t, err)
	assert.Equal(t, emu.Word(7), v)
}

func TestReset(t *testing.T) {
	m := memory.New()
	m.SetKey(5)
	require.NoError(t, m.Write(100, 9))
	m.Reset()
	assert.Equal(t, emu.Word(0), m.Key())
	v, _ := m.Read(100)
	assert.Equal(t, emu.Word(0), v)
}
