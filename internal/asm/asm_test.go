package asm_test

import (
	"testing"

	"github.com/hackcore-emu/hackcore/internal/asm"
	"github.com/hackcore-emu/hackcore/internal/emu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleAInstructionConstant(t *testing.T) {
	words, err := asm.Assemble("t.asm", "@2\n")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, emu.Word(2), words[0])
}

func TestAssembleBuiltinSymbol(t *testing.T) {
	words, err := asm.Assemble("t.asm", "@SCREEN\n")
	require.NoError(t, err)
	assert.Equal(t, emu.Word(emu.ScreenBase), words[0])
}

func TestAssembleCInstructionDestCompJump(t *testing.T) {
	// D=D+1;JGT
	words, err := asm.Assemble("t.asm", "D=D+1;JGT\n")
	require.NoError(t, err)
	require.Len(t, words, 1)
	w := uint16(words[0])
	assert.Equal(t, uint16(0b111), w>>13)
	// 111 | a=0 comp=011111 | dest=010 | jump=001
	assert.Equal(t, uint16(0b1110011111010001), w)
}

func TestAssembleLabelsAndLoop(t *testing.T) {
	src := "(LOOP)\n@LOOP\n0;JMP\n"
	words, err := asm.Assemble("t.asm", src)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, emu.Word(0), words[0]) // @LOOP resolves to address 0
}

func TestAssembleVariableAllocation(t *testing.T) {
	src := "@foo\nM=1\n@bar\nM=1\n@foo\nM=0\n"
	words, err := asm.Assemble("t.asm", src)
	require.NoError(t, err)
	assert.Equal(t, emu.Word(16), words[0])
	assert.Equal(t, emu.Word(17), words[2])
	assert.Equal(t, emu.Word(16), words[4])
}

func TestAssembleInvalidComp(t *testing.T) {
	_, err := asm.Assemble("t.asm", "D=Q\n")
	assert.Error(t, err)
}

func TestLoadHack(t *testing.T) {
	words, err := asm.LoadHack("t.hack", "0000000000000010\n1110110000010000\n")
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, emu.Word(2), words[0])
}

func TestLoadHackBadLength(t *testing.T) {
	_, err := asm.LoadHack("t.hack", "101\n")
	assert.Error(t, err)
}
