// Package asm assembles Hack .asm source into 16-bit ROM words, and loads
// pre-assembled .hack text. Neither spec.md nor the teacher repo carries an
// assembler directly; this is grounded on the opcode/encoding tables of the
// nand2tetris Hack reference file retrieved alongside the example pack (see
// DESIGN.md).
package asm

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/hackcore-emu/hackcore/internal/emu"
)

// Assemble turns Hack .asm source text into ROM words. file is used only
// for error messages.
func Assemble(file, source string) ([]emu.Word, error) {
	lines, err := stripAndSplit(file, source)
	if err != nil {
		return nil, err
	}

	labels := map[string]int{}
	romAddr := 0
	for _, ln := range lines {
		if ln.label != "" {
			labels[ln.label] = romAddr
			continue
		}
		romAddr++
	}

	symbols := map[string]int{}
	for k, v := range BuiltinTable {
		symbols[k] = v
	}
	for k, v := range labels {
		symbols[k] = v
	}
	nextVar := 16

	out := make([]emu.Word, 0, romAddr)
	for _, ln := range lines {
		if ln.label != "" {
			continue
		}
		var word uint16
		if ln.aInstr != "" {
			addr, err := resolveA(ln.aInstr, symbols, &nextVar)
			if err != nil {
				return nil, &emu.ParseError{File: file, Line: ln.lineNo, Msg: err.Error()}
			}
			if addr < 0 || addr >= MaxAddressableMemory {
				return nil, &emu.ParseError{File: file, Line: ln.lineNo, Msg: "address out of range"}
			}
			word = uint16(addr)
		} else {
			w, err := encodeC(ln.dest, ln.comp, ln.jump)
			if err != nil {
				return nil, &emu.ParseError{File: file, Line: ln.lineNo, Msg: err.Error()}
			}
			word = w
		}
		out = append(out, emu.Word(int16(word)))
	}
	return out, nil
}

// LoadHack parses .hack text (16-character ASCII binary per line) directly
// into ROM words, per spec.md §6.2.
func LoadHack(file, source string) ([]emu.Word, error) {
	var out []emu.Word
	scanner := bufio.NewScanner(strings.NewReader(source))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if len(line) != 16 {
			return nil, &emu.ParseError{File: file, Line: lineNo, Msg: "expected 16-character binary word"}
		}
		v, err := strconv.ParseUint(line, 2, 16)
		if err != nil {
			return nil, &emu.ParseError{File: file, Line: lineNo, Msg: "invalid binary digit"}
		}
		out = append(out, emu.Word(int16(v)))
	}
	return out, nil
}

type parsedLine struct {
	lineNo int
	label  string // non-empty for a (LABEL) pseudo-instruction
	aInstr string // non-empty for an A-instruction's payload (after '@')
	dest   string
	comp   string
	jump   string
}

func stripAndSplit(file, source string) ([]parsedLine, error) {
	var lines []parsedLine
	scanner := bufio.NewScanner(strings.NewReader(source))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if i := strings.Index(text, "//"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "(") {
			if !strings.HasSuffix(text, ")") {
				return nil, &emu.ParseError{File: file, Line: lineNo, Msg: "unterminated label"}
			}
			lines = append(lines, parsedLine{lineNo: lineNo, label: text[1 : len(text)-1]})
			continue
		}

		if strings.HasPrefix(text, "@") {
			lines = append(lines, parsedLine{lineNo: lineNo, aInstr: text[1:]})
			continue
		}

		dest, comp, jump := "", text, ""
		if i := strings.Index(text, "="); i >= 0 {
			dest, comp = text[:i], text[i+1:]
		}
		if i := strings.Index(comp, ";"); i >= 0 {
			comp, jump = comp[:i], comp[i+1:]
		}
		lines = append(lines, parsedLine{lineNo: lineNo, dest: strings.TrimSpace(dest), comp: strings.TrimSpace(comp), jump: strings.TrimSpace(jump)})
	}
	return lines, scanner.Err()
}

func resolveA(payload string, symbols map[string]int, nextVar *int) (int, error) {
	if n, err := strconv.Atoi(payload); err == nil {
		return n, nil
	}
	if addr, ok := symbols[payload]; ok {
		return addr, nil
	}
	addr := *nextVar
	symbols[payload] = addr
	*nextVar++
	return addr, nil
}

func encodeC(dest, comp, jump string) (uint16, error) {
	c, ok := compTable[comp]
	if !ok {
		return 0, &invalidMnemonicError{"comp", comp}
	}
	d, ok := destTable[dest]
	if !ok {
		return 0, &invalidMnemonicError{"dest", dest}
	}
	j, ok := jumpTable[jump]
	if !ok {
		return 0, &invalidMnemonicError{"jump", jump}
	}
	return 0b111<<13 | c<<6 | d<<3 | j, nil
}

type invalidMnemonicError struct {
	kind, value string
}

func (e *invalidMnemonicError) Error() string {
	return "invalid " + e.kind + " mnemonic: " + e.value
}
