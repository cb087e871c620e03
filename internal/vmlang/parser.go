package vmlang

import (
	"bufio"
	"strings"

	"github.com/hackcore-emu/hackcore/internal/emu"
)

// SourceFile is one .vm file's name and text, in load order (load order
// determines static-segment base assignment, spec.md §4.2).
type SourceFile struct {
	Name string
	Text string
}

// Parse lexes and parses a sequence of .vm files into a single linked
// Program, in two phases per spec.md §4.2: tokenizing/building the
// instruction stream, then a pass resolving goto/if-goto/label targets that
// permits forward references.
func Parse(files []SourceFile) (*Program, error) {
	prog := &Program{
		Functions:  map[string]FunctionInfo{},
		StaticBase: map[string]int{},
	}

	totalStatic := 0
	for _, f := range files {
		count := staticCount(f.Text)
		prog.StaticBase[f.Name] = emu.StaticBase + totalStatic
		totalStatic += count
	}
	if totalStatic > emu.StaticMax {
		return nil, &emu.ParseError{File: "", Line: 0, Msg: "total static usage exceeds 240 words"}
	}

	seenFuncs := map[string]bool{}
	for _, f := range files {
		if err := parseFile(f, prog, seenFuncs); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

// staticCount scans one file's raw text for `static i` references and
// returns max(i)+1, or 0 if the file never references static.
func staticCount(text string) int {
	max := -1
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 3 && fields[1] == "static" {
			if n, err := atoiLoose(fields[2]); err == nil && n > max {
				max = n
			}
		}
	}
	if max < 0 {
		return 0
	}
	return max + 1
}

func atoiLoose(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, &emu.ParseError{Msg: "empty integer"}
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, &emu.ParseError{Msg: "not an integer"}
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

type labelKey struct {
	fn    string
	label string
}

// parseFile parses one file's tokens into prog's instruction stream.
// seenFuncs is shared across every file of the load, per spec.md §4.2's
// duplicate-function check applying to the whole loaded directory, not just
// one file.
func parseFile(f SourceFile, prog *Program, seenFuncs map[string]bool) error {
	scanner := bufio.NewScanner(strings.NewReader(f.Text))
	lineNo := 0
	offset := 0

	currentFunc := ""
	labels := map[labelKey]int{}
	// pending goto/if-goto instructions needing a later label-index fixup.
	var pendingJumps []int

	for scanner.Scan() {
		lineText := scanner.Text()
		lineNo++
		toks := lexLine(f.Name, lineNo, offset, lineText)
		offset += len(lineText) + 1
		if len(toks) == 0 {
			continue
		}

		opTok := toks[0]
		args := toks[1:]

		switch opTok.text {
		case "label":
			if len(args) != 1 {
				return parseErr(opTok, "label requires exactly one name")
			}
			labels[labelKey{currentFunc, args[0].text}] = len(prog.Instructions)
			continue
		}

		instr := Instruction{File: f.Name, Func: currentFunc, Offset: opTok.offset}

		switch opTok.text {
		case "push", "pop":
			if len(args) != 2 {
				return parseErr(opTok, "expected segment and index")
			}
			seg, ok := segmentNames[args[0].text]
			if !ok {
				return parseErr(args[0], "unknown segment "+args[0].text)
			}
			idx, err := parseInt(args[1])
			if err != nil {
				return err
			}
			if opTok.text == "push" {
				instr.Op = OpPush
				if seg == SegConstant && (idx < 0 || idx > 32767) {
					return parseErr(args[1], "push constant value out of range")
				}
			} else {
				instr.Op = OpPop
				if seg == SegConstant {
					return parseErr(opTok, "cannot pop into constant")
				}
			}
			instr.Segment = seg
			instr.Index = idx

		case "add":
			instr.Op = OpAdd
		case "sub":
			instr.Op = OpSub
		case "and":
			instr.Op = OpAnd
		case "or":
			instr.Op = OpOr
		case "not":
			instr.Op = OpNot
		case "neg":
			instr.Op = OpNeg
		case "eq":
			instr.Op = OpEq
		case "gt":
			instr.Op = OpGt
		case "lt":
			instr.Op = OpLt

		case "goto", "if-goto":
			if len(args) != 1 {
				return parseErr(opTok, "expected a label name")
			}
			if opTok.text == "goto" {
				instr.Op = OpGoto
			} else {
				instr.Op = OpIfGoto
			}
			instr.Label = args[0].text
			pendingJumps = append(pendingJumps, len(prog.Instructions))

		case "function":
			if len(args) != 2 {
				return parseErr(opTok, "expected name and n_locals")
			}
			name := args[0].text
			if seenFuncs[name] {
				return parseErr(opTok, "duplicate function definition "+name)
			}
			seenFuncs[name] = true
			n, err := parseInt(args[1])
			if err != nil {
				return err
			}
			currentFunc = name
			instr.Func = name
			instr.Op = OpFunction
			instr.Label = name
			instr.NLocals = n
			prog.Functions[name] = FunctionInfo{Name: name, EntryAddr: len(prog.Instructions), NLocals: n}

		case "call":
			if len(args) != 2 {
				return parseErr(opTok, "expected name and n_args")
			}
			n, err := parseInt(args[1])
			if err != nil {
				return err
			}
			instr.Op = OpCall
			instr.Label = args[0].text
			instr.Index = n

		case "return":
			instr.Op = OpReturn

		default:
			return parseErr(opTok, "unknown opcode "+opTok.text)
		}

		prog.Instructions = append(prog.Instructions, instr)

		// Resolve any goto/if-goto belonging to the function scope we just
		// closed, then start a fresh label table for the new function
		// (labels are scoped per function, spec.md §9).
		if opTok.text == "function" {
			if err := resolvePending(prog, labels, pendingJumps); err != nil {
				return err
			}
			pendingJumps = nil
			labels = map[labelKey]int{}
		}
	}
	if err := resolvePending(prog, labels, pendingJumps); err != nil {
		return err
	}
	return scanner.Err()
}

func resolvePending(prog *Program, labels map[labelKey]int, pending []int) error {
	for _, idx := range pending {
		instr := &prog.Instructions[idx]
		target, ok := labels[labelKey{instr.Func, instr.Label}]
		if !ok {
			return &emu.ParseError{File: instr.File, Line: 0, Msg: "label not found within function: " + instr.Label}
		}
		instr.Index = target
	}
	return nil
}

func parseErr(t token, msg string) error {
	return &emu.ParseError{File: t.file, Line: t.line, Col: t.offset, Msg: msg}
}
