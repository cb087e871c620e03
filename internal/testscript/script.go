// Package testscript implements the small interpreted test-script language
// of spec.md §4.6: a comma-separated, semicolon-terminated command grammar
// with `repeat N { ... }` blocks, driving either the CPU or VM simulator
// one step at a time and diffing captured output against a reference file.
// Grounded on jcorbin-gothird's run-then-golden-compare test style, adapted
// from a Go test helper into a standalone interpreted driver.
package testscript

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/hackcore-emu/hackcore/internal/emu"
)

// Kind tags a parsed Stmt.
type Kind int

const (
	KindLoad Kind = iota
	KindOutputFile
	KindCompareTo
	KindOutputList
	KindSet
	KindStep
	KindOutput
	KindRepeat
)

var commandKinds = map[string]Kind{
	"load":        KindLoad,
	"output-file": KindOutputFile,
	"compare-to":  KindCompareTo,
	"output-list": KindOutputList,
	"set":         KindSet,
	"vmstep":      KindStep,
	"ticktock":    KindStep,
	"output":      KindOutput,
}

// Stmt is one parsed script command, or a repeat block.
type Stmt struct {
	Kind  Kind
	Args  []string
	Count int
	Body  []Stmt
}

// Parse lexes and parses script source into a flat statement sequence.
func Parse(src string) ([]Stmt, error) {
	toks := tokenize(src)
	ts := &tokStream{toks: toks}
	stmts, err := parseStatements(ts)
	if err != nil {
		return nil, err
	}
	if !ts.atEnd() {
		return nil, &emu.ParseError{Msg: "unexpected trailing token " + ts.peek()}
	}
	return stmts, nil
}

// tokenize strips `//` line comments and splits source into words plus the
// standalone punctuation tokens ',' ';' '{' '}', regardless of adjacent
// whitespace (so "vmstep;" lexes as ["vmstep", ";"]).
func tokenize(src string) []string {
	var clean strings.Builder
	for _, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		clean.WriteString(line)
		clean.WriteByte('\n')
	}

	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range clean.String() {
		switch {
		case r == ',' || r == ';' || r == '{' || r == '}':
			flush()
			toks = append(toks, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

type tokStream struct {
	toks []string
	pos  int
}

func (t *tokStream) atEnd() bool    { return t.pos >= len(t.toks) }
func (t *tokStream) peek() string {
	if t.atEnd() {
		return ""
	}
	return t.toks[t.pos]
}
func (t *tokStream) next() string {
	tok := t.peek()
	t.pos++
	return tok
}

func parseStatements(t *tokStream) ([]Stmt, error) {
	var stmts []Stmt
	for !t.atEnd() && t.peek() != "}" {
		if t.peek() == "repeat" {
			stmt, err := parseRepeat(t)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
			continue
		}
		for {
			cmd, err := parseCommand(t)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, cmd)
			sep := t.next()
			if sep == ";" {
				break
			}
			if sep != "," {
				return nil, &emu.ParseError{Msg: "expected ',' or ';', got " + sep}
			}
		}
	}
	return stmts, nil
}

func parseRepeat(t *tokStream) (Stmt, error) {
	t.next() // "repeat"
	countTok := t.next()
	n, err := strconv.Atoi(countTok)
	if err != nil {
		return Stmt{}, &emu.ParseError{Msg: "invalid repeat count " + countTok}
	}
	if open := t.next(); open != "{" {
		return Stmt{}, &emu.ParseError{Msg: "expected '{' after repeat count, got " + open}
	}
	body, err := parseStatements(t)
	if err != nil {
		return Stmt{}, err
	}
	if close := t.next(); close != "}" {
		return Stmt{}, &emu.ParseError{Msg: "expected '}' to close repeat block"}
	}
	return Stmt{Kind: KindRepeat, Count: n, Body: body}, nil
}

// parseCommand reads one command (its name plus args) up to but not
// including the next ',' or ';'.
func parseCommand(t *tokStream) (Stmt, error) {
	name := t.next()
	kind, ok := commandKinds[name]
	if !ok {
		return Stmt{}, &emu.ParseError{Msg: "unknown command " + name}
	}
	var args []string
	for t.peek() != "," && t.peek() != ";" {
		if t.atEnd() {
			return Stmt{}, &emu.ParseError{Msg: "unterminated command " + name}
		}
		args = append(args, t.next())
	}
	return Stmt{Kind: kind, Args: args}, nil
}
