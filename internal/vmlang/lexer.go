package vmlang

import (
	"strconv"
	"strings"

	"github.com/hackcore-emu/hackcore/internal/emu"
)

// token is one whitespace-delimited word on a line, carrying its source
// span (spec.md §4.2 "each token carries a source span").
type token struct {
	text   string
	file   string
	line   int
	offset int
}

// lexLine strips a trailing "//" comment and splits the remainder into
// tokens, tracking each token's byte offset within the file.
func lexLine(file string, lineNo int, lineStartOffset int, text string) []token {
	if i := strings.Index(text, "//"); i >= 0 {
		text = text[:i]
	}

	var toks []token
	i := 0
	for i < len(text) {
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		start := i
		for i < len(text) && !isSpace(text[i]) {
			i++
		}
		if i > start {
			toks = append(toks, token{
				text:   text[start:i],
				file:   file,
				line:   lineNo,
				offset: lineStartOffset + start,
			})
		}
	}
	return toks
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

func parseInt(t token) (int, error) {
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, &emu.ParseError{File: t.file, Line: t.line, Col: t.offset, Msg: "expected integer, got " + t.text}
	}
	return n, nil
}
