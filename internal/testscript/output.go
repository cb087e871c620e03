package testscript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hackcore-emu/hackcore/internal/emu"
)

// OutputSpec is one parsed output-list entry, `ADDR%Fw.l.r` of spec.md
// §4.6: a target name, a format letter, and left/field/right widths.
type OutputSpec struct {
	Target              string
	Format              byte // 'D', 'X', 'B', or 'S'
	Left, Field, Right int
}

func parseOutputSpec(tok string) (OutputSpec, error) {
	parts := strings.SplitN(tok, "%", 2)
	if len(parts) != 2 || len(parts[1]) < 2 {
		return OutputSpec{}, &emu.ParseError{Msg: "malformed output-list entry " + tok}
	}
	format := parts[1][0]
	switch format {
	case 'D', 'X', 'B', 'S':
	default:
		return OutputSpec{}, &emu.ParseError{Msg: "unknown output format in " + tok}
	}
	dims := strings.Split(parts[1][1:], ".")
	if len(dims) != 3 {
		return OutputSpec{}, &emu.ParseError{Msg: "malformed output-list widths in " + tok}
	}
	widths := make([]int, 3)
	for i, d := range dims {
		n, err := strconv.Atoi(d)
		if err != nil {
			return OutputSpec{}, &emu.ParseError{Msg: "malformed output-list width " + d}
		}
		widths[i] = n
	}
	return OutputSpec{Target: parts[0], Format: format, Left: widths[0], Field: widths[1], Right: widths[2]}, nil
}

// formatValue renders val per spec, right-justifying the formatted body
// within the field width and padding with the requested left/right margins.
func formatValue(val emu.Word, spec OutputSpec) string {
	var body string
	switch spec.Format {
	case 'X':
		body = fmt.Sprintf("%X", val.Uint16())
	case 'B':
		body = fmt.Sprintf("%b", val.Uint16())
	default: // 'D', 'S'
		body = strconv.Itoa(val.Int())
	}
	if len(body) < spec.Field {
		body = strings.Repeat(" ", spec.Field-len(body)) + body
	}
	return strings.Repeat(" ", spec.Left) + body + strings.Repeat(" ", spec.Right)
}

// formatRow concatenates formatted entries per spec's "row is the
// concatenation of formatted entries separated by |", bracketed with
// leading/trailing bars matching the reference .cmp format.
func formatRow(cells []string) string {
	return "|" + strings.Join(cells, "|") + "|"
}
