package testscript

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hackcore-emu/hackcore/internal/emu"
)

// Runner executes a parsed script against a Driver, accumulating output
// rows and diffing them against a compare file once the script completes
// (spec.md §4.6).
type Runner struct {
	driver  Driver
	dir     string
	outPath string
	cmpPath string
	specs   []OutputSpec
	lines   []string
	lastErr error
}

// Run loads, parses, and executes the script at scriptPath against driver.
// Relative `load`/`output-file`/`compare-to` paths resolve against the
// script's own directory.
func Run(scriptPath string, driver Driver) error {
	text, err := os.ReadFile(scriptPath)
	if err != nil {
		return &emu.IOError{Path: scriptPath, Err: err}
	}
	stmts, err := Parse(string(text))
	if err != nil {
		return err
	}
	r := &Runner{driver: driver, dir: filepath.Dir(scriptPath)}
	if err := r.exec(stmts); err != nil {
		return err
	}
	if err := r.finish(); err != nil {
		return err
	}
	return r.lastErr
}

func (r *Runner) exec(stmts []Stmt) error {
	for _, s := range stmts {
		if err := r.execOne(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) execOne(s Stmt) error {
	switch s.Kind {
	case KindRepeat:
		for i := 0; i < s.Count; i++ {
			if err := r.exec(s.Body); err != nil {
				return err
			}
		}

	case KindLoad:
		if len(s.Args) != 1 {
			return &emu.ParseError{Msg: "load requires exactly one path"}
		}
		return r.driver.Load(filepath.Join(r.dir, s.Args[0]))

	case KindOutputFile:
		if len(s.Args) != 1 {
			return &emu.ParseError{Msg: "output-file requires exactly one path"}
		}
		r.outPath = filepath.Join(r.dir, s.Args[0])

	case KindCompareTo:
		if len(s.Args) != 1 {
			return &emu.ParseError{Msg: "compare-to requires exactly one path"}
		}
		r.cmpPath = filepath.Join(r.dir, s.Args[0])

	case KindOutputList:
		for _, a := range s.Args {
			spec, err := parseOutputSpec(a)
			if err != nil {
				return err
			}
			r.specs = append(r.specs, spec)
		}

	case KindSet:
		if len(s.Args) != 2 {
			return &emu.ParseError{Msg: "set requires a target and a value"}
		}
		n, err := strconv.Atoi(s.Args[1])
		if err != nil {
			return &emu.ParseError{Msg: "invalid set value " + s.Args[1]}
		}
		return r.driver.Set(s.Args[0], emu.ToWord(n))

	case KindStep:
		// Per spec.md §6.1, a runtime error halts further stepping but
		// leaves the script free to still emit output or run a compare.
		if r.lastErr == nil {
			if err := r.driver.Step(); err != nil {
				r.lastErr = err
			}
		}

	case KindOutput:
		line, err := r.formatRow()
		if err != nil {
			return err
		}
		r.lines = append(r.lines, line)
	}
	return nil
}

func (r *Runner) formatRow() (string, error) {
	cells := make([]string, len(r.specs))
	for i, spec := range r.specs {
		val, err := r.driver.Get(spec.Target)
		if err != nil {
			return "", err
		}
		cells[i] = formatValue(val, spec)
	}
	return formatRow(cells), nil
}

func (r *Runner) finish() error {
	if r.outPath == "" {
		return nil
	}
	content := strings.Join(r.lines, "\n")
	if len(r.lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(r.outPath, []byte(content), 0o644); err != nil {
		return &emu.IOError{Path: r.outPath, Err: err}
	}
	if r.cmpPath == "" {
		return nil
	}
	expected, err := os.ReadFile(r.cmpPath)
	if err != nil {
		return &emu.IOError{Path: r.cmpPath, Err: err}
	}
	return Compare(string(expected), content)
}

// Compare reports the first line/column mismatch between expected and
// actual, or nil if they are byte-for-byte identical (spec.md §4.6's diff).
func Compare(expected, actual string) error {
	eLines := strings.Split(expected, "\n")
	aLines := strings.Split(actual, "\n")
	n := len(eLines)
	if len(aLines) > n {
		n = len(aLines)
	}
	for i := 0; i < n; i++ {
		var e, a string
		if i < len(eLines) {
			e = eLines[i]
		}
		if i < len(aLines) {
			a = aLines[i]
		}
		if e == a {
			continue
		}
		return &emu.CompareMismatchError{Line: i + 1, Col: firstDiffCol(e, a), Expected: e, Actual: a}
	}
	return nil
}

func firstDiffCol(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i + 1
		}
	}
	return n + 1
}
