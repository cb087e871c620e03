package testscript

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hackcore-emu/hackcore/internal/cpu"
	"github.com/hackcore-emu/hackcore/internal/emu"
	"github.com/hackcore-emu/hackcore/internal/loader"
	"github.com/hackcore-emu/hackcore/internal/memory"
	"github.com/hackcore-emu/hackcore/internal/vm"
	"github.com/hackcore-emu/hackcore/internal/vmlang"
)

// Driver is the simulator a script advances, abstracting over the CPU and
// VM interpreters so one script runner drives either (spec.md §4.6).
type Driver interface {
	Load(path string) error
	Step() error
	Get(name string) (emu.Word, error)
	Set(name string, value emu.Word) error
}

// ramIndex recognizes a "RAM[n]" target, the only form both simulators
// share (direct main-memory addressing).
func ramIndex(name string) (int, bool, error) {
	if !strings.HasPrefix(name, "RAM[") || !strings.HasSuffix(name, "]") {
		return 0, false, nil
	}
	n, err := strconv.Atoi(name[4 : len(name)-1])
	if err != nil {
		return 0, false, &emu.ParseError{Msg: "malformed RAM index in " + name}
	}
	return n, true, nil
}

// VMDriver drives internal/vm's interpreter. Programs it loads start raw at
// instruction 0 with no bootstrap call: test scripts set up SP/segments
// explicitly via `set`, matching the canonical scenarios of spec.md §8.
type VMDriver struct {
	vm *vm.VM
}

func NewVMDriver() *VMDriver { return &VMDriver{} }

// Load parses path (a single .vm file or a directory of them) and links it,
// failing at load time per spec.md §9 if any call is unresolved.
func (d *VMDriver) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &emu.IOError{Path: path, Err: err}
	}
	var linked *loader.VMProgram
	if info.IsDir() {
		linked, err = loader.LoadVMDir(path)
	} else {
		var text []byte
		text, err = os.ReadFile(path)
		if err != nil {
			return &emu.IOError{Path: path, Err: err}
		}
		linked, err = loader.LinkVM([]vmlang.SourceFile{{Name: filepath.Base(path), Text: string(text)}})
	}
	if err != nil {
		return err
	}
	d.vm = vm.New(linked.Program, vm.WithStartPC(0))
	return nil
}

func (d *VMDriver) Step() error { return d.vm.Step() }

func (d *VMDriver) Get(name string) (emu.Word, error) {
	if addr, ok, err := ramIndex(name); err != nil {
		return 0, err
	} else if ok {
		return d.vm.Mem().Read(addr)
	}
	if addr, ok := registerAddr(name); ok {
		return d.vm.Mem().Read(addr)
	}
	return 0, &emu.ParseError{Msg: "unknown output target " + name}
}

func (d *VMDriver) Set(name string, value emu.Word) error {
	if addr, ok, err := ramIndex(name); err != nil {
		return err
	} else if ok {
		return d.vm.Mem().Write(addr, value)
	}
	if addr, ok := registerAddr(name); ok {
		return d.vm.Mem().Write(addr, value)
	}
	return &emu.ParseError{Msg: "unknown set target " + name}
}

func registerAddr(name string) (int, bool) {
	switch name {
	case "SP":
		return emu.SPAddr, true
	case "LCL":
		return emu.LCLAddr, true
	case "ARG":
		return emu.ARGAddr, true
	case "THIS":
		return emu.THISAddr, true
	case "THAT":
		return emu.THATAddr, true
	}
	return 0, false
}

// CPUDriver drives internal/cpu's interpreter directly against an owned
// main memory, per spec.md §4.1.
type CPUDriver struct {
	cpu *cpu.CPU
	mem *memory.Memory
}

func NewCPUDriver() *CPUDriver { return &CPUDriver{mem: memory.New()} }

// Load assembles or reads path into ROM and resets memory, per spec.md §6.2.
func (d *CPUDriver) Load(path string) error {
	rom, err := loader.LoadAsmFile(path)
	if err != nil {
		return err
	}
	d.mem.Reset()
	d.cpu = cpu.New(rom, d.mem)
	return nil
}

func (d *CPUDriver) Step() error { return d.cpu.Step() }

func (d *CPUDriver) Get(name string) (emu.Word, error) {
	if addr, ok, err := ramIndex(name); err != nil {
		return 0, err
	} else if ok {
		return d.mem.Read(addr)
	}
	switch name {
	case "A":
		return d.cpu.A, nil
	case "D":
		return d.cpu.D, nil
	case "PC":
		return emu.ToWord(d.cpu.PC), nil
	}
	return 0, &emu.ParseError{Msg: "unknown output target " + name}
}

func (d *CPUDriver) Set(name string, value emu.Word) error {
	if addr, ok, err := ramIndex(name); err != nil {
		return err
	} else if ok {
		return d.mem.Write(addr, value)
	}
	switch name {
	case "A":
		d.cpu.A = value
	case "D":
		d.cpu.D = value
	case "PC":
		d.cpu.PC = value.Int()
	default:
		return &emu.ParseError{Msg: "unknown set target " + name}
	}
	return nil
}
