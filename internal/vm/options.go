package vm

// Option configures a VM at construction time, the functional-options shape
// gothird's VM uses for its own construction knobs.
type Option interface{ apply(v *VM) }

type optionFunc func(v *VM)

func (f optionFunc) apply(v *VM) { f(v) }

// WithStack sets the initial SP/LCL/ARG/THIS/THAT register values, letting a
// test harness reproduce a test-script's preset frame (spec.md §8's
// "Sum 1..3" scenario sets SP=256, LCL=300 directly, for instance).
func WithStack(sp, lcl, arg, this, that int) Option {
	return optionFunc(func(v *VM) {
		v.initSP = sp
		v.initLCL = lcl
		v.initARG = arg
		v.initTHIS = this
		v.initTHAT = that
	})
}

// WithEntryFunction names the function the VM should synthesize a bootstrap
// call to at Reset, rather than starting execution raw at instruction 0.
// internal/vmcli uses this to wire in the entry point internal/loader
// selects (Sys.init, defined or inherited) (spec.md §4.7).
func WithEntryFunction(name string) Option {
	return optionFunc(func(v *VM) { v.entryFunc = name })
}

// WithStartPC sets the raw starting instruction index, used for test
// scripts that drive a function directly with no bootstrap call.
func WithStartPC(pc int) Option {
	return optionFunc(func(v *VM) { v.startPC = pc })
}
