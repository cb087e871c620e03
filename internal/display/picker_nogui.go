//go:build !gui

package display

import "errors"

// errNoGUI is returned by the picker functions in headless builds (no "gui"
// build tag), per spec.md §6.3: "otherwise the program runs headless".
var errNoGUI = errors.New("no path given and this binary was built without the gui tag")

func PickVMPath() (string, error)     { return "", errNoGUI }
func PickScriptPath() (string, error) { return "", errNoGUI }
