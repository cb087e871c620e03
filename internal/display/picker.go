//go:build gui

package display

import "github.com/sqweek/dialog"

// PickVMPath opens a native directory picker for a folder of .vm files,
// the way massung-CHIP-8's open() opens a native file picker for a ROM.
func PickVMPath() (string, error) {
	return dialog.Directory().Title("Open Hack VM program directory").Browse()
}

// PickScriptPath opens a native file picker for a .tst test script.
func PickScriptPath() (string, error) {
	dlg := dialog.File().Title("Open test script")
	dlg.Filter("Test scripts", "tst")
	dlg.Filter("All files", "*")
	return dlg.Load()
}
