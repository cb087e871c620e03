package main

import "github.com/hackcore-emu/hackcore/internal/vmcli"

func main() {
	vmcli.Execute()
}
