package main

import "github.com/hackcore-emu/hackcore/internal/cpucli"

func main() {
	cpucli.Execute()
}
