// Package main is a stub entry point. For the full CLI, use:
//
//	go run ./cmd/rv64i <program.elf>
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv64i - RV64I interpreting emulator")
	fmt.Println("")
	fmt.Println("Usage: rv64i [options] <program>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -flat-addr  treat the input as a flat binary at this address")
	fmt.Println("  -entry      override the entry point")
	fmt.Println("  -sp         initial stack pointer")
	fmt.Println("  -max-insns  stop after this many instructions")
	fmt.Println("  -v          verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv64i' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: you provided arguments. Use 'go run ./cmd/rv64i' instead.")
	}
}
