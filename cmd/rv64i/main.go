// Package main provides the entry point for the rv64i command: a
// driver that loads an RV64 ELF binary, or a flat binary at a given
// load address, and interprets it against the core RV64I executor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rv64core/rv64i/driver"
	"github.com/rv64core/rv64i/emu"
	"github.com/rv64core/rv64i/loader"
)

var (
	flatLoadAddr  = flag.Uint64("flat-addr", 0, "treat the input as a flat binary loaded at this address (skips ELF parsing)")
	entryOverride = flag.Uint64("entry", 0, "override the entry point (0 uses the ELF header's or flat-addr)")
	stackTop      = flag.Uint64("sp", loader.DefaultStackTop, "initial stack pointer")
	maxInsns      = flag.Uint64("max-insns", 0, "stop after this many instructions (0 = unbounded)")
	verbose       = flag.Bool("v", false, "print the loaded program's layout before running")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rv64i [options] <program>\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	path := flag.Arg(0)
	bus := emu.NewMemory()

	entry, err := load(path, bus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}
	if *entryOverride != 0 {
		entry = *entryOverride
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", path)
		fmt.Printf("Entry point: 0x%X\n", entry)
		fmt.Printf("Initial sp: 0x%X\n", *stackTop)
	}

	hart := emu.NewHart(entry)
	hart.X[2] = *stackTop // x2 is the RISC-V stack pointer (sp)

	d := driver.New(hart, bus)
	d.MaxInstructions = *maxInsns

	runErr := d.Run()

	var exitErr *driver.ExitError
	if errors.As(runErr, &exitErr) {
		if *verbose {
			fmt.Printf("Exit code: %d\n", exitErr.Code)
		}
		os.Exit(int(exitErr.Code))
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Execution stopped: %v\n", runErr)
		os.Exit(1)
	}
}

// load fills bus with the program's segments (ELF, or a flat binary
// when -flat-addr is set) and returns the entry point.
func load(path string, bus *emu.Memory) (uint64, error) {
	if *flatLoadAddr != 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, err
		}
		bus.LoadProgram(*flatLoadAddr, data)
		return *flatLoadAddr, nil
	}

	prog, err := loader.Load(path)
	if err != nil {
		return 0, err
	}
	for _, seg := range prog.Segments {
		bus.LoadProgram(seg.VirtAddr, seg.Data)
	}
	return prog.EntryPoint, nil
}

