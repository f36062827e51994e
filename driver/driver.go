package driver

import (
	"fmt"

	"github.com/rv64core/rv64i/emu"
)

// Driver owns the instruction-fetch loop the core spec leaves to an
// external collaborator: it fetches a word from the bus at pc, hands
// it to emu.ExecuteInsn, and decides what to do with whatever
// *emu.Exception comes back. ECALL is serviced here against the host
// OS; every other exception stops the loop and is returned to the
// caller.
type Driver struct {
	hart *emu.Hart
	bus  emu.Bus
	fds  *FDTable

	// MaxInstructions caps how many instructions Run executes before
	// giving up, guarding against guest programs that never call exit.
	// Zero means unbounded.
	MaxInstructions uint64
}

// New creates a Driver over the given hart and bus, with a fresh file
// descriptor table seeded with stdin/stdout/stderr.
func New(hart *emu.Hart, bus emu.Bus) *Driver {
	return &Driver{hart: hart, bus: bus, fds: NewFDTable()}
}

// Run fetches and executes instructions until the guest exits, an
// unhandled exception is raised, or MaxInstructions is reached. It
// returns *ExitError on a normal guest exit, the *emu.Exception
// unchanged for anything else, or an error wrapping a step-count
// overrun.
func (d *Driver) Run() error {
	var steps uint64
	for {
		if d.MaxInstructions != 0 && steps >= d.MaxInstructions {
			return fmt.Errorf("exceeded instruction limit (%d)", d.MaxInstructions)
		}
		steps++

		insn, err := d.bus.Load32(d.hart.PC)
		if err != nil {
			return fmt.Errorf("instruction fetch at 0x%X: %w", d.hart.PC, err)
		}

		exc := emu.ExecuteInsn(d.hart, d.bus, insn)
		if exc == nil {
			continue
		}

		if exc.Kind == emu.EnvironmentCall {
			if err := d.handleECALL(); err != nil {
				return err
			}
			d.hart.PC += 4
			continue
		}

		return exc
	}
}

// Hart exposes the underlying hart so a caller can inspect final
// register state after Run returns.
func (d *Driver) Hart() *emu.Hart {
	return d.hart
}
