package emu

import "fmt"

// ExceptionKind identifies which architectural exception Execute raised.
type ExceptionKind uint8

const (
	// IllegalInstruction: unknown opcode, unknown funct3/funct7 within a
	// decoded opcode, reserved shift-amount/shift-type bits nonzero, or a
	// SYSTEM instruction with an unexpected immediate.
	IllegalInstruction ExceptionKind = iota
	// InstructionAddressMisaligned: JAL, JALR, or a taken BRANCH computed
	// a target whose low two bits are not both zero.
	InstructionAddressMisaligned
	// LoadAddressMisaligned is propagated from the bus on a load.
	LoadAddressMisaligned
	// LoadAccessFault is propagated from the bus on a load.
	LoadAccessFault
	// StoreAddressMisaligned is propagated from the bus on a store.
	StoreAddressMisaligned
	// StoreAccessFault is propagated from the bus on a store.
	StoreAccessFault
	// EnvironmentCall is raised by ECALL.
	EnvironmentCall
	// Breakpoint is raised by EBREAK.
	Breakpoint
)

func (k ExceptionKind) String() string {
	switch k {
	case IllegalInstruction:
		return "illegal instruction"
	case InstructionAddressMisaligned:
		return "instruction address misaligned"
	case LoadAddressMisaligned:
		return "load address misaligned"
	case LoadAccessFault:
		return "load access fault"
	case StoreAddressMisaligned:
		return "store address misaligned"
	case StoreAccessFault:
		return "store access fault"
	case EnvironmentCall:
		return "environment call"
	case Breakpoint:
		return "breakpoint"
	default:
		return "unknown exception"
	}
}

// Exception is the architectural fault signal Execute returns in place
// of a successful step. It carries whichever faulting value applies:
// Insn for IllegalInstruction, Addr for every address-related kind.
// EnvironmentCall and Breakpoint carry neither.
type Exception struct {
	Kind ExceptionKind
	Insn uint32
	Addr uint64
}

// Error implements the error interface so an *Exception can be returned
// and compared the way any other Go error is.
func (e *Exception) Error() string {
	switch e.Kind {
	case IllegalInstruction:
		return fmt.Sprintf("%s: 0x%08X", e.Kind, e.Insn)
	case EnvironmentCall, Breakpoint:
		return e.Kind.String()
	default:
		return fmt.Sprintf("%s: 0x%X", e.Kind, e.Addr)
	}
}

func illegalInstruction(insn uint32) *Exception {
	return &Exception{Kind: IllegalInstruction, Insn: insn}
}

func instructionAddressMisaligned(addr uint64) *Exception {
	return &Exception{Kind: InstructionAddressMisaligned, Addr: addr}
}

// busException maps a Bus error to the matching address-misaligned or
// access-fault exception kind for the given access direction.
func busException(err error, addr uint64, misaligned, fault ExceptionKind) *Exception {
	if isMisaligned(err) {
		return &Exception{Kind: misaligned, Addr: addr}
	}
	return &Exception{Kind: fault, Addr: addr}
}
