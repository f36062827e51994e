// Package insts provides RV64I instruction definitions and decoding.
//
// This package implements decoding of RV64I machine code into structured
// instruction representations. It is a pure, total layer: every exported
// function accepts a 32-bit instruction word and returns a field or a
// sign-extended immediate, with no notion of validity or failure. Whether
// a given combination of opcode/funct3/funct7 is legal is an executor
// concern, not a decoder one.
//
// Usage:
//
//	inst := insts.Decode(0xFFF00093) // ADDI x1, x0, -1
//	fmt.Printf("opcode=0x%02X rd=%d imm=%d\n", inst.Opcode, inst.Rd, inst.ImmI)
package insts
