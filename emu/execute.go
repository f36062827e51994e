package emu

import "github.com/rv64core/rv64i/insts"

// Execute loads the word at hart.PC from bus, decodes it, and dispatches it against hart and bus,
// mutating hart's registers and PC. On success it returns nil; on an
// architectural exception it returns the exception and leaves PC
// untouched, per the propagation policy: no partial writeback, no PC
// advance, first exception wins.
func Execute(hart *Hart, bus Bus) *Exception {
	i := insts.Decode(fetchWord(hart, bus))
	return execute(hart, bus, i)
}

// ExecuteInsn runs an already-fetched instruction word against hart and
// bus. It is the entry point a driver uses when it has fetched insn
// itself (the usual case, since instruction fetch is the driver's
// responsibility).
func ExecuteInsn(hart *Hart, bus Bus, insn uint32) *Exception {
	return execute(hart, bus, insts.Decode(insn))
}

// fetchWord exists only so Execute has a symmetrical single-argument
// shape; real drivers call ExecuteInsn directly with a word they
// fetched themselves, since instruction fetch is out of core scope.
func fetchWord(hart *Hart, bus Bus) uint32 {
	v, _ := bus.Load32(hart.PC)
	return v
}

func execute(hart *Hart, bus Bus, i insts.Instruction) *Exception {
	alu := NewALU(hart)
	br := NewBranchUnit(hart)
	ls := NewLoadStoreUnit(hart, bus)

	pc := hart.PC
	var exc *Exception
	// jumped marks the control-transfer opcodes, which set pc themselves
	// (possibly to pc itself, for a jump or taken branch with offset 0).
	jumped := false

	switch i.Opcode {
	case insts.OpcodeLUI:
		hart.WriteReg(i.Rd, uint64(i.ImmU))

	case insts.OpcodeAUIPC:
		hart.WriteReg(i.Rd, pc+uint64(i.ImmU))

	case insts.OpcodeJAL:
		exc = br.JAL(i.Rd, i.ImmJ)
		jumped = true

	case insts.OpcodeJALR:
		if i.Funct3 != 0 {
			exc = illegalInstruction(i.Raw)
			break
		}
		exc = br.JALR(i.Rd, i.Rs1, i.ImmI)
		jumped = true

	case insts.OpcodeBranch:
		exc = executeBranch(br, i)
		jumped = true

	case insts.OpcodeLoad:
		exc = executeLoad(ls, i)

	case insts.OpcodeStore:
		exc = executeStore(ls, i)

	case insts.OpcodeOpImm:
		exc = executeOpImm(alu, i)

	case insts.OpcodeOp:
		exc = executeOp(alu, i)

	case insts.OpcodeOpImm32:
		exc = executeOpImm32(alu, i)

	case insts.OpcodeOp32:
		exc = executeOp32(alu, i)

	case insts.OpcodeMiscMem:
		if i.Funct3 != 0 {
			exc = illegalInstruction(i.Raw)
		}
		// FENCE: single-hart strongly-ordered model, no-op otherwise.

	case insts.OpcodeSystem:
		exc = executeSystem(i)

	default:
		exc = illegalInstruction(i.Raw)
	}

	hart.X[0] = 0

	if exc != nil {
		return exc
	}
	if !jumped {
		hart.PC = pc + 4
	}
	return nil
}

func executeBranch(br *BranchUnit, i insts.Instruction) *Exception {
	switch i.Funct3 {
	case 0:
		return br.BEQ(i.Rs1, i.Rs2, i.ImmB)
	case 1:
		return br.BNE(i.Rs1, i.Rs2, i.ImmB)
	case 4:
		return br.BLT(i.Rs1, i.Rs2, i.ImmB)
	case 5:
		return br.BGE(i.Rs1, i.Rs2, i.ImmB)
	case 6:
		return br.BLTU(i.Rs1, i.Rs2, i.ImmB)
	case 7:
		return br.BGEU(i.Rs1, i.Rs2, i.ImmB)
	default:
		return illegalInstruction(i.Raw)
	}
}

func executeLoad(ls *LoadStoreUnit, i insts.Instruction) *Exception {
	switch i.Funct3 {
	case 0:
		return ls.LB(i.Rd, i.Rs1, i.ImmI)
	case 1:
		return ls.LH(i.Rd, i.Rs1, i.ImmI)
	case 2:
		return ls.LW(i.Rd, i.Rs1, i.ImmI)
	case 3:
		return ls.LD(i.Rd, i.Rs1, i.ImmI)
	case 4:
		return ls.LBU(i.Rd, i.Rs1, i.ImmI)
	case 5:
		return ls.LHU(i.Rd, i.Rs1, i.ImmI)
	case 6:
		return ls.LWU(i.Rd, i.Rs1, i.ImmI)
	default:
		return illegalInstruction(i.Raw)
	}
}

func executeStore(ls *LoadStoreUnit, i insts.Instruction) *Exception {
	switch i.Funct3 {
	case 0:
		return ls.SB(i.Rs1, i.Rs2, i.ImmS)
	case 1:
		return ls.SH(i.Rs1, i.Rs2, i.ImmS)
	case 2:
		return ls.SW(i.Rs1, i.Rs2, i.ImmS)
	case 3:
		return ls.SD(i.Rs1, i.Rs2, i.ImmS)
	default:
		return illegalInstruction(i.Raw)
	}
}

func executeOpImm(alu *ALU, i insts.Instruction) *Exception {
	switch i.Funct3 {
	case 0:
		alu.ADDI(i.Rd, i.Rs1, i.ImmI)
	case 2:
		alu.SLTI(i.Rd, i.Rs1, i.ImmI)
	case 3:
		alu.SLTIU(i.Rd, i.Rs1, i.ImmI)
	case 4:
		alu.XORI(i.Rd, i.Rs1, i.ImmI)
	case 6:
		alu.ORI(i.Rd, i.Rs1, i.ImmI)
	case 7:
		alu.ANDI(i.Rd, i.Rs1, i.ImmI)
	case 1:
		shamt, shiftType := shamt64(i.Raw)
		if shiftType != 0x00 {
			return illegalInstruction(i.Raw)
		}
		alu.SLLI(i.Rd, i.Rs1, shamt)
	case 5:
		shamt, shiftType := shamt64(i.Raw)
		switch shiftType {
		case 0x00:
			alu.SRLI(i.Rd, i.Rs1, shamt)
		case 0x10:
			alu.SRAI(i.Rd, i.Rs1, shamt)
		default:
			return illegalInstruction(i.Raw)
		}
	default:
		return illegalInstruction(i.Raw)
	}
	return nil
}

// shamt64 splits the I-immediate field of a 64-bit shift-immediate
// instruction into its 6-bit shift amount (insn[25:20]) and 6-bit
// shift-type selector (insn[31:26]). The conventional 7-bit funct7
// field (insn[31:25]) is not the right split here: its low bit
// (insn[25]) is actually the shamt's top bit, not part of the type
// selector.
func shamt64(insn uint32) (shamt, shiftType uint8) {
	shamt = uint8((insn >> 20) & 0x3F)
	shiftType = uint8((insn >> 26) & 0x3F)
	return shamt, shiftType
}

func executeOp(alu *ALU, i insts.Instruction) *Exception {
	switch i.Funct3 {
	case 0:
		switch i.Funct7 {
		case 0x00:
			alu.ADD(i.Rd, i.Rs1, i.Rs2)
		case 0x20:
			alu.SUB(i.Rd, i.Rs1, i.Rs2)
		default:
			return illegalInstruction(i.Raw)
		}
	case 1:
		if i.Funct7 != 0x00 {
			return illegalInstruction(i.Raw)
		}
		alu.SLL(i.Rd, i.Rs1, i.Rs2)
	case 2:
		if i.Funct7 != 0x00 {
			return illegalInstruction(i.Raw)
		}
		alu.SLT(i.Rd, i.Rs1, i.Rs2)
	case 3:
		if i.Funct7 != 0x00 {
			return illegalInstruction(i.Raw)
		}
		alu.SLTU(i.Rd, i.Rs1, i.Rs2)
	case 4:
		if i.Funct7 != 0x00 {
			return illegalInstruction(i.Raw)
		}
		alu.XOR(i.Rd, i.Rs1, i.Rs2)
	case 5:
		switch i.Funct7 {
		case 0x00:
			alu.SRL(i.Rd, i.Rs1, i.Rs2)
		case 0x20:
			alu.SRA(i.Rd, i.Rs1, i.Rs2)
		default:
			return illegalInstruction(i.Raw)
		}
	case 6:
		if i.Funct7 != 0x00 {
			return illegalInstruction(i.Raw)
		}
		alu.OR(i.Rd, i.Rs1, i.Rs2)
	case 7:
		if i.Funct7 != 0x00 {
			return illegalInstruction(i.Raw)
		}
		alu.AND(i.Rd, i.Rs1, i.Rs2)
	}
	return nil
}

func executeOpImm32(alu *ALU, i insts.Instruction) *Exception {
	switch i.Funct3 {
	case 0:
		alu.ADDIW(i.Rd, i.Rs1, i.ImmI)
	case 1:
		if i.Funct7 != 0x00 {
			return illegalInstruction(i.Raw)
		}
		alu.SLLIW(i.Rd, i.Rs1, i.Rs2)
	case 5:
		switch i.Funct7 {
		case 0x00:
			alu.SRLIW(i.Rd, i.Rs1, i.Rs2)
		case 0x20:
			alu.SRAIW(i.Rd, i.Rs1, i.Rs2)
		default:
			return illegalInstruction(i.Raw)
		}
	default:
		return illegalInstruction(i.Raw)
	}
	return nil
}

func executeOp32(alu *ALU, i insts.Instruction) *Exception {
	switch i.Funct3 {
	case 0:
		switch i.Funct7 {
		case 0x00:
			alu.ADDW(i.Rd, i.Rs1, i.Rs2)
		case 0x20:
			alu.SUBW(i.Rd, i.Rs1, i.Rs2)
		default:
			return illegalInstruction(i.Raw)
		}
	case 1:
		if i.Funct7 != 0x00 {
			return illegalInstruction(i.Raw)
		}
		alu.SLLW(i.Rd, i.Rs1, i.Rs2)
	case 5:
		switch i.Funct7 {
		case 0x00:
			alu.SRLW(i.Rd, i.Rs1, i.Rs2)
		case 0x20:
			alu.SRAW(i.Rd, i.Rs1, i.Rs2)
		default:
			return illegalInstruction(i.Raw)
		}
	default:
		return illegalInstruction(i.Raw)
	}
	return nil
}

func executeSystem(i insts.Instruction) *Exception {
	if i.Funct3 != 0 {
		return illegalInstruction(i.Raw)
	}
	switch i.ImmI {
	case 0:
		return &Exception{Kind: EnvironmentCall}
	case 1:
		return &Exception{Kind: Breakpoint}
	default:
		return illegalInstruction(i.Raw)
	}
}
