package insts

// Opcode identifies the primary dispatch class of an RV64I instruction
// (insn[6:0]).
type Opcode uint32

// RV64I base opcodes, matching the official opcode map bit-for-bit.
const (
	OpcodeLUI     Opcode = 0x37
	OpcodeAUIPC   Opcode = 0x17
	OpcodeJAL     Opcode = 0x6F
	OpcodeJALR    Opcode = 0x67
	OpcodeBranch  Opcode = 0x63
	OpcodeLoad    Opcode = 0x03
	OpcodeStore   Opcode = 0x23
	OpcodeOpImm   Opcode = 0x13
	OpcodeOp      Opcode = 0x33
	OpcodeOpImm32 Opcode = 0x1B
	OpcodeOp32    Opcode = 0x3B
	OpcodeMiscMem Opcode = 0x0F
	OpcodeSystem  Opcode = 0x73
)

// Instruction bundles every field and every sign-extended immediate format
// that can be pulled out of a 32-bit instruction word. The executor reads
// only the fields relevant to the opcode it is handling; the decoder does
// not attempt to guess which format applies.
type Instruction struct {
	Raw uint32 // the undecoded instruction word

	Opcode Opcode
	Rd     uint8 // insn[11:7]
	Funct3 uint8 // insn[14:12]
	Rs1    uint8 // insn[19:15]
	Rs2    uint8 // insn[24:20], also the 5-bit shift amount for OP-IMM-32
	Funct7 uint8 // insn[31:25]

	ImmI int64 // I-type immediate, sign-extended
	ImmS int64 // S-type immediate, sign-extended
	ImmB int64 // B-type immediate, sign-extended, branch offset in bytes
	ImmU int64 // U-type immediate, sign-extended
	ImmJ int64 // J-type immediate, sign-extended, jump offset in bytes
}

// Decode extracts every field and every immediate format from a 32-bit
// instruction word. Decode never fails: an instruction word with no
// legal interpretation still decodes cleanly, and it is up to the
// executor to reject it.
func Decode(insn uint32) Instruction {
	return Instruction{
		Raw:    insn,
		Opcode: Opcode(insn & 0x7F),
		Rd:     uint8((insn >> 7) & 0x1F),
		Funct3: uint8((insn >> 12) & 0x7),
		Rs1:    uint8((insn >> 15) & 0x1F),
		Rs2:    uint8((insn >> 20) & 0x1F),
		Funct7: uint8((insn >> 25) & 0x7F),

		ImmI: ImmI(insn),
		ImmS: ImmS(insn),
		ImmB: ImmB(insn),
		ImmU: ImmU(insn),
		ImmJ: ImmJ(insn),
	}
}

// GetOpcode extracts insn[6:0], the primary dispatch field.
func GetOpcode(insn uint32) Opcode { return Opcode(insn & 0x7F) }

// GetRd extracts insn[11:7], the destination register index.
func GetRd(insn uint32) uint8 { return uint8((insn >> 7) & 0x1F) }

// GetFunct3 extracts insn[14:12], the secondary dispatch field.
func GetFunct3(insn uint32) uint8 { return uint8((insn >> 12) & 0x7) }

// GetRs1 extracts insn[19:15], the first source register index.
func GetRs1(insn uint32) uint8 { return uint8((insn >> 15) & 0x1F) }

// GetRs2 extracts insn[24:20], the second source register index (or the
// 5-bit shamt field for the 32-bit immediate shifts).
func GetRs2(insn uint32) uint8 { return uint8((insn >> 20) & 0x1F) }

// GetFunct7 extracts insn[31:25], the tertiary dispatch field.
func GetFunct7(insn uint32) uint8 { return uint8((insn >> 25) & 0x7F) }

// signExtend sign-extends the low n bits of v to a full int64, using an
// arithmetic shift so the result is correct regardless of host shift
// semantics on signed values: shift the value so its sign bit sits in
// bit 63, then shift back arithmetically.
func signExtend(v uint32, n uint) int64 {
	shift := 64 - n
	return int64(uint64(v)<<shift) >> shift
}

// ImmI decodes the I-type immediate: sext(insn[31:20]), 12 bits. Used by
// JALR, LOAD, OP-IMM, and OP-IMM-32 (whose immediate is the same 12-bit
// field even though the result is then computed on 32 bits).
func ImmI(insn uint32) int64 {
	return signExtend(insn>>20, 12)
}

// ImmS decodes the S-type immediate: sext(insn[31:25] ## insn[11:7]), 12
// bits. Used by STORE.
func ImmS(insn uint32) int64 {
	hi := (insn >> 25) & 0x7F
	lo := (insn >> 7) & 0x1F
	return signExtend(hi<<5|lo, 12)
}

// ImmB decodes the B-type immediate: sext(insn[31] insn[7] insn[30:25]
// insn[11:8] 0), 13 bits, a branch offset in bytes. Used by BRANCH.
func ImmB(insn uint32) int64 {
	bit11 := (insn >> 7) & 0x1
	bits4_1 := (insn >> 8) & 0xF
	bits10_5 := (insn >> 25) & 0x3F
	bit12 := (insn >> 31) & 0x1
	v := bit12<<12 | bit11<<11 | bits10_5<<5 | bits4_1<<1
	return signExtend(v, 13)
}

// ImmU decodes the U-type immediate: sext(insn[31:12] ## 12'b0), 32 bits.
// Used by LUI and AUIPC.
func ImmU(insn uint32) int64 {
	return signExtend(insn&0xFFFFF000, 32)
}

// ImmJ decodes the J-type immediate: sext(insn[31] insn[19:12] insn[20]
// insn[30:21] 0), 21 bits, a jump offset in bytes. Used by JAL.
func ImmJ(insn uint32) int64 {
	bits19_12 := (insn >> 12) & 0xFF
	bit11 := (insn >> 20) & 0x1
	bits10_1 := (insn >> 21) & 0x3FF
	bit20 := (insn >> 31) & 0x1
	v := bit20<<20 | bits19_12<<12 | bit11<<11 | bits10_1<<1
	return signExtend(v, 21)
}
