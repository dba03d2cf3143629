// Package insts provides the RV32I/RV32M tagged instruction model, the
// decoder that turns a 32-bit word into it, the encoder that turns it back,
// and a disassembler for human-readable rendering.
package insts

import "github.com/rv32emu/rv32emu/reg"

// Op identifies an RV32I/RV32M mnemonic.
type Op uint8

// The supported RV32I/RV32M mnemonics. FENCE, FENCE.I and EBREAK decode
// successfully but execute as no-ops.
const (
	OpUnknown Op = iota

	OpLUI
	OpAUIPC
	OpJAL
	OpJALR

	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU

	OpSB
	OpSH
	OpSW

	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI

	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND

	OpFENCE
	OpFENCEI
	OpECALL
	OpEBREAK

	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU
)

var opNames = map[Op]string{
	OpUnknown: "unknown",
	OpLUI:     "lui", OpAUIPC: "auipc", OpJAL: "jal", OpJALR: "jalr",
	OpBEQ: "beq", OpBNE: "bne", OpBLT: "blt", OpBGE: "bge", OpBLTU: "bltu", OpBGEU: "bgeu",
	OpLB: "lb", OpLH: "lh", OpLW: "lw", OpLBU: "lbu", OpLHU: "lhu",
	OpSB: "sb", OpSH: "sh", OpSW: "sw",
	OpADDI: "addi", OpSLTI: "slti", OpSLTIU: "sltiu", OpXORI: "xori", OpORI: "ori", OpANDI: "andi",
	OpSLLI: "slli", OpSRLI: "srli", OpSRAI: "srai",
	OpADD: "add", OpSUB: "sub", OpSLL: "sll", OpSLT: "slt", OpSLTU: "sltu",
	OpXOR: "xor", OpSRL: "srl", OpSRA: "sra", OpOR: "or", OpAND: "and",
	OpFENCE: "fence", OpFENCEI: "fence.i", OpECALL: "ecall", OpEBREAK: "ebreak",
	OpMUL: "mul", OpMULH: "mulh", OpMULHSU: "mulhsu", OpMULHU: "mulhu",
	OpDIV: "div", OpDIVU: "divu", OpREM: "rem", OpREMU: "remu",
}

// String returns the lowercase mnemonic, e.g. "addi".
func (o Op) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return "unknown"
}

// Format identifies which fields of an Instruction are meaningful.
type Format uint8

// The seven RV32I encoding formats plus System (no payload).
const (
	FormatUnknown Format = iota
	FormatR
	FormatI
	FormatIShift
	FormatS
	FormatB
	FormatU
	FormatJ
	FormatSystem
)

// Instruction is a single struct carrying an Op, a Format, and only the
// operand fields that format's encoding carries. Unused fields are left
// at their zero value; the encoder only ever reads the fields Format
// says are meaningful.
type Instruction struct {
	Op     Op
	Format Format

	Rd, Rs1, Rs2 reg.Reg
	Imm          int32  // I/S/B/J: sign-extended payload. U: raw unshifted 20-bit field.
	Shamt        uint32 // I-shift only, 0..31
}
