package insts

import (
	"fmt"

	"github.com/rv32emu/rv32emu/bits"
	"github.com/rv32emu/rv32emu/reg"
)

// DecodeError reports a 32-bit word that does not match any known RV32I/M
// encoding. Opcode is always set; Funct3/Funct7 are nil when the opcode
// itself was never recognized (so no sub-table lookup was attempted).
type DecodeError struct {
	Word           uint32
	Opcode         uint32
	Funct3         *uint32
	Funct7         *uint32
}

func (e *DecodeError) Error() string {
	switch {
	case e.Funct7 != nil:
		return fmt.Sprintf("insts: unrecognized instruction %#08x (opcode=%#02x funct3=%#x funct7=%#02x)", e.Word, e.Opcode, *e.Funct3, *e.Funct7)
	case e.Funct3 != nil:
		return fmt.Sprintf("insts: unrecognized instruction %#08x (opcode=%#02x funct3=%#x)", e.Word, e.Opcode, *e.Funct3)
	default:
		return fmt.Sprintf("insts: unrecognized instruction %#08x (opcode=%#02x)", e.Word, e.Opcode)
	}
}

// RV32I major opcodes, bits [6:0].
const (
	opcLUI     = 0b0110111
	opcAUIPC   = 0b0010111
	opcJAL     = 0b1101111
	opcJALR    = 0b1100111
	opcBranch  = 0b1100011
	opcLoad    = 0b0000011
	opcStore   = 0b0100011
	opcOpImm   = 0b0010011
	opcOp      = 0b0110011
	opcMiscMem = 0b0001111
	opcSystem  = 0b1110011
)

// funct3Entry resolves an opcode+funct3 pair to either a single Op
// (branches, loads, stores, most OP-IMM and OP instructions) or, when the
// same opcode+funct3 pair is shared by more than one operation, a
// further funct7-keyed sub-table (OP register-register, and the two
// OP-IMM shift variants that must distinguish SRLI from SRAI).
type funct3Entry struct {
	op      Op
	byFunct7 map[uint32]Op
}

// decodeTable is keyed first by opcode, since opcode alone is enough to
// fix the Format for every RV32I encoding. U-type (LUI, AUIPC) and J-type
// (JAL) opcodes carry no funct3/funct7 field at all — their top bits are
// immediate payload, not a sub-opcode — so they map directly to an Op
// instead of into a funct3 sub-table.
var decodeTable = map[uint32]struct {
	format   Format
	op       Op               // set directly for opcodes with no funct3 field
	byFunct3 map[uint32]funct3Entry
}{
	opcLUI:   {format: FormatU, op: OpLUI},
	opcAUIPC: {format: FormatU, op: OpAUIPC},
	opcJAL:   {format: FormatJ, op: OpJAL},
	opcJALR:  {format: FormatI, byFunct3: map[uint32]funct3Entry{0b000: {op: OpJALR}}},

	opcBranch: {format: FormatB, byFunct3: map[uint32]funct3Entry{
		0b000: {op: OpBEQ}, 0b001: {op: OpBNE},
		0b100: {op: OpBLT}, 0b101: {op: OpBGE},
		0b110: {op: OpBLTU}, 0b111: {op: OpBGEU},
	}},

	opcLoad: {format: FormatI, byFunct3: map[uint32]funct3Entry{
		0b000: {op: OpLB}, 0b001: {op: OpLH}, 0b010: {op: OpLW},
		0b100: {op: OpLBU}, 0b101: {op: OpLHU},
	}},

	opcStore: {format: FormatS, byFunct3: map[uint32]funct3Entry{
		0b000: {op: OpSB}, 0b001: {op: OpSH}, 0b010: {op: OpSW},
	}},

	opcOpImm: {format: FormatI, byFunct3: map[uint32]funct3Entry{
		0b000: {op: OpADDI}, 0b010: {op: OpSLTI}, 0b011: {op: OpSLTIU},
		0b100: {op: OpXORI}, 0b110: {op: OpORI}, 0b111: {op: OpANDI},
		0b001: {op: OpSLLI, byFunct7: map[uint32]Op{0b0000000: OpSLLI}},
		0b101: {op: OpSRLI, byFunct7: map[uint32]Op{0b0000000: OpSRLI, 0b0100000: OpSRAI}},
	}},

	opcOp: {format: FormatR, byFunct3: map[uint32]funct3Entry{
		0b000: {byFunct7: map[uint32]Op{0b0000000: OpADD, 0b0100000: OpSUB, 0b0000001: OpMUL}},
		0b001: {byFunct7: map[uint32]Op{0b0000000: OpSLL, 0b0000001: OpMULH}},
		0b010: {byFunct7: map[uint32]Op{0b0000000: OpSLT, 0b0000001: OpMULHSU}},
		0b011: {byFunct7: map[uint32]Op{0b0000000: OpSLTU, 0b0000001: OpMULHU}},
		0b100: {byFunct7: map[uint32]Op{0b0000000: OpXOR, 0b0000001: OpDIV}},
		0b101: {byFunct7: map[uint32]Op{0b0000000: OpSRL, 0b0100000: OpSRA, 0b0000001: OpDIVU}},
		0b110: {byFunct7: map[uint32]Op{0b0000000: OpOR, 0b0000001: OpREM}},
		0b111: {byFunct7: map[uint32]Op{0b0000000: OpAND, 0b0000001: OpREMU}},
	}},

	opcMiscMem: {format: FormatSystem, byFunct3: map[uint32]funct3Entry{
		0b000: {op: OpFENCE}, 0b001: {op: OpFENCEI},
	}},

	opcSystem: {format: FormatSystem, byFunct3: map[uint32]funct3Entry{
		0b000: {op: OpECALL}, // Decode accepts only the exact ECALL/EBREAK words and rejects every other SYSTEM word before reaching this table
	}},
}

const ecallWord = 0x00000073
const ebreakWord = 0x00100073

// Decoder decodes RV32I/RV32M machine code into Instructions.
type Decoder struct{}

// NewDecoder returns a ready-to-use Decoder. Decoder holds no state; a
// zero Decoder also works, NewDecoder exists for symmetry with Encoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode turns one 32-bit little-endian instruction word into an
// Instruction, or reports a DecodeError if the word matches no known
// RV32I/M encoding.
func (d *Decoder) Decode(word uint32) (Instruction, error) {
	opcode := bits.Opcode(word)

	if opcode == opcSystem {
		switch word {
		case ecallWord:
			return Instruction{Op: OpECALL, Format: FormatSystem}, nil
		case ebreakWord:
			return Instruction{Op: OpEBREAK, Format: FormatSystem}, nil
		}
		f3 := bits.Funct3(word)
		return Instruction{}, &DecodeError{Word: word, Opcode: opcode, Funct3: &f3}
	}

	entry, ok := decodeTable[opcode]
	if !ok {
		return Instruction{}, &DecodeError{Word: word, Opcode: opcode}
	}

	if entry.byFunct3 == nil {
		return d.build(entry.op, entry.format, word), nil
	}

	f3 := bits.Funct3(word)
	f3entry, ok := entry.byFunct3[f3]
	if !ok {
		return Instruction{}, &DecodeError{Word: word, Opcode: opcode, Funct3: &f3}
	}

	if f3entry.byFunct7 == nil {
		return d.build(f3entry.op, entry.format, word), nil
	}

	f7 := bits.Funct7(word)
	op, ok := f3entry.byFunct7[f7]
	if !ok {
		return Instruction{}, &DecodeError{Word: word, Opcode: opcode, Funct3: &f3, Funct7: &f7}
	}
	return d.build(op, entry.format, word), nil
}

// build assembles an Instruction's operand fields from word according to
// format. op has already been resolved by the caller.
func (d *Decoder) build(op Op, format Format, word uint32) Instruction {
	inst := Instruction{Op: op, Format: format}

	switch format {
	case FormatR:
		inst.Rd = reg.FromIndex(bits.Rd(word))
		inst.Rs1 = reg.FromIndex(bits.Rs1(word))
		inst.Rs2 = reg.FromIndex(bits.Rs2(word))
	case FormatI:
		inst.Rd = reg.FromIndex(bits.Rd(word))
		inst.Rs1 = reg.FromIndex(bits.Rs1(word))
		if op == OpSLLI || op == OpSRLI || op == OpSRAI {
			inst.Format = FormatIShift
			inst.Shamt = bits.Shamt(word)
		} else {
			inst.Imm = bits.ImmI(word)
		}
	case FormatS:
		inst.Rs1 = reg.FromIndex(bits.Rs1(word))
		inst.Rs2 = reg.FromIndex(bits.Rs2(word))
		inst.Imm = bits.ImmS(word)
	case FormatB:
		inst.Rs1 = reg.FromIndex(bits.Rs1(word))
		inst.Rs2 = reg.FromIndex(bits.Rs2(word))
		inst.Imm = bits.ImmB(word)
	case FormatU:
		inst.Rd = reg.FromIndex(bits.Rd(word))
		inst.Imm = bits.ImmU(word)
	case FormatJ:
		inst.Rd = reg.FromIndex(bits.Rd(word))
		inst.Imm = bits.ImmJ(word)
	case FormatSystem:
		// FENCE/FENCE.I carry no meaningful operand fields for this
		// emulator's purposes; ECALL/EBREAK are handled before build.
	}

	return inst
}
