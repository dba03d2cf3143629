package insts

import "fmt"

// EncodeError reports an Instruction that cannot be encoded, because its Op
// is not a recognized RV32I/M mnemonic or its Format does not match what
// that Op requires.
type EncodeError struct {
	Inst Instruction
	Msg  string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("insts: cannot encode %+v: %s", e.Inst, e.Msg)
}

// opEncoding is the static encoding recipe for one Op: its major opcode
// plus (when the format carries them) funct3 and funct7. This table is
// the encoder's half of the same mapping decodeTable represents for
// decode, so the two are kept next to each other and checked against one
// another by the round-trip tests.
type opEncoding struct {
	format Format
	opcode uint32
	funct3 uint32
	funct7 uint32
}

var encodeTable = map[Op]opEncoding{
	OpLUI:   {FormatU, opcLUI, 0, 0},
	OpAUIPC: {FormatU, opcAUIPC, 0, 0},
	OpJAL:   {FormatJ, opcJAL, 0, 0},
	OpJALR:  {FormatI, opcJALR, 0b000, 0},

	OpBEQ: {FormatB, opcBranch, 0b000, 0}, OpBNE: {FormatB, opcBranch, 0b001, 0},
	OpBLT: {FormatB, opcBranch, 0b100, 0}, OpBGE: {FormatB, opcBranch, 0b101, 0},
	OpBLTU: {FormatB, opcBranch, 0b110, 0}, OpBGEU: {FormatB, opcBranch, 0b111, 0},

	OpLB: {FormatI, opcLoad, 0b000, 0}, OpLH: {FormatI, opcLoad, 0b001, 0},
	OpLW: {FormatI, opcLoad, 0b010, 0}, OpLBU: {FormatI, opcLoad, 0b100, 0},
	OpLHU: {FormatI, opcLoad, 0b101, 0},

	OpSB: {FormatS, opcStore, 0b000, 0}, OpSH: {FormatS, opcStore, 0b001, 0},
	OpSW: {FormatS, opcStore, 0b010, 0},

	OpADDI: {FormatI, opcOpImm, 0b000, 0}, OpSLTI: {FormatI, opcOpImm, 0b010, 0},
	OpSLTIU: {FormatI, opcOpImm, 0b011, 0}, OpXORI: {FormatI, opcOpImm, 0b100, 0},
	OpORI: {FormatI, opcOpImm, 0b110, 0}, OpANDI: {FormatI, opcOpImm, 0b111, 0},
	OpSLLI: {FormatIShift, opcOpImm, 0b001, 0b0000000},
	OpSRLI: {FormatIShift, opcOpImm, 0b101, 0b0000000},
	OpSRAI: {FormatIShift, opcOpImm, 0b101, 0b0100000},

	OpADD: {FormatR, opcOp, 0b000, 0b0000000}, OpSUB: {FormatR, opcOp, 0b000, 0b0100000},
	OpSLL: {FormatR, opcOp, 0b001, 0b0000000}, OpSLT: {FormatR, opcOp, 0b010, 0b0000000},
	OpSLTU: {FormatR, opcOp, 0b011, 0b0000000}, OpXOR: {FormatR, opcOp, 0b100, 0b0000000},
	OpSRL: {FormatR, opcOp, 0b101, 0b0000000}, OpSRA: {FormatR, opcOp, 0b101, 0b0100000},
	OpOR: {FormatR, opcOp, 0b110, 0b0000000}, OpAND: {FormatR, opcOp, 0b111, 0b0000000},

	OpFENCE: {FormatSystem, opcMiscMem, 0b000, 0}, OpFENCEI: {FormatSystem, opcMiscMem, 0b001, 0},

	OpMUL: {FormatR, opcOp, 0b000, 0b0000001}, OpMULH: {FormatR, opcOp, 0b001, 0b0000001},
	OpMULHSU: {FormatR, opcOp, 0b010, 0b0000001}, OpMULHU: {FormatR, opcOp, 0b011, 0b0000001},
	OpDIV: {FormatR, opcOp, 0b100, 0b0000001}, OpDIVU: {FormatR, opcOp, 0b101, 0b0000001},
	OpREM: {FormatR, opcOp, 0b110, 0b0000001}, OpREMU: {FormatR, opcOp, 0b111, 0b0000001},
}

// Encoder turns Instructions back into 32-bit machine words.
type Encoder struct{}

// NewEncoder returns a ready-to-use Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode produces the machine word for inst, or an EncodeError if inst's
// Op/Format combination is not one Decode can ever produce.
func (e *Encoder) Encode(inst Instruction) (uint32, error) {
	if inst.Op == OpECALL {
		return ecallWord, nil
	}
	if inst.Op == OpEBREAK {
		return ebreakWord, nil
	}

	enc, ok := encodeTable[inst.Op]
	if !ok {
		return 0, &EncodeError{Inst: inst, Msg: "unrecognized Op"}
	}
	if enc.format != inst.Format {
		return 0, &EncodeError{Inst: inst, Msg: "Format does not match Op"}
	}

	word := enc.opcode

	switch enc.format {
	case FormatR:
		word |= enc.funct7 << 25
		word |= uint32(inst.Rs2.Index()) << 20
		word |= uint32(inst.Rs1.Index()) << 15
		word |= enc.funct3 << 12
		word |= uint32(inst.Rd.Index()) << 7
	case FormatI:
		word |= uint32(inst.Imm) << 20
		word |= uint32(inst.Rs1.Index()) << 15
		word |= enc.funct3 << 12
		word |= uint32(inst.Rd.Index()) << 7
	case FormatIShift:
		word |= enc.funct7 << 25
		word |= inst.Shamt << 20
		word |= uint32(inst.Rs1.Index()) << 15
		word |= enc.funct3 << 12
		word |= uint32(inst.Rd.Index()) << 7
	case FormatS:
		u := uint32(inst.Imm)
		word |= (u >> 5 & 0x7f) << 25
		word |= uint32(inst.Rs2.Index()) << 20
		word |= uint32(inst.Rs1.Index()) << 15
		word |= enc.funct3 << 12
		word |= (u & 0x1f) << 7
	case FormatB:
		u := uint32(inst.Imm)
		word |= (u >> 12 & 0x1) << 31
		word |= (u >> 5 & 0x3f) << 25
		word |= uint32(inst.Rs2.Index()) << 20
		word |= uint32(inst.Rs1.Index()) << 15
		word |= enc.funct3 << 12
		word |= (u >> 1 & 0xf) << 8
		word |= (u >> 11 & 0x1) << 7
	case FormatU:
		word |= (uint32(inst.Imm) & 0xfffff) << 12
		word |= uint32(inst.Rd.Index()) << 7
	case FormatJ:
		u := uint32(inst.Imm)
		word |= (u >> 20 & 0x1) << 31
		word |= (u >> 1 & 0x3ff) << 21
		word |= (u >> 11 & 0x1) << 20
		word |= (u >> 12 & 0xff) << 12
		word |= uint32(inst.Rd.Index()) << 7
	case FormatSystem:
		word |= enc.funct3 << 12
	}

	return word, nil
}
