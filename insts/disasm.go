package insts

import "fmt"

// String renders inst as a standalone disassembly line. Branch and jump
// targets are rendered as the raw byte offset; callers that know the
// instruction's address should use StringAt instead to get an absolute
// target.
func (inst Instruction) String() string {
	return inst.render(nil)
}

// StringAt renders inst as it appears at address pc, resolving
// PC-relative branch and jump offsets to absolute target addresses.
func (inst Instruction) StringAt(pc uint32) string {
	return inst.render(&pc)
}

func (inst Instruction) render(pc *uint32) string {
	target := func(off int32) string {
		if pc == nil {
			return fmt.Sprintf("%+d", off)
		}
		return fmt.Sprintf("%#x", *pc+uint32(off))
	}

	switch inst.Op {
	case OpADDI:
		switch {
		case inst.Rd == 0 && inst.Rs1 == 0 && inst.Imm == 0:
			return "nop"
		case inst.Rs1 == 0:
			return fmt.Sprintf("li %s, %d", inst.Rd, inst.Imm)
		case inst.Imm == 0:
			return fmt.Sprintf("mv %s, %s", inst.Rd, inst.Rs1)
		}
	case OpJAL:
		if inst.Rd == 0 {
			return fmt.Sprintf("j %s", target(inst.Imm))
		}
		if inst.Rd.Index() == 1 { // ra
			return fmt.Sprintf("jal %s", target(inst.Imm))
		}
	case OpJALR:
		if inst.Rd == 0 && inst.Rs1.Index() == 1 && inst.Imm == 0 {
			return "ret"
		}
		if inst.Rd == 0 && inst.Imm == 0 {
			return fmt.Sprintf("jr %s", inst.Rs1)
		}
	case OpBEQ:
		if inst.Rs2 == 0 {
			return fmt.Sprintf("beqz %s, %s", inst.Rs1, target(inst.Imm))
		}
	case OpBNE:
		if inst.Rs2 == 0 {
			return fmt.Sprintf("bnez %s, %s", inst.Rs1, target(inst.Imm))
		}
	case OpECALL:
		return "ecall"
	case OpEBREAK:
		return "ebreak"
	case OpFENCE:
		return "fence"
	case OpFENCEI:
		return "fence.i"
	}

	switch inst.Op {
	case OpLB, OpLH, OpLW, OpLBU, OpLHU:
		return fmt.Sprintf("%s %s, %d(%s)", inst.Op, inst.Rd, inst.Imm, inst.Rs1)
	}

	switch inst.Format {
	case FormatR:
		return fmt.Sprintf("%s %s, %s, %s", inst.Op, inst.Rd, inst.Rs1, inst.Rs2)
	case FormatI:
		return fmt.Sprintf("%s %s, %s, %d", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
	case FormatIShift:
		return fmt.Sprintf("%s %s, %s, %d", inst.Op, inst.Rd, inst.Rs1, inst.Shamt)
	case FormatS:
		return fmt.Sprintf("%s %s, %d(%s)", inst.Op, inst.Rs2, inst.Imm, inst.Rs1)
	case FormatB:
		return fmt.Sprintf("%s %s, %s, %s", inst.Op, inst.Rs1, inst.Rs2, target(inst.Imm))
	case FormatU:
		return fmt.Sprintf("%s %s, %#x", inst.Op, inst.Rd, uint32(inst.Imm))
	case FormatJ:
		return fmt.Sprintf("%s %s, %s", inst.Op, inst.Rd, target(inst.Imm))
	default:
		return inst.Op.String()
	}
}
