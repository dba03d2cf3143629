package emu

import "github.com/rv32emu/rv32emu/reg"

// BranchUnit implements RV32I control-transfer instructions. RV32I
// branches compare two registers directly rather than testing a flags
// register, so unlike a condition-code ISA, BranchUnit needs no Cond type
// or CheckCondition method: each comparison is inlined in its own method.
type BranchUnit struct {
	regs *reg.File
	pc   *uint32
}

// NewBranchUnit creates a new BranchUnit connected to the given register
// file and program counter cell. pc is a pointer so taken branches can
// update the machine's actual PC in place.
func NewBranchUnit(regs *reg.File, pc *uint32) *BranchUnit {
	return &BranchUnit{regs: regs, pc: pc}
}

func (b *BranchUnit) branchIf(taken bool, offset int32) {
	if taken {
		*b.pc = uint32(int32(*b.pc) + offset)
	} else {
		*b.pc += 4
	}
}

// BEQ branches if rs1 == rs2.
func (b *BranchUnit) BEQ(rs1, rs2 reg.Reg, offset int32) {
	b.branchIf(b.regs.Get(rs1) == b.regs.Get(rs2), offset)
}

// BNE branches if rs1 != rs2.
func (b *BranchUnit) BNE(rs1, rs2 reg.Reg, offset int32) {
	b.branchIf(b.regs.Get(rs1) != b.regs.Get(rs2), offset)
}

// BLT branches if rs1 < rs2, signed.
func (b *BranchUnit) BLT(rs1, rs2 reg.Reg, offset int32) {
	b.branchIf(int32(b.regs.Get(rs1)) < int32(b.regs.Get(rs2)), offset)
}

// BGE branches if rs1 >= rs2, signed.
func (b *BranchUnit) BGE(rs1, rs2 reg.Reg, offset int32) {
	b.branchIf(int32(b.regs.Get(rs1)) >= int32(b.regs.Get(rs2)), offset)
}

// BLTU branches if rs1 < rs2, unsigned.
func (b *BranchUnit) BLTU(rs1, rs2 reg.Reg, offset int32) {
	b.branchIf(b.regs.Get(rs1) < b.regs.Get(rs2), offset)
}

// BGEU branches if rs1 >= rs2, unsigned.
func (b *BranchUnit) BGEU(rs1, rs2 reg.Reg, offset int32) {
	b.branchIf(b.regs.Get(rs1) >= b.regs.Get(rs2), offset)
}

// JAL saves the return address (pc+4) to rd, then jumps to pc+offset.
func (b *BranchUnit) JAL(rd reg.Reg, offset int32) {
	ret := *b.pc + 4
	*b.pc = uint32(int32(*b.pc) + offset)
	b.regs.Set(rd, ret)
}

// JALR saves the return address (pc+4) to rd, then jumps to
// (rs1+offset) with bit 0 of the target forced to zero.
func (b *BranchUnit) JALR(rd, rs1 reg.Reg, offset int32) {
	target := uint32(int32(b.regs.Get(rs1)) + offset)
	ret := *b.pc + 4
	*b.pc = target &^ 1
	b.regs.Set(rd, ret)
}
