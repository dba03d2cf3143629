package emu

import "github.com/rv32emu/rv32emu/reg"

// ALU implements RV32I/RV32M arithmetic and logic operations. RV32I has
// no condition-flag register, so unlike a flag-setting ISA, every ALU
// method here just computes a result and writes it to rd.
type ALU struct {
	regs *reg.File
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regs *reg.File) *ALU {
	return &ALU{regs: regs}
}

// ADD computes rd = rs1 + rs2, wrapping silently on overflow.
func (a *ALU) ADD(rd, rs1, rs2 reg.Reg) { a.regs.Set(rd, a.regs.Get(rs1)+a.regs.Get(rs2)) }

// SUB computes rd = rs1 - rs2, wrapping silently on underflow.
func (a *ALU) SUB(rd, rs1, rs2 reg.Reg) { a.regs.Set(rd, a.regs.Get(rs1)-a.regs.Get(rs2)) }

// SLL computes rd = rs1 << (rs2 & 0x1f).
func (a *ALU) SLL(rd, rs1, rs2 reg.Reg) {
	a.regs.Set(rd, a.regs.Get(rs1)<<(a.regs.Get(rs2)&0x1f))
}

// SLT computes rd = 1 if rs1 < rs2 as signed integers, else 0.
func (a *ALU) SLT(rd, rs1, rs2 reg.Reg) {
	a.regs.Set(rd, boolToWord(int32(a.regs.Get(rs1)) < int32(a.regs.Get(rs2))))
}

// SLTU computes rd = 1 if rs1 < rs2 as unsigned integers, else 0.
func (a *ALU) SLTU(rd, rs1, rs2 reg.Reg) {
	a.regs.Set(rd, boolToWord(a.regs.Get(rs1) < a.regs.Get(rs2)))
}

// XOR computes rd = rs1 ^ rs2.
func (a *ALU) XOR(rd, rs1, rs2 reg.Reg) { a.regs.Set(rd, a.regs.Get(rs1)^a.regs.Get(rs2)) }

// SRL computes rd = rs1 >> (rs2 & 0x1f), logical (zero-filling).
func (a *ALU) SRL(rd, rs1, rs2 reg.Reg) {
	a.regs.Set(rd, a.regs.Get(rs1)>>(a.regs.Get(rs2)&0x1f))
}

// SRA computes rd = rs1 >> (rs2 & 0x1f), arithmetic (sign-filling).
func (a *ALU) SRA(rd, rs1, rs2 reg.Reg) {
	a.regs.Set(rd, uint32(int32(a.regs.Get(rs1))>>(a.regs.Get(rs2)&0x1f)))
}

// OR computes rd = rs1 | rs2.
func (a *ALU) OR(rd, rs1, rs2 reg.Reg) { a.regs.Set(rd, a.regs.Get(rs1)|a.regs.Get(rs2)) }

// AND computes rd = rs1 & rs2.
func (a *ALU) AND(rd, rs1, rs2 reg.Reg) { a.regs.Set(rd, a.regs.Get(rs1)&a.regs.Get(rs2)) }

// ADDI computes rd = rs1 + imm.
func (a *ALU) ADDI(rd, rs1 reg.Reg, imm int32) { a.regs.Set(rd, a.regs.Get(rs1)+uint32(imm)) }

// SLTI computes rd = 1 if rs1 < imm as signed integers, else 0.
func (a *ALU) SLTI(rd, rs1 reg.Reg, imm int32) {
	a.regs.Set(rd, boolToWord(int32(a.regs.Get(rs1)) < imm))
}

// SLTIU computes rd = 1 if rs1 < imm, comparing both as unsigned.
func (a *ALU) SLTIU(rd, rs1 reg.Reg, imm int32) {
	a.regs.Set(rd, boolToWord(a.regs.Get(rs1) < uint32(imm)))
}

// XORI computes rd = rs1 ^ imm.
func (a *ALU) XORI(rd, rs1 reg.Reg, imm int32) { a.regs.Set(rd, a.regs.Get(rs1)^uint32(imm)) }

// ORI computes rd = rs1 | imm.
func (a *ALU) ORI(rd, rs1 reg.Reg, imm int32) { a.regs.Set(rd, a.regs.Get(rs1)|uint32(imm)) }

// ANDI computes rd = rs1 & imm.
func (a *ALU) ANDI(rd, rs1 reg.Reg, imm int32) { a.regs.Set(rd, a.regs.Get(rs1)&uint32(imm)) }

// SLLI computes rd = rs1 << shamt.
func (a *ALU) SLLI(rd, rs1 reg.Reg, shamt uint32) { a.regs.Set(rd, a.regs.Get(rs1)<<shamt) }

// SRLI computes rd = rs1 >> shamt, logical.
func (a *ALU) SRLI(rd, rs1 reg.Reg, shamt uint32) { a.regs.Set(rd, a.regs.Get(rs1)>>shamt) }

// SRAI computes rd = rs1 >> shamt, arithmetic.
func (a *ALU) SRAI(rd, rs1 reg.Reg, shamt uint32) {
	a.regs.Set(rd, uint32(int32(a.regs.Get(rs1))>>shamt))
}

// LUI computes rd = imm << 12.
func (a *ALU) LUI(rd reg.Reg, imm int32) { a.regs.Set(rd, uint32(imm)<<12) }

// AUIPC computes rd = pc + (imm << 12).
func (a *ALU) AUIPC(rd reg.Reg, imm int32, pc uint32) { a.regs.Set(rd, pc+uint32(imm)<<12) }

// MUL computes rd = (rs1 * rs2) mod 2^32, the low word of the product.
func (a *ALU) MUL(rd, rs1, rs2 reg.Reg) {
	a.regs.Set(rd, a.regs.Get(rs1)*a.regs.Get(rs2))
}

// MULH computes rd = the high word of the signed×signed 64-bit product.
func (a *ALU) MULH(rd, rs1, rs2 reg.Reg) {
	p := int64(int32(a.regs.Get(rs1))) * int64(int32(a.regs.Get(rs2)))
	a.regs.Set(rd, uint32(uint64(p)>>32))
}

// MULHSU computes rd = the high word of the signed(rs1)×unsigned(rs2)
// 64-bit product.
func (a *ALU) MULHSU(rd, rs1, rs2 reg.Reg) {
	p := int64(int32(a.regs.Get(rs1))) * int64(a.regs.Get(rs2))
	a.regs.Set(rd, uint32(uint64(p)>>32))
}

// MULHU computes rd = the high word of the unsigned×unsigned 64-bit
// product.
func (a *ALU) MULHU(rd, rs1, rs2 reg.Reg) {
	p := uint64(a.regs.Get(rs1)) * uint64(a.regs.Get(rs2))
	a.regs.Set(rd, uint32(p>>32))
}

// DIV computes rd = rs1 / rs2 as signed integers. Division by zero
// yields -1; INT_MIN / -1 yields INT_MIN rather than overflowing.
func (a *ALU) DIV(rd, rs1, rs2 reg.Reg) {
	x, y := int32(a.regs.Get(rs1)), int32(a.regs.Get(rs2))
	switch {
	case y == 0:
		a.regs.Set(rd, 0xffffffff)
	case x == -0x80000000 && y == -1:
		a.regs.Set(rd, uint32(x))
	default:
		a.regs.Set(rd, uint32(x/y))
	}
}

// DIVU computes rd = rs1 / rs2 as unsigned integers. Division by zero
// yields 0xffffffff.
func (a *ALU) DIVU(rd, rs1, rs2 reg.Reg) {
	x, y := a.regs.Get(rs1), a.regs.Get(rs2)
	if y == 0 {
		a.regs.Set(rd, 0xffffffff)
		return
	}
	a.regs.Set(rd, x/y)
}

// REM computes rd = rs1 % rs2 as signed integers. Division by zero
// yields the dividend; INT_MIN % -1 yields 0.
func (a *ALU) REM(rd, rs1, rs2 reg.Reg) {
	x, y := int32(a.regs.Get(rs1)), int32(a.regs.Get(rs2))
	switch {
	case y == 0:
		a.regs.Set(rd, uint32(x))
	case x == -0x80000000 && y == -1:
		a.regs.Set(rd, 0)
	default:
		a.regs.Set(rd, uint32(x%y))
	}
}

// REMU computes rd = rs1 % rs2 as unsigned integers. Division by zero
// yields the dividend.
func (a *ALU) REMU(rd, rs1, rs2 reg.Reg) {
	x, y := a.regs.Get(rs1), a.regs.Get(rs2)
	if y == 0 {
		a.regs.Set(rd, x)
		return
	}
	a.regs.Set(rd, x%y)
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
