package emu

import "github.com/rv32emu/rv32emu/reg"

// LoadStoreUnit implements RV32I memory access instructions.
type LoadStoreUnit struct {
	regs *reg.File
	mem  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regs *reg.File, mem *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{regs: regs, mem: mem}
}

func (lsu *LoadStoreUnit) addr(rs1 reg.Reg, offset int32) uint32 {
	return uint32(int32(lsu.regs.Get(rs1)) + offset)
}

// LB loads a sign-extended byte: rd = sext(mem[rs1+offset]).
func (lsu *LoadStoreUnit) LB(rd, rs1 reg.Reg, offset int32) {
	v := lsu.mem.Read8(lsu.addr(rs1, offset))
	lsu.regs.Set(rd, uint32(int32(int8(v))))
}

// LH loads a sign-extended halfword: rd = sext(mem[rs1+offset]).
func (lsu *LoadStoreUnit) LH(rd, rs1 reg.Reg, offset int32) {
	v := lsu.mem.Read16(lsu.addr(rs1, offset))
	lsu.regs.Set(rd, uint32(int32(int16(v))))
}

// LW loads a word: rd = mem[rs1+offset].
func (lsu *LoadStoreUnit) LW(rd, rs1 reg.Reg, offset int32) {
	lsu.regs.Set(rd, lsu.mem.Read32(lsu.addr(rs1, offset)))
}

// LBU loads a zero-extended byte: rd = zext(mem[rs1+offset]).
func (lsu *LoadStoreUnit) LBU(rd, rs1 reg.Reg, offset int32) {
	lsu.regs.Set(rd, uint32(lsu.mem.Read8(lsu.addr(rs1, offset))))
}

// LHU loads a zero-extended halfword: rd = zext(mem[rs1+offset]).
func (lsu *LoadStoreUnit) LHU(rd, rs1 reg.Reg, offset int32) {
	lsu.regs.Set(rd, uint32(lsu.mem.Read16(lsu.addr(rs1, offset))))
}

// SB stores the low byte of rs2: mem[rs1+offset] = rs2[7:0].
func (lsu *LoadStoreUnit) SB(rs1, rs2 reg.Reg, offset int32) {
	lsu.mem.Write8(lsu.addr(rs1, offset), uint8(lsu.regs.Get(rs2)))
}

// SH stores the low halfword of rs2: mem[rs1+offset] = rs2[15:0].
func (lsu *LoadStoreUnit) SH(rs1, rs2 reg.Reg, offset int32) {
	lsu.mem.Write16(lsu.addr(rs1, offset), uint16(lsu.regs.Get(rs2)))
}

// SW stores rs2: mem[rs1+offset] = rs2.
func (lsu *LoadStoreUnit) SW(rs1, rs2 reg.Reg, offset int32) {
	lsu.mem.Write32(lsu.addr(rs1, offset), lsu.regs.Get(rs2))
}
