package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rv32emu/rv32emu/emu"
	"github.com/rv32emu/rv32emu/reg"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		regs *reg.File
		mem  *emu.Memory
		lsu  *emu.LoadStoreUnit
	)

	BeforeEach(func() {
		regs = &reg.File{}
		mem = emu.NewMemory(4096)
		lsu = emu.NewLoadStoreUnit(regs, mem)
	})

	It("sign-extends LB", func() {
		mem.Write8(100, 0xff)
		regs.Set(reg.A0, 100)
		lsu.LB(reg.A1, reg.A0, 0)
		Expect(regs.Get(reg.A1)).To(Equal(uint32(0xffffffff)))
	})

	It("zero-extends LBU", func() {
		mem.Write8(100, 0xff)
		regs.Set(reg.A0, 100)
		lsu.LBU(reg.A1, reg.A0, 0)
		Expect(regs.Get(reg.A1)).To(Equal(uint32(0x000000ff)))
	})

	It("sign-extends LH", func() {
		mem.Write16(100, 0x8000)
		regs.Set(reg.A0, 100)
		lsu.LH(reg.A1, reg.A0, 0)
		Expect(regs.Get(reg.A1)).To(Equal(uint32(0xffff8000)))
	})

	It("zero-extends LHU", func() {
		mem.Write16(100, 0x8000)
		regs.Set(reg.A0, 100)
		lsu.LHU(reg.A1, reg.A0, 0)
		Expect(regs.Get(reg.A1)).To(Equal(uint32(0x00008000)))
	})

	It("loads a full word with LW", func() {
		mem.Write32(100, 0xdeadbeef)
		regs.Set(reg.A0, 100)
		lsu.LW(reg.A1, reg.A0, 0)
		Expect(regs.Get(reg.A1)).To(Equal(uint32(0xdeadbeef)))
	})

	It("applies the immediate offset to the base register", func() {
		mem.Write32(108, 0x12345678)
		regs.Set(reg.A0, 100)
		lsu.LW(reg.A1, reg.A0, 8)
		Expect(regs.Get(reg.A1)).To(Equal(uint32(0x12345678)))
	})

	It("truncates SB to the low byte", func() {
		regs.Set(reg.A0, 200)
		regs.Set(reg.A1, 0xdeadbeef)
		lsu.SB(reg.A0, reg.A1, 0)
		Expect(mem.Read8(200)).To(Equal(uint8(0xef)))
	})

	It("truncates SH to the low halfword", func() {
		regs.Set(reg.A0, 200)
		regs.Set(reg.A1, 0xdeadbeef)
		lsu.SH(reg.A0, reg.A1, 0)
		Expect(mem.Read16(200)).To(Equal(uint16(0xbeef)))
	})

	It("stores a full word with SW", func() {
		regs.Set(reg.A0, 200)
		regs.Set(reg.A1, 0xdeadbeef)
		lsu.SW(reg.A0, reg.A1, 0)
		Expect(mem.Read32(200)).To(Equal(uint32(0xdeadbeef)))
	})
})
