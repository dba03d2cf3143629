package insts_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rv32emu/rv32emu/insts"
	"github.com/rv32emu/rv32emu/reg"
)

var _ = Describe("Decoder", func() {
	var d *insts.Decoder

	BeforeEach(func() {
		d = insts.NewDecoder()
	})

	It("decodes ADD x1, x2, x3", func() {
		w := uint32(0)<<25 | 3<<20 | 2<<15 | 0<<12 | 1<<7 | 0b0110011
		inst, err := d.Decode(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Op).To(Equal(insts.OpADD))
		Expect(inst.Format).To(Equal(insts.FormatR))
		Expect(inst.Rd).To(Equal(reg.Ra))
		Expect(inst.Rs1).To(Equal(reg.Sp))
		Expect(inst.Rs2).To(Equal(reg.Gp))
	})

	It("decodes SUB by its distinguishing funct7", func() {
		w := uint32(0b0100000)<<25 | 3<<20 | 2<<15 | 0<<12 | 1<<7 | 0b0110011
		inst, err := d.Decode(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Op).To(Equal(insts.OpSUB))
	})

	It("decodes MUL, sharing funct3=000 with ADD/SUB via funct7=1", func() {
		w := uint32(0b0000001)<<25 | 3<<20 | 2<<15 | 0<<12 | 1<<7 | 0b0110011
		inst, err := d.Decode(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Op).To(Equal(insts.OpMUL))
	})

	It("distinguishes SRLI from SRAI by funct7", func() {
		srli := uint32(0)<<25 | 5<<20 | 1<<15 | 0b101<<12 | 1<<7 | 0b0010011
		inst, err := d.Decode(srli)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Op).To(Equal(insts.OpSRLI))
		Expect(inst.Format).To(Equal(insts.FormatIShift))
		Expect(inst.Shamt).To(Equal(uint32(5)))

		srai := uint32(0b0100000)<<25 | 5<<20 | 1<<15 | 0b101<<12 | 1<<7 | 0b0010011
		inst, err = d.Decode(srai)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Op).To(Equal(insts.OpSRAI))
	})

	It("decodes shift-immediate with the maximum shamt of 31", func() {
		w := uint32(0)<<25 | 31<<20 | 1<<15 | 0b001<<12 | 1<<7 | 0b0010011
		inst, err := d.Decode(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Op).To(Equal(insts.OpSLLI))
		Expect(inst.Shamt).To(Equal(uint32(31)))
	})

	It("decodes ECALL only at its exact word", func() {
		inst, err := d.Decode(0x00000073)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Op).To(Equal(insts.OpECALL))
	})

	It("decodes EBREAK at its exact word", func() {
		inst, err := d.Decode(0x00100073)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Op).To(Equal(insts.OpEBREAK))
	})

	It("decodes LUI with the raw unshifted 20-bit immediate", func() {
		w := uint32(0x12345)<<12 | 1<<7 | 0b0110111
		inst, err := d.Decode(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Op).To(Equal(insts.OpLUI))
		Expect(inst.Imm).To(Equal(int32(0x12345)))
	})

	It("decodes JAL with a sign-extended byte offset", func() {
		w := encodeJ(0, -1048576)
		inst, err := d.Decode(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Op).To(Equal(insts.OpJAL))
		Expect(inst.Imm).To(Equal(int32(-1048576)))
	})

	It("rejects an unrecognized opcode", func() {
		_, err := d.Decode(0x7f) // opcode=0x7f, no entry
		Expect(err).To(HaveOccurred())
	})

	It("rejects a recognized opcode with an unrecognized funct3", func() {
		w := uint32(0b010)<<12 | 1<<7 | 0b1100111 // JALR only defines funct3=000
		_, err := d.Decode(w)
		Expect(err).To(HaveOccurred())
	})

	It("round-trips every encodable instruction through decode(encode(.))", func() {
		e := insts.NewEncoder()
		for _, inst := range sampleInstructions() {
			w, err := e.Encode(inst)
			Expect(err).NotTo(HaveOccurred())
			got, err := d.Decode(w)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(inst))
		}
	})

	It("round-trips random valid words through encode(decode(.))", func() {
		e := insts.NewEncoder()
		rnd := rand.New(rand.NewSource(1))
		count := 0
		for count < 200 {
			w := rnd.Uint32()
			inst, err := d.Decode(w)
			if err != nil {
				continue
			}
			reencoded, err := e.Encode(inst)
			Expect(err).NotTo(HaveOccurred())
			Expect(reencoded).To(Equal(w))
			count++
		}
	})
})

// sampleInstructions exercises every Op at least once with distinct,
// non-trivial operands so the round-trip test actually stresses operand
// field placement rather than collapsing on the zero value.
func sampleInstructions() []insts.Instruction {
	r := func(i uint32) reg.Reg { return reg.FromIndex(i) }
	return []insts.Instruction{
		{Op: insts.OpLUI, Format: insts.FormatU, Rd: r(5), Imm: 0xabcde},
		{Op: insts.OpAUIPC, Format: insts.FormatU, Rd: r(6), Imm: 1},
		{Op: insts.OpJAL, Format: insts.FormatJ, Rd: r(1), Imm: 4094},
		{Op: insts.OpJALR, Format: insts.FormatI, Rd: r(1), Rs1: r(2), Imm: -4},
		{Op: insts.OpBEQ, Format: insts.FormatB, Rs1: r(3), Rs2: r(4), Imm: -4096},
		{Op: insts.OpBNE, Format: insts.FormatB, Rs1: r(3), Rs2: r(4), Imm: 4094},
		{Op: insts.OpBLT, Format: insts.FormatB, Rs1: r(3), Rs2: r(4), Imm: 2},
		{Op: insts.OpBGE, Format: insts.FormatB, Rs1: r(3), Rs2: r(4), Imm: -2},
		{Op: insts.OpBLTU, Format: insts.FormatB, Rs1: r(3), Rs2: r(4), Imm: 0},
		{Op: insts.OpBGEU, Format: insts.FormatB, Rs1: r(3), Rs2: r(4), Imm: 1024},
		{Op: insts.OpLB, Format: insts.FormatI, Rd: r(7), Rs1: r(8), Imm: -1},
		{Op: insts.OpLH, Format: insts.FormatI, Rd: r(7), Rs1: r(8), Imm: 2},
		{Op: insts.OpLW, Format: insts.FormatI, Rd: r(7), Rs1: r(8), Imm: 4},
		{Op: insts.OpLBU, Format: insts.FormatI, Rd: r(7), Rs1: r(8), Imm: -2048},
		{Op: insts.OpLHU, Format: insts.FormatI, Rd: r(7), Rs1: r(8), Imm: 2047},
		{Op: insts.OpSB, Format: insts.FormatS, Rs1: r(9), Rs2: r(10), Imm: -1},
		{Op: insts.OpSH, Format: insts.FormatS, Rs1: r(9), Rs2: r(10), Imm: 2},
		{Op: insts.OpSW, Format: insts.FormatS, Rs1: r(9), Rs2: r(10), Imm: -4},
		{Op: insts.OpADDI, Format: insts.FormatI, Rd: r(11), Rs1: r(12), Imm: -2048},
		{Op: insts.OpSLTI, Format: insts.FormatI, Rd: r(11), Rs1: r(12), Imm: 7},
		{Op: insts.OpSLTIU, Format: insts.FormatI, Rd: r(11), Rs1: r(12), Imm: 2047},
		{Op: insts.OpXORI, Format: insts.FormatI, Rd: r(11), Rs1: r(12), Imm: -1},
		{Op: insts.OpORI, Format: insts.FormatI, Rd: r(11), Rs1: r(12), Imm: 0},
		{Op: insts.OpANDI, Format: insts.FormatI, Rd: r(11), Rs1: r(12), Imm: 255},
		{Op: insts.OpSLLI, Format: insts.FormatIShift, Rd: r(13), Rs1: r(14), Shamt: 31},
		{Op: insts.OpSRLI, Format: insts.FormatIShift, Rd: r(13), Rs1: r(14), Shamt: 1},
		{Op: insts.OpSRAI, Format: insts.FormatIShift, Rd: r(13), Rs1: r(14), Shamt: 0},
		{Op: insts.OpADD, Format: insts.FormatR, Rd: r(15), Rs1: r(16), Rs2: r(17)},
		{Op: insts.OpSUB, Format: insts.FormatR, Rd: r(15), Rs1: r(16), Rs2: r(17)},
		{Op: insts.OpSLL, Format: insts.FormatR, Rd: r(15), Rs1: r(16), Rs2: r(17)},
		{Op: insts.OpSLT, Format: insts.FormatR, Rd: r(15), Rs1: r(16), Rs2: r(17)},
		{Op: insts.OpSLTU, Format: insts.FormatR, Rd: r(15), Rs1: r(16), Rs2: r(17)},
		{Op: insts.OpXOR, Format: insts.FormatR, Rd: r(15), Rs1: r(16), Rs2: r(17)},
		{Op: insts.OpSRL, Format: insts.FormatR, Rd: r(15), Rs1: r(16), Rs2: r(17)},
		{Op: insts.OpSRA, Format: insts.FormatR, Rd: r(15), Rs1: r(16), Rs2: r(17)},
		{Op: insts.OpOR, Format: insts.FormatR, Rd: r(15), Rs1: r(16), Rs2: r(17)},
		{Op: insts.OpAND, Format: insts.FormatR, Rd: r(15), Rs1: r(16), Rs2: r(17)},
		{Op: insts.OpFENCE, Format: insts.FormatSystem},
		{Op: insts.OpFENCEI, Format: insts.FormatSystem},
		{Op: insts.OpECALL, Format: insts.FormatSystem},
		{Op: insts.OpEBREAK, Format: insts.FormatSystem},
		{Op: insts.OpMUL, Format: insts.FormatR, Rd: r(18), Rs1: r(19), Rs2: r(20)},
		{Op: insts.OpMULH, Format: insts.FormatR, Rd: r(18), Rs1: r(19), Rs2: r(20)},
		{Op: insts.OpMULHSU, Format: insts.FormatR, Rd: r(18), Rs1: r(19), Rs2: r(20)},
		{Op: insts.OpMULHU, Format: insts.FormatR, Rd: r(18), Rs1: r(19), Rs2: r(20)},
		{Op: insts.OpDIV, Format: insts.FormatR, Rd: r(18), Rs1: r(19), Rs2: r(20)},
		{Op: insts.OpDIVU, Format: insts.FormatR, Rd: r(18), Rs1: r(19), Rs2: r(20)},
		{Op: insts.OpREM, Format: insts.FormatR, Rd: r(18), Rs1: r(19), Rs2: r(20)},
		{Op: insts.OpREMU, Format: insts.FormatR, Rd: r(18), Rs1: r(19), Rs2: r(20)},
	}
}

func encodeJ(rd uint32, imm int32) uint32 {
	u := uint32(imm)
	var w uint32
	w |= (u >> 20 & 0x1) << 31
	w |= (u >> 1 & 0x3ff) << 21
	w |= (u >> 11 & 0x1) << 20
	w |= (u >> 12 & 0xff) << 12
	w |= rd << 7
	w |= 0b1101111
	return w
}
