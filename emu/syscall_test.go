package emu_test

import (
	"bytes"
	"strings"

	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rv32emu/rv32emu/emu"
	"github.com/rv32emu/rv32emu/reg"
)

var _ = Describe("DefaultSyscallHandler", func() {
	var (
		regs   *reg.File
		mem    *emu.Memory
		stdout *bytes.Buffer
		stdin  *strings.Reader
		log    *logrus.Logger
		h      *emu.DefaultSyscallHandler
	)

	BeforeEach(func() {
		regs = &reg.File{}
		mem = emu.NewMemory(4096)
		stdout = &bytes.Buffer{}
		stdin = strings.NewReader("")
		log = logrus.New()
		log.SetOutput(&bytes.Buffer{})
		h = emu.NewDefaultSyscallHandler(regs, mem, stdout, stdin, log)
	})

	It("print_int writes the decimal value of a0", func() {
		regs.Set(reg.A7, emu.SyscallPrintInt)
		regs.Set(reg.A0, uint32(int32(-5)))
		res := h.Handle()
		Expect(res.Exited).To(BeFalse())
		Expect(stdout.String()).To(Equal("-5"))
	})

	It("print_string writes the NUL-terminated string at a0", func() {
		regs.Set(reg.A7, emu.SyscallPrintString)
		mem.LoadBytes(64, []byte("hi\x00"))
		regs.Set(reg.A0, 64)
		h.Handle()
		Expect(stdout.String()).To(Equal("hi"))
	})

	It("read_int parses a line from stdin into a0", func() {
		h = emu.NewDefaultSyscallHandler(regs, mem, stdout, strings.NewReader("42\n"), log)
		regs.Set(reg.A7, emu.SyscallReadInt)
		h.Handle()
		Expect(regs.Get(reg.A0)).To(Equal(uint32(42)))
	})

	It("read_int defaults to zero on malformed input", func() {
		h = emu.NewDefaultSyscallHandler(regs, mem, stdout, strings.NewReader("not-a-number\n"), log)
		regs.Set(reg.A7, emu.SyscallReadInt)
		h.Handle()
		Expect(regs.Get(reg.A0)).To(Equal(uint32(0)))
	})

	It("MIPS-style exit (a7=10) exits with code 0 regardless of a0", func() {
		regs.Set(reg.A7, emu.SyscallMIPSExit)
		regs.Set(reg.A0, 7)
		res := h.Handle()
		Expect(res.Exited).To(BeTrue())
		Expect(res.ExitCode).To(Equal(int32(0)))
	})

	It("Linux-style exit (a7=93) exits with a0 as the status", func() {
		regs.Set(reg.A7, emu.SyscallExit)
		regs.Set(reg.A0, 7)
		res := h.Handle()
		Expect(res.Exited).To(BeTrue())
		Expect(res.ExitCode).To(Equal(int32(7)))
	})

	It("write copies a1[:a2] to the given fd via the host and reports bytes written in a0", func() {
		mem.LoadBytes(128, []byte("hello"))
		regs.Set(reg.A7, emu.SyscallWrite)
		regs.Set(reg.A0, 1) // stdout fd; exercised via the real syscall, not h.stdout
		regs.Set(reg.A1, 128)
		regs.Set(reg.A2, 5)
		res := h.Handle()
		Expect(res.Exited).To(BeFalse())
		Expect(regs.Get(reg.A0)).To(Equal(uint32(5)))
	})

	It("an unrecognized a7 logs but does not terminate the guest", func() {
		regs.Set(reg.A7, 9999)
		res := h.Handle()
		Expect(res.Exited).To(BeFalse())
		Expect(res.ExitCode).To(Equal(int32(0)))
	})
})
