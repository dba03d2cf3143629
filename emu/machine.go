// Package emu provides the RV32I/RV32M execution core: register file,
// memory, the ALU/LoadStoreUnit/BranchUnit execution units, the syscall
// bridge, and the Machine that ties fetch/decode/execute together.
package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/rv32emu/rv32emu/insts"
	"github.com/rv32emu/rv32emu/reg"
)

// DefaultMemorySize is used when no explicit size is configured, matching
// the syscall/CLI default of 2^20 bytes (1 MiB).
const DefaultMemorySize = 1 << 20

// StepResult is returned by Step to report what happened.
type StepResult struct {
	Exited   bool
	ExitCode int32
	Err      error
}

// Machine executes RV32I/RV32M instructions against a register file and
// flat memory.
type Machine struct {
	regs *reg.File
	mem  *Memory
	pc   uint32

	decoder        *insts.Decoder
	syscallHandler SyscallHandler

	alu    *ALU
	lsu    *LoadStoreUnit
	branch *BranchUnit

	stdout io.Writer
	stdin  io.Reader
	log    *logrus.Logger

	instructionCount uint64

	// textStart/textEnd bound the loaded .text section; Step reports an
	// execution error if PC ever leaves this range without the guest
	// having exited via a syscall. Zero/zero (the pre-Load default)
	// disables the check.
	textStart, textEnd uint32
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithMemorySize sets the guest address space size in bytes.
func WithMemorySize(size uint32) Option {
	return func(m *Machine) { m.mem = NewMemory(size) }
}

// WithStdout overrides the writer ECALL print_int/print_string direct
// output to. The write syscall (a7=64) is not affected: it writes to the
// host file descriptor in a0 directly.
func WithStdout(w io.Writer) Option {
	return func(m *Machine) { m.stdout = w }
}

// WithStdin overrides the reader ECALL read_int consumes from.
func WithStdin(r io.Reader) Option {
	return func(m *Machine) { m.stdin = r }
}

// WithLogger overrides the logger used for unrecognized syscalls and
// other non-fatal diagnostics.
func WithLogger(l *logrus.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// WithSyscallHandler overrides the default syscall bridge, e.g. for
// tests that need to observe or stub ECALL behavior.
func WithSyscallHandler(h SyscallHandler) Option {
	return func(m *Machine) { m.syscallHandler = h }
}

// NewMachine constructs a Machine with a zeroed register file and
// DefaultMemorySize bytes of memory, then applies opts.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		regs:   &reg.File{},
		mem:    NewMemory(DefaultMemorySize),
		stdout: os.Stdout,
		stdin:  os.Stdin,
		log:    logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.decoder = insts.NewDecoder()
	m.alu = NewALU(m.regs)
	m.lsu = NewLoadStoreUnit(m.regs, m.mem)
	m.branch = NewBranchUnit(m.regs, &m.pc)
	if m.syscallHandler == nil {
		m.syscallHandler = NewDefaultSyscallHandler(m.regs, m.mem, m.stdout, m.stdin, m.log)
	}

	return m
}

// Regs returns the machine's register file.
func (m *Machine) Regs() *reg.File { return m.regs }

// Mem returns the machine's memory.
func (m *Machine) Mem() *Memory { return m.mem }

// PC returns the current program counter.
func (m *Machine) PC() uint32 { return m.pc }

// SetPC sets the program counter, e.g. to the ELF entry point after load.
func (m *Machine) SetPC(pc uint32) { m.pc = pc }

// SetTextRange sets the .text bounds Step checks PC against, the same
// bounds Load derives from the ELF's .text section. It exists so callers
// that build a runnable machine without going through Load (tests, mainly)
// still get the execution-range check.
func (m *Machine) SetTextRange(start, end uint32) { m.textStart, m.textEnd = start, end }

// InstructionCount returns the number of instructions executed so far.
func (m *Machine) InstructionCount() uint64 { return m.instructionCount }

// Step fetches, decodes, and executes one instruction.
func (m *Machine) Step() StepResult {
	if m.textEnd > m.textStart && (m.pc < m.textStart || m.pc >= m.textEnd) {
		return StepResult{Err: fmt.Errorf("pc=%#08x escaped .text [%#08x, %#08x)", m.pc, m.textStart, m.textEnd)}
	}

	word := m.mem.Read32(m.pc)

	inst, err := m.decoder.Decode(word)
	if err != nil {
		return StepResult{Err: fmt.Errorf("at pc=%#08x: %w", m.pc, err)}
	}

	m.instructionCount++
	return m.execute(inst)
}

// Run steps until the guest exits via a syscall or an error occurs,
// returning the exit code (or -1 on error).
func (m *Machine) Run() int32 {
	for {
		result := m.Step()
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "emulation error: %v\n", result.Err)
			return -1
		}
		if result.Exited {
			return result.ExitCode
		}
	}
}

// execute dispatches a decoded instruction. Branch and jump handlers set
// PC themselves. ECALL and the no-op FENCE/FENCE.I/EBREAK advance PC by 4
// in the first switch (ECALL before calling the syscall handler). Every
// other op leaves PC untouched in its handler and this function advances
// it by 4 once, at the end — no step has PC advanced twice.
func (m *Machine) execute(inst insts.Instruction) StepResult {
	switch inst.Op {
	case insts.OpECALL:
		m.pc += 4
		res := m.syscallHandler.Handle()
		return StepResult{Exited: res.Exited, ExitCode: res.ExitCode}
	case insts.OpEBREAK, insts.OpFENCE, insts.OpFENCEI:
		m.log.Warnf("%s at pc=%#08x executed as a no-op", inst.Op, m.pc)
		m.pc += 4
		return StepResult{}
	case insts.OpBEQ:
		m.branch.BEQ(inst.Rs1, inst.Rs2, inst.Imm)
		return StepResult{}
	case insts.OpBNE:
		m.branch.BNE(inst.Rs1, inst.Rs2, inst.Imm)
		return StepResult{}
	case insts.OpBLT:
		m.branch.BLT(inst.Rs1, inst.Rs2, inst.Imm)
		return StepResult{}
	case insts.OpBGE:
		m.branch.BGE(inst.Rs1, inst.Rs2, inst.Imm)
		return StepResult{}
	case insts.OpBLTU:
		m.branch.BLTU(inst.Rs1, inst.Rs2, inst.Imm)
		return StepResult{}
	case insts.OpBGEU:
		m.branch.BGEU(inst.Rs1, inst.Rs2, inst.Imm)
		return StepResult{}
	case insts.OpJAL:
		m.branch.JAL(inst.Rd, inst.Imm)
		return StepResult{}
	case insts.OpJALR:
		m.branch.JALR(inst.Rd, inst.Rs1, inst.Imm)
		return StepResult{}
	}

	switch inst.Op {
	case insts.OpLUI:
		m.alu.LUI(inst.Rd, inst.Imm)
	case insts.OpAUIPC:
		m.alu.AUIPC(inst.Rd, inst.Imm, m.pc)
	case insts.OpLB:
		m.lsu.LB(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLH:
		m.lsu.LH(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLW:
		m.lsu.LW(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLBU:
		m.lsu.LBU(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLHU:
		m.lsu.LHU(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSB:
		m.lsu.SB(inst.Rs1, inst.Rs2, inst.Imm)
	case insts.OpSH:
		m.lsu.SH(inst.Rs1, inst.Rs2, inst.Imm)
	case insts.OpSW:
		m.lsu.SW(inst.Rs1, inst.Rs2, inst.Imm)
	case insts.OpADDI:
		m.alu.ADDI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSLTI:
		m.alu.SLTI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSLTIU:
		m.alu.SLTIU(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpXORI:
		m.alu.XORI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpORI:
		m.alu.ORI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpANDI:
		m.alu.ANDI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSLLI:
		m.alu.SLLI(inst.Rd, inst.Rs1, inst.Shamt)
	case insts.OpSRLI:
		m.alu.SRLI(inst.Rd, inst.Rs1, inst.Shamt)
	case insts.OpSRAI:
		m.alu.SRAI(inst.Rd, inst.Rs1, inst.Shamt)
	case insts.OpADD:
		m.alu.ADD(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSUB:
		m.alu.SUB(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLL:
		m.alu.SLL(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLT:
		m.alu.SLT(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLTU:
		m.alu.SLTU(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpXOR:
		m.alu.XOR(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSRL:
		m.alu.SRL(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSRA:
		m.alu.SRA(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpOR:
		m.alu.OR(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpAND:
		m.alu.AND(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpMUL:
		m.alu.MUL(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpMULH:
		m.alu.MULH(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpMULHSU:
		m.alu.MULHSU(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpMULHU:
		m.alu.MULHU(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpDIV:
		m.alu.DIV(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpDIVU:
		m.alu.DIVU(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpREM:
		m.alu.REM(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpREMU:
		m.alu.REMU(inst.Rd, inst.Rs1, inst.Rs2)
	default:
		return StepResult{Err: fmt.Errorf("at pc=%#08x: unimplemented op %s", m.pc, inst.Op)}
	}

	m.pc += 4
	return StepResult{}
}

// Dump renders a human-readable snapshot of the machine's register file
// and program counter, for the CLI's --dump flag.
func (m *Machine) Dump(w io.Writer) {
	fmt.Fprintf(w, "pc  = %#08x\n", m.pc)
	for i := uint32(0); i < 32; i++ {
		r := reg.FromIndex(i)
		fmt.Fprintf(w, "x%-2d %-4s = %#08x\n", i, r, m.regs.Get(r))
	}
}
