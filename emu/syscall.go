package emu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/rv32emu/rv32emu/reg"
)

// Syscall numbers recognized in a7. The low numbers are MIPS-style
// convenience calls; 64 and 93 follow the Linux RV32 syscall ABI.
const (
	SyscallPrintInt    uint32 = 1
	SyscallPrintString uint32 = 4
	SyscallReadInt     uint32 = 5
	SyscallMIPSExit    uint32 = 10
	SyscallWrite       uint32 = 64
	SyscallExit        uint32 = 93
)

// SyscallResult reports what an ECALL did to machine control flow.
type SyscallResult struct {
	Exited   bool
	ExitCode int32
}

// SyscallHandler executes the ECALL indicated by the current register
// file state.
type SyscallHandler interface {
	Handle() SyscallResult
}

// DefaultSyscallHandler implements the syscall bridge's mixed MIPS/Linux
// table. An unrecognized a7 is logged and otherwise ignored; the guest
// keeps running.
type DefaultSyscallHandler struct {
	regs   *reg.File
	mem    *Memory
	stdout io.Writer
	stdin  *bufio.Reader
	log    *logrus.Logger
}

// NewDefaultSyscallHandler creates a syscall handler writing to stdout
// and reading from stdin.
func NewDefaultSyscallHandler(regs *reg.File, mem *Memory, stdout io.Writer, stdin io.Reader, log *logrus.Logger) *DefaultSyscallHandler {
	return &DefaultSyscallHandler{
		regs:   regs,
		mem:    mem,
		stdout: stdout,
		stdin:  bufio.NewReader(stdin),
		log:    log,
	}
}

// Handle dispatches on a7 per the syscall bridge table.
func (h *DefaultSyscallHandler) Handle() SyscallResult {
	switch h.regs.Get(reg.A7) {
	case SyscallPrintInt:
		return h.printInt()
	case SyscallPrintString:
		return h.printString()
	case SyscallReadInt:
		return h.readInt()
	case SyscallMIPSExit:
		return SyscallResult{Exited: true, ExitCode: 0}
	case SyscallWrite:
		return h.write()
	case SyscallExit:
		return SyscallResult{Exited: true, ExitCode: int32(h.regs.Get(reg.A0))}
	default:
		h.log.Errorf("unrecognized syscall a7=%d", h.regs.Get(reg.A7))
		return SyscallResult{}
	}
}

func (h *DefaultSyscallHandler) printInt() SyscallResult {
	fmt.Fprintf(h.stdout, "%d", int32(h.regs.Get(reg.A0)))
	flush(h.stdout)
	return SyscallResult{}
}

func (h *DefaultSyscallHandler) printString() SyscallResult {
	h.stdout.Write(h.mem.ReadCString(h.regs.Get(reg.A0)))
	flush(h.stdout)
	return SyscallResult{}
}

func (h *DefaultSyscallHandler) readInt() SyscallResult {
	line, err := h.stdin.ReadString('\n')
	if err != nil && line == "" {
		h.regs.Set(reg.A0, 0)
		return SyscallResult{}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 32)
	if err != nil {
		h.log.Warnf("read_int: malformed input %q", line)
		n = 0
	}
	h.regs.Set(reg.A0, uint32(int32(n)))
	return SyscallResult{}
}

func (h *DefaultSyscallHandler) write() SyscallResult {
	fd := int(h.regs.Get(reg.A0))
	buf := make([]byte, h.regs.Get(reg.A2))
	for i := range buf {
		buf[i] = h.mem.Read8(h.regs.Get(reg.A1) + uint32(i))
	}

	n, err := syscall.Write(fd, buf)
	if err != nil {
		h.log.Warnf("write(fd=%d): %v", fd, err)
		h.regs.Set(reg.A0, 0xffffffff)
		return SyscallResult{}
	}
	h.regs.Set(reg.A0, uint32(n))
	return SyscallResult{}
}

// flush forces os.Stdout-backed writers to surface output immediately;
// the syscall table requires print_int/print_string to flush.
func flush(w io.Writer) {
	type syncer interface{ Sync() error }
	if s, ok := w.(syncer); ok {
		_ = s.Sync()
	}
}
