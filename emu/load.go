package emu

import (
	"github.com/rv32emu/rv32emu/loader"
	"github.com/rv32emu/rv32emu/reg"
)

// LoadError reports a failure to establish a runnable machine state from
// a parsed ELF program, e.g. a missing entry point.
type LoadError struct {
	Msg string
}

func (e *LoadError) Error() string { return "emu: " + e.Msg }

// Load populates the machine's memory and registers from prog, following
// the allocatable-section copy, symbol-driven BSS zeroing and gp/sp/pc
// setup that an RV32I static executable expects.
func (m *Machine) Load(prog *loader.Program) error {
	for _, sec := range prog.Sections {
		if len(sec.Data) > 0 {
			m.mem.LoadBytes(sec.Addr, sec.Data)
		}
	}

	if bssStart, ok := prog.Lookup("__bss_start"); ok {
		if bssEnd, ok := prog.Lookup("__BSS_END__"); ok && bssEnd > bssStart {
			m.mem.ZeroRange(bssStart, bssEnd-bssStart)
		}
	}

	if gp, ok := prog.Lookup("__global_pointer$"); ok {
		m.regs.Set(reg.Gp, gp)
	} else {
		m.log.Warn("no __global_pointer$ symbol; gp left at 0")
	}

	m.regs.Set(reg.Sp, m.mem.Size()/2&^0x3)

	if entry, ok := prog.Lookup("_start"); ok {
		m.pc = entry
	} else if text, ok := prog.Section(".text"); ok {
		m.pc = text.Addr
	} else {
		return &LoadError{Msg: "neither _start symbol nor .text section is present"}
	}

	if text, ok := prog.Section(".text"); ok {
		m.textStart, m.textEnd = text.Addr, text.Addr+text.Size
	}

	return nil
}
