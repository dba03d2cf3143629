// Package loader parses ELF32 little-endian RISC-V executables into the
// section and symbol data the emulator core needs to populate memory and
// resolve its entry point. It performs no relocation processing; inputs
// are expected to be fully linked static executables.
package loader

import (
	"debug/elf"
	"fmt"
)

// Section describes one allocatable ELF section: its name, its virtual
// address range, and its file-backed contents (empty for SHT_NOBITS
// sections like .bss, which carry no file data).
type Section struct {
	Name string
	Addr uint32
	Size uint32
	Data []byte
}

// Symbol is a named address from the ELF symbol table.
type Symbol struct {
	Name  string
	Value uint32
}

// Program is everything the emulator core consumes from a parsed ELF
// file: allocatable sections to copy into memory and symbols to resolve
// well-known addresses against. HeaderEntry records the ELF header's entry
// point; emu.Machine.Load does not read it and falls back to the start of
// .text when no _start symbol is present.
type Program struct {
	HeaderEntry uint32
	Sections    []Section
	Symbols     []Symbol
}

// Load opens and parses the ELF32/EM_RISCV executable at path.
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("loader: %s is not a 32-bit ELF file", path)
	}
	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("loader: %s is not a RISC-V ELF file (machine=%v)", path, f.Machine)
	}

	prog := &Program{HeaderEntry: uint32(f.Entry)}

	for _, sec := range f.Sections {
		if sec.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		s := Section{Name: sec.Name, Addr: uint32(sec.Addr), Size: uint32(sec.Size)}
		if sec.Type != elf.SHT_NOBITS {
			data, err := sec.Data()
			if err != nil {
				return nil, fmt.Errorf("loader: reading section %s: %w", sec.Name, err)
			}
			s.Data = data
		}
		prog.Sections = append(prog.Sections, s)
	}

	syms, err := f.Symbols()
	if err != nil && err != elf.ErrNoSymbols {
		return nil, fmt.Errorf("loader: reading symbol table: %w", err)
	}
	for _, sym := range syms {
		if sym.Name == "" {
			continue
		}
		prog.Symbols = append(prog.Symbols, Symbol{Name: sym.Name, Value: uint32(sym.Value)})
	}

	return prog, nil
}

// Lookup returns the value of the named symbol.
func (p *Program) Lookup(name string) (uint32, bool) {
	for _, s := range p.Symbols {
		if s.Name == name {
			return s.Value, true
		}
	}
	return 0, false
}

// Section returns the named section.
func (p *Program) Section(name string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}
