// Package reg provides the RV32I register identifier and register file.
//
// It is its own package, separate from decoding and execution, because the
// ABI-name surface is shared by the decoder, encoder, disassembler, and
// executor alike.
package reg

import "fmt"

// Reg identifies one of the 32 RV32I general-purpose registers. The zero
// value is x0, the hardwired-zero register.
type Reg uint8

// The 32 architectural registers, named by their ABI mnemonics.
const (
	Zero Reg = iota // x0 - hardwired to 0
	Ra              // x1 - return address
	Sp              // x2 - stack pointer
	Gp              // x3 - global pointer
	Tp              // x4 - thread pointer
	T0              // x5 - temporary
	T1              // x6 - temporary
	T2              // x7 - temporary
	S0              // x8 - saved register / frame pointer
	S1              // x9 - saved register
	A0              // x10 - argument / return value
	A1              // x11 - argument / return value
	A2              // x12 - argument
	A3              // x13 - argument
	A4              // x14 - argument
	A5              // x15 - argument
	A6              // x16 - argument
	A7              // x17 - argument / syscall number
	S2              // x18 - saved register
	S3              // x19 - saved register
	S4              // x20 - saved register
	S5              // x21 - saved register
	S6              // x22 - saved register
	S7              // x23 - saved register
	S8              // x24 - saved register
	S9              // x25 - saved register
	S10             // x26 - saved register
	S11             // x27 - saved register
	T3              // x28 - temporary
	T4              // x29 - temporary
	T5              // x30 - temporary
	T6              // x31 - temporary
)

// Fp is an alias for S0, the conventional frame pointer.
const Fp = S0

// abiNames is indexed by register number; it is the single source of truth
// consulted by both String and FromABIName.
var abiNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// FromIndex converts an index in 0..=31 to a Reg. The conversion is total
// for in-range values; out-of-range indices are a programming error and
// panic, since a 5-bit decoded field can never produce one.
func FromIndex(i uint32) Reg {
	if i > 31 {
		panic(fmt.Sprintf("reg: index %d out of range", i))
	}
	return Reg(i)
}

// Index returns the numeric register index 0..=31.
func (r Reg) Index() uint32 {
	return uint32(r)
}

// String returns the ABI mnemonic, e.g. "sp" or "a0".
func (r Reg) String() string {
	if int(r) >= len(abiNames) {
		return fmt.Sprintf("x%d!", uint8(r))
	}
	return abiNames[r]
}

// FromABIName looks up a register by its ABI mnemonic ("sp", "a0", "fp",
// ...). It also accepts the raw "x0".."x31" spelling. ok is false for any
// name that isn't one of the 32 registers.
func FromABIName(name string) (r Reg, ok bool) {
	if name == "fp" {
		return Fp, true
	}
	for i, n := range abiNames {
		if n == name {
			return Reg(i), true
		}
	}
	if len(name) > 1 && name[0] == 'x' {
		var idx uint32
		if _, err := fmt.Sscanf(name, "x%d", &idx); err == nil && idx <= 31 && fmt.Sprintf("x%d", idx) == name {
			return Reg(idx), true
		}
	}
	return 0, false
}
