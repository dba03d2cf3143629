// Package bits provides the pure bit-field extraction and sign-extension
// helpers the decoder, encoder, and executor all need over a raw RV32I
// instruction word.
package bits

// Opcode extracts bits [6:0].
func Opcode(w uint32) uint32 { return w & 0x7f }

// Rd extracts the destination register field, bits [11:7].
func Rd(w uint32) uint32 { return (w >> 7) & 0x1f }

// Rs1 extracts the first source register field, bits [19:15].
func Rs1(w uint32) uint32 { return (w >> 15) & 0x1f }

// Rs2 extracts the second source register field, bits [24:20].
func Rs2(w uint32) uint32 { return (w >> 20) & 0x1f }

// Shamt extracts the shift-amount field, bits [24:20] (5 bits, 0..31).
func Shamt(w uint32) uint32 { return (w >> 20) & 0x1f }

// Funct3 extracts the 3-bit sub-opcode field, bits [14:12].
func Funct3(w uint32) uint32 { return (w >> 12) & 0x7 }

// Funct7 extracts the 7-bit sub-opcode field, bits [31:25].
func Funct7(w uint32) uint32 { return (w >> 25) & 0x7f }

// SignExtend interprets the low n bits of v as two's-complement and widens
// to a signed 32-bit value, preserving the sign. Implemented via a
// left-then-arithmetic-right shift rather than a mask-and-OR: the shift
// trick is correct for every n in 1..=32, including the n==32 boundary
// where a precomputed OR-mask approach breaks down.
func SignExtend(v uint32, n uint) int32 {
	shift := 32 - n
	return int32(v<<shift) >> shift
}

// ImmI extracts and sign-extends the I-type immediate, bits [31:20].
func ImmI(w uint32) int32 {
	return SignExtend(w>>20, 12)
}

// ImmS extracts and sign-extends the S-type immediate: bits [31:25] form
// the high 7 bits, bits [11:7] form the low 5 bits.
func ImmS(w uint32) int32 {
	v := ((w >> 25) << 5) | ((w >> 7) & 0x1f)
	return SignExtend(v, 12)
}

// ImmB extracts and sign-extends the B-type immediate: a signed byte
// offset with bit 0 always zero.
func ImmB(w uint32) int32 {
	v := ((w >> 31 & 0x1) << 12) |
		((w >> 7 & 0x1) << 11) |
		((w >> 25 & 0x3f) << 5) |
		((w >> 8 & 0xf) << 1)
	return SignExtend(v, 13)
}

// ImmU extracts the U-type immediate: the raw 20-bit upper field,
// unshifted. The executor is responsible for shifting it left by 12.
func ImmU(w uint32) int32 {
	return int32(w >> 12 & 0xfffff)
}

// ImmJ extracts and sign-extends the J-type immediate: a signed byte
// offset with bit 0 always zero.
func ImmJ(w uint32) int32 {
	v := ((w >> 31 & 0x1) << 20) |
		((w >> 12 & 0xff) << 12) |
		((w >> 20 & 0x1) << 11) |
		((w >> 21 & 0x3ff) << 1)
	return SignExtend(v, 21)
}
