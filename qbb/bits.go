package qbb

import "math/bits"

// ==========================
// Bit utilities
// ==========================

// MSB returns the index of the most significant set bit. bb must be non-zero.
func MSB(bb uint64) int { return 63 - bits.LeadingZeros64(bb) }

// LSB returns the index of the least significant set bit. bb must be non-zero.
func LSB(bb uint64) int { return bits.TrailingZeros64(bb) }

// ExtractLSB isolates the least significant set bit.
func ExtractLSB(bb uint64) uint64 { return bb & -bb }

// ClearLSB resets the least significant set bit.
func ClearLSB(bb uint64) uint64 { return bb & (bb - 1) }

// PopCount returns the number of set bits.
func PopCount(bb uint64) int { return bits.OnesCount64(bb) }

// ReverseBytes swaps the byte order of bb, mirroring the board's ranks.
func ReverseBytes(bb uint64) uint64 { return bits.ReverseBytes64(bb) }

// popLSB removes and returns the least significant set bit from the mask.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

// Portable fallbacks. They mirror the intrinsic versions above and are
// kept for targets where math/bits does not lower to a single instruction.

func msbSoft(bb uint64) int {
	n := 0
	if bb > 0xFFFFFFFF {
		bb >>= 32
		n += 32
	}
	if bb > 0xFFFF {
		bb >>= 16
		n += 16
	}
	if bb > 0xFF {
		bb >>= 8
		n += 8
	}
	if bb > 0xF {
		bb >>= 4
		n += 4
	}
	if bb > 0x3 {
		bb >>= 2
		n += 2
	}
	if bb > 0x1 {
		n++
	}
	return n
}

func lsbSoft(bb uint64) int { return msbSoft(bb & -bb) }

func popCountSoft(bb uint64) int {
	bb -= (bb >> 1) & 0x5555555555555555
	bb = (bb & 0x3333333333333333) + ((bb >> 2) & 0x3333333333333333)
	bb = (bb + (bb >> 4)) & 0x0F0F0F0F0F0F0F0F
	return int((bb * 0x0101010101010101) >> 56)
}

func reverseBytesSoft(bb uint64) uint64 {
	bb = (bb&0x00FF00FF00FF00FF)<<8 | (bb>>8)&0x00FF00FF00FF00FF
	bb = (bb&0x0000FFFF0000FFFF)<<16 | (bb>>16)&0x0000FFFF0000FFFF
	return bb<<32 | bb>>32
}
