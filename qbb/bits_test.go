package qbb

import (
	"math/rand"
	"testing"
)

func randomBitboards(n int) []uint64 {
	rnd := rand.New(rand.NewSource(42))
	out := []uint64{1, 0x8000000000000000, 0xFFFFFFFFFFFFFFFF, 0x0000000100000000}
	for i := 0; i < n; i++ {
		// Mix dense and sparse values.
		v := rnd.Uint64()
		if i%3 == 0 {
			v &= rnd.Uint64() & rnd.Uint64()
		}
		if v == 0 {
			v = 1
		}
		out = append(out, v)
	}
	return out
}

func TestSoftwareFallbacksMatchIntrinsics(t *testing.T) {
	for _, bb := range randomBitboards(2000) {
		if got, want := msbSoft(bb), MSB(bb); got != want {
			t.Fatalf("msbSoft(%#x): got %d want %d", bb, got, want)
		}
		if got, want := lsbSoft(bb), LSB(bb); got != want {
			t.Fatalf("lsbSoft(%#x): got %d want %d", bb, got, want)
		}
		if got, want := popCountSoft(bb), PopCount(bb); got != want {
			t.Fatalf("popCountSoft(%#x): got %d want %d", bb, got, want)
		}
		if got, want := reverseBytesSoft(bb), ReverseBytes(bb); got != want {
			t.Fatalf("reverseBytesSoft(%#x): got %#x want %#x", bb, got, want)
		}
	}
}

func TestLowestBitHelpers(t *testing.T) {
	bb := uint64(0b1011000)
	if got := ExtractLSB(bb); got != 0b1000 {
		t.Fatalf("ExtractLSB: got %b", got)
	}
	if got := ClearLSB(bb); got != 0b1010000 {
		t.Fatalf("ClearLSB: got %b", got)
	}
	var seen []int
	for mask := bb; mask != 0; {
		seen = append(seen, popLSB(&mask))
	}
	if len(seen) != 3 || seen[0] != 3 || seen[1] != 4 || seen[2] != 6 {
		t.Fatalf("popLSB order: got %v", seen)
	}
}

func TestReverseBytesMirrorsRanks(t *testing.T) {
	// e2 <-> e7
	e2 := uint64(1) << 12
	e7 := uint64(1) << 52
	if ReverseBytes(e2) != e7 {
		t.Fatalf("ReverseBytes(e2) = %#x", ReverseBytes(e2))
	}
	if ReverseBytes(rank1) != rank8 {
		t.Fatalf("rank1 should mirror to rank8")
	}
}
