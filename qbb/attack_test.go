package qbb

import (
	"math/rand"
	"testing"
)

// slowRay walks from sq in direction (df, dr) until the edge or the first
// occupied square, which is included.
func slowRay(sq int, df, dr int, occ uint64) uint64 {
	var out uint64
	f, r := sq%8+df, sq/8+dr
	for f >= 0 && f < 8 && r >= 0 && r < 8 {
		bit := uint64(1) << uint(r*8+f)
		out |= bit
		if occ&bit != 0 {
			break
		}
		f += df
		r += dr
	}
	return out
}

func slowRook(sq int, occ uint64) uint64 {
	return slowRay(sq, 1, 0, occ) | slowRay(sq, -1, 0, occ) | slowRay(sq, 0, 1, occ) | slowRay(sq, 0, -1, occ)
}

func slowBishop(sq int, occ uint64) uint64 {
	return slowRay(sq, 1, 1, occ) | slowRay(sq, -1, 1, occ) | slowRay(sq, 1, -1, occ) | slowRay(sq, -1, -1, occ)
}

func TestSliderAttacksEmptyBoard(t *testing.T) {
	for sq := 0; sq < 64; sq++ {
		if got := PopCount(RookAttacks(sq, 0)); got != 14 {
			t.Fatalf("rook on %s: got %d squares want 14", Square(sq), got)
		}
	}
	cases := map[string]int{"a1": 7, "d4": 13, "h8": 7, "b2": 9, "e1": 7}
	for name, want := range cases {
		sq, _ := ParseSquare(name)
		if got := PopCount(BishopAttacks(int(sq), 0)); got != want {
			t.Fatalf("bishop on %s: got %d want %d", name, got, want)
		}
	}
}

func TestSliderAttacksMatchRayWalk(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		occ := rnd.Uint64() & rnd.Uint64()
		for sq := 0; sq < 64; sq++ {
			// The slider's own square is occupied in real positions.
			o := occ | 1<<uint(sq)
			if got, want := RookAttacks(sq, o), slowRook(sq, o); got != want {
				t.Fatalf("rook %s occ=%#x: got %#x want %#x", Square(sq), o, got, want)
			}
			if got, want := BishopAttacks(sq, o), slowBishop(sq, o); got != want {
				t.Fatalf("bishop %s occ=%#x: got %#x want %#x", Square(sq), o, got, want)
			}
			if QueenAttacks(sq, o) != RookAttacks(sq, o)|BishopAttacks(sq, o) {
				t.Fatalf("queen %s: not the union of rook and bishop", Square(sq))
			}
		}
	}
}

func TestLeaperTables(t *testing.T) {
	cases := []struct {
		sq           string
		knight, king int
	}{
		{"a1", 2, 3},
		{"h1", 2, 3},
		{"d4", 8, 8},
		{"b7", 4, 8},
		{"h5", 4, 5},
	}
	for _, c := range cases {
		sq, _ := ParseSquare(c.sq)
		if got := PopCount(KnightAttacks(int(sq))); got != c.knight {
			t.Fatalf("knight on %s: got %d want %d", c.sq, got, c.knight)
		}
		if got := PopCount(KingAttacks(int(sq))); got != c.king {
			t.Fatalf("king on %s: got %d want %d", c.sq, got, c.king)
		}
	}
}

func TestDestinationsDispatch(t *testing.T) {
	occ := uint64(0x0000001818000000)
	for sq := 0; sq < 64; sq++ {
		if Destinations(Knight, sq, occ) != knightDest[sq] ||
			Destinations(King, sq, occ) != kingDest[sq] ||
			Destinations(Rook, sq, occ) != RookAttacks(sq, occ) ||
			Destinations(Bishop, sq, occ) != BishopAttacks(sq, occ) ||
			Destinations(Queen, sq, occ) != QueenAttacks(sq, occ) {
			t.Fatalf("Destinations mismatch on %s", Square(sq))
		}
	}
	if Destinations(Pawn, 12, occ) != 0 {
		t.Fatalf("pawns have no table destinations")
	}
}

func TestEnPassantMasksEdgeFiles(t *testing.T) {
	a4, b4 := uint64(1)<<24, uint64(1)<<25
	g4, h4 := uint64(1)<<30, uint64(1)<<31
	if epAdjacent[0] != b4 {
		t.Fatalf("a-file adjacency: got %#x", epAdjacent[0])
	}
	if epAdjacent[7] != g4 {
		t.Fatalf("h-file adjacency: got %#x", epAdjacent[7])
	}
	if epAdjacent[1] != a4|uint64(1)<<26 {
		t.Fatalf("b-file adjacency: got %#x", epAdjacent[1])
	}
	if epSource[0] != b4<<8 || epSource[7] != h4>>1<<8 {
		t.Fatalf("source masks must sit one rank above adjacency masks")
	}
}
