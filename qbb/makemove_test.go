package qbb

import "testing"

func TestMakeUnmakeRestoresBoard(t *testing.T) {
	for _, fen := range testFENs {
		s := NewSearch(*MustParseFEN(fen))
		root := *s.Position()
		for _, m := range root.GenerateLegalMoves() {
			s.Make(m)
			mid := *s.Position()
			for _, reply := range mid.GenerateLegalMoves() {
				s.Make(reply)
				if err := s.Position().Validate(); err != nil {
					t.Fatalf("%s: %s %s left an inconsistent board: %v", fen, m.UCI(root.SideToMove()), reply.UCI(mid.SideToMove()), err)
				}
				s.Unmake()
				if *s.Position() != mid {
					t.Fatalf("%s: unmake of %s did not restore the position", fen, reply.UCI(mid.SideToMove()))
				}
			}
			s.Unmake()
			if *s.Position() != root {
				t.Fatalf("%s: unmake of %s did not restore the root", fen, m.UCI(root.SideToMove()))
			}
		}
		if s.Ply() != 0 {
			t.Fatalf("ply after balanced make/unmake: %d", s.Ply())
		}
	}
}

func TestSearchStackBounds(t *testing.T) {
	s := NewSearch(*MustParseFEN(FENStartPos))
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("Unmake at the root did not panic")
			}
		}()
		s.Unmake()
	}()

	// Shuffle knights until the stack is full.
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for i := 0; i < MaxPly; i++ {
		m, err := s.Position().FindMove(shuffle[i%len(shuffle)])
		if err != nil {
			t.Fatalf("ply %d: %v", i, err)
		}
		s.Make(m)
	}
	m, _ := s.Position().FindMove("g1f3")
	defer func() {
		if recover() == nil {
			t.Fatalf("Make beyond MaxPly did not panic")
		}
	}()
	s.Make(m)
}

func TestDoublePushEnPassantFile(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		move string
		want int
	}{
		{"adjacent left", "4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1", "e2e4", 4},
		{"adjacent right", "4k3/8/8/8/5p2/8/4P3/4K3 w - - 0 1", "e2e4", 4},
		{"no neighbour", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", "e2e4", NoEnPassant},
		{"own pawn adjacent", "4k3/8/8/8/3P4/8/4P3/4K3 w - - 0 1", "e2e4", NoEnPassant},
		{"two files away", "4k3/8/8/8/2p5/8/4P3/4K3 w - - 0 1", "e2e4", NoEnPassant},
		{"a-file", "4k3/8/8/8/1p6/8/P7/4K3 w - - 0 1", "a2a4", 0},
		{"a-file no wrap", "4k3/8/8/8/7p/8/P7/4K3 w - - 0 1", "a2a4", NoEnPassant},
		{"h-file", "4k3/8/8/8/6p1/8/7P/4K3 w - - 0 1", "h2h4", 7},
		{"h-file no wrap", "4k3/8/8/8/p7/8/7P/4K3 w - - 0 1", "h2h4", NoEnPassant},
		{"black push", "4k3/3p4/8/4P3/8/8/8/4K3 b - - 0 1", "d7d5", 3},
		{"black push no neighbour", "4k3/3p4/8/8/8/8/8/4K3 b - - 0 1", "d7d5", NoEnPassant},
		{"single push", "4k3/8/8/8/8/3p4/4P3/4K3 w - - 0 1", "e2e3", NoEnPassant},
	}
	for _, c := range cases {
		b := MustParseFEN(c.fen)
		if err := b.ApplyMoves(c.move); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got := b.EnPassantFile(); got != c.want {
			t.Fatalf("%s: en passant file got %d want %d", c.name, got, c.want)
		}
	}
}

func TestEnPassantCaptureRemovesPawn(t *testing.T) {
	b := MustParseFEN("k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	if err := b.ApplyMoves("e5d6"); err != nil {
		t.Fatal(err)
	}
	if got := b.ToFEN(); got != "k7/8/3P4/8/8/8/8/7K b - - 0 1" {
		t.Fatalf("after e5d6: got %s", got)
	}
}

func TestCastleRightsUpdates(t *testing.T) {
	const base = "r3k2r/8/8/8/8/8/1B4b1/R3K2R w KQkq - 0 1"
	cases := []struct {
		name   string
		fen    string
		moves  []string
		rights string
	}{
		{"short rook moves", base, []string{"h1h2"}, "Qkq"},
		{"long rook moves", base, []string{"a1b1"}, "Kkq"},
		{"king moves", base, []string{"e1d1"}, "kq"},
		{"bishop takes h8", base, []string{"b2h8"}, "KQq"},
		{"bishop takes h1", "r3k2r/8/8/8/8/8/1B4b1/R3K2R b KQkq - 0 1", []string{"g2h1"}, "Qkq"},
		{"rook takes rook", base, []string{"a1a8"}, "Kk"},
		{"black short rook", "r3k2r/8/8/8/8/8/1B4b1/R3K2R b KQkq - 0 1", []string{"h8h7"}, "KQq"},
		{"black king", "r3k2r/8/8/8/8/8/1B4b1/R3K2R b KQkq - 0 1", []string{"e8f8"}, "KQ"},
		{"king then rook", base, []string{"e1d1", "a8b8"}, "k"},
	}
	for _, c := range cases {
		b := MustParseFEN(c.fen)
		if err := b.ApplyMoves(c.moves...); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got := b.CastlingRights(); got != c.rights {
			t.Fatalf("%s: rights got %s want %s", c.name, got, c.rights)
		}
	}
}

func TestCastlingMovesRook(t *testing.T) {
	cases := []struct {
		fen, move, want string
	}{
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "r3k2r/8/8/8/8/8/8/R4RK1 b kq - 0 1"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "r3k2r/8/8/8/8/8/8/2KR3R b kq - 0 1"},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8g8", "r4rk1/8/8/8/8/8/8/R3K2R w KQ - 0 1"},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "2kr3r/8/8/8/8/8/8/R3K2R w KQ - 0 1"},
	}
	for _, c := range cases {
		b := MustParseFEN(c.fen)
		if err := b.ApplyMoves(c.move); err != nil {
			t.Fatal(err)
		}
		if got := b.ToFEN(); got != c.want {
			t.Fatalf("%s %s: got %s want %s", c.fen, c.move, got, c.want)
		}
	}
}

func TestPromotionWritesPiece(t *testing.T) {
	for _, c := range []struct {
		move string
		want PieceType
	}{{"a7a8q", Queen}, {"a7a8r", Rook}, {"a7a8b", Bishop}, {"a7a8n", Knight}, {"a7b8q", Queen}} {
		b := MustParseFEN("1n5k/P7/8/8/8/8/8/7K w - - 0 1")
		if err := b.ApplyMoves(c.move); err != nil {
			t.Fatal(err)
		}
		to, _ := ParseSquare(c.move[2:4])
		pt, color := b.PieceAt(to)
		if pt != c.want || color != White {
			t.Fatalf("%s: got %v %v on %s", c.move, pt, color, to)
		}
		if b.Validate() != nil {
			t.Fatalf("%s: inconsistent board after promotion", c.move)
		}
	}
}
