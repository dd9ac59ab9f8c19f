package qbb_test

import (
	"testing"

	"qbbperft/qbb"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func benchPerft(b *testing.B, fen string, depth int) {
	board, err := qbb.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	var nodes uint64
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		nodes = qbb.Perft(board, depth)
	}
	b.ReportMetric(float64(nodes)*float64(b.N)/b.Elapsed().Seconds(), "nodes/s")
}

func BenchmarkPerft_Initial_D4(b *testing.B) {
	benchPerft(b, qbb.FENStartPos, 4)
}

func BenchmarkPerft_Kiwipete_D3(b *testing.B) {
	benchPerft(b, kiwipete, 3)
}

func BenchmarkPerft_Pos3_D5(b *testing.B) {
	benchPerft(b, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5)
}

func benchGenerate(b *testing.B, fen string, gen func(*qbb.Board, []qbb.Move) []qbb.Move) {
	board, err := qbb.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	buf := make([]qbb.Move, 0, qbb.MaxMoves)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = gen(board, buf[:0])
	}
}

func BenchmarkGenerateCaptures_Kiwipete(b *testing.B) {
	benchGenerate(b, kiwipete, (*qbb.Board).GenerateCapturesInto)
}

func BenchmarkGenerateQuiets_Kiwipete(b *testing.B) {
	benchGenerate(b, kiwipete, (*qbb.Board).GenerateQuietsInto)
}

func BenchmarkGenerateCaptures_EP(b *testing.B) {
	benchGenerate(b, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", (*qbb.Board).GenerateCapturesInto)
}

func BenchmarkMakeUnmake_AllMoves_Kiwipete(b *testing.B) {
	s := qbb.NewSearch(*qbb.MustParseFEN(kiwipete))
	moves := s.Position().GenerateLegalMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, m := range moves {
			s.Make(m)
			s.Unmake()
		}
	}
}

func BenchmarkIllegal_Kiwipete(b *testing.B) {
	board := qbb.MustParseFEN(kiwipete)
	moves := board.GeneratePseudoMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, m := range moves {
			_ = board.Illegal(m)
		}
	}
}
