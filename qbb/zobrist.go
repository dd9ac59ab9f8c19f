package qbb

import "math/rand"

// Zobrist keys, indexed by absolute coordinates so a position hashes the
// same whichever side it is stored for.
var zobristPiece [2][7][64]uint64 // [white/black][piece type][square]
var zobristCastle [16]uint64      // KQkq bits, see absoluteCastle
var zobristEnPassant [8]uint64
var zobristSide uint64 // black to move

func init() {
	initZobrist()
}

func initZobrist() {
	// Fixed seed: hashes are stable across runs.
	rnd := rand.New(rand.NewSource(0xC0DE))

	for c := 0; c < 2; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := 0; sq < 64; sq++ {
				zobristPiece[c][pt][sq] = rnd.Uint64()
			}
		}
	}
	for cr := 0; cr < 16; cr++ {
		zobristCastle[cr] = rnd.Uint64()
	}
	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// absoluteCastle folds the castle byte into four bits: white long, white
// short, black long, black short.
func (b *Board) absoluteCastle() int {
	white, black := b.castle&0x03, b.castle>>4&0x03
	if b.stm == Black {
		white, black = black, white
	}
	return int(white | black<<2)
}

// Hash computes the Zobrist key of the position from scratch.
func (b *Board) Hash() uint64 {
	var key uint64

	for occ := b.Occupation(); occ != 0; {
		rel := Square(popLSB(&occ))
		side := 0
		if b.pm&(1<<uint(rel)) == 0 {
			side = 1
		}
		if b.stm == Black {
			side ^= 1
		}
		key ^= zobristPiece[side][b.PieceTypeAt(rel)][rel.Abs(b.stm)]
	}

	if b.stm == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[b.absoluteCastle()]
	if b.ep != NoEnPassant {
		key ^= zobristEnPassant[b.ep]
	}
	return key
}
