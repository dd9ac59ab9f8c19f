package qbb

import (
	"errors"
	"fmt"
)

// PieceType is the 3-bit code stored across P0/P1/P2.
//
//	P2 P1 P0
//	 0  0  0  empty
//	 0  0  1  pawn
//	 0  1  0  knight
//	 0  1  1  bishop
//	 1  0  0  rook
//	 1  0  1  queen
//	 1  1  0  king
type PieceType uint8

const (
	Empty  PieceType = 0
	Pawn   PieceType = 1
	Knight PieceType = 2
	Bishop PieceType = 3
	Rook   PieceType = 4
	Queen  PieceType = 5
	King   PieceType = 6
)

var pieceNames = [...]string{"empty", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (pt PieceType) String() string {
	if int(pt) < len(pieceNames) {
		return pieceNames[pt]
	}
	return fmt.Sprintf("PieceType(%d)", uint8(pt))
}

// Color is the side-to-move marker. The values double as the XOR applied to
// a relative square to obtain an absolute one (see Square.Abs).
type Color uint8

const (
	White Color = 0
	Black Color = 8
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ Black }

// Castle flag layout: low nibble belongs to the side to move, high nibble to
// the opponent. Bit 0 is the long (queenside) right, bit 1 the short one.
const (
	castleLongMine    uint8 = 0x01
	castleShortMine   uint8 = 0x02
	castleLongTheirs  uint8 = 0x10
	castleShortTheirs uint8 = 0x20
)

// NoEnPassant is the EnPassant file value meaning no capture is available.
const NoEnPassant = 8

// Board is the quad-bitboard position record.
//
// The board is always stored from the point of view of the side to move:
// its pieces are the ones in pm and its home rank is rank 1. After every
// move the bitboards are byte-reversed and the castle nibbles swapped, so
// the generator only ever handles "white".
type Board struct {
	pm uint64 // side to move
	p0 uint64
	p1 uint64
	p2 uint64

	castle uint8 // ..sl..SL
	ep     uint8 // en passant file, NoEnPassant if unset
	stm    Color // absolute side to move, only used for output
}

// Bitboards is a raw copy of the four planes, mostly for tests and debugging.
type Bitboards struct {
	PM, P0, P1, P2 uint64
}

// ==========================
// Piece sets
// ==========================

// Occupation returns all occupied squares.
func (b *Board) Occupation() uint64 { return b.p0 | b.p1 | b.p2 }

// Mine returns the pieces of the side to move.
func (b *Board) Mine() uint64 { return b.pm }

// Opposing returns the pieces of the side not to move.
func (b *Board) Opposing() uint64 { return b.pm ^ b.Occupation() }

func (b *Board) Pawns() uint64   { return b.p0 &^ b.p1 &^ b.p2 }
func (b *Board) Knights() uint64 { return ^b.p0 & b.p1 &^ b.p2 }
func (b *Board) Bishops() uint64 { return b.p0 & b.p1 }
func (b *Board) Rooks() uint64   { return ^b.p0 &^ b.p1 & b.p2 }
func (b *Board) Queens() uint64  { return b.p0 & b.p2 }
func (b *Board) Kings() uint64   { return b.p1 & b.p2 }

// Pieces returns the bitboard of both sides' pieces of the given type.
func (b *Board) Pieces(pt PieceType) uint64 {
	switch pt {
	case Pawn:
		return b.Pawns()
	case Knight:
		return b.Knights()
	case Bishop:
		return b.Bishops()
	case Rook:
		return b.Rooks()
	case Queen:
		return b.Queens()
	case King:
		return b.Kings()
	}
	return 0
}

// Bitboards returns the raw planes.
func (b *Board) Bitboards() Bitboards {
	return Bitboards{PM: b.pm, P0: b.p0, P1: b.p1, P2: b.p2}
}

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.stm }

// CastleFlags returns the raw castle byte.
func (b *Board) CastleFlags() uint8 { return b.castle }

// EnPassantFile returns the en passant file, or NoEnPassant.
func (b *Board) EnPassantFile() int { return int(b.ep) }

// PieceTypeAt returns the piece type on a square given in the mover's frame.
func (b *Board) PieceTypeAt(rel Square) PieceType {
	s := uint(rel)
	return PieceType((b.p2>>s)&1<<2 | (b.p1>>s)&1<<1 | (b.p0>>s)&1)
}

// PieceAt returns the piece type and owner on an absolute square.
// Empty squares report (Empty, White).
func (b *Board) PieceAt(sq Square) (PieceType, Color) {
	rel := sq.Abs(b.stm)
	pt := b.PieceTypeAt(rel)
	if pt == Empty {
		return Empty, White
	}
	if b.pm&(1<<uint(rel)) != 0 {
		return pt, b.stm
	}
	return pt, b.stm.Other()
}

// setPiece writes a piece onto an empty square given in the mover's frame.
func (b *Board) setPiece(rel Square, pt PieceType, mine bool) {
	s := uint(rel)
	b.p0 |= uint64(pt&1) << s
	b.p1 |= uint64(pt>>1&1) << s
	b.p2 |= uint64(pt>>2) << s
	if mine {
		b.pm |= 1 << s
	}
}

// CastlingRights renders the rights in FEN order ("KQkq", or "-").
func (b *Board) CastlingRights() string {
	white, black := b.castle&0x0F, b.castle>>4
	if b.stm == Black {
		white, black = black, white
	}
	var out []byte
	if white&castleShortMine != 0 {
		out = append(out, 'K')
	}
	if white&castleLongMine != 0 {
		out = append(out, 'Q')
	}
	if black&castleShortMine != 0 {
		out = append(out, 'k')
	}
	if black&castleLongMine != 0 {
		out = append(out, 'q')
	}
	if len(out) == 0 {
		return "-"
	}
	return string(out)
}

// ==========================
// Perspective flip
// ==========================

// Flip hands the move to the other side: the side-to-move plane is
// recomputed, all planes are byte-reversed, the castle nibbles are swapped
// and the STM marker toggled. Flip is an involution.
func (b *Board) Flip() {
	b.pm ^= b.Occupation()
	b.pm = ReverseBytes(b.pm)
	b.p0 = ReverseBytes(b.p0)
	b.p1 = ReverseBytes(b.p1)
	b.p2 = ReverseBytes(b.p2)
	b.castle = b.castle>>4 | b.castle<<4
	b.stm ^= Black
}

// ==========================
// Consistency
// ==========================

var (
	errPlaneMismatch = errors.New("side-to-move plane has bits on empty squares")
	errBadPieceCode  = errors.New("square holds piece code 7")
	errKingCount     = errors.New("each side needs exactly one king")
	errPawnRank      = errors.New("pawn on first or last rank")
	errEnPassantFile = errors.New("en passant file out of range")
	errCastleRights  = errors.New("castling right without king and rook at home")
	errEnPassant     = errors.New("en passant file without a pawn that just double-pushed")
)

// castleHome lists, per castle flag, the relative squares the king and rook
// must stand on for the right to be meaningful.
var castleHome = [...]struct {
	flag       uint8
	mine       bool
	king, rook Square
}{
	{castleLongMine, true, 4, 0},
	{castleShortMine, true, 4, 7},
	{castleLongTheirs, false, 60, 56},
	{castleShortTheirs, false, 60, 63},
}

// Validate checks the structural invariants of the position.
func (b *Board) Validate() error {
	occ := b.Occupation()
	if b.pm&^occ != 0 {
		return errPlaneMismatch
	}
	if b.p0&b.p1&b.p2 != 0 {
		return errBadPieceCode
	}
	kings := b.Kings()
	if PopCount(kings&b.pm) != 1 || PopCount(kings&^b.pm) != 1 {
		return errKingCount
	}
	if b.Pawns()&(rank1|rank8) != 0 {
		return errPawnRank
	}
	if b.ep > NoEnPassant {
		return errEnPassantFile
	}
	for _, h := range castleHome {
		if b.castle&h.flag == 0 {
			continue
		}
		side := b.pm
		if !h.mine {
			side = b.Opposing()
		}
		if side&kings&(1<<h.king) == 0 || side&b.Rooks()&(1<<h.rook) == 0 {
			return errCastleRights
		}
	}
	if b.ep != NoEnPassant {
		// Relative ranks 7, 6 and 5 of the file: origin and passed square
		// empty, the pushed opponent pawn on rank 5.
		file := uint64(b.ep)
		if occ&(1<<(48+file)|1<<(40+file)) != 0 || b.Opposing()&b.Pawns()&(1<<(32+file)) == 0 {
			return errEnPassant
		}
	}
	return nil
}
