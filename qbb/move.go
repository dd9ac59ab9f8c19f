package qbb

import "fmt"

// Square is a board index 0-63 (a1=0, h8=63). Inside the generator squares
// are relative to the side to move; Abs converts between the two frames.
type Square int

const NoSquare Square = -1

// Abs translates a square between the mover's frame and absolute
// coordinates. The transform is its own inverse.
func (sq Square) Abs(stm Color) Square {
	if stm == Black {
		return sq ^ 0x38
	}
	return sq
}

func (sq Square) File() int { return int(sq) & 7 }
func (sq Square) Rank() int { return int(sq) >> 3 }

func (sq Square) String() string {
	if sq < 0 || sq > 63 {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// ParseSquare converts "e4" style coordinates into an absolute square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return Square(int(s[0]-'a') + int(s[1]-'1')*8), nil
}

// Move packs {MoveType, From, To, Promotion} into one byte each, from the
// least significant byte up. MoveType holds the moving piece code in its low
// three bits and the flags below above them.
type Move uint32

// Move type flags.
const (
	FlagCapture uint8 = 0x08
	FlagEP      uint8 = 0x10
	FlagPromo   uint8 = 0x20
	FlagCastle  uint8 = 0x40
)

// Bitfield layout within Move.
const (
	moveTypeShift  = 0
	moveFromShift  = 8
	moveToShift    = 16
	movePromoShift = 24
)

// NewMove constructs a Move from its fields. Squares are in the mover's frame.
func NewMove(moveType uint8, from, to Square, promo PieceType) Move {
	return Move(uint32(moveType)<<moveTypeShift |
		uint32(from&0x3F)<<moveFromShift |
		uint32(to&0x3F)<<moveToShift |
		uint32(promo&0x7)<<movePromoShift)
}

// Type returns the raw move type byte (piece code plus flags).
func (m Move) Type() uint8 { return uint8(m >> moveTypeShift) }

// Piece returns the moving piece type.
func (m Move) Piece() PieceType { return PieceType(m.Type() & 0x07) }

// From returns the origin square in the mover's frame.
func (m Move) From() Square { return Square(uint8(m >> moveFromShift)) }

// To returns the destination square in the mover's frame.
func (m Move) To() Square { return Square(uint8(m >> moveToShift)) }

// Promotion returns the promoted piece type; only meaningful with FlagPromo.
func (m Move) Promotion() PieceType { return PieceType(uint8(m>>movePromoShift) & 0x7) }

func (m Move) IsCapture() bool   { return m.Type()&FlagCapture != 0 }
func (m Move) IsEnPassant() bool { return m.Type()&FlagEP != 0 }
func (m Move) IsPromotion() bool { return m.Type()&FlagPromo != 0 }
func (m Move) IsCastle() bool    { return m.Type()&FlagCastle != 0 }

// Indexed by the full 3-bit promotion field.
var promoSuffix = [8]string{"", "", "n", "b", "r", "q", "", ""}

// UCI renders the move in long algebraic notation for a position where stm
// is to move, e.g. "e7e8q".
func (m Move) UCI(stm Color) string {
	s := m.From().Abs(stm).String() + m.To().Abs(stm).String()
	if m.IsPromotion() {
		s += promoSuffix[m.Promotion()]
	}
	return s
}

// String renders the move in the mover's frame. Use UCI for absolute output.
func (m Move) String() string { return m.UCI(White) }
