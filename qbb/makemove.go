package qbb

// Home corners in the mover's frame.
const (
	cornerLongMine    Square = 0
	cornerShortMine   Square = 7
	cornerLongTheirs  Square = 56
	cornerShortTheirs Square = 63
)

// MakeMove applies a pseudo-legal move in place and hands the turn to the
// opponent. There is no undo information: callers that need to go back keep
// a copy of the board (see Search.Make).
func (b *Board) MakeMove(m Move) {
	from := uint64(1) << uint(m.From())
	to := uint64(1) << uint(m.To())
	part := from | to

	switch m.Piece() {
	case Pawn:
		if m.IsEnPassant() {
			b.pm ^= part
			b.p0 ^= part
			b.p0 ^= to >> 8 // the captured pawn sits one rank behind
			b.ep = NoEnPassant
			break
		}
		if m.IsCapture() {
			b.clearSquare(to)
		}
		if m.IsPromotion() {
			promo := uint64(m.Promotion())
			b.pm ^= part
			b.p0 ^= from
			b.p0 |= (promo & 1) << uint(m.To())
			b.p1 |= (promo >> 1 & 1) << uint(m.To())
			b.p2 |= (promo >> 2) << uint(m.To())
			b.ep = NoEnPassant
		} else {
			b.pm ^= part
			b.p0 ^= part
			b.ep = NoEnPassant
			if m.To() == m.From()+16 {
				file := m.To().File()
				if epAdjacent[file]&b.Pawns()&(b.pm^b.Occupation()) != 0 {
					b.ep = uint8(file)
				}
			}
		}
		if m.IsCapture() {
			b.clearTheirCastle(m.To())
		}

	case Knight, Bishop, Rook, Queen:
		if m.IsCapture() {
			b.clearSquare(to)
		}
		code := m.Type()
		b.pm ^= part
		if code&1 != 0 {
			b.p0 ^= part
		}
		if code&2 != 0 {
			b.p1 ^= part
		}
		if code&4 != 0 {
			b.p2 ^= part
		}
		b.ep = NoEnPassant
		if m.Piece() == Rook {
			switch m.From() {
			case cornerShortMine:
				b.castle &^= castleShortMine
			case cornerLongMine:
				b.castle &^= castleLongMine
			}
		}
		if m.IsCapture() {
			b.clearTheirCastle(m.To())
		}

	case King:
		if m.IsCapture() {
			b.clearSquare(to)
		}
		b.pm ^= part
		b.p1 ^= part
		b.p2 ^= part
		b.castle &^= castleShortMine | castleLongMine
		b.ep = NoEnPassant
		if m.IsCapture() {
			b.clearTheirCastle(m.To())
		} else if m.IsCastle() {
			rook := longCastleRookMask
			if m.To() == 6 {
				rook = shortCastleRookMask
			}
			b.pm ^= rook
			b.p2 ^= rook
		}
	}

	b.Flip()
}

// clearSquare empties a square on all three type planes. The side-to-move
// plane is left alone; captured pieces are never the mover's.
func (b *Board) clearSquare(mask uint64) {
	b.p0 &^= mask
	b.p1 &^= mask
	b.p2 &^= mask
}

// clearTheirCastle drops the opponent's right tied to a captured corner rook.
func (b *Board) clearTheirCastle(to Square) {
	switch to {
	case cornerShortTheirs:
		b.castle &^= castleShortTheirs
	case cornerLongTheirs:
		b.castle &^= castleLongTheirs
	}
}
