package qbb

// Pawn shift masks. Captures to the right land off the a-file, captures to
// the left off the h-file; the non-promotion variants also stop short of
// the last rank, which the promotion pass covers.
const (
	pawnRightMask       uint64 = 0x00FEFEFEFEFEFEFE
	pawnLeftMask        uint64 = 0x007F7F7F7F7F7F7F
	promoRightMask      uint64 = 0xFE00000000000000
	promoLeftMask       uint64 = 0x7F00000000000000
	notLastRank         uint64 = 0x00FFFFFFFFFFFFFF
	longCastleBetween   uint64 = 0x000000000000000E
	shortCastleBetween  uint64 = 0x0000000000000060
	longCastleRookMask  uint64 = 0x0000000000000009
	shortCastleRookMask uint64 = 0x00000000000000A0

	epTargetRank = 40
)

// promotionOrder is the order in which promotion pieces are emitted.
var promotionOrder = [4]PieceType{Queen, Rook, Bishop, Knight}

// ==========================
// Captures
// ==========================

// GenerateCapturesInto appends the pseudo-legal captures, promotions and en
// passant captures of the side to move to dst and returns it.
func (b *Board) GenerateCapturesInto(dst []Move) []Move {
	moves := dst
	occ := b.Occupation()
	opp := b.pm ^ occ

	for pt := King; pt >= Knight; pt-- {
		for pieces := b.Pieces(pt) & b.pm; pieces != 0; pieces = ClearLSB(pieces) {
			from := LSB(pieces)
			for dest := opp & Destinations(pt, from, occ); dest != 0; dest = ClearLSB(dest) {
				moves = append(moves, NewMove(uint8(pt)|FlagCapture, Square(from), Square(LSB(dest)), Empty))
			}
		}
	}

	pawns := b.Pawns() & b.pm
	for caps := (pawns << 9) & pawnRightMask & opp; caps != 0; caps = ClearLSB(caps) {
		to := LSB(caps)
		moves = append(moves, NewMove(uint8(Pawn)|FlagCapture, Square(to-9), Square(to), Empty))
	}
	for caps := (pawns << 7) & pawnLeftMask & opp; caps != 0; caps = ClearLSB(caps) {
		to := LSB(caps)
		moves = append(moves, NewMove(uint8(Pawn)|FlagCapture, Square(to-7), Square(to), Empty))
	}

	if pawns&rank7 != 0 {
		moves = appendPromotions(moves, (pawns<<9)&promoRightMask&opp, 9, FlagCapture)
		moves = appendPromotions(moves, (pawns<<7)&promoLeftMask&opp, 7, FlagCapture)
		moves = appendPromotions(moves, (pawns<<8)&^occ&rank8, 8, 0)
	}

	if b.ep != NoEnPassant {
		to := Square(epTargetRank + int(b.ep))
		for src := pawns & epSource[b.ep]; src != 0; src = ClearLSB(src) {
			moves = append(moves, NewMove(uint8(Pawn)|FlagEP|FlagCapture, Square(LSB(src)), to, Empty))
		}
	}
	return moves
}

// appendPromotions emits four moves per destination, queen first.
func appendPromotions(moves []Move, targets uint64, delta int, flags uint8) []Move {
	for ; targets != 0; targets = ClearLSB(targets) {
		to := LSB(targets)
		for _, pt := range promotionOrder {
			moves = append(moves, NewMove(uint8(Pawn)|FlagPromo|flags, Square(to-delta), Square(to), pt))
		}
	}
	return moves
}

// ==========================
// Quiet moves
// ==========================

// GenerateQuietsInto appends the pseudo-legal non-capturing moves of the
// side to move to dst and returns it. Quiet promotions are produced by the
// capture pass.
func (b *Board) GenerateQuietsInto(dst []Move) []Move {
	moves := dst
	occ := b.Occupation()
	opp := b.pm ^ occ

	for pt := King; pt >= Knight; pt-- {
		for pieces := b.Pieces(pt) & b.pm; pieces != 0; pieces = ClearLSB(pieces) {
			from := LSB(pieces)
			for dest := ^occ & Destinations(pt, from, occ); dest != 0; dest = ClearLSB(dest) {
				moves = append(moves, NewMove(uint8(pt), Square(from), Square(LSB(dest)), Empty))
			}
		}
	}

	push1 := ((b.Pawns() & b.pm) << 8) &^ occ & notLastRank
	for pushes := push1; pushes != 0; pushes = ClearLSB(pushes) {
		to := LSB(pushes)
		moves = append(moves, NewMove(uint8(Pawn), Square(to-8), Square(to), Empty))
	}
	for pushes := (push1 << 8) &^ occ & rank4; pushes != 0; pushes = ClearLSB(pushes) {
		to := LSB(pushes)
		moves = append(moves, NewMove(uint8(Pawn), Square(to-16), Square(to), Empty))
	}

	if b.castle&castleLongMine != 0 && occ&longCastleBetween == 0 && !b.longCastleAttacked(occ, opp) {
		moves = append(moves, NewMove(uint8(King)|FlagCastle, 4, 2, Empty))
	}
	if b.castle&castleShortMine != 0 && occ&shortCastleBetween == 0 && !b.shortCastleAttacked(occ, opp) {
		moves = append(moves, NewMove(uint8(King)|FlagCastle, 4, 6, Empty))
	}
	return moves
}

// longCastleAttacked reports whether any of e1, d1, c1 is attacked. Each
// ray toward the three squares contributes its nearest piece; leapers are
// matched against fixed masks.
func (b *Board) longCastleAttacked(occ, opp uint64) bool {
	roo := ExtractLSB(0x1010101010101000 & occ) // e-file
	roo |= ExtractLSB(0x0808080808080800 & occ) // d-file
	roo |= ExtractLSB(0x0404040404040400 & occ) // c-file
	roo |= ExtractLSB(0x00000000000000E0 & occ) // first rank, right of e1
	bis := ExtractLSB(0x0000000102040800 & occ) // anti-diagonal from e1
	bis |= ExtractLSB(0x0000000001020400 & occ) // anti-diagonal from d1
	bis |= ExtractLSB(0x0000000000010200 & occ) // anti-diagonal from c1
	bis |= ExtractLSB(0x0000000080402000 & occ) // diagonal from e1
	bis |= ExtractLSB(0x0000008040201000 & occ) // diagonal from d1
	bis |= ExtractLSB(0x0000804020100800 & occ) // diagonal from c1
	attackers := roo&(b.Rooks()|b.Queens()) |
		bis&(b.Bishops()|b.Queens()) |
		0x00000000003E7700&b.Knights() |
		0x0000000000003E00&b.Pawns() |
		0x0000000000000600&b.Kings()
	return attackers&opp != 0
}

// shortCastleAttacked reports whether any of e1, f1, g1 is attacked.
func (b *Board) shortCastleAttacked(occ, opp uint64) bool {
	roo := ExtractLSB(0x1010101010101000 & occ)     // e-file
	roo |= ExtractLSB(0x2020202020202000 & occ)     // f-file
	roo |= ExtractLSB(0x4040404040404000 & occ)     // g-file
	roo |= uint64(1) << uint(MSB(0x0F&(occ|0x01))) // first rank, left of e1
	bis := ExtractLSB(0x0000000102040800 & occ)     // anti-diagonal from e1
	bis |= ExtractLSB(0x0000010204081000 & occ)     // anti-diagonal from f1
	bis |= ExtractLSB(0x0001020408102000 & occ)     // anti-diagonal from g1
	bis |= ExtractLSB(0x0000000080402000 & occ)     // diagonal from e1
	bis |= ExtractLSB(0x0000000000804000 & occ)     // diagonal from f1
	bis |= 0x0000000000008000                       // diagonal from g1
	attackers := roo&(b.Rooks()|b.Queens()) |
		bis&(b.Bishops()|b.Queens()) |
		0x0000000000F8DC00&b.Knights() |
		0x000000000000F800&b.Pawns() |
		0x0000000000004000&b.Kings()
	return attackers&opp != 0
}

// ==========================
// Convenience wrappers
// ==========================

// GenerateCaptures returns a newly allocated slice of pseudo-legal captures.
func (b *Board) GenerateCaptures() []Move { return b.GenerateCapturesInto(make([]Move, 0, 64)) }

// GenerateQuiets returns a newly allocated slice of pseudo-legal quiet moves.
func (b *Board) GenerateQuiets() []Move { return b.GenerateQuietsInto(make([]Move, 0, MaxMoves)) }

// GeneratePseudoMoves returns captures followed by quiet moves, unfiltered.
func (b *Board) GeneratePseudoMoves() []Move {
	moves := b.GenerateCapturesInto(make([]Move, 0, MaxMoves))
	return b.GenerateQuietsInto(moves)
}

// GenerateLegalMoves returns every move that passes the king-safety filter.
// It allocates; the search uses the Into variants with per-ply buffers.
func (b *Board) GenerateLegalMoves() []Move {
	pseudo := b.GeneratePseudoMoves()
	legal := pseudo[:0]
	for _, m := range pseudo {
		if !b.Illegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}
