package qbb

// Illegal reports whether playing m would leave the mover's king attacked.
// The occupancy change is simulated locally; the board is not modified.
// Leapers and pawns are tested before the sliding attacks are recomputed.
func (b *Board) Illegal(m Move) bool {
	from := uint64(1) << uint(m.From())
	to := uint64(1) << uint(m.To())
	occ := b.Occupation()
	opp := b.pm ^ occ
	newOcc := (occ ^ from) | to
	newOpp := opp &^ to

	var king uint64
	var ksq int
	if m.Piece() == King {
		king = to
		ksq = int(m.To())
	} else {
		king = b.Kings() & b.pm
		ksq = LSB(king)
		if m.IsEnPassant() {
			newOpp ^= to >> 8
			newOcc ^= to >> 8
		}
	}

	if knightDest[ksq]&b.Knights()&newOpp != 0 {
		return true
	}
	pawnAttackers := (king<<9)&notFileA | (king<<7)&notFileH
	if pawnAttackers&b.Pawns()&newOpp != 0 {
		return true
	}
	if kingDest[ksq]&b.Kings()&newOpp != 0 {
		return true
	}
	if BishopAttacks(ksq, newOcc)&(b.Bishops()|b.Queens())&newOpp != 0 {
		return true
	}
	return RookAttacks(ksq, newOcc)&(b.Rooks()|b.Queens())&newOpp != 0
}

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool {
	king := b.Kings() & b.pm
	ksq := LSB(king)
	occ := b.Occupation()
	opp := b.pm ^ occ
	attackers := knightDest[ksq]&b.Knights() |
		((king<<9)&notFileA|(king<<7)&notFileH)&b.Pawns() |
		kingDest[ksq]&b.Kings() |
		BishopAttacks(ksq, occ)&(b.Bishops()|b.Queens()) |
		RookAttacks(ksq, occ)&(b.Rooks()|b.Queens())
	return attackers&opp != 0
}
