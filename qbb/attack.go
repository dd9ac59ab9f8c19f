package qbb

// ==========================
// Sliding attacks
// ==========================
//
// No magic tables: for each ray the nearest blocker is found with LSB/MSB on
// the occupancy padded with edge sentinels, so an empty ray still stops on
// the board edge. From each blocker a full-length line is laid back toward
// the origin, the line pairs are intersected per axis and the origin square
// is removed. The occupancy is supplied by the caller so legality probes can
// pass a hypothetical one.

// RookAttacks returns rook destinations from sq on the given occupancy.
func RookAttacks(sq int, occ uint64) uint64 {
	piece := uint64(1) << uint(sq)
	occ &^= piece
	up := (fileA << uint(sq)) & (occ | rank8)
	down := (fileH >> uint(63-sq)) & (occ | rank1)
	right := (rank1 << uint(sq)) & (occ | fileH)
	left := (rank8 >> uint(63-sq)) & (occ | fileA)
	return ((fileH>>uint(63-LSB(up)))&(fileA<<uint(MSB(down))) |
		(rank8>>uint(63-LSB(right)))&(rank1<<uint(MSB(left)))) ^ piece
}

// BishopAttacks returns bishop destinations from sq on the given occupancy.
func BishopAttacks(sq int, occ uint64) uint64 {
	piece := uint64(1) << uint(sq)
	occ &^= piece
	up := (diagA1H8 << uint(sq)) & (occ | 0xFF80808080808080)
	down := (diagA1H8 >> uint(63-sq)) & (occ | 0x01010101010101FF)
	left := (diagH1A8 << uint(sq)) & (occ | 0xFF01010101010101)
	right := (diagH1A8 >> uint(63-sq)) & (occ | 0x80808080808080FF)
	return ((diagA1H8>>uint(63-LSB(up)))&(diagA1H8<<uint(MSB(down))) |
		(diagH1A8>>uint(63-LSB(left)))&(diagH1A8<<uint(MSB(right)))) ^ piece
}

// QueenAttacks is the union of rook and bishop attacks.
func QueenAttacks(sq int, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns knight destinations from sq.
func KnightAttacks(sq int) uint64 { return knightDest[sq] }

// KingAttacks returns king destinations from sq, castling excluded.
func KingAttacks(sq int) uint64 { return kingDest[sq] }

// Destinations returns the squares a non-pawn piece on sq reaches.
func Destinations(pt PieceType, sq int, occ uint64) uint64 {
	switch pt {
	case Knight:
		return knightDest[sq]
	case Bishop:
		return BishopAttacks(sq, occ)
	case Rook:
		return RookAttacks(sq, occ)
	case Queen:
		return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
	case King:
		return kingDest[sq]
	}
	return 0
}
