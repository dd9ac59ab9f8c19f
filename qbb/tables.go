package qbb

// Board geometry.
const (
	fileA uint64 = 0x0101010101010101
	fileH uint64 = 0x8080808080808080
	rank1 uint64 = 0x00000000000000FF
	rank4 uint64 = 0x00000000FF000000
	rank7 uint64 = 0x00FF000000000000
	rank8 uint64 = 0xFF00000000000000

	notFileA uint64 = ^fileA
	notFileH uint64 = ^fileH

	diagA1H8 uint64 = 0x8040201008040201
	diagH1A8 uint64 = 0x8102040810204081
)

// Precomputed destinations for the leapers.
var knightDest [64]uint64
var kingDest [64]uint64

// epSource[f] holds the fifth-rank squares adjacent to file f: the pawns that
// can take en passant on f. epAdjacent[f] is the same shape on the fourth
// rank and is tested in MakeMove right after a double push lands on file f.
var epSource [8]uint64
var epAdjacent [8]uint64

func init() {
	initLeaperTables()
	initEnPassantMasks()
}

// initLeaperTables precomputes knight and king destinations from every square.
func initLeaperTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		knightDest[sq] = offsetMask(sq, knightOffsets)
		kingDest[sq] = offsetMask(sq, kingOffsets)
	}
}

func offsetMask(sq int, offsets [8][2]int) uint64 {
	file := sq % 8
	rank := sq / 8
	var mask uint64
	for _, off := range offsets {
		rf := rank + off[0]
		ff := file + off[1]
		if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
			mask |= uint64(1) << uint(rf*8+ff)
		}
	}
	return mask
}

// initEnPassantMasks builds the file-adjacency masks. Edge files only have
// one neighbour.
func initEnPassantMasks() {
	for f := 0; f < 8; f++ {
		var adj uint64
		if f > 0 {
			adj |= uint64(1) << uint(f-1)
		}
		if f < 7 {
			adj |= uint64(1) << uint(f+1)
		}
		epAdjacent[f] = adj << 24
		epSource[f] = adj << 32
	}
}
