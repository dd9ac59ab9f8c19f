package qbb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrInvalidFEN  = errors.New("invalid FEN")
	ErrIllegalMove = errors.New("illegal move")
)

var pieceFromChar = map[byte]PieceType{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

var charFromPiece = [7]byte{'?', 'p', 'n', 'b', 'r', 'q', 'k'}

// ParseFEN parses a FEN string into a board stored from the side to move's
// point of view. The move counters may be omitted; they are not tracked.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: expected 4 to 6 fields, got %d", ErrInvalidFEN, len(fields))
	}
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 5:
		fields = append(fields, "1")
	}

	b := &Board{ep: NoEnPassant, stm: White}

	// 1. Piece placement, white's frame
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			lower := ch | 0x20
			pt, ok := pieceFromChar[lower]
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			if file >= 8 {
				return nil, fmt.Errorf("%w: rank %d too long", ErrInvalidFEN, rank+1)
			}
			b.setPiece(Square(rank*8+file), pt, ch != lower)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}

	// 2. Side to move
	var stm Color
	switch fields[1] {
	case "w":
		stm = White
	case "b":
		stm = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	// 3. Castling rights, white's rights in the low nibble until the flip
	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				b.castle |= castleShortMine
			case 'Q':
				b.castle |= castleLongMine
			case 'k':
				b.castle |= castleShortTheirs
			case 'q':
				b.castle |= castleLongTheirs
			default:
				return nil, fmt.Errorf("%w: castling rights %q", ErrInvalidFEN, fields[2])
			}
		}
	}

	// 4. En passant; only the file is kept
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
		}
		b.ep = uint8(sq.File())
	}

	if stm == Black {
		b.Flip()
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}

	// The remaining field syntax (counters, duplicate rights, en passant
	// rank) is checked against a second parser once both kings are known
	// to be present.
	if _, err := chess.FEN(strings.Join(fields, " ")); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return b, nil
}

// MustParseFEN is ParseFEN for constant inputs; it panics on error.
func MustParseFEN(fen string) *Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return b
}

// ToFEN renders the position in absolute FEN. Move counters are not kept
// and are always written as "0 1".
func (b *Board) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pt, color := b.PieceAt(Square(rank*8 + file))
			if pt == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			ch := charFromPiece[pt]
			if color == White {
				ch &^= 0x20
			}
			sb.WriteByte(ch)
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.stm == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(b.CastlingRights())
	sb.WriteByte(' ')

	if b.ep == NoEnPassant {
		sb.WriteByte('-')
	} else {
		sb.WriteByte('a' + b.ep)
		if b.stm == White {
			sb.WriteByte('6')
		} else {
			sb.WriteByte('3')
		}
	}
	sb.WriteString(" 0 1")
	return sb.String()
}

// FindMove resolves a long algebraic move ("e2e4", "a7a8q") against the
// legal moves of the position.
func (b *Board) FindMove(uci string) (Move, error) {
	want := strings.ToLower(strings.TrimSpace(uci))
	for _, m := range b.GenerateLegalMoves() {
		if m.UCI(b.stm) == want {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q in %s", ErrIllegalMove, uci, b.ToFEN())
}

// ApplyMoves plays a sequence of long algebraic moves. On error the board
// holds the position reached before the offending move.
func (b *Board) ApplyMoves(uci ...string) error {
	for i, s := range uci {
		m, err := b.FindMove(s)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		b.MakeMove(m)
	}
	return nil
}
