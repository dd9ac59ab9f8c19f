package qbb

import (
	"context"
	"fmt"
)

const (
	// MaxPly bounds the history stack and therefore the deepest perft.
	MaxPly = 32
	// MaxMoves is the capacity of each per-ply move buffer.
	MaxMoves = 256

	// Subtrees this shallow run without looking at the context.
	ctxCheckDepth = 4
)

// Search owns the position history and the per-ply move buffers of one
// perft run. It is not safe for concurrent use; give each goroutine its own.
type Search struct {
	ply     int
	history [MaxPly + 1]Board
	moves   [MaxPly][MaxMoves]Move
}

// NewSearch returns a search rooted at a copy of b.
func NewSearch(b Board) *Search {
	s := &Search{}
	s.history[0] = b
	return s
}

// Position returns the current position. The pointer is only valid until
// the next Make or Unmake.
func (s *Search) Position() *Board { return &s.history[s.ply] }

// Ply returns the number of moves made since the root.
func (s *Search) Ply() int { return s.ply }

// Make pushes a copy of the current position onto the history stack and
// applies m to it.
func (s *Search) Make(m Move) {
	if s.ply >= MaxPly {
		panic(fmt.Sprintf("qbb: history overflow at ply %d", s.ply))
	}
	s.history[s.ply+1] = s.history[s.ply]
	s.ply++
	s.history[s.ply].MakeMove(m)
}

// Unmake restores the position saved by the matching Make.
func (s *Search) Unmake() {
	if s.ply == 0 {
		panic("qbb: unmake at root")
	}
	s.ply--
}

func (s *Search) checkDepth(depth int) {
	if s.ply+depth > MaxPly {
		panic(fmt.Sprintf("qbb: depth %d exceeds history capacity (%d plies left)", depth, MaxPly-s.ply))
	}
}

// Perft counts the leaf positions reachable in exactly depth plies.
// Depth 0 counts the current position itself.
func (s *Search) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	s.checkDepth(depth)
	return s.perft(depth)
}

func (s *Search) perft(depth int) uint64 {
	b := &s.history[s.ply]
	moves := b.GenerateCapturesInto(s.moves[s.ply][:0])
	moves = b.GenerateQuietsInto(moves)

	var nodes uint64
	for _, m := range moves {
		if b.Illegal(m) {
			continue
		}
		if depth > 1 {
			s.Make(m)
			nodes += s.perft(depth - 1)
			s.Unmake()
		} else {
			nodes++
		}
	}
	return nodes
}

// PerftContext is Perft for callers that may give up early. ctx is polled
// at every node at least ctxCheckDepth plies above the leaves, so the work
// done after cancellation is bounded by one shallow subtree.
func (s *Search) PerftContext(ctx context.Context, depth int) (uint64, error) {
	if depth <= 0 {
		return 1, nil
	}
	s.checkDepth(depth)
	return s.perftContext(ctx, depth)
}

func (s *Search) perftContext(ctx context.Context, depth int) (uint64, error) {
	if depth < ctxCheckDepth {
		return s.perft(depth), nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b := &s.history[s.ply]
	moves := b.GenerateCapturesInto(s.moves[s.ply][:0])
	moves = b.GenerateQuietsInto(moves)

	var nodes uint64
	for _, m := range moves {
		if b.Illegal(m) {
			continue
		}
		s.Make(m)
		n, err := s.perftContext(ctx, depth-1)
		s.Unmake()
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}

// RootCount is one line of divide output.
type RootCount struct {
	Move     Move
	Notation string
	Nodes    uint64
}

// Divide runs perft below every legal root move and returns the per-move
// counts in generation order together with their sum.
func (s *Search) Divide(depth int) ([]RootCount, uint64) {
	if depth <= 0 {
		return nil, 1
	}
	s.checkDepth(depth)

	b := &s.history[s.ply]
	stm := b.stm
	moves := b.GenerateCapturesInto(s.moves[s.ply][:0])
	moves = b.GenerateQuietsInto(moves)

	var rows []RootCount
	var total uint64
	for _, m := range moves {
		if b.Illegal(m) {
			continue
		}
		nodes := uint64(1)
		if depth > 1 {
			s.Make(m)
			nodes = s.perft(depth - 1)
			s.Unmake()
		}
		rows = append(rows, RootCount{Move: m, Notation: m.UCI(stm), Nodes: nodes})
		total += nodes
	}
	return rows, total
}

// Perft counts leaf nodes from b at the given depth. b is not modified.
func Perft(b *Board, depth int) uint64 {
	return NewSearch(*b).Perft(depth)
}

// PerftDivide returns per-root-move leaf counts from b and their total.
func PerftDivide(b *Board, depth int) ([]RootCount, uint64) {
	return NewSearch(*b).Divide(depth)
}
