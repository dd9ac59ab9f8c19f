// Package reference cross-checks the qbb move generator against independent
// chess libraries by comparing divide output move by move.
package reference

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Oliverans/GooseEngineMG/goosemg"
	"github.com/corentings/chess/v2"
	"github.com/dylhunn/dragontoothmg"

	"qbbperft/qbb"
)

var (
	ErrUnsupportedDepth = errors.New("depth not supported by oracle")
	ErrUnknownOracle    = errors.New("unknown oracle")
)

// Oracle is an independent move generator able to produce divide counts:
// leaf nodes below every legal root move, keyed by long algebraic notation.
type Oracle interface {
	Name() string
	Divide(fen string, depth int) (map[string]uint64, error)
}

// Oracles returns every available oracle, deepest-capable first.
func Oracles() []Oracle {
	return []Oracle{Dragontooth{}, Goose{}, Corentings{}}
}

// ByName looks an oracle up by its Name.
func ByName(name string) (Oracle, error) {
	for _, o := range Oracles() {
		if strings.EqualFold(o.Name(), name) {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOracle, name)
}

// Ours produces divide counts from the qbb engine in the same shape the
// oracles use.
func Ours(b *qbb.Board, depth int) map[string]uint64 {
	rows, _ := qbb.PerftDivide(b, depth)
	out := make(map[string]uint64, len(rows))
	for _, r := range rows {
		out[r.Notation] = r.Nodes
	}
	return out
}

// ==========================
// dragontoothmg
// ==========================

// Dragontooth wraps github.com/dylhunn/dragontoothmg.
type Dragontooth struct{}

func (Dragontooth) Name() string { return "dragontoothmg" }

func (Dragontooth) Divide(fen string, depth int) (out map[string]uint64, err error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDepth, depth)
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("dragontoothmg: %v", r)
		}
	}()
	board := dragontoothmg.ParseFen(fen)
	out = make(map[string]uint64)
	for _, m := range board.GenerateLegalMoves() {
		undo := board.Apply(m)
		out[strings.ToLower(m.String())] = dragontoothPerft(&board, depth-1)
		undo()
	}
	return out, nil
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += dragontoothPerft(b, depth-1)
		undo()
	}
	return nodes
}

// ==========================
// GooseEngineMG
// ==========================

// Goose wraps the goosemg generator from github.com/Oliverans/GooseEngineMG.
type Goose struct{}

func (Goose) Name() string { return "goosemg" }

func (Goose) Divide(fen string, depth int) (map[string]uint64, error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDepth, depth)
	}
	board, err := goosemg.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("goosemg: %w", err)
	}
	div := goosemg.PerftDivide(board, depth)
	out := make(map[string]uint64, len(div))
	for m, n := range div {
		out[strings.ToLower(m.String())] = n
	}
	return out, nil
}

// ==========================
// corentings/chess
// ==========================

// Corentings wraps github.com/corentings/chess/v2. It only lists root moves,
// so it answers depth 1 only.
type Corentings struct{}

func (Corentings) Name() string { return "corentings" }

func (Corentings) Divide(fen string, depth int) (map[string]uint64, error) {
	if depth != 1 {
		return nil, fmt.Errorf("%w: %s answers depth 1 only, got %d", ErrUnsupportedDepth, "corentings", depth)
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("corentings: %w", err)
	}
	game := chess.NewGame(opt)
	out := make(map[string]uint64)
	for _, m := range game.ValidMoves() {
		out[m.String()] = 1
	}
	return out, nil
}
