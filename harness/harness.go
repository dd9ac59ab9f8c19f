// Package harness runs batches of perft checks: each case is a position, a
// depth and the node count it must produce.
package harness

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"qbbperft/qbb"
)

// Case is one perft check.
type Case struct {
	Name     string `json:"name"`
	FEN      string `json:"fen"`
	Depth    int    `json:"depth"`
	Expected uint64 `json:"expected"`
}

// DefaultSuite returns the six standard reference positions.
func DefaultSuite() []Case {
	return []Case{
		{"initial", qbb.FENStartPos, 6, 119060324},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 5, 193690690},
		{"pos3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 7, 178633661},
		{"pos4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 6, 706045033},
		{"pos5", "rnbqkb1r/pp1p1ppp/2p5/4P3/2B5/8/PPP1NnPP/RNBQK2R w KQkq - 0 6", 3, 53392},
		{"pos6", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", 5, 164075551},
	}
}

// QuickSuite is DefaultSuite at shallow depths, for smoke tests.
func QuickSuite() []Case {
	return []Case{
		{"initial", qbb.FENStartPos, 4, 197281},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862},
		{"pos3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
		{"pos4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9467},
		{"pos5", "rnbqkb1r/pp1p1ppp/2p5/4P3/2B5/8/PPP1NnPP/RNBQK2R w KQkq - 0 6", 3, 53392},
		{"pos6", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", 3, 89890},
	}
}

// Result is the outcome of one case.
type Result struct {
	Case
	Nodes   uint64        `json:"nodes"`
	Elapsed time.Duration `json:"elapsed"`
	Pass    bool          `json:"pass"`
	Err     error         `json:"-"`
}

// KNPS is the throughput in thousands of nodes per second.
func (r Result) KNPS() float64 { return knps(r.Nodes, r.Elapsed) }

// Summary aggregates a run.
type Summary struct {
	Cases   int           `json:"cases"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
	Nodes   uint64        `json:"nodes"`
	Elapsed time.Duration `json:"elapsed"`
}

func (s Summary) KNPS() float64 { return knps(s.Nodes, s.Elapsed) }

func knps(nodes uint64, elapsed time.Duration) float64 {
	ms := elapsed.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return float64(nodes) / float64(ms)
}

// Options tunes Run.
type Options struct {
	// Workers > 1 splits each position's root moves across goroutines.
	Workers int
	// Progress, if set, is called after every case.
	Progress func(Result)
}

// Run executes every case in order. A failing or unparsable case is
// recorded and the run continues. Cancelling ctx stops after the current
// root move (parallel) or case (serial); unfinished cases are not reported.
func Run(ctx context.Context, cases []Case, opts Options) ([]Result, Summary) {
	var results []Result
	var sum Summary
	for _, c := range cases {
		if ctx.Err() != nil {
			break
		}
		res := runCase(ctx, c, opts.Workers)
		if res.Err != nil && ctx.Err() != nil {
			break
		}
		results = append(results, res)
		sum.Cases++
		if res.Pass {
			sum.Passed++
		} else {
			sum.Failed++
		}
		sum.Nodes += res.Nodes
		sum.Elapsed += res.Elapsed
		if opts.Progress != nil {
			opts.Progress(res)
		}
	}
	return results, sum
}

func runCase(ctx context.Context, c Case, workers int) Result {
	res := Result{Case: c}
	board, err := qbb.ParseFEN(c.FEN)
	if err != nil {
		res.Err = err
		return res
	}
	if c.Depth > qbb.MaxPly {
		res.Err = fmt.Errorf("depth %d exceeds %d", c.Depth, qbb.MaxPly)
		return res
	}

	start := time.Now()
	if workers > 1 {
		res.Nodes, res.Err = ParallelPerft(ctx, board, c.Depth, workers)
	} else {
		res.Nodes = qbb.Perft(board, c.Depth)
	}
	res.Elapsed = time.Since(start)
	res.Pass = res.Err == nil && res.Nodes == c.Expected
	return res
}

// ParallelPerft is qbb.Perft with the root moves spread over workers
// goroutines, each running its own search on a copy of the position.
func ParallelPerft(ctx context.Context, b *qbb.Board, depth, workers int) (uint64, error) {
	_, total, err := ParallelDivide(ctx, b, depth, workers)
	return total, err
}

// ParallelDivide is qbb.PerftDivide run in parallel. Rows keep generation
// order. workers <= 0 means GOMAXPROCS.
func ParallelDivide(ctx context.Context, b *qbb.Board, depth, workers int) ([]qbb.RootCount, uint64, error) {
	if depth <= 0 {
		return nil, 1, nil
	}
	if depth > qbb.MaxPly {
		return nil, 0, fmt.Errorf("depth %d exceeds %d", depth, qbb.MaxPly)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	stm := b.SideToMove()
	moves := b.GenerateLegalMoves()
	rows := make([]qbb.RootCount, len(moves))
	var total atomic.Uint64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range moves {
		rows[i] = qbb.RootCount{Move: m, Notation: m.UCI(stm), Nodes: 1}
		if depth == 1 {
			total.Add(1)
			continue
		}
		child := *b
		child.MakeMove(m)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := qbb.NewSearch(child).PerftContext(ctx, depth-1)
			if err != nil {
				return err
			}
			rows[i].Nodes = n
			total.Add(n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return rows, total.Load(), nil
}
