package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"qbbperft/harness"
	"qbbperft/qbb"
	"qbbperft/reference"
)

func main() {
	fen := flag.String("fen", qbb.FENStartPos, "FEN string (defaults to initial position)")
	moves := flag.String("moves", "", "Space separated moves to play from the FEN before counting")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	verify := flag.String("verify", "", "Cross-check divide output against an oracle (dragontoothmg, goosemg, corentings)")
	parallel := flag.Int("parallel", 1, "Split root moves over N goroutines (0 = GOMAXPROCS)")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	memProf := flag.String("memprofile", "", "Write heap profile to file after run")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}
	if *depth > qbb.MaxPly {
		fmt.Fprintf(os.Stderr, "-depth must be <= %d\n", qbb.MaxPly)
		os.Exit(2)
	}

	board, err := qbb.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}
	if err := board.ApplyMoves(strings.Fields(*moves)...); err != nil {
		fmt.Fprintf(os.Stderr, "moves: %v\n", err)
		os.Exit(2)
	}

	if *verify != "" {
		os.Exit(runVerify(board, *depth, *verify))
	}

	if *divide {
		rows, total := qbb.PerftDivide(board, *depth)
		slices.SortFunc(rows, func(a, b qbb.RootCount) int { return strings.Compare(a.Notation, b.Notation) })
		for _, r := range rows {
			fmt.Printf("%s: %d\n", r.Notation, r.Nodes)
		}
		fmt.Printf("Total: %d\n", total)
		return
	}

	if *cpuProf != "" {
		stop, err := startCPUProfile(*cpuProf)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		defer stop()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		if *parallel == 1 {
			totalNodes += qbb.Perft(board, *depth)
			continue
		}
		n, err := harness.ParallelPerft(context.Background(), board, *depth, *parallel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parallel perft: %v\n", err)
			os.Exit(1)
		}
		totalNodes += n
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Label Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)

	if *memProf != "" {
		if err := writeHeapProfile(*memProf); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
}

// runVerify prints the comparison with the named oracle and, on a mismatch,
// the smallest subtree where the two disagree. It returns the exit code.
func runVerify(board *qbb.Board, depth int, name string) int {
	oracle, err := reference.ByName(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	rep, err := reference.Verify(board, depth, oracle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", oracle.Name(), err)
		return 2
	}
	fmt.Printf("%s depth %d: %s\n", oracle.Name(), depth, rep)
	if rep.OK() {
		return 0
	}

	d, err := reference.Localize(context.Background(), board, depth, oracle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "localize: %v\n", err)
		return 1
	}
	if d.Found {
		fmt.Printf("first divergence after [%s]\n  fen:   %s\n  depth: %d\n  %s\n",
			strings.Join(d.Path, " "), d.FEN, d.Depth, d.Report)
	}
	return 1
}

func startCPUProfile(path string) (stop func(), err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cpuprofile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("cpuprofile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("memprofile: %w", err)
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("memprofile: %w", err)
	}
	return nil
}
