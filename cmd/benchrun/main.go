package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"qbbperft/harness"
)

// goCmd runs a go subcommand with output passed through and returns its exit code.
func goCmd(args ...string) int {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.ExitCode()
	default:
		fmt.Fprintf(os.Stderr, "go %s: %v\n", args[0], err)
		return 1
	}
}

func perftLine(label, fen string, depth int, extra ...string) int {
	args := []string{"run", "./cmd/perft", "-depth", strconv.Itoa(depth), "-label", label}
	if fen != "" {
		args = append(args, "-fen", fen)
	}
	return goCmd(append(args, extra...)...)
}

// Usage: go run ./cmd/benchrun
func main() {
	fmt.Println("Columns: BENCHMARK  N  ns/op  B/op  allocs/op  nodes/s")
	if code := goCmd("test", "./qbb", "-run", "^$", "-bench", ".", "-benchmem", "-benchtime=1s"); code != 0 {
		os.Exit(code)
	}

	fmt.Println("\nPerft Performance:")
	fmt.Println("TEST \t\tDepth \t\tNodes \t\tTime \tNPS")
	failed := 0
	for depth := 3; depth <= 6; depth++ {
		if perftLine("Initial", "", depth) != 0 {
			failed++
		}
	}
	if perftLine("Initial/par", "", 6, "-parallel", "0") != 0 {
		failed++
	}
	// One ply deeper than the quick suite.
	for _, c := range harness.QuickSuite()[1:] {
		if perftLine(c.Name, c.FEN, c.Depth+1) != 0 {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d perft runs failed\n", failed)
		os.Exit(1)
	}
}
