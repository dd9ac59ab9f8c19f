package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strings"

	"qbbperft/harness"
)

func main() {
	// --- Flags ---
	quick := flag.Bool("quick", false, "run the shallow suite instead of the full reference depths")
	only := flag.String("only", "", "comma separated case names to run (empty = all)")
	parallel := flag.Int("parallel", 1, "split root moves over N goroutines (0 = GOMAXPROCS)")
	jsonOut := flag.Bool("json", false, "print results as JSON instead of a table")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	cases := harness.DefaultSuite()
	if *quick {
		cases = harness.QuickSuite()
	}
	if *only != "" {
		cases = filterCases(cases, strings.Split(*only, ","))
		if len(cases) == 0 {
			log.Fatalf("no case matches %q", *only)
		}
	}

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := harness.Options{Workers: *parallel}
	if !*jsonOut {
		fmt.Printf("perftsuite: %d positions, parallel=%d\n\n", len(cases), *parallel)
		opts.Progress = func(r harness.Result) {
			status := "ok"
			if !r.Pass {
				status = "FAIL"
			}
			if r.Err != nil {
				fmt.Printf("%-10s error: %v\n", r.Name, r.Err)
				return
			}
			fmt.Printf("%-10s depth %d  Expected: %d Computed: %d  %s\n", r.Name, r.Depth, r.Expected, r.Nodes, status)
			fmt.Printf("%-10s %d ms, %.0fK NPS\n", "", r.Elapsed.Milliseconds(), r.KNPS())
		}
	}

	results, sum := harness.Run(ctx, cases, opts)

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Results []harness.Result `json:"results"`
			Summary harness.Summary  `json:"summary"`
		}{results, sum}); err != nil {
			log.Fatalf("encode results: %v", err)
		}
	} else {
		fmt.Printf("\nTotal: %d Nodes, %d ms, %.0fK NPS, %d/%d passed\n",
			sum.Nodes, sum.Elapsed.Milliseconds(), sum.KNPS(), sum.Passed, sum.Cases)
	}

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}

	if sum.Failed > 0 || sum.Cases < len(cases) {
		// deferred profile writers are skipped by os.Exit
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func filterCases(cases []harness.Case, names []string) []harness.Case {
	var out []harness.Case
	for _, c := range cases {
		for _, n := range names {
			if strings.EqualFold(strings.TrimSpace(n), c.Name) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
