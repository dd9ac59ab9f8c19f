package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"qbbperft/server"
)

func main() {
	def := server.DefaultConfig()
	var port uint
	flag.UintVar(&port, "port", 8080, "Port to listen on")
	maxDepth := flag.Int("max-depth", def.MaxDepth, "Largest depth a request may ask for")
	cacheSize := flag.Int("cache", def.CacheSize, "Number of divide results to cache (0 disables)")
	workers := flag.Int("workers", def.Workers, "Goroutines per request")
	quiet := flag.Bool("quiet", false, "Disable the access log")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()
	if port == 0 || port > 65535 {
		fmt.Println("Invalid port number")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	cfg := server.Config{
		Addr:      fmt.Sprintf(":%d", port),
		MaxDepth:  *maxDepth,
		CacheSize: *cacheSize,
		Workers:   *workers,
		Logger:    slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
	if !*quiet {
		cfg.AccessLog = os.Stdout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg).ListenAndServe(ctx); err != nil {
		cfg.Logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
