// Package server exposes perft, divide and cross-check runs over HTTP and a
// WebSocket that streams divide rows as they are computed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"qbbperft/harness"
	"qbbperft/qbb"
	"qbbperft/reference"
)

// ErrDepth is returned for a missing, malformed or out-of-range depth.
var ErrDepth = errors.New("depth out of range")

// Config holds the server settings.
type Config struct {
	Addr      string
	MaxDepth  int // largest depth a request may ask for
	CacheSize int // divide results kept, 0 disables caching
	Workers   int // goroutines per request, <= 0 means GOMAXPROCS
	AccessLog io.Writer
	Logger    *slog.Logger
}

// DefaultConfig returns the settings used by cmd/perftd without flags.
func DefaultConfig() Config {
	return Config{
		Addr:      ":8080",
		MaxDepth:  6,
		CacheSize: 256,
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// Server routes the HTTP API.
type Server struct {
	cfg      Config
	log      *slog.Logger
	router   *mux.Router
	handler  http.Handler
	cache    *resultCache
	upgrader websocket.Upgrader
}

// New builds a server from cfg.
func New(cfg Config) *Server {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}
	if cfg.MaxDepth > qbb.MaxPly {
		cfg.MaxDepth = qbb.MaxPly
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		cfg:    cfg,
		log:    logger,
		router: mux.NewRouter(),
		cache:  newResultCache(cfg.CacheSize),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	api := s.router.PathPrefix("/api").Methods(http.MethodGet).Subrouter()
	api.HandleFunc("/perft", s.perftHandler)
	api.HandleFunc("/divide", s.divideHandler)
	api.HandleFunc("/verify", s.verifyHandler)
	api.HandleFunc("/suite", s.suiteHandler)
	s.router.HandleFunc("/position.svg", s.svgHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.wsHandler)
	s.router.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	var h http.Handler = s.router
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	if cfg.AccessLog != nil {
		h = handlers.LoggingHandler(cfg.AccessLog, h)
	}
	s.handler = h
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Info("listening", "addr", s.cfg.Addr, "max_depth", s.cfg.MaxDepth)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ==========================
// Request parsing
// ==========================

// position reads the fen and moves query parameters. Moves may be
// separated by spaces or commas.
func position(r *http.Request) (*qbb.Board, error) {
	fen := r.URL.Query().Get("fen")
	if fen == "" {
		fen = qbb.FENStartPos
	}
	return loadPosition(fen, splitMoves(r.URL.Query().Get("moves")))
}

func splitMoves(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}

func loadPosition(fen string, moves []string) (*qbb.Board, error) {
	b, err := qbb.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	if err := b.ApplyMoves(moves...); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Server) depth(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("depth")
	if raw == "" {
		return 0, fmt.Errorf("%w: depth is required", ErrDepth)
	}
	d, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrDepth, raw)
	}
	return d, s.checkDepth(d)
}

func (s *Server) checkDepth(d int) error {
	if d < 1 || d > s.cfg.MaxDepth {
		return fmt.Errorf("%w: %d not in 1..%d", ErrDepth, d, s.cfg.MaxDepth)
	}
	return nil
}

// ==========================
// Handlers
// ==========================

type divideRow struct {
	Move  string `json:"move"`
	Nodes uint64 `json:"nodes"`
}

type perftResponse struct {
	FEN       string      `json:"fen"`
	Depth     int         `json:"depth"`
	Nodes     uint64      `json:"nodes"`
	Moves     []divideRow `json:"moves,omitempty"`
	ElapsedMS int64       `json:"elapsed_ms"`
	Cached    bool        `json:"cached"`
}

// divide returns the divide table of b, from the cache when possible.
func (s *Server) divide(ctx context.Context, b *qbb.Board, depth int) ([]qbb.RootCount, uint64, bool, error) {
	key := cacheKey{hash: b.Hash(), depth: depth}
	if rows, total, ok := s.cache.get(key); ok {
		return rows, total, true, nil
	}
	rows, total, err := harness.ParallelDivide(ctx, b, depth, s.cfg.Workers)
	if err != nil {
		return nil, 0, false, err
	}
	s.cache.put(key, rows, total)
	return rows, total, false, nil
}

func (s *Server) perftHandler(w http.ResponseWriter, r *http.Request) {
	s.serveDivide(w, r, false)
}

func (s *Server) divideHandler(w http.ResponseWriter, r *http.Request) {
	s.serveDivide(w, r, true)
}

func (s *Server) serveDivide(w http.ResponseWriter, r *http.Request, withRows bool) {
	b, err := position(r)
	if err != nil {
		writeError(w, err)
		return
	}
	depth, err := s.depth(r)
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	rows, total, cached, err := s.divide(r.Context(), b, depth)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := perftResponse{
		FEN:       b.ToFEN(),
		Depth:     depth,
		Nodes:     total,
		ElapsedMS: time.Since(start).Milliseconds(),
		Cached:    cached,
	}
	if withRows {
		resp.Moves = make([]divideRow, len(rows))
		for i, row := range rows {
			resp.Moves[i] = divideRow{Move: row.Notation, Nodes: row.Nodes}
		}
	}
	s.log.Debug("perft", "fen", resp.FEN, "depth", depth, "nodes", total, "cached", cached)
	writeJSON(w, http.StatusOK, resp)
}

type verifyResponse struct {
	FEN         string                 `json:"fen"`
	Depth       int                    `json:"depth"`
	Oracle      string                 `json:"oracle"`
	OK          bool                   `json:"ok"`
	Report      reference.Report       `json:"report"`
	Discrepancy *reference.Discrepancy `json:"discrepancy,omitempty"`
}

func (s *Server) verifyHandler(w http.ResponseWriter, r *http.Request) {
	b, err := position(r)
	if err != nil {
		writeError(w, err)
		return
	}
	depth, err := s.depth(r)
	if err != nil {
		writeError(w, err)
		return
	}
	name := r.URL.Query().Get("oracle")
	if name == "" {
		name = reference.Dragontooth{}.Name()
	}
	oracle, err := reference.ByName(name)
	if err != nil {
		writeError(w, err)
		return
	}

	rep, err := reference.Verify(b, depth, oracle)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := verifyResponse{FEN: b.ToFEN(), Depth: depth, Oracle: oracle.Name(), OK: rep.OK(), Report: rep}
	if !rep.OK() {
		s.log.Warn("divide mismatch", "fen", resp.FEN, "depth", depth, "oracle", oracle.Name(), "report", rep.String())
		if d, err := reference.Localize(r.Context(), b, depth, oracle); err == nil {
			resp.Discrepancy = &d
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type suiteResponse struct {
	Results []harness.Result `json:"results"`
	Summary harness.Summary  `json:"summary"`
}

// suiteHandler runs the quick reference suite.
func (s *Server) suiteHandler(w http.ResponseWriter, r *http.Request) {
	results, sum := harness.Run(r.Context(), harness.QuickSuite(), harness.Options{Workers: s.cfg.Workers})
	writeJSON(w, http.StatusOK, suiteResponse{Results: results, Summary: sum})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "File Not Found", http.StatusNotFound)
}

// ==========================
// Responses
// ==========================

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, qbb.ErrInvalidFEN),
		errors.Is(err, qbb.ErrIllegalMove),
		errors.Is(err, ErrDepth),
		errors.Is(err, reference.ErrUnknownOracle),
		errors.Is(err, reference.ErrUnsupportedDepth):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
