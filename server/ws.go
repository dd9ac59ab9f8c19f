package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"qbbperft/qbb"
)

// wsRequest asks for a divide run. Rows are streamed one message per root
// move, followed by a "total" message.
type wsRequest struct {
	FEN   string   `json:"fen"`
	Depth int      `json:"depth"`
	Moves []string `json:"moves"`
}

// errClientGone marks a failed write; the connection is unusable after it.
var errClientGone = errors.New("websocket write failed")

type wsMessage struct {
	Type  string `json:"type"` // row, total or error
	Move  string `json:"move,omitempty"`
	Nodes uint64 `json:"nodes,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	s.log.Info("websocket connected", "remote", remote)

	// The reader owns all reads so a closing client cancels the run in
	// progress; the loop below owns all writes.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	reqs := make(chan wsRequest)
	go func() {
		defer cancel()
		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.log.Debug("websocket read", "remote", remote, "err", err)
				}
				return
			}
			select {
			case reqs <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		var req wsRequest
		select {
		case <-ctx.Done():
			return
		case req = <-reqs:
		}
		err := s.streamDivide(ctx, conn, req)
		switch {
		case err == nil:
		case errors.Is(err, errClientGone), ctx.Err() != nil:
			s.log.Debug("websocket closed", "remote", remote, "err", err)
			return
		default:
			if conn.WriteJSON(wsMessage{Type: "error", Error: err.Error()}) != nil {
				return
			}
		}
	}
}

// streamDivide answers one request. Cached results are replayed; otherwise
// every root subtree is counted and sent before the next one starts.
func (s *Server) streamDivide(ctx context.Context, conn *websocket.Conn, req wsRequest) error {
	if req.FEN == "" {
		req.FEN = qbb.FENStartPos
	}
	b, err := loadPosition(req.FEN, req.Moves)
	if err != nil {
		return err
	}
	if err := s.checkDepth(req.Depth); err != nil {
		return err
	}

	send := func(msg wsMessage) error {
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("%w: %v", errClientGone, err)
		}
		return nil
	}

	key := cacheKey{hash: b.Hash(), depth: req.Depth}
	if rows, total, ok := s.cache.get(key); ok {
		for _, row := range rows {
			if err := send(wsMessage{Type: "row", Move: row.Notation, Nodes: row.Nodes}); err != nil {
				return err
			}
		}
		return send(wsMessage{Type: "total", Nodes: total})
	}

	stm := b.SideToMove()
	rows := make([]qbb.RootCount, 0, qbb.MaxMoves)
	var total uint64
	for _, m := range b.GenerateLegalMoves() {
		child := *b
		child.MakeMove(m)
		nodes, err := qbb.NewSearch(child).PerftContext(ctx, req.Depth-1)
		if err != nil {
			return err
		}
		row := qbb.RootCount{Move: m, Notation: m.UCI(stm), Nodes: nodes}
		rows = append(rows, row)
		total += nodes
		if err := send(wsMessage{Type: "row", Move: row.Notation, Nodes: nodes}); err != nil {
			return err
		}
	}
	s.cache.put(key, rows, total)
	return send(wsMessage{Type: "total", Nodes: total})
}
