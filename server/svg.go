package server

import (
	"io"
	"net/http"

	svg "github.com/ajstarks/svgo"

	"qbbperft/qbb"
)

const (
	squareSize = 48

	lightSquare = "fill:#f0d9b5"
	darkSquare  = "fill:#b58863"
	glyphStyle  = "font-size:40px;text-anchor:middle;dominant-baseline:central;font-family:serif"
	labelStyle  = "font-size:10px;fill:#333;font-family:sans-serif"
)

var glyphs = [2][7]string{
	{"", "♙", "♘", "♗", "♖", "♕", "♔"},
	{"", "♟", "♞", "♝", "♜", "♛", "♚"},
}

// writeBoardSVG draws the position from white's side with file and rank
// labels, and marks the side to move under the board.
func writeBoardSVG(w io.Writer, b *qbb.Board) {
	const margin = 16
	size := 8*squareSize + 2*margin
	canvas := svg.New(w)
	canvas.Start(size, size+margin)
	canvas.Title(b.ToFEN())

	for rank := 7; rank >= 0; rank-- {
		y := margin + (7-rank)*squareSize
		canvas.Text(margin/2, y+squareSize/2, string(rune('1'+rank)), labelStyle)
		for file := 0; file < 8; file++ {
			x := margin + file*squareSize
			style := lightSquare
			if (rank+file)%2 == 0 {
				style = darkSquare
			}
			canvas.Rect(x, y, squareSize, squareSize, style)

			pt, color := b.PieceAt(qbb.Square(rank*8 + file))
			if pt == qbb.Empty {
				continue
			}
			side := 0
			if color == qbb.Black {
				side = 1
			}
			canvas.Text(x+squareSize/2, y+squareSize/2, glyphs[side][pt], glyphStyle)
		}
	}
	for file := 0; file < 8; file++ {
		canvas.Text(margin+file*squareSize+squareSize/2, size-margin/4, string(rune('a'+file)), labelStyle)
	}
	canvas.Text(margin, size+margin/2, b.SideToMove().String()+" to move", labelStyle)
	canvas.End()
}

func (s *Server) svgHandler(w http.ResponseWriter, r *http.Request) {
	b, err := position(r)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	writeBoardSVG(w, b)
}
