package render

import (
	"strings"

	"github.com/notnil/chess"
)

var pieceGlyphs = map[chess.Color]map[chess.PieceType]string{
	chess.White: {
		chess.King:   "♔",
		chess.Queen:  "♕",
		chess.Rook:   "♖",
		chess.Bishop: "♗",
		chess.Knight: "♘",
		chess.Pawn:   "♙",
	},
	chess.Black: {
		chess.King:   "♚",
		chess.Queen:  "♛",
		chess.Rook:   "♜",
		chess.Bishop: "♝",
		chess.Knight: "♞",
		chess.Pawn:   "♟",
	},
}

// Board renders a position as a large unicode board, rank 8 at the top.
func Board(pos *chess.Position) string {
	var sb strings.Builder

	board := pos.Board()
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(string(rune('1'+rank)) + " ")
		for file := 0; file < 8; file++ {
			sq := chess.Square(rank*8 + file)
			piece := board.Piece(sq)
			if piece == chess.NoPiece {
				sb.WriteString("·  ")
				continue
			}
			sb.WriteString(pieceGlyphs[piece.Color()][piece.Type()] + "  ")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  a  b  c  d  e  f  g  h")

	return sb.String()
}

// BoardFromFEN is Board for a raw FEN string; invalid FENs render as an
// empty string rather than failing the report.
func BoardFromFEN(fenPos string) string {
	opt, err := chess.FEN(fenPos)
	if err != nil {
		return ""
	}
	return Board(chess.NewGame(opt).Position())
}
