package review

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"gamereview/commas"
)

// Eval is a single engine evaluation, parsed from a UCI "info" line. Scores
// are relative to the side to move in the evaluated position.
type Eval struct {
	UCIMove    string   `json:"uci"`
	Depth      int      `json:"depth"`
	SelDepth   int      `json:"seldepth"`
	MultiPV    int      `json:"multipv"`
	CP         int      `json:"cp"`
	Mate       int      `json:"mate"`
	Nodes      int      `json:"nodes"`
	NPS        int      `json:"nps"`
	TBHits     int      `json:"tbhits"`
	Time       int      `json:"time"`
	UpperBound bool     `json:"ub,omitempty"`
	LowerBound bool     `json:"lb,omitempty"`
	PV         []string `json:"pv"`
	Mated      bool     `json:"mated,omitempty"`
}

func (e Eval) Empty() bool {
	return e.UCIMove == "" && !e.Mated
}

// HasCP reports whether the eval carries a usable centipawn score. Mate
// scores and empty evals have no centipawn value.
func (e Eval) HasCP() bool {
	return e.UCIMove != "" && e.Mate == 0 && !e.Mated
}

// Score folds mate distances into the centipawn scale so that closer mates
// compare higher than any normal eval.
func (e Eval) Score() int {
	if e.Mate > 0 {
		return 400_00 - e.Mate*100
	} else if e.Mate < 0 {
		return -400_00 - e.Mate*100
	}

	return e.CP
}

// GlobalCP converts the relative score to White's point of view. turn is the
// side to move in the position the eval was produced for.
func (e Eval) GlobalCP(turn chess.Color) int {
	if turn == chess.Black {
		return -e.CP
	}
	return e.CP
}

func (e Eval) GlobalMate(turn chess.Color) int {
	if turn == chess.Black {
		return -e.Mate
	}
	return e.Mate
}

func (e Eval) String(turn chess.Color) string {
	if e.Mated {
		return ""
	}

	if e.Mate != 0 {
		return fmt.Sprintf("#%d", e.GlobalMate(turn))
	}

	s := fmt.Sprintf("%+.2f", float64(e.GlobalCP(turn))/100)

	if s == "+0.00" || s == "-0.00" {
		return "0.00"
	}

	return s
}

// Stats summarizes the search effort behind an eval for log output.
func (e Eval) Stats() string {
	return fmt.Sprintf("depth %d nodes %s nps %s time %dms",
		e.Depth, commas.Int(e.Nodes), commas.Int(e.NPS), e.Time)
}

// parseEval parses a UCI "info ... score ..." line. Unknown tokens are
// skipped rather than treated as fatal; engines differ in what they emit.
func parseEval(line string) (Eval, error) {
	parts := strings.Fields(line)
	var eval Eval

	if len(parts) == 0 || parts[0] != "info" {
		return eval, fmt.Errorf("not an info line: '%s'", line)
	}

scoreLoop:
	for i := 1; i < len(parts); i++ {
		p := parts[i]
		inc := 1
		switch p {
		case "depth":
			eval.Depth = atoi(parts[i+1])
		case "seldepth":
			eval.SelDepth = atoi(parts[i+1])
		case "multipv":
			eval.MultiPV = atoi(parts[i+1])
		case "score":
			p2 := parts[i+1]
			switch p2 {
			case "cp":
				eval.CP = atoi(parts[i+2])
				inc++
			case "mate":
				eval.Mate = atoi(parts[i+2])
				inc++
			default:
				return eval, fmt.Errorf("unhandled: 'info ... score %s'", p2)
			}
		case "upperbound":
			eval.UpperBound = true
			inc = 0
		case "lowerbound":
			eval.LowerBound = true
			inc = 0
		case "nodes":
			eval.Nodes = atoi(parts[i+1])
		case "nps":
			eval.NPS = atoi(parts[i+1])
		case "tbhits":
			eval.TBHits = atoi(parts[i+1])
		case "time":
			eval.Time = atoi(parts[i+1])
		case "hashfull", "currmovenumber", "currmove":
			// ignore, single value
		case "wdl":
			inc = 3
		case "string":
			break scoreLoop
		case "pv":
			pvMoves := parts[i+1:]
			eval.PV = pvMoves
			eval.UCIMove = pvMoves[0]
			break scoreLoop
		default:
			// unknown flag token
			inc = 0
		}

		i += inc
	}

	return eval, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
