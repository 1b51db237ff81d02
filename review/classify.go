package review

import (
	"context"

	"github.com/notnil/chess"
)

// Label is the quality grade assigned to a single move. The set is closed;
// anything outside it is folded into Unclassified by the tally.
type Label string

const (
	Brilliant    Label = "Brilliant"
	Great        Label = "Great"
	Best         Label = "Best"
	Excellent    Label = "Excellent"
	Good         Label = "Good"
	Book         Label = "Book"
	Tablebase    Label = "Tablebase"
	Inaccuracy   Label = "Inaccuracy"
	Mistake      Label = "Mistake"
	Miss         Label = "Miss"
	Blunder      Label = "Blunder"
	Unclassified Label = "-"
)

// Labels lists every label in display order.
var Labels = []Label{
	Brilliant, Great, Best, Excellent, Good, Book, Tablebase,
	Inaccuracy, Mistake, Miss, Blunder, Unclassified,
}

// Brilliant and Great are reserved: no classification rule assigns them yet.

// mateScoreCP is the magnitude beyond which a centipawn-folded score is
// treated as a forced mate rather than a positional eval.
const mateScoreCP = 10000

// decidedPawns: once a position is this far gone (in pawns), further moves by
// either side are not graded.
const decidedPawns = 5.0

// TablebaseVerdict is the result of a successful endgame tablebase probe for
// the position a move was played from.
type TablebaseVerdict struct {
	// OptimalUCI is the set of moves that preserve the tablebase outcome.
	OptimalUCI map[string]bool
}

// MoveInput is everything the classifier looks at for one move. Scores are
// centipawns from White's point of view; nil means no usable evaluation
// (typically a mate score).
type MoveInput struct {
	Ply         int // 1-based; odd = White
	Color       chess.Color
	UCI         string
	BestUCI     string
	ScoreBefore *int
	ScoreAfter  *int
	LegalMoves  int
	InBook      bool
	Tablebase   *TablebaseVerdict

	// ProbeBest re-evaluates the position after playing BestUCI. It is the
	// one extra engine query the grading rules need; nil or a returned error
	// leaves the move ungraded.
	ProbeBest func(ctx context.Context) (Eval, error)
}

// Classify grades one move. First matching rule wins.
func Classify(ctx context.Context, in MoveInput) Label {
	if in.Tablebase != nil {
		if in.Tablebase.OptimalUCI[in.UCI] {
			return Tablebase
		}
		return Blunder
	}

	if in.InBook {
		return Book
	}

	if in.ScoreAfter == nil {
		return Unclassified
	}

	// forced moves are never penalized
	if in.LegalMoves == 1 {
		return Best
	}

	// the game is already decided, stop grading
	if in.ScoreBefore != nil && abs(*in.ScoreBefore) > int(decidedPawns*100) {
		return Unclassified
	}

	if in.BestUCI != "" && in.UCI == in.BestUCI {
		return Best
	}

	if in.BestUCI == "" {
		return Unclassified
	}

	if in.ProbeBest == nil {
		return Unclassified
	}
	bestEval, err := in.ProbeBest(ctx)
	if err != nil {
		return Unclassified
	}

	// mate lines are not graded on the centipawn scale
	if bestEval.Mate != 0 || bestEval.Mated || abs(*in.ScoreAfter) > mateScoreCP {
		return Unclassified
	}

	if in.ScoreBefore == nil {
		return Unclassified
	}

	var loss float64
	if in.Color == chess.White {
		loss = float64(*in.ScoreBefore-*in.ScoreAfter) / 100
	} else {
		loss = float64(*in.ScoreAfter-*in.ScoreBefore) / 100
	}

	switch {
	case loss <= 0:
		return Excellent
	case loss < 0.35:
		return Excellent
	case loss < 2.0:
		return Good
	case loss < 2.5:
		return Inaccuracy
	case loss < 3.5:
		return Mistake
	case loss < 6.0:
		return Miss
	default:
		return Blunder
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
