package review

import (
	"context"
	"errors"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

// probe returning a quiet centipawn eval, so rule 7 grades by loss
func quietProbe(t *testing.T) func(context.Context) (Eval, error) {
	t.Helper()
	return func(context.Context) (Eval, error) {
		return Eval{UCIMove: "e2e4", CP: 30, Depth: 15}, nil
	}
}

func TestClassify_LossThresholds(t *testing.T) {
	// loss in pawns from the mover's perspective; boundaries are half-open
	// on the lower side
	tests := []struct {
		name        string
		scoreBefore int
		scoreAfter  int
		color       chess.Color
		expected    Label
	}{
		{name: "white improves the position", scoreBefore: 10, scoreAfter: 60, color: chess.White, expected: Excellent},
		{name: "zero loss is excellent", scoreBefore: 50, scoreAfter: 50, color: chess.White, expected: Excellent},
		{name: "white loses 34cp", scoreBefore: 50, scoreAfter: 16, color: chess.White, expected: Excellent},
		{name: "loss exactly 0.35 is good", scoreBefore: 50, scoreAfter: 15, color: chess.White, expected: Good},
		{name: "white loses 199cp", scoreBefore: 100, scoreAfter: -99, color: chess.White, expected: Good},
		{name: "loss exactly 2.0 is inaccuracy", scoreBefore: 100, scoreAfter: -100, color: chess.White, expected: Inaccuracy},
		{name: "loss exactly 2.5 is mistake", scoreBefore: 150, scoreAfter: -100, color: chess.White, expected: Mistake},
		{name: "loss exactly 3.5 is miss", scoreBefore: 250, scoreAfter: -100, color: chess.White, expected: Miss},
		{name: "loss exactly 6.0 is blunder", scoreBefore: 100, scoreAfter: -500, color: chess.White, expected: Blunder},
		{name: "black loses 250cp", scoreBefore: -150, scoreAfter: 100, color: chess.Black, expected: Mistake},
		{name: "black improves the position", scoreBefore: 100, scoreAfter: -50, color: chess.Black, expected: Excellent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(context.Background(), MoveInput{
				Ply:         1,
				Color:       tt.color,
				UCI:         "g1f3",
				BestUCI:     "e2e4",
				ScoreBefore: intPtr(tt.scoreBefore),
				ScoreAfter:  intPtr(tt.scoreAfter),
				LegalMoves:  20,
				ProbeBest:   quietProbe(t),
			})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassify_RulePrecedence(t *testing.T) {
	probe := quietProbe(t)

	tests := []struct {
		name     string
		in       MoveInput
		expected Label
	}{
		{
			name: "tablebase optimal beats everything",
			in: MoveInput{
				Color: chess.White, UCI: "a1a2", BestUCI: "b1b2",
				ScoreBefore: intPtr(100), ScoreAfter: intPtr(-500),
				LegalMoves: 5, InBook: true,
				Tablebase: &TablebaseVerdict{OptimalUCI: map[string]bool{"a1a2": true}},
				ProbeBest: probe,
			},
			expected: Tablebase,
		},
		{
			name: "non-optimal tablebase move is a blunder even when quiet rules disagree",
			in: MoveInput{
				Color: chess.White, UCI: "a1a2", BestUCI: "a1a2",
				ScoreBefore: intPtr(0), ScoreAfter: intPtr(0),
				LegalMoves: 5,
				Tablebase:  &TablebaseVerdict{OptimalUCI: map[string]bool{"b1b2": true}},
				ProbeBest:  probe,
			},
			expected: Blunder,
		},
		{
			name: "book position",
			in: MoveInput{
				Color: chess.White, UCI: "e2e4", BestUCI: "d2d4",
				ScoreBefore: intPtr(20), ScoreAfter: intPtr(10),
				LegalMoves: 20, InBook: true, ProbeBest: probe,
			},
			expected: Book,
		},
		{
			name: "no usable post-move eval",
			in: MoveInput{
				Color: chess.White, UCI: "e2e4", BestUCI: "d2d4",
				ScoreBefore: intPtr(20), LegalMoves: 20, ProbeBest: probe,
			},
			expected: Unclassified,
		},
		{
			name: "forced move is best regardless of the scores",
			in: MoveInput{
				Color: chess.White, UCI: "g1h1", BestUCI: "g1h1",
				ScoreBefore: intPtr(400), ScoreAfter: intPtr(-400),
				LegalMoves: 1, ProbeBest: probe,
			},
			expected: Best,
		},
		{
			name: "decided position is not graded",
			in: MoveInput{
				Color: chess.White, UCI: "g1f3", BestUCI: "e2e4",
				ScoreBefore: intPtr(501), ScoreAfter: intPtr(-100),
				LegalMoves: 20, ProbeBest: probe,
			},
			expected: Unclassified,
		},
		{
			name: "exactly five pawns up is still graded",
			in: MoveInput{
				Color: chess.White, UCI: "g1f3", BestUCI: "e2e4",
				ScoreBefore: intPtr(500), ScoreAfter: intPtr(490),
				LegalMoves: 20, ProbeBest: probe,
			},
			expected: Excellent,
		},
		{
			name: "engine best move",
			in: MoveInput{
				Color: chess.White, UCI: "e2e4", BestUCI: "e2e4",
				ScoreBefore: intPtr(20), ScoreAfter: intPtr(25),
				LegalMoves: 20, ProbeBest: probe,
			},
			expected: Best,
		},
		{
			name: "no best move determined",
			in: MoveInput{
				Color: chess.White, UCI: "e2e4",
				ScoreBefore: intPtr(20), ScoreAfter: intPtr(25),
				LegalMoves: 20,
			},
			expected: Unclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Ply = 1
			assert.Equal(t, tt.expected, Classify(context.Background(), tt.in))
		})
	}
}

func TestClassify_MateLinesAreNotGraded(t *testing.T) {
	mateProbe := func(context.Context) (Eval, error) {
		return Eval{UCIMove: "d8h4", Mate: 2, Depth: 15}, nil
	}

	got := Classify(context.Background(), MoveInput{
		Ply: 4, Color: chess.Black, UCI: "g7g5", BestUCI: "d8h4",
		ScoreBefore: intPtr(-30), ScoreAfter: intPtr(120),
		LegalMoves: 20, ProbeBest: mateProbe,
	})

	assert.Equal(t, Unclassified, got)
}

func TestClassify_ProbeFailureIsRecoverable(t *testing.T) {
	failing := func(context.Context) (Eval, error) {
		return Eval{}, errors.New("engine went away")
	}

	got := Classify(context.Background(), MoveInput{
		Ply: 1, Color: chess.White, UCI: "g1f3", BestUCI: "e2e4",
		ScoreBefore: intPtr(20), ScoreAfter: intPtr(10),
		LegalMoves: 20, ProbeBest: failing,
	})

	assert.Equal(t, Unclassified, got)
}
