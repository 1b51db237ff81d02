package review

import (
	"reflect"
	"testing"

	"github.com/notnil/chess"
)

func TestParseEval(t *testing.T) {
	// arrange
	cases := []struct {
		line string
		want Eval
	}{
		{
			line: "info depth 15 seldepth 22 multipv 1 score cp 35 nodes 123456 nps 987654 time 125 pv e2e4 e7e5 g1f3",
			want: Eval{
				UCIMove: "e2e4", Depth: 15, SelDepth: 22, MultiPV: 1,
				CP: 35, Nodes: 123456, NPS: 987654, Time: 125,
				PV: []string{"e2e4", "e7e5", "g1f3"},
			},
		},
		{
			line: "info depth 31 seldepth 40 multipv 1 score mate -6 nodes 70 nps 7 time 9 pv h7h8",
			want: Eval{
				UCIMove: "h7h8", Depth: 31, SelDepth: 40, MultiPV: 1,
				Mate: -6, Nodes: 70, NPS: 7, Time: 9, PV: []string{"h7h8"},
			},
		},
		{
			line: "info depth 12 multipv 1 score cp -50 upperbound nodes 100 nps 10 time 5 pv d7d5",
			want: Eval{
				UCIMove: "d7d5", Depth: 12, MultiPV: 1, CP: -50,
				UpperBound: true, Nodes: 100, NPS: 10, Time: 5, PV: []string{"d7d5"},
			},
		},
		{
			line: "info depth 20 seldepth 30 multipv 1 score cp 12 wdl 320 610 70 nodes 5 nps 5 hashfull 120 tbhits 3 time 2 pv c2c4",
			want: Eval{
				UCIMove: "c2c4", Depth: 20, SelDepth: 30, MultiPV: 1,
				CP: 12, Nodes: 5, NPS: 5, TBHits: 3, Time: 2, PV: []string{"c2c4"},
			},
		},
	}

	for _, c := range cases {
		t.Run(c.line, func(t *testing.T) {
			// act
			got, err := parseEval(c.line)

			// assert
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(c.want, got) {
				t.Errorf("\nwant: %+v\ngot:  %+v", c.want, got)
			}
		})
	}
}

func TestParseEval_NotAnInfoLine(t *testing.T) {
	if _, err := parseEval("bestmove e2e4"); err == nil {
		t.Error("want error for non-info line")
	}
}

func TestEval_Score(t *testing.T) {
	cases := []struct {
		eval Eval
		want int
	}{
		{eval: Eval{CP: 35}, want: 35},
		{eval: Eval{CP: -250}, want: -250},
		{eval: Eval{Mate: 1}, want: 39900},
		{eval: Eval{Mate: 5}, want: 39500},
		{eval: Eval{Mate: -1}, want: -39900},
		{eval: Eval{Mate: -5}, want: -39500},
	}

	for _, c := range cases {
		if got := c.eval.Score(); got != c.want {
			t.Errorf("%+v: want %d got %d", c.eval, c.want, got)
		}
	}

	// closer mates beat further mates and any centipawn score
	mateIn1 := Eval{Mate: 1}
	mateIn9 := Eval{Mate: 9}
	winning := Eval{CP: 2500}
	if mateIn1.Score() <= mateIn9.Score() {
		t.Error("mate in 1 should outscore mate in 9")
	}
	if mateIn9.Score() <= winning.Score() {
		t.Error("any winning mate should outscore a centipawn eval")
	}
}

func TestEval_GlobalCP(t *testing.T) {
	e := Eval{UCIMove: "e7e5", CP: 40}

	if got := e.GlobalCP(chess.White); got != 40 {
		t.Errorf("white: want 40 got %d", got)
	}
	if got := e.GlobalCP(chess.Black); got != -40 {
		t.Errorf("black: want -40 got %d", got)
	}
}

func TestEval_String(t *testing.T) {
	cases := []struct {
		eval Eval
		turn chess.Color
		want string
	}{
		{eval: Eval{UCIMove: "e2e4", CP: 35}, turn: chess.White, want: "+0.35"},
		{eval: Eval{UCIMove: "e7e5", CP: 35}, turn: chess.Black, want: "-0.35"},
		{eval: Eval{UCIMove: "e2e4", CP: 0}, turn: chess.White, want: "0.00"},
		{eval: Eval{UCIMove: "h5f7", Mate: 2}, turn: chess.White, want: "#2"},
		{eval: Eval{Mated: true}, turn: chess.White, want: ""},
	}

	for _, c := range cases {
		if got := c.eval.String(c.turn); got != c.want {
			t.Errorf("%+v: want '%s' got '%s'", c.eval, c.want, got)
		}
	}
}
