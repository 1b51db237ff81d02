// Package render writes the live analysis report to a terminal. It consumes
// the classification stream through the review.Sink interface so the core
// loop stays headless.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gamereview/review"
)

const (
	ansiReset    = "\x1b[0m"
	ansiBold     = "\x1b[1m"
	ansiRed      = "\x1b[31m"
	ansiGreen    = "\x1b[32m"
	ansiYellow   = "\x1b[33m"
	ansiBlue     = "\x1b[34m"
	ansiMagenta  = "\x1b[35m"
	ansiCyan     = "\x1b[36m"
	ansiWhite    = "\x1b[37m"
	ansiDarkGray = "\x1b[90m"
	ansiOrange   = "\x1b[38;5;208m"
	ansiBrMgnta  = "\x1b[95m"
	ansiBrBlue   = "\x1b[94m"
)

var labelColors = map[review.Label]string{
	review.Brilliant:  ansiBrMgnta,
	review.Great:      ansiGreen,
	review.Best:       ansiGreen,
	review.Excellent:  ansiCyan,
	review.Good:       ansiBlue,
	review.Book:       ansiWhite,
	review.Tablebase:  ansiBrBlue,
	review.Inaccuracy: ansiYellow,
	review.Mistake:    ansiMagenta,
	review.Miss:       ansiOrange,
	review.Blunder:    ansiRed,
}

// Terminal renders the report as a scrolling table: one row per classified
// move, a header panel up front, summary panels at the end.
type Terminal struct {
	w         io.Writer
	color     bool
	showBoard bool
	barWidth  int

	wroteHeader bool
}

type TerminalOption func(*Terminal)

func NoColor() TerminalOption       { return func(t *Terminal) { t.color = false } }
func ShowBoard() TerminalOption     { return func(t *Terminal) { t.showBoard = true } }
func BarWidth(w int) TerminalOption { return func(t *Terminal) { t.barWidth = w } }

func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		w:        w,
		color:    true,
		barWidth: DefaultBarWidth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) paint(color, s string) string {
	if !t.color || s == "" {
		return s
	}
	return color + s + ansiReset
}

func (t *Terminal) Header(meta review.GameMeta) {
	gameType := "Unknown"
	if meta.TimeControl != "Unknown" {
		gameType = review.GameType(meta.TimeControl)
	}

	lines := []string{
		fmt.Sprintf("White: %s (Elo: %s)", meta.White, meta.WhiteElo),
		fmt.Sprintf("Black: %s (Elo: %s)", meta.Black, meta.BlackElo),
		fmt.Sprintf("Time Control: %s (%s)", timeControlString(meta.TimeControl), gameType),
		fmt.Sprintf("Termination: %s", meta.Termination),
		fmt.Sprintf("Total Moves: %d", meta.TotalMoves),
	}
	t.panel("Game Analysis", lines)

	fmt.Fprintf(t.w, "%-4s %-8s %-7s %-7s %-8s %-5s %-10s %s\n",
		"No.", "Move", "Eval", "ΔEval", "Best", "Depth", "Grade", "Bar")
	fmt.Fprintln(t.w, strings.Repeat("─", 55+t.barWidth))
	t.wroteHeader = true
}

func (t *Terminal) Move(rec review.MoveRecord) {
	moveNum := fmt.Sprintf("%02d", (rec.Ply+1)/2)
	if rec.Ply%2 == 0 {
		moveNum += "…"
	} else {
		moveNum += " "
	}

	label := string(rec.Label)
	grade := t.paint(labelColors[rec.Label], fmt.Sprintf("%-10s", label))

	fmt.Fprintf(t.w, "%-4s %-8s %-7s %-7s %-8s %-5s %s %s\n",
		moveNum,
		rec.SAN,
		scoreString(rec.ScoreAfter),
		deltaString(rec.ScoreBefore, rec.ScoreAfter),
		rec.BestSAN,
		depthString(rec.Depth),
		grade,
		t.evalBar(rec.ScoreAfter, t.barWidth),
	)

	if t.showBoard {
		fmt.Fprintln(t.w)
		fmt.Fprintln(t.w, BoardFromFEN(rec.FEN))
	}
}

func (t *Terminal) Summary(white, black *review.Tally) {
	if white == nil || black == nil {
		return
	}

	var lines []string
	for _, label := range review.Labels {
		if label == review.Unclassified && white.Count(label) == 0 && black.Count(label) == 0 {
			continue
		}
		name := string(label)
		if label == review.Unclassified {
			name = "Unclassified"
		}
		lines = append(lines, fmt.Sprintf("%-12s %s %s",
			t.paint(labelColors[label], name),
			t.cell(label, white),
			t.cell(label, black)))
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("%-12s %6s %6s", "Accuracy", white.AccuracyString(), black.AccuracyString()))

	t.panel("Summary", lines)
}

func (t *Terminal) cell(label review.Label, tally *review.Tally) string {
	return t.paint(labelColors[label], fmt.Sprintf("%6d", tally.Count(label)))
}

// panel draws a titled box around lines. Widths ignore ANSI escapes, so
// painted lines keep the box ragged-right safe by padding before painting.
func (t *Terminal) panel(title string, lines []string) {
	width := len([]rune(title)) + 4
	for _, line := range lines {
		if n := len([]rune(stripANSI(line))); n+4 > width {
			width = n + 4
		}
	}

	fmt.Fprintf(t.w, "┌─ %s %s┐\n", t.paint(ansiBold, title), strings.Repeat("─", width-len([]rune(title))-4))
	for _, line := range lines {
		pad := width - 4 - len([]rune(stripANSI(line)))
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(t.w, "│ %s%s │\n", line, strings.Repeat(" ", pad))
	}
	fmt.Fprintf(t.w, "└%s┘\n", strings.Repeat("─", width))
}

func stripANSI(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func scoreString(cp *int) string {
	if cp == nil {
		return "-"
	}
	s := fmt.Sprintf("%+.2f", float64(*cp)/100)
	if s == "+0.00" || s == "-0.00" {
		return "0.00"
	}
	return s
}

// timeControlString renders a PGN TimeControl tag with a readable base-time
// suffix: "300+2" becomes "300+2 (5 min)".
func timeControlString(tc string) string {
	base := strings.SplitN(tc, "+", 2)[0]
	seconds, err := strconv.Atoi(base)
	if err != nil {
		return tc
	}
	if minutes := seconds / 60; minutes > 0 {
		return fmt.Sprintf("%s (%d min)", tc, minutes)
	}
	return fmt.Sprintf("%s (%d sec)", tc, seconds)
}

// depthString shows "-" for moves that never got an engine evaluation.
func depthString(d int) string {
	if d <= 0 {
		return "-"
	}
	return strconv.Itoa(d)
}

func deltaString(before, after *int) string {
	if before == nil || after == nil {
		return "-"
	}
	return fmt.Sprintf("%+.2f", float64(*after-*before)/100)
}
