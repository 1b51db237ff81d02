package review

import "fmt"

// accuracy weight per label. Tablebase and Unclassified moves count toward
// the move total but not toward the weighted average.
var labelWeights = map[Label]float64{
	Brilliant:  100,
	Great:      95,
	Best:       90,
	Excellent:  85,
	Good:       80,
	Book:       80,
	Inaccuracy: 60,
	Mistake:    40,
	Miss:       20,
	Blunder:    0,
}

// Tally holds one player's per-label move counts. Counts only ever go up;
// the sum across labels equals the number of moves that player made.
type Tally struct {
	counts map[Label]int
}

func NewTally() *Tally {
	counts := make(map[Label]int, len(Labels))
	for _, label := range Labels {
		counts[label] = 0
	}
	return &Tally{counts: counts}
}

// Add increments the count for label. A label outside the closed set is
// counted as Unclassified.
func (t *Tally) Add(label Label) {
	if _, ok := t.counts[label]; !ok {
		label = Unclassified
	}
	t.counts[label]++
}

func (t *Tally) Count(label Label) int {
	return t.counts[label]
}

// Moves returns the total number of moves tallied.
func (t *Tally) Moves() int {
	var n int
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Accuracy returns the weighted accuracy percentage. ok is false when no
// weighted moves exist (e.g. an all-book or all-tablebase game).
func (t *Tally) Accuracy() (pct float64, ok bool) {
	var sum, n float64
	for label, count := range t.counts {
		w, weighted := labelWeights[label]
		if !weighted {
			continue
		}
		sum += w * float64(count)
		n += float64(count)
	}

	if n == 0 {
		return 0, false
	}

	return sum / n, true
}

// AccuracyString formats Accuracy to one decimal place, or "N/A".
func (t *Tally) AccuracyString() string {
	pct, ok := t.Accuracy()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", pct)
}
