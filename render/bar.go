package render

import "strings"

// DefaultBarWidth is the eval bar width in cells.
const DefaultBarWidth = 20

const maxBarCP = 300

// barSplit maps a white-POV centipawn score to the number of white and black
// cells of a bidirectional bar. The score is clamped to [-300, +300] and
// normalized to [-100, 100]; each half rounds by truncation toward zero.
func barSplit(cp, width int) (white, black int) {
	if cp > maxBarCP {
		cp = maxBarCP
	} else if cp < -maxBarCP {
		cp = -maxBarCP
	}

	completed := int(float64(cp) / maxBarCP * 100)
	if completed > 100 {
		completed = 100
	} else if completed < -100 {
		completed = -100
	}

	half := width / 2
	prog := float64(completed) / 100

	if prog >= 0 {
		white = half + int(float64(half)*prog)
		black = width - white
	} else {
		black = half + int(float64(half)*-prog)
		white = width - black
	}

	return white, black
}

// evalBar renders the bar for a score, or a neutral half-filled bar when the
// score is unknown.
func (t *Terminal) evalBar(cp *int, width int) string {
	if cp == nil {
		half := width / 2
		return t.paint(ansiYellow, strings.Repeat("█", half)) + strings.Repeat(" ", width-half)
	}

	white, black := barSplit(*cp, width)
	return t.paint(ansiWhite, strings.Repeat("█", white)) +
		t.paint(ansiDarkGray, strings.Repeat("█", black))
}
