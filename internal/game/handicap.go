package game

import "math"

// StrokesReceived allocates handicap strokes for one hole following the
// USGA stroke-index convention: a handicap of H earns one stroke on each of
// the H hardest holes (lowest stroke index). A fractional handicap earns a
// half stroke on the next-hardest hole.
//
// Handicaps above 18 wrap: a 20 handicap receives two strokes on the two
// hardest holes and one everywhere else.
func StrokesReceived(handicap float64, strokeIndex int) float64 {
	if handicap <= 0 {
		return 0
	}

	whole := int(handicap)
	frac := handicap - float64(whole)

	strokes := float64(whole / 18)
	remainder := whole % 18
	if strokeIndex <= remainder {
		strokes++
	}
	// The half stroke lands on the next index after the whole strokes run out.
	if frac > 0 && strokeIndex == remainder+1 {
		strokes += 0.5
	}
	return strokes
}

// NetScore applies handicap strokes to a gross score.
func NetScore(gross int, handicap float64, strokeIndex int) float64 {
	return float64(gross) - StrokesReceived(handicap, strokeIndex)
}

// bestBall returns the minimum net score among team members.
func bestBall(team []string, nets map[string]float64) float64 {
	best := math.Inf(1)
	for _, id := range team {
		if n, ok := nets[id]; ok && n < best {
			best = n
		}
	}
	return best
}
