// Package statistics aggregates simulated round outcomes: how often wagers
// escalate, how wide final standings spread, and whether every settlement
// stayed zero-sum.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundResult represents the outcome of a single simulated 18-hole round
type RoundResult struct {
	Seed        int64   // RNG seed for this round (for replay)
	Players     int     // Player count (4-6)
	Pushes      int     // Holes that carried over
	Solos       int     // Holes played solo (including forced)
	Doubles     int     // Double or redouble offers accepted
	Spread      float64 // Winner minus goat, in quarters
	WinnerID    string  // Player finishing on top
	LedgerError float64 // Absolute deviation of standings sum from zero
}

// PlayerCountStats tracks statistics for one table size
type PlayerCountStats struct {
	Rounds     int
	SumSpread  float64
	SumSpread2 float64
}

// Statistics tracks aggregate simulation statistics across rounds
type Statistics struct {
	Rounds     int
	SumSpread  float64
	SumSpread2 float64   // Sum of squares for variance calculation
	Values     []float64 // All spreads for median/percentile calculation

	Pushes  int
	Solos   int
	Doubles int

	// Per table size analytics; index is player count (4-6)
	PlayerCountResults [7]PlayerCountStats

	MaxSpread      float64
	MaxLedgerError float64
}

// Add incorporates one round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	spread := result.Spread
	s.Rounds++
	s.SumSpread += spread
	s.SumSpread2 += spread * spread
	s.Values = append(s.Values, spread)

	s.Pushes += result.Pushes
	s.Solos += result.Solos
	s.Doubles += result.Doubles

	if result.Players >= 0 && result.Players < len(s.PlayerCountResults) {
		pcs := &s.PlayerCountResults[result.Players]
		pcs.Rounds++
		pcs.SumSpread += spread
		pcs.SumSpread2 += spread * spread
	}

	if spread > s.MaxSpread {
		s.MaxSpread = spread
	}
	if result.LedgerError > s.MaxLedgerError {
		s.MaxLedgerError = result.LedgerError
	}
}

// Mean returns the arithmetic mean spread in quarters per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumSpread / float64(s.Rounds)
}

// Variance returns the sample variance of round spreads
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSpread2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of round spreads
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median round spread
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the spread at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PlayerCountMean returns the mean spread for a specific table size
func (s *Statistics) PlayerCountMean(players int) float64 {
	if players < 0 || players >= len(s.PlayerCountResults) {
		return 0
	}
	pcs := s.PlayerCountResults[players]
	if pcs.Rounds == 0 {
		return 0
	}
	return pcs.SumSpread / float64(pcs.Rounds)
}

// Validate performs consistency checks over the collected data
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid round count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match round count (%d)",
			len(s.Values), s.Rounds)
	}

	// Quarters are exchanged, never created or destroyed.
	if s.MaxLedgerError > 1e-6 {
		return fmt.Errorf("ledger violation: standings deviated from zero by %g quarters", s.MaxLedgerError)
	}

	totalPerCount := 0
	for players := range s.PlayerCountResults {
		totalPerCount += s.PlayerCountResults[players].Rounds
	}
	if totalPerCount != s.Rounds {
		return fmt.Errorf("per-size round total (%d) does not match round count (%d)",
			totalPerCount, s.Rounds)
	}

	return nil
}
