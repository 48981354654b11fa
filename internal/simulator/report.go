package simulator

import (
	"time"

	"github.com/lox/wolfgoatpig/internal/statistics"
)

// Report is the JSON shape written by the simulate command's --output flag.
type Report struct {
	Rounds    int       `json:"rounds"`
	Seed      int64     `json:"seed"`
	ElapsedMS int64     `json:"elapsed_ms"`
	Timestamp time.Time `json:"timestamp"`

	Spread struct {
		Mean     float64 `json:"mean"`
		Median   float64 `json:"median"`
		StdDev   float64 `json:"std_dev"`
		StdError float64 `json:"std_error"`
		CI95Low  float64 `json:"ci95_low"`
		CI95High float64 `json:"ci95_high"`
		P25      float64 `json:"p25"`
		P75      float64 `json:"p75"`
		P95      float64 `json:"p95"`
		Max      float64 `json:"max"`
	} `json:"spread"`

	Wagers struct {
		Pushes  int `json:"pushes"`
		Solos   int `json:"solos"`
		Doubles int `json:"doubles"`
	} `json:"wagers"`

	TableSizes []TableSizeReport `json:"table_sizes"`
}

// TableSizeReport breaks out spread stats per table size.
type TableSizeReport struct {
	Players    int     `json:"players"`
	Rounds     int     `json:"rounds"`
	MeanSpread float64 `json:"mean_spread"`
}

// NewReport summarizes a completed run for machine consumption.
func NewReport(stats *statistics.Statistics, seed int64, elapsed time.Duration) *Report {
	r := &Report{
		Rounds:    stats.Rounds,
		Seed:      seed,
		ElapsedMS: elapsed.Milliseconds(),
		Timestamp: time.Now().UTC(),
	}

	r.Spread.Mean = stats.Mean()
	r.Spread.Median = stats.Median()
	r.Spread.StdDev = stats.StdDev()
	r.Spread.StdError = stats.StdError()
	r.Spread.CI95Low, r.Spread.CI95High = stats.ConfidenceInterval95()
	r.Spread.P25 = stats.Percentile(0.25)
	r.Spread.P75 = stats.Percentile(0.75)
	r.Spread.P95 = stats.Percentile(0.95)
	r.Spread.Max = stats.MaxSpread

	r.Wagers.Pushes = stats.Pushes
	r.Wagers.Solos = stats.Solos
	r.Wagers.Doubles = stats.Doubles

	for players := 4; players <= 6; players++ {
		pcs := stats.PlayerCountResults[players]
		if pcs.Rounds > 0 {
			r.TableSizes = append(r.TableSizes, TableSizeReport{
				Players:    players,
				Rounds:     pcs.Rounds,
				MeanSpread: stats.PlayerCountMean(players),
			})
		}
	}

	return r
}
