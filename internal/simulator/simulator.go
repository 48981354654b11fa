// Package simulator plays complete seeded rounds with randomized legal
// actions. It exists to shake out rule interactions at volume: every round
// must settle zero-sum and every action either applies cleanly or is
// rejected without mutating state.
package simulator

import (
	"context"
	"fmt"
	"io"
	"math"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/wolfgoatpig/internal/game"
	"github.com/lox/wolfgoatpig/internal/randutil"
	"github.com/lox/wolfgoatpig/internal/statistics"
)

// Steps per hole before the simulator stops probing actions and settles the
// hole. Generous: a six-player hole needs well under 40 applied actions.
const maxHoleSteps = 128

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Players int // 4-6; 0 mixes table sizes across rounds
	Seed    int64
	Workers int
	Logger  *log.Logger
}

// Simulator runs full-round simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run executes the simulation and returns aggregate statistics. Rounds are
// independent (one seed each), so they fan out across the worker pool; the
// results slice is indexed by round so aggregation stays deterministic
// regardless of completion order.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	results := make([]statistics.RoundResult, s.config.Rounds)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.config.Workers)

	for i := 0; i < s.config.Rounds; i++ {
		i := i
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			roundSeed := s.config.Seed + int64(i)
			result, err := s.playRound(roundSeed, s.tableSize(i))
			if err != nil {
				return fmt.Errorf("round %d (seed %d): %w", i+1, roundSeed, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, result := range results {
		stats.Add(result)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// tableSize returns the player count for a round, cycling 4-6 when the
// configuration doesn't pin one.
func (s *Simulator) tableSize(round int) int {
	if s.config.Players != 0 {
		return s.config.Players
	}
	return 4 + round%3
}

// playRound plays a complete 18-hole round with a dedicated RNG.
func (s *Simulator) playRound(seed int64, playerCount int) (statistics.RoundResult, error) {
	rng := randutil.New(seed)

	players := make([]game.PlayerConfig, playerCount)
	for i := range players {
		players[i] = game.PlayerConfig{
			ID:       fmt.Sprintf("p%d", i+1),
			Name:     fmt.Sprintf("Player %d", i+1),
			Handicap: float64(rng.IntN(19)),
		}
	}

	engine, err := game.NewEngine(fmt.Sprintf("sim-%d", seed), players, game.DefaultCourse(), s.config.Logger)
	if err != nil {
		return statistics.RoundResult{}, err
	}

	result := statistics.RoundResult{Seed: seed, Players: playerCount}

	for !engine.State().IsComplete() {
		s.playHole(engine, rng)

		holeResult, err := engine.CompleteHole(s.randomScores(engine, rng))
		if err != nil {
			return statistics.RoundResult{}, fmt.Errorf("hole %d: %w", engine.State().CurrentHole, err)
		}

		if holeResult.Winner == "" {
			result.Pushes++
		}
		if holeResult.Teams.Mode == game.ModeSolo {
			result.Solos++
		}
		if holeResult.Wager.Doubled {
			result.Doubles++
		}
		if holeResult.Wager.Redoubled {
			result.Doubles++
		}
	}

	standings := engine.State().Standings()
	var sum float64
	min, max := math.Inf(1), math.Inf(-1)
	for _, id := range engine.State().PlayerIDs() {
		points := standings[id]
		sum += points
		if points < min {
			min = points
		}
		if points > max {
			max = points
			result.WinnerID = id
		}
	}
	result.Spread = max - min
	result.LedgerError = math.Abs(sum)
	return result, nil
}

// playHole applies randomly chosen legal actions until none remain. Actions
// rejected by the engine (bad partner pick, closed window) are skipped;
// rejection leaves state untouched so probing is free.
func (s *Simulator) playHole(engine *game.Engine, rng *rand.Rand) {
	for step := 0; step < maxHoleSteps; step++ {
		candidates := s.collectCandidates(engine, rng)
		if len(candidates) == 0 {
			return
		}

		action := candidates[rng.IntN(len(candidates))]
		if err := engine.Apply(action); err != nil {
			if _, ok := game.AsRuleViolation(err); !ok {
				s.config.Logger.Error("simulated action failed", "action", action.Type, "error", err)
				return
			}
		}
	}
}

// collectCandidates enumerates every (player, action) pair currently legal,
// filling in randomized payloads for parameterized actions.
func (s *Simulator) collectCandidates(engine *game.Engine, rng *rand.Rand) []game.PlayerAction {
	g := engine.State()
	ids := g.PlayerIDs()

	var candidates []game.PlayerAction
	for _, id := range ids {
		for _, actionType := range engine.ValidActions(id) {
			action := game.PlayerAction{PlayerID: id, Type: actionType}
			switch actionType {
			case game.ActionRequestPartner:
				action.PartnerID = ids[rng.IntN(len(ids))]
			case game.ActionRequestAardvarkTeam:
				action.Team = 1 + rng.IntN(2)
			case game.ActionSelectRotation:
				action.Position = rng.IntN(len(ids))
			}
			candidates = append(candidates, action)
		}
	}
	return candidates
}

// randomScores generates a gross score per player around the hole's par.
func (s *Simulator) randomScores(engine *game.Engine, rng *rand.Rand) map[string]int {
	g := engine.State()
	par := 4
	if hole, err := g.Course.Hole(g.CurrentHole); err == nil {
		par = hole.Par
	}

	scores := make(map[string]int, g.PlayerCount())
	for _, id := range g.PlayerIDs() {
		scores[id] = par - 1 + rng.IntN(5)
	}
	return scores
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, rounds, players int, seed int64, workers int, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Rounds:  rounds,
		Players: players,
		Seed:    seed,
		Workers: workers,
		Logger:  logger,
	}).Run(ctx)
}

// PrintSummary prints a summary of simulation results
func PrintSummary(stats *statistics.Statistics) {
	mean := stats.Mean()
	median := stats.Median()
	stdDev := stats.StdDev()
	stdErr := stats.StdError()
	low, high := stats.ConfidenceInterval95()
	p25 := stats.Percentile(0.25)
	p75 := stats.Percentile(0.75)
	p95 := stats.Percentile(0.95)

	fmt.Printf("\n=== SIMULATION RESULTS ===\n")
	fmt.Printf("Rounds played: %d\n", stats.Rounds)

	fmt.Printf("\n=== FINAL SPREAD (quarters, winner vs goat) ===\n")
	fmt.Printf("Mean: %.2f\n", mean)
	fmt.Printf("Median: %.2f\n", median)
	fmt.Printf("Std Dev: %.2f\n", stdDev)
	fmt.Printf("Std Error: %.2f\n", stdErr)
	fmt.Printf("95%% CI: [%.2f, %.2f]\n", low, high)
	fmt.Printf("Percentiles: P25=%.1f, P75=%.1f, P95=%.1f\n", p25, p75, p95)
	fmt.Printf("Max spread observed: %.1f\n", stats.MaxSpread)

	fmt.Printf("\n=== WAGER ACTIVITY ===\n")
	perRound := func(n int) float64 { return float64(n) / float64(stats.Rounds) }
	fmt.Printf("Pushes: %d (%.2f/round)\n", stats.Pushes, perRound(stats.Pushes))
	fmt.Printf("Solo holes: %d (%.2f/round)\n", stats.Solos, perRound(stats.Solos))
	fmt.Printf("Doubles accepted: %d (%.2f/round)\n", stats.Doubles, perRound(stats.Doubles))

	fmt.Printf("\n=== TABLE SIZE ANALYSIS ===\n")
	for players := 4; players <= 6; players++ {
		pcs := stats.PlayerCountResults[players]
		if pcs.Rounds > 0 {
			fmt.Printf("%d players: %d rounds, %.2f mean spread\n",
				players, pcs.Rounds, stats.PlayerCountMean(players))
		}
	}
}
