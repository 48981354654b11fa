package game

import (
	"fmt"
	"time"
)

// Scoring: converts a hole's gross scores, handicaps, formed teams, and
// wager state into a zero-sum settlement.
//
// All settlement arithmetic is done in integer units of half a quarter, so
// partner splits are exact and the Karl Marx rule handles everything that
// cannot be divided. The public HoleResult reports float64 quarters.

const unitsPerQuarter = 2

// winnerOpponents labels a solo hole won by the field.
const winnerOpponents = "opponents"

// ComputeHoleResult scores the current hole. It does not mutate game state;
// the engine applies the returned result to standings and history.
func ComputeHoleResult(g *GameState, rawScores map[string]int, now time.Time) (*HoleResult, error) {
	hole, err := g.Course.Hole(g.CurrentHole)
	if err != nil {
		return nil, err
	}
	if g.Teams.State != Formed {
		return nil, violation(ViolationWrongState, "teams must be formed before scoring")
	}

	var missing []string
	for _, p := range g.Players {
		if _, ok := rawScores[p.ID]; !ok {
			missing = append(missing, p.ID)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteScoreError{Missing: missing}
	}

	nets := make(map[string]float64, len(g.Players))
	for _, p := range g.Players {
		nets[p.ID] = NetScore(rawScores[p.ID], p.Handicap, hole.StrokeIndex)
	}

	winner, units := settle(g, nets)

	// Double Points multiplies every delta last, holes 17 and 18.
	if g.Wager.DoublePointsActive {
		for id := range units {
			units[id] *= 2
		}
	}

	sum := 0
	for _, u := range units {
		sum += u
	}
	if sum != 0 {
		return nil, &ZeroSumViolationError{HoleNumber: g.CurrentHole, Sum: float64(sum) / unitsPerQuarter}
	}

	deltas := make(map[string]float64, len(units))
	for id, u := range units {
		deltas[id] = float64(u) / unitsPerQuarter
	}

	raw := make(map[string]int, len(rawScores))
	for id, s := range rawScores {
		raw[id] = s
	}

	return &HoleResult{
		HoleNumber:    g.CurrentHole,
		RotationOrder: append([]string(nil), g.Rotation.RotationOrder...),
		CaptainID:     g.Rotation.CaptainID,
		Teams:         g.Teams.Clone(),
		Wager:         g.Wager,
		FinalWager:    g.Wager.CurrentWager(),
		Winner:        winner,
		RawScores:     raw,
		NetScores:     nets,
		PointsDelta:   deltas,
		Timestamp:     now,
	}, nil
}

// settle compares the two sides and distributes the stake in half-quarter
// units. A push returns zero deltas and an empty winner; the engine rolls
// the wager into the next hole's base.
func settle(g *GameState, nets map[string]float64) (string, map[string]int) {
	units := make(map[string]int, len(g.Players))
	for _, p := range g.Players {
		units[p.ID] = 0
	}
	wager := g.Wager.CurrentWager()

	if g.Teams.Mode == ModeSolo {
		solo := g.Teams.SoloPlayer
		soloScore := nets[solo]
		fieldScore := bestBall(g.Teams.Opponents, nets)

		switch {
		case soloScore < fieldScore:
			perOpp := soloWinUnits(g.Wager, wager)
			for _, id := range g.Teams.Opponents {
				units[id] -= perOpp
				units[solo] += perOpp
			}
			return solo, units
		case fieldScore < soloScore:
			perOpp := soloLossUnits(g.Wager, wager)
			for _, id := range g.Teams.Opponents {
				units[id] += perOpp
				units[solo] -= perOpp
			}
			return winnerOpponents, units
		default:
			return "", units
		}
	}

	score1 := bestBall(g.Teams.Team1, nets)
	score2 := bestBall(g.Teams.Team2, nets)
	if score1 == score2 {
		return "", units
	}

	winners, losers, label := g.Teams.Team1, g.Teams.Team2, "team1"
	if score2 < score1 {
		winners, losers, label = g.Teams.Team2, g.Teams.Team1, "team2"
	}

	stake := wager * unitsPerQuarter
	standings := g.Standings()
	order := g.PlayerIDs()
	for id, u := range splitStake(stake, winners, standings, order, true) {
		units[id] += u
	}
	for id, u := range splitStake(stake, losers, standings, order, false) {
		units[id] -= u
	}
	return label, units
}

// soloWinUnits is the per-opponent collection for a winning solo side: the
// standard 2x solo multiplier, or the 3-for-2 Duncan/Tunkarri factor.
func soloWinUnits(w WagerState, wager int) int {
	if w.DuncanInvoked || w.TunkarriInvoked {
		return 3 * wager // 1.5 quarters per wagered quarter
	}
	return 2 * wager * unitsPerQuarter
}

// soloLossUnits is the per-opponent payment for a losing solo side. The
// Duncan and Tunkarri risk 2 to win 3: the loss side pays the unmultiplied
// wager.
func soloLossUnits(w WagerState, wager int) int {
	if w.DuncanInvoked || w.TunkarriInvoked {
		return wager * unitsPerQuarter
	}
	return 2 * wager * unitsPerQuarter
}

// splitStake divides a stake among team members in whole units. When the
// stake does not divide evenly the Karl Marx rule applies: the remainder is
// arranged in favor of the lowest-standing players, who receive more when
// collecting and pay less when losing.
func splitStake(total int, members []string, s Standings, order []string, receiving bool) map[string]int {
	n := len(members)
	base := total / n
	rem := total % n

	ranked := s.RankedWorstFirst(members, order)
	shares := make(map[string]int, n)
	for _, id := range ranked {
		shares[id] = base
	}
	if rem == 0 {
		return shares
	}
	if receiving {
		// Extra units go to the lowest-standing winners.
		for _, id := range ranked[:rem] {
			shares[id]++
		}
	} else {
		// Extra units are paid by the highest-standing losers.
		for _, id := range ranked[n-rem:] {
			shares[id]++
		}
	}
	return shares
}

// describeWinner renders a winner label for logs.
func describeWinner(hr *HoleResult) string {
	switch hr.Winner {
	case "":
		return "push"
	case "team1", "team2", winnerOpponents:
		return hr.Winner
	default:
		return fmt.Sprintf("solo %s", hr.Winner)
	}
}
