package game

import (
	"fmt"
	"math"
)

// History replay: every HoleResult snapshot carries enough context
// (rotation, teams, wager state, raw scores) to recompute its settlement
// from scratch. Replaying a full history must reproduce identical deltas;
// any divergence means the record was tampered with or the scoring rules
// changed underneath it.

// ReplayHistory recomputes the point deltas for every recorded hole using
// the same players and course, returning the recomputed deltas in order.
func ReplayHistory(course *Course, players []PlayerConfig, history []*HoleResult) ([]map[string]float64, error) {
	replay := &GameState{Course: course}
	for _, pc := range players {
		replay.Players = append(replay.Players, &Player{ID: pc.ID, Name: pc.Name, Handicap: pc.Handicap})
	}

	out := make([]map[string]float64, 0, len(history))
	for _, hr := range history {
		replay.CurrentHole = hr.HoleNumber
		replay.Rotation = RotationInfo{
			HoleNumber:    hr.HoleNumber,
			RotationOrder: hr.RotationOrder,
			CaptainID:     hr.CaptainID,
			IsHoepfinger:  IsHoepfinger(hr.HoleNumber, len(players)),
		}
		replay.Teams = hr.Teams.Clone()
		replay.Wager = hr.Wager

		result, err := ComputeHoleResult(replay, hr.RawScores, hr.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("replaying hole %d: %w", hr.HoleNumber, err)
		}
		for id, delta := range result.PointsDelta {
			replay.Player(id).Points += delta
		}
		out = append(out, result.PointsDelta)
	}
	return out, nil
}

// VerifyHistory replays a history and confirms the recomputed deltas match
// the recorded ones exactly.
func VerifyHistory(course *Course, players []PlayerConfig, history []*HoleResult) error {
	replayed, err := ReplayHistory(course, players, history)
	if err != nil {
		return err
	}
	for i, hr := range history {
		for id, want := range hr.PointsDelta {
			if got := replayed[i][id]; math.Abs(got-want) > 1e-9 {
				return fmt.Errorf("hole %d: replayed delta for %s is %+g, recorded %+g",
					hr.HoleNumber, id, got, want)
			}
		}
	}
	return nil
}
