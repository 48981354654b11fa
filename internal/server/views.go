package server

import (
	"github.com/lox/wolfgoatpig/internal/game"
	"github.com/lox/wolfgoatpig/internal/protocol"
)

// Helper functions to convert engine state into wire payloads.

func playerViewFromGame(g *game.GameState, p *game.Player) protocol.PlayerView {
	return protocol.PlayerView{
		ID:       p.ID,
		Name:     p.Name,
		Handicap: p.Handicap,
		Points:   p.Points,
		Role:     string(g.Role(p.ID)),
	}
}

func rotationViewFromGame(r game.RotationInfo) protocol.RotationView {
	return protocol.RotationView{
		CaptainID:     r.CaptainID,
		RotationOrder: append([]string(nil), r.RotationOrder...),
		IsHoepfinger:  r.IsHoepfinger,
	}
}

func teamsViewFromGame(t game.TeamState) protocol.TeamsView {
	view := protocol.TeamsView{
		State:            t.State.String(),
		RequestedPartner: t.RequestedPartner,
	}
	if t.State == game.Formed {
		view.Mode = t.Mode.String()
		view.Team1 = append([]string(nil), t.Team1...)
		view.Team2 = append([]string(nil), t.Team2...)
		view.SoloPlayer = t.SoloPlayer
		view.Opponents = append([]string(nil), t.Opponents...)
	}
	return view
}

func wagerViewFromGame(g *game.GameState) protocol.WagerView {
	return protocol.WagerView{
		BaseWager:    g.Wager.BaseWager,
		CurrentWager: g.Wager.CurrentWager(),
		Doubled:      g.Wager.Doubled,
		Redoubled:    g.Wager.Redoubled,
		OptionActive: g.Wager.OptionActive,
		DoublePoints: g.Wager.DoublePointsActive,
		CarryOver:    g.CarryOver,
	}
}

// gameStateFromGame builds the full snapshot sent on join and after every
// transition. When viewerID is non-empty the snapshot carries that player's
// currently legal actions.
func gameStateFromGame(g *game.GameState, viewerID string) protocol.GameStateData {
	players := make([]protocol.PlayerView, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, playerViewFromGame(g, p))
	}

	data := protocol.GameStateData{
		GameID:      g.GameID,
		CurrentHole: g.CurrentHole,
		Phase:       g.Phase.String(),
		Players:     players,
		Rotation:    rotationViewFromGame(g.Rotation),
		Teams:       teamsViewFromGame(g.Teams),
		Wager:       wagerViewFromGame(g),
		Complete:    g.IsComplete(),
	}
	if hole, err := g.Course.Hole(g.CurrentHole); err == nil {
		data.Par = hole.Par
		data.StrokeIndex = hole.StrokeIndex
	}
	if viewerID != "" {
		data.ValidActions = actionStrings(game.ValidActions(g, viewerID))
	}
	return data
}

func holeCompleteFromResult(g *game.GameState, result *game.HoleResult) protocol.HoleCompleteData {
	return protocol.HoleCompleteData{
		GameID:      g.GameID,
		Hole:        result.HoleNumber,
		Winner:      result.Winner,
		Push:        result.Winner == "",
		FinalWager:  result.FinalWager,
		CarriedOver: g.CarryOver,
		NetScores:   result.NetScores,
		PointsDelta: result.PointsDelta,
		Standings:   g.Standings(),
	}
}

func actionStrings(actions []game.ActionType) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}
