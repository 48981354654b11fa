package game

import (
	"errors"
	"reflect"
	"testing"
)

// Hole 1, four players, no doubles: best ball 4 beats best ball 5, winners
// split one quarter.
func TestPartnersBestBallSplit(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 4)
	applyOK(t, e, PlayerAction{PlayerID: "p1", Type: ActionRequestPartner, PartnerID: "p2"})
	applyOK(t, e, PlayerAction{PlayerID: "p2", Type: ActionAcceptPartner})

	hr, err := e.CompleteHole(map[string]int{"p1": 4, "p2": 6, "p3": 5, "p4": 5})
	if err != nil {
		t.Fatalf("CompleteHole: %v", err)
	}
	if hr.Winner != "team1" {
		t.Fatalf("winner = %q, want team1", hr.Winner)
	}
	want := map[string]float64{"p1": 0.5, "p2": 0.5, "p3": -0.5, "p4": -0.5}
	if !reflect.DeepEqual(hr.PointsDelta, want) {
		t.Errorf("deltas = %v, want %v", hr.PointsDelta, want)
	}
}

func TestHandicapStrokesDecideHole(t *testing.T) {
	t.Parallel()

	// Hole 1 of the default course carries stroke index 9: a 9 handicap
	// receives a stroke, an 8 does not.
	e := newTestEngine(t, 4, 0, 9, 0, 8)
	applyOK(t, e, PlayerAction{PlayerID: "p1", Type: ActionRequestPartner, PartnerID: "p2"})
	applyOK(t, e, PlayerAction{PlayerID: "p2", Type: ActionAcceptPartner})

	// Gross: p2's 5 nets to 4 and wins the hole for team1.
	hr, err := e.CompleteHole(map[string]int{"p1": 6, "p2": 5, "p3": 5, "p4": 5})
	if err != nil {
		t.Fatalf("CompleteHole: %v", err)
	}
	if hr.NetScores["p2"] != 4 {
		t.Errorf("p2 net = %g, want 4", hr.NetScores["p2"])
	}
	if hr.NetScores["p4"] != 5 {
		t.Errorf("p4 net = %g, want 5", hr.NetScores["p4"])
	}
	if hr.Winner != "team1" {
		t.Errorf("winner = %q, want team1", hr.Winner)
	}
}

func TestDuncanPaysThreeForTwo(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 4)
	applyOK(t, e, PlayerAction{PlayerID: "p1", Type: ActionInvokeDuncan})

	hr, err := e.CompleteHole(map[string]int{"p1": 4, "p2": 5, "p3": 5, "p4": 5})
	if err != nil {
		t.Fatalf("CompleteHole: %v", err)
	}
	want := map[string]float64{"p1": 4.5, "p2": -1.5, "p3": -1.5, "p4": -1.5}
	if !reflect.DeepEqual(hr.PointsDelta, want) {
		t.Errorf("deltas = %v, want %v", hr.PointsDelta, want)
	}
}

func TestDuncanLossPaysSingle(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 4)
	applyOK(t, e, PlayerAction{PlayerID: "p1", Type: ActionInvokeDuncan})

	hr, err := e.CompleteHole(map[string]int{"p1": 6, "p2": 4, "p3": 5, "p4": 5})
	if err != nil {
		t.Fatalf("CompleteHole: %v", err)
	}
	if hr.Winner != winnerOpponents {
		t.Fatalf("winner = %q, want opponents", hr.Winner)
	}
	want := map[string]float64{"p1": -3, "p2": 1, "p3": 1, "p4": 1}
	if !reflect.DeepEqual(hr.PointsDelta, want) {
		t.Errorf("deltas = %v, want %v", hr.PointsDelta, want)
	}
}

func TestKarlMarxFavorsLowestStanding(t *testing.T) {
	t.Parallel()

	// 3-vs-2 in a five player game: one quarter cannot split three ways, so
	// the lowest-standing winners take the extra half-quarters.
	e := newTestEngine(t, 5)
	applyOK(t, e, PlayerAction{PlayerID: "p1", Type: ActionRequestPartner, PartnerID: "p2"})
	applyOK(t, e, PlayerAction{PlayerID: "p2", Type: ActionAcceptPartner})
	applyOK(t, e, PlayerAction{PlayerID: "p5", Type: ActionRequestAardvarkTeam, Team: 1})
	applyOK(t, e, PlayerAction{PlayerID: "p1", Type: ActionAcceptAardvark})

	hr, err := e.CompleteHole(map[string]int{"p1": 4, "p2": 5, "p3": 5, "p4": 5, "p5": 5})
	if err != nil {
		t.Fatalf("CompleteHole: %v", err)
	}
	if hr.Winner != "team1" {
		t.Fatalf("winner = %q, want team1", hr.Winner)
	}
	// Level standings fall back to the rotation tie-break: p5 then p2 rank
	// lowest and take the half-quarters; p1 absorbs the short share.
	want := map[string]float64{"p1": 0, "p2": 0.5, "p5": 0.5, "p3": -0.5, "p4": -0.5}
	if !reflect.DeepEqual(hr.PointsDelta, want) {
		t.Errorf("deltas = %v, want %v", hr.PointsDelta, want)
	}

	sum := 0.0
	for _, d := range hr.PointsDelta {
		sum += d
	}
	if sum != 0 {
		t.Errorf("deltas sum to %g", sum)
	}
}

func TestKarlMarxUnequalLosers(t *testing.T) {
	t.Parallel()

	// Team of three loses: the two highest-standing losers pay the extra
	// half-quarters, the goat pays nothing.
	e := newTestEngine(t, 5)
	applyOK(t, e, PlayerAction{PlayerID: "p1", Type: ActionRequestPartner, PartnerID: "p2"})
	applyOK(t, e, PlayerAction{PlayerID: "p2", Type: ActionAcceptPartner})
	applyOK(t, e, PlayerAction{PlayerID: "p5", Type: ActionRequestAardvarkTeam, Team: 1})
	applyOK(t, e, PlayerAction{PlayerID: "p1", Type: ActionAcceptAardvark})

	hr, err := e.CompleteHole(map[string]int{"p1": 5, "p2": 5, "p5": 5, "p3": 4, "p4": 6})
	if err != nil {
		t.Fatalf("CompleteHole: %v", err)
	}
	if hr.Winner != "team2" {
		t.Fatalf("winner = %q, want team2", hr.Winner)
	}
	// Ranked worst-first among the losers: p5, p2, p1. The two best (p1,
	// p2) each pay 0.5; p5 pays nothing.
	want := map[string]float64{"p1": -0.5, "p2": -0.5, "p5": 0, "p3": 0.5, "p4": 0.5}
	if !reflect.DeepEqual(hr.PointsDelta, want) {
		t.Errorf("deltas = %v, want %v", hr.PointsDelta, want)
	}
}

func TestDoublePointsDoublesEveryDelta(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 4)
	advanceToHoleWithWins(t, e, 17)

	g := e.State()
	captain := g.Rotation.CaptainID
	partner := otherPlayerID(g, captain)
	applyOK(t, e, PlayerAction{PlayerID: captain, Type: ActionRequestPartner, PartnerID: partner})
	applyOK(t, e, PlayerAction{PlayerID: partner, Type: ActionAcceptPartner})

	scores := map[string]int{}
	for _, id := range g.Teams.Team1 {
		scores[id] = 4
	}
	for _, id := range g.Teams.Team2 {
		scores[id] = 5
	}
	hr, err := e.CompleteHole(scores)
	if err != nil {
		t.Fatalf("CompleteHole: %v", err)
	}
	// An undoubled win worth one quarter pre-multiplier pays out two.
	for _, id := range hr.Teams.Team1 {
		if hr.PointsDelta[id] != 1 {
			t.Errorf("winner %s delta = %g, want 1", id, hr.PointsDelta[id])
		}
	}
	for _, id := range hr.Teams.Team2 {
		if hr.PointsDelta[id] != -1 {
			t.Errorf("loser %s delta = %g, want -1", id, hr.PointsDelta[id])
		}
	}
}

func TestIncompleteScoreFeed(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 4)
	_, err := e.CompleteHole(map[string]int{"p1": 4, "p2": 5})

	var inc *IncompleteScoreError
	if !errors.As(err, &inc) {
		t.Fatalf("expected IncompleteScoreError, got %v", err)
	}
	if !reflect.DeepEqual(inc.Missing, []string{"p3", "p4"}) {
		t.Errorf("missing = %v", inc.Missing)
	}

	// Recoverable: resupplying the feed completes the hole.
	if _, err := e.CompleteHole(allScores(e, 4)); err != nil {
		t.Fatalf("resupplied feed failed: %v", err)
	}
}

func TestSoloPushCarriesOver(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 4)
	applyOK(t, e, PlayerAction{PlayerID: "p1", Type: ActionGoSolo})

	hr, err := e.CompleteHole(map[string]int{"p1": 4, "p2": 4, "p3": 5, "p4": 6})
	if err != nil {
		t.Fatalf("CompleteHole: %v", err)
	}
	if hr.Winner != "" {
		t.Fatalf("winner = %q, want push", hr.Winner)
	}
	if e.State().Wager.BaseWager != 2 {
		t.Errorf("next base = %d, want 2", e.State().Wager.BaseWager)
	}
}

func TestEveryHoleSumsToZero(t *testing.T) {
	t.Parallel()

	for _, n := range []int{4, 5, 6} {
		e := newTestEngine(t, n, 2, 9.5, 0, 15, 7, 21)
		scorePatterns := [][]int{
			{4, 5, 6, 5, 4, 6},
			{5, 4, 5, 6, 6, 4},
			{6, 6, 4, 4, 5, 5},
		}
		for hole := 1; hole <= 18; hole++ {
			pattern := scorePatterns[hole%len(scorePatterns)]
			scores := map[string]int{}
			for i, p := range e.State().Players {
				scores[p.ID] = pattern[i]
			}
			hr, err := e.CompleteHole(scores)
			if err != nil {
				t.Fatalf("%d players, hole %d: %v", n, hole, err)
			}
			sum := 0.0
			for _, d := range hr.PointsDelta {
				sum += d
			}
			if sum != 0 {
				t.Errorf("%d players, hole %d: deltas sum to %g", n, hole, sum)
			}
		}
	}
}
