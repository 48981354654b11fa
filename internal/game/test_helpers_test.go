package game

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// newTestEngine builds an engine with players p1..pn on the default course.
// Optional handicaps are assigned in player order; missing entries are 0.
func newTestEngine(t *testing.T, n int, handicaps ...float64) *Engine {
	t.Helper()

	players := make([]PlayerConfig, n)
	for i := range players {
		players[i] = PlayerConfig{ID: fmt.Sprintf("p%d", i+1), Name: fmt.Sprintf("Player %d", i+1)}
		if i < len(handicaps) {
			players[i].Handicap = handicaps[i]
		}
	}
	e, err := NewEngine("test-game", players, DefaultCourse(), testLogger())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func applyOK(t *testing.T, e *Engine, action PlayerAction) {
	t.Helper()
	if err := e.Apply(action); err != nil {
		t.Fatalf("Apply(%s by %s): %v", action.Type, action.PlayerID, err)
	}
}

func expectViolation(t *testing.T, err error, kind ViolationKind) {
	t.Helper()
	rv, ok := AsRuleViolation(err)
	if !ok {
		t.Fatalf("expected RuleViolation %s, got %v", kind, err)
	}
	if rv.Kind != kind {
		t.Fatalf("violation kind = %s, want %s (%s)", rv.Kind, kind, rv.Message)
	}
}

// advanceToHole completes holes with scores that always push so standings
// and abilities are untouched, leaving the engine at the target hole.
// Pushes carry the wager over, so callers asserting wagers should use
// advanceToHoleWithWins instead.
func advanceToHole(t *testing.T, e *Engine, hole int) {
	t.Helper()
	for e.State().CurrentHole < hole {
		scores := map[string]int{}
		for _, p := range e.State().Players {
			scores[p.ID] = 4
		}
		// Everyone scoring the same pushes partner holes, but a solo captain
		// pushes too since best-ball equals the solo score.
		if _, err := e.CompleteHole(scores); err != nil {
			t.Fatalf("advancing past hole %d: %v", e.State().CurrentHole, err)
		}
	}
}

// advanceToHoleWithWins completes holes with a decisive captain win so no
// carry-over accumulates.
func advanceToHoleWithWins(t *testing.T, e *Engine, hole int) {
	t.Helper()
	for e.State().CurrentHole < hole {
		g := e.State()
		captain := g.Rotation.CaptainID
		scores := map[string]int{}
		for _, p := range g.Players {
			if p.ID == captain {
				scores[p.ID] = 4
			} else {
				scores[p.ID] = 5
			}
		}
		if _, err := e.CompleteHole(scores); err != nil {
			t.Fatalf("advancing past hole %d: %v", g.CurrentHole, err)
		}
	}
}

func allScores(e *Engine, score int) map[string]int {
	scores := map[string]int{}
	for _, p := range e.State().Players {
		scores[p.ID] = score
	}
	return scores
}
