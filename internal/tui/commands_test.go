package tui

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/wolfgoatpig/internal/game"
)

func newTestEngine(t *testing.T, count int) *game.Engine {
	t.Helper()

	players := make([]game.PlayerConfig, count)
	for i := range players {
		players[i] = game.PlayerConfig{
			ID:   fmt.Sprintf("p%d", i+1),
			Name: "Player",
		}
	}
	engine, err := game.NewEngine("tui-test", players, nil, log.New(io.Discard))
	require.NoError(t, err)
	return engine
}

func TestRunCommandPartnerFlow(t *testing.T) {
	engine := newTestEngine(t, 4)

	entry, err := runCommand(engine, "p1 partner p2")
	require.NoError(t, err)
	assert.Equal(t, "p1: partner", entry)

	_, err = runCommand(engine, "p2 accept")
	require.NoError(t, err)

	teams := engine.State().Teams
	assert.Equal(t, game.Formed, teams.State)
	assert.Equal(t, game.ModePartners, teams.Mode)
}

func TestRunCommandRejectsIllegalAction(t *testing.T) {
	engine := newTestEngine(t, 4)

	_, err := runCommand(engine, "p2 solo")
	require.Error(t, err)

	v, ok := game.AsRuleViolation(err)
	require.True(t, ok, "expected a rule violation, got %v", err)
	assert.Equal(t, game.ViolationNotCaptain, v.Kind)
}

func TestRunCommandScoresSettleHole(t *testing.T) {
	engine := newTestEngine(t, 4)

	_, err := runCommand(engine, "p1 solo")
	require.NoError(t, err)

	entry, err := runCommand(engine, "scores p1=4 p2=5 p3=5 p4=5")
	require.NoError(t, err)
	assert.Contains(t, entry, "Hole 1 won by")
	assert.Equal(t, 2, engine.State().CurrentHole)
}

func TestRunCommandScoresParseErrors(t *testing.T) {
	engine := newTestEngine(t, 4)

	_, err := runCommand(engine, "scores")
	assert.Error(t, err)

	_, err = runCommand(engine, "scores p1=four")
	assert.Error(t, err)

	_, err = runCommand(engine, "scores p1 4")
	assert.Error(t, err)
}

func TestRunCommandUnknownVerb(t *testing.T) {
	engine := newTestEngine(t, 4)

	_, err := runCommand(engine, "p1 jump")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRunCommandRotationPosition(t *testing.T) {
	engine := newTestEngine(t, 4)

	// Positions are 1-based on the command line.
	_, err := runCommand(engine, "p1 rotation 0")
	assert.Error(t, err)

	// Hole 1 is not in the Hoepfinger, so a well-formed command is still
	// rejected by the engine.
	_, err = runCommand(engine, "p1 rotation 2")
	_, ok := game.AsRuleViolation(err)
	assert.True(t, ok)
}

func TestRunCommandHelpAndStandings(t *testing.T) {
	engine := newTestEngine(t, 4)

	entry, err := runCommand(engine, "help")
	require.NoError(t, err)
	assert.Contains(t, entry, "partner")
	// The aardvark only exists in 5-player games.
	assert.Contains(t, entry, "aardvark <1|2>     ask to join a team (5 players)")

	entry, err = runCommand(engine, "standings")
	require.NoError(t, err)
	assert.Contains(t, entry, "p1")

	entry, err = runCommand(engine, "   ")
	require.NoError(t, err)
	assert.Empty(t, entry)
}
