package tui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelTestMode(t *testing.T) {
	logger := log.New(io.Discard)

	t.Run("test mode captures log entries", func(t *testing.T) {
		model := NewModelWithOptions(newTestEngine(t, 4), logger, true)

		assert.True(t, model.IsTestMode())

		// Hole 1 is announced during construction.
		captured := model.GetCapturedLog()
		require.Len(t, captured, 1)
		assert.Contains(t, captured[0], "Hole 1")

		model.AddLogEntry("p1: solo")
		captured = model.GetCapturedLog()
		require.Len(t, captured, 2)
		assert.Equal(t, "p1: solo", captured[1])
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		model := NewModel(newTestEngine(t, 4), logger)

		assert.False(t, model.IsTestMode())
		model.AddLogEntry("Some log entry")
		assert.Nil(t, model.GetCapturedLog())
	})
}

func TestModelLogsGameEvents(t *testing.T) {
	logger := log.New(io.Discard)
	model := NewModelWithOptions(newTestEngine(t, 4), logger, true)

	model.runInput("p1 solo")
	model.runInput("scores p1=4 p2=5 p3=5 p4=5")

	joined := strings.Join(model.GetCapturedLog(), "\n")
	assert.Contains(t, joined, "goes solo")
	assert.Contains(t, joined, "Hole 1 won by")
	assert.Contains(t, joined, "Hole 2") // next hole announced
}

func TestModelLogsRejections(t *testing.T) {
	logger := log.New(io.Discard)
	model := NewModelWithOptions(newTestEngine(t, 4), logger, true)

	model.runInput("p2 solo")

	joined := strings.Join(model.GetCapturedLog(), "\n")
	assert.Contains(t, joined, "Rejected")

	model.runInput("nonsense")
	joined = strings.Join(model.GetCapturedLog(), "\n")
	assert.Contains(t, joined, "Error")
}

func TestModelSidebarShowsCaptainAndWager(t *testing.T) {
	logger := log.New(io.Discard)
	model := NewModelWithOptions(newTestEngine(t, 4), logger, true)

	sidebar := model.renderSidebarPane()
	assert.Contains(t, sidebar, "Hole 1/18")
	assert.Contains(t, sidebar, "captain")
	assert.Contains(t, sidebar, "p1")
}

func TestModelAvailableActions(t *testing.T) {
	logger := log.New(io.Discard)
	model := NewModelWithOptions(newTestEngine(t, 4), logger, true)

	actions := model.renderAvailableActions()
	assert.Contains(t, actions, "p1")
	assert.Contains(t, actions, "go_solo")
}
