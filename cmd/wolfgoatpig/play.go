package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/lox/wolfgoatpig/cmd/wolfgoatpig/shared"
	"github.com/lox/wolfgoatpig/internal/game"
	"github.com/lox/wolfgoatpig/internal/tui"
)

// PlayCmd runs a hotseat round in the terminal
type PlayCmd struct {
	Players   []string  `short:"n" help:"Player names in hole-1 rotation order (4-6, default p1..p4)"`
	Handicaps []float64 `help:"Course handicaps, matched to players by position"`
	LogLevel  string    `short:"l" default:"warn" help:"Log level"`
}

func (c *PlayCmd) Run() error {
	names := c.Players
	if len(names) == 0 {
		names = []string{"p1", "p2", "p3", "p4"}
	}
	if len(names) < 4 || len(names) > 6 {
		return fmt.Errorf("need 4-6 players, got %d", len(names))
	}
	if len(c.Handicaps) > len(names) {
		return fmt.Errorf("more handicaps than players")
	}

	players := make([]game.PlayerConfig, len(names))
	for i, name := range names {
		id := strings.ToLower(strings.TrimSpace(name))
		players[i] = game.PlayerConfig{ID: id, Name: name}
		if i < len(c.Handicaps) {
			players[i].Handicap = c.Handicaps[i]
		}
	}

	logger := shared.SetupLogger(c.LogLevel)
	engine, err := game.NewEngine(uuid.New().String(), players, game.DefaultCourse(), logger)
	if err != nil {
		return err
	}

	model := tui.NewModel(engine, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
