// Package tui is the hotseat terminal client. One terminal, one table:
// every player types commands prefixed with their ID, and the model applies
// them straight to an in-process engine.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/wolfgoatpig/internal/game"
)

// Model represents the Bubble Tea model for a hotseat round
type Model struct {
	engine *game.Engine
	logger *log.Logger

	// UI components
	logViewport  viewport.Model
	commandInput textinput.Model

	// State
	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string // For test assertions
}

// NewModel creates a hotseat model bound to an engine
func NewModel(engine *game.Engine, logger *log.Logger) *Model {
	return NewModelWithOptions(engine, logger, false)
}

// NewModelWithOptions creates a hotseat model with test mode option
func NewModelWithOptions(engine *game.Engine, logger *log.Logger, testMode bool) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "e.g. 'p1 partner p2', 'p2 accept', 'scores p1=4 p2=5 ...' ('help' for more)"
	ti.Focus()
	ti.CharLimit = 120
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		engine:       engine,
		logger:       logger.WithPrefix("tui"),
		logViewport:  vp,
		commandInput: ti,
		gameLog:      []string{},
		focusedPane:  1, // Start with input focused
		testMode:     testMode,
		capturedLog:  []string{},
	}

	// Hole 1 opened inside the engine constructor, before we could
	// subscribe, so announce it directly.
	engine.EventBus().Subscribe(m)
	m.announceHole()

	return m
}

// OnEvent appends a log entry for each game event.
func (m *Model) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.HoleStartEvent:
		m.announceHole()

	case game.TeamsFormedEvent:
		if e.Teams.Mode == game.ModeSolo {
			m.AddLogEntry(WarningStyle.Render(
				fmt.Sprintf("%s goes solo against the field", e.Teams.SoloPlayer)))
		} else {
			m.AddLogEntry(SuccessStyle.Render(
				fmt.Sprintf("Teams formed: %s vs %s",
					strings.Join(e.Teams.Team1, "+"), strings.Join(e.Teams.Team2, "+"))))
		}

	case game.WagerChangedEvent:
		m.AddLogEntry(WarningStyle.Render(
			fmt.Sprintf("Wager is now %d quarters", e.Current)))

	case game.HoleCompleteEvent:
		m.AddLogEntry(HoleInfoStyle.Render(formatHoleResult(e.Result)))

	case game.GameCompleteEvent:
		m.AddLogEntry(HeaderStyle.Render(" ROUND COMPLETE "))
		m.AddLogEntry(formatStandings(m.engine.State()))
	}
}

func (m *Model) announceHole() {
	g := m.engine.State()
	phase := ""
	if g.Phase == game.PhaseHoepfinger {
		phase = " (Hoepfinger)"
	}
	m.AddLogEntry(HoleInfoStyle.Render(
		fmt.Sprintf("--- Hole %d%s: captain %s, base wager %d ---",
			g.CurrentHole, phase, g.Rotation.CaptainID, g.Wager.BaseWager)))
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.commandInput.Focus()
			} else {
				m.focusedPane = 0
				m.commandInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.commandInput.Value())
				m.commandInput.SetValue("")
				if input == "quit" {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
				m.runInput(input)
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.commandInput, cmd = m.commandInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// runInput executes a command line and logs the outcome. Rule violations
// are shown but leave state untouched.
func (m *Model) runInput(input string) {
	entry, err := runCommand(m.engine, input)
	if err != nil {
		if v, ok := game.AsRuleViolation(err); ok {
			m.AddLogEntry(ErrorStyle.Render("Rejected: " + v.Error()))
		} else {
			m.AddLogEntry(ErrorStyle.Render("Error: " + err.Error()))
		}
		return
	}
	if entry != "" {
		m.AddLogEntry(entry)
	}
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Command pane (bottom, full width)
	commandContent := m.renderCommandPane()
	commandHeight := lipgloss.Height(commandContent)
	commandWidth := max(m.width-2, 1)

	commandStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(commandWidth).
		Height(max(commandHeight-2, 1))
	commandPane := commandStyle.Render(commandContent)

	// Sidebar pane (right side of log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	sidebarHeight := max(m.height-commandHeight-4, 1)

	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(max(sidebarWidth, 1)).
		Height(sidebarHeight)
	sidebarPane := sidebarStyle.Render(sidebarContent)

	// Log pane (top, fills the rest)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = max(m.height-commandHeight-4, 1)

	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(m.logViewport.Height)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, commandPane)
}

// renderSidebarPane shows the hole, the composed wager, and standings.
func (m *Model) renderSidebarPane() string {
	g := m.engine.State()
	var content strings.Builder

	content.WriteString(WarningStyle.Render(
		fmt.Sprintf("Hole %d/18", g.CurrentHole)))
	content.WriteString(" | ")
	content.WriteString(WarningStyle.Render(
		fmt.Sprintf("Wager: %d", g.Wager.CurrentWager())))
	content.WriteString("\n\n")

	standings := g.Standings()
	goatID := g.GoatID()
	content.WriteString(InfoStyle.Render("Players:"))
	content.WriteString("\n")
	for _, id := range g.PlayerIDs() {
		line := fmt.Sprintf("  %s: %+.2f", id, standings[id])
		switch id {
		case g.Rotation.CaptainID:
			line = CaptainStyle.Render(line + " (captain)")
		case goatID:
			line = GoatStyle.Render(line + " (goat)")
		default:
			line = PlayerInfoStyle.Render(line)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	return content.String()
}

// renderCommandPane renders the input pane with per-player affordances.
func (m *Model) renderCommandPane() string {
	var content strings.Builder

	if m.engine.State().IsComplete() {
		content.WriteString(HoleInfoStyle.Render("Round complete. 'standings' to review, 'quit' to exit."))
		content.WriteString("\n")
	} else {
		content.WriteString(m.renderAvailableActions())
		content.WriteString("\n")
	}

	content.WriteString(m.commandInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render(
			"Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render(
			"Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}

	return content.String()
}

// renderAvailableActions shows which players can act and how.
func (m *Model) renderAvailableActions() string {
	g := m.engine.State()

	var parts []string
	for _, id := range g.PlayerIDs() {
		actions := m.engine.ValidActions(id)
		if len(actions) == 0 {
			continue
		}
		names := make([]string, len(actions))
		for i, a := range actions {
			names[i] = string(a)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", id, strings.Join(names, ", ")))
	}
	if len(parts) == 0 {
		return ActionsStyle.Render("Waiting on scores ('scores p1=4 ...')")
	}
	return ActionsStyle.Render("Can act • " + strings.Join(parts, " • "))
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the model is in test mode
func (m *Model) IsTestMode() bool {
	return m.testMode
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
