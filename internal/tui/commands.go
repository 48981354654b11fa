package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lox/wolfgoatpig/internal/game"
)

// verbActions maps bare command verbs to their engine action types.
var verbActions = map[string]game.ActionType{
	"accept":   game.ActionAcceptPartner,
	"decline":  game.ActionDeclinePartner,
	"solo":     game.ActionGoSolo,
	"duncan":   game.ActionInvokeDuncan,
	"tunkarri": game.ActionInvokeTunkarri,
	"float":    game.ActionInvokeFloat,
	"double":   game.ActionOfferDouble,
	"redouble": game.ActionOfferRedouble,
	"welcome":  game.ActionAcceptAardvark,
	"toss":     game.ActionTossAardvark,
	"bigdick":  game.ActionDeclareBigDick,
	"tee":      game.ActionRecordTeeShot,
	"holeout":  game.ActionHoleOut,
}

const helpText = `Commands (hotseat: prefix with the acting player's ID):
  <player> partner <player>   request a partner
  <player> accept | decline   answer a partner request
  <player> solo               play alone against the field
  <player> float | duncan | tunkarri
  <player> double | redouble
  <player> aardvark <1|2>     ask to join a team (5 players)
  <player> welcome | toss     answer an aardvark request
  <player> bigdick            hole 18 all-or-nothing challenge
  <player> rotation <n>       goat picks hitting spot n (Hoepfinger)
  <player> tee                record a tee shot
  <player> holeout            close wagering for the hole
  scores <id=gross> ...       settle the hole, e.g. scores p1=4 p2=5
  standings                   show cumulative points
  help, quit`

// runCommand parses one line of input and applies it to the engine. The
// returned string is the log entry describing what happened.
func runCommand(engine *game.Engine, input string) (string, error) {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(parts) == 0 {
		return "", nil
	}

	switch parts[0] {
	case "help":
		return helpText, nil
	case "standings":
		return formatStandings(engine.State()), nil
	case "scores":
		return runScores(engine, parts[1:])
	}

	if len(parts) < 2 {
		return "", fmt.Errorf("unknown command %q (try 'help')", parts[0])
	}

	playerID := parts[0]
	verb := parts[1]
	action := game.PlayerAction{PlayerID: playerID}

	switch verb {
	case "partner":
		if len(parts) != 3 {
			return "", fmt.Errorf("usage: <player> partner <player>")
		}
		action.Type = game.ActionRequestPartner
		action.PartnerID = parts[2]

	case "aardvark":
		if len(parts) != 3 {
			return "", fmt.Errorf("usage: <player> aardvark <1|2>")
		}
		team, err := strconv.Atoi(parts[2])
		if err != nil || (team != 1 && team != 2) {
			return "", fmt.Errorf("team must be 1 or 2")
		}
		action.Type = game.ActionRequestAardvarkTeam
		action.Team = team

	case "rotation":
		if len(parts) != 3 {
			return "", fmt.Errorf("usage: <player> rotation <position>")
		}
		pos, err := strconv.Atoi(parts[2])
		if err != nil || pos < 1 {
			return "", fmt.Errorf("position must be 1-%d", engine.State().PlayerCount())
		}
		action.Type = game.ActionSelectRotation
		action.Position = pos - 1

	default:
		actionType, ok := verbActions[verb]
		if !ok {
			return "", fmt.Errorf("unknown command %q (try 'help')", verb)
		}
		action.Type = actionType
	}

	if err := engine.Apply(action); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s: %s", playerID, verb), nil
}

// runScores parses "scores p1=4 p2=5 ..." and settles the current hole.
func runScores(engine *game.Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: scores <id=gross> ...")
	}

	scores := make(map[string]int, len(args))
	for _, arg := range args {
		id, value, found := strings.Cut(arg, "=")
		if !found {
			return "", fmt.Errorf("bad score %q, want id=gross", arg)
		}
		gross, err := strconv.Atoi(value)
		if err != nil || gross < 1 {
			return "", fmt.Errorf("bad gross score %q for %s", value, id)
		}
		scores[id] = gross
	}

	result, err := engine.CompleteHole(scores)
	if err != nil {
		return "", err
	}
	return formatHoleResult(result), nil
}

func formatHoleResult(result *game.HoleResult) string {
	if result.Winner == "" {
		return fmt.Sprintf("Hole %d pushed, %d quarters carry over", result.HoleNumber, result.FinalWager)
	}
	return fmt.Sprintf("Hole %d won by %s for %d quarters", result.HoleNumber, result.Winner, result.FinalWager)
}

func formatStandings(g *game.GameState) string {
	standings := g.Standings()

	ids := g.PlayerIDs()
	sort.SliceStable(ids, func(i, j int) bool {
		return standings[ids[i]] > standings[ids[j]]
	})

	var b strings.Builder
	b.WriteString("Standings (quarters):")
	for _, id := range ids {
		b.WriteString(fmt.Sprintf("\n  %s: %+.2f", id, standings[id]))
	}
	return b.String()
}
