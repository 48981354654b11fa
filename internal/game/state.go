package game

import "time"

// Phase is the rotation phase for a hole.
type Phase int

const (
	PhaseNormal Phase = iota
	PhaseHoepfinger
)

func (p Phase) String() string {
	return [...]string{"normal", "hoepfinger"}[p]
}

// FormationState tracks the team-formation state machine within a hole.
type FormationState int

const (
	AwaitingChoice FormationState = iota
	PendingPartner
	Formed
)

func (s FormationState) String() string {
	return [...]string{"awaiting_choice", "pending_partner", "formed"}[s]
}

// TeamMode distinguishes the two formed shapes.
type TeamMode int

const (
	ModePartners TeamMode = iota
	ModeSolo
)

func (m TeamMode) String() string {
	return [...]string{"partners", "solo"}[m]
}

// AardvarkPhase tracks the fifth player's team-joining negotiation in
// 5-player games.
type AardvarkPhase int

const (
	AardvarkIdle AardvarkPhase = iota
	AardvarkRequested
	AardvarkJoined
)

// AardvarkState holds the 5-player extension state. Tosses counts how many
// teams have tossed the aardvark: one toss doubles the wager, a second
// (Ping-Pong) quadruples it.
type AardvarkState struct {
	Phase         AardvarkPhase
	PlayerID      string
	RequestedTeam int // 1 or 2
	JoinedTeam    int // 1 or 2 once Phase == AardvarkJoined
	Tosses        int
}

// TeamState is the tagged team variant for the current hole:
// Pending{requested partner}, Partners{team1, team2} or Solo{captain,
// opponents}.
type TeamState struct {
	State            FormationState
	RequestedPartner string
	Mode             TeamMode
	Team1            []string // captain's side in partners mode
	Team2            []string
	SoloPlayer       string
	Opponents        []string
	Aardvark         AardvarkState
	BigDickBy        string
}

// Clone deep-copies the team state for HoleResult snapshots.
func (t TeamState) Clone() TeamState {
	c := t
	c.Team1 = append([]string(nil), t.Team1...)
	c.Team2 = append([]string(nil), t.Team2...)
	c.Opponents = append([]string(nil), t.Opponents...)
	return c
}

// WagerState is the composable multiplier chain for the current hole. The
// base wager is held in integer quarters and never decreases within a hole.
type WagerState struct {
	BaseWager          int // quarters, includes carry-over and Vinnie's addition
	Doubled            bool
	Redoubled          bool
	OptionActive       bool
	FloatInvokedBy     string
	DuncanInvoked      bool
	TunkarriInvoked    bool
	AardvarkTosses     int
	BigDickInvoked     bool
	VinniesActive      bool
	DoublePointsActive bool
}

// CurrentWager composes every active multiplier except the solo payout
// factor and Double Points, which apply at settlement.
func (w WagerState) CurrentWager() int {
	wager := w.BaseWager
	if w.Doubled {
		wager *= 2
	}
	if w.Redoubled {
		wager *= 2
	}
	if w.OptionActive {
		wager *= 2
	}
	if w.FloatInvokedBy != "" {
		wager *= 2
	}
	switch w.AardvarkTosses {
	case 1:
		wager *= 2
	case 2:
		wager *= 4
	}
	return wager
}

// RotationInfo describes the hitting order for a hole.
type RotationInfo struct {
	HoleNumber    int
	RotationOrder []string
	CaptainID     string
	IsHoepfinger  bool
}

// HoleResult is the immutable record appended to history when a hole
// completes. PointsDelta always sums to zero.
type HoleResult struct {
	HoleNumber    int
	RotationOrder []string
	CaptainID     string
	Teams         TeamState
	Wager         WagerState
	FinalWager    int
	Winner        string // winning side label or player ID, "" for a push
	RawScores     map[string]int
	NetScores     map[string]float64
	PointsDelta   map[string]float64
	Timestamp     time.Time
}

// GameState is the complete mutable state of one round. It is mutated only
// through rule-gated engine actions; each completed hole appends a
// write-once HoleResult.
type GameState struct {
	GameID      string
	Players     []*Player
	Course      *Course
	CurrentHole int
	Phase       Phase
	Rotation    RotationInfo
	Teams       TeamState
	Wager       WagerState

	TeeShotsComplete int
	WageringClosed   bool
	RotationSelected bool // goat selection consumed for this hole
	CarryOver        int  // quarters rolled in from the previous push

	History []*HoleResult
}

// PlayerCount returns the number of players in the round.
func (g *GameState) PlayerCount() int { return len(g.Players) }

// Player returns the player with the given ID, or nil.
func (g *GameState) Player(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerIDs returns the hole-1 order of player IDs.
func (g *GameState) PlayerIDs() []string {
	ids := make([]string, len(g.Players))
	for i, p := range g.Players {
		ids[i] = p.ID
	}
	return ids
}

// Standings snapshots cumulative points for every player.
func (g *GameState) Standings() Standings {
	s := make(Standings, len(g.Players))
	for _, p := range g.Players {
		s[p.ID] = p.Points
	}
	return s
}

// GoatID returns the current lowest-standing player.
func (g *GameState) GoatID() string {
	return g.Standings().GoatID(g.PlayerIDs())
}

// AardvarkID returns the last hitter of the current hole in a 5-player game,
// or "" otherwise. The label follows the rotation, not the player entity.
func (g *GameState) AardvarkID() string {
	if g.PlayerCount() != 5 || len(g.Rotation.RotationOrder) != 5 {
		return ""
	}
	return g.Rotation.RotationOrder[4]
}

// PartnershipDeadlinePassed reports whether all tee shots have been taken.
func (g *GameState) PartnershipDeadlinePassed() bool {
	return g.TeeShotsComplete >= g.PlayerCount()
}

// HoleCompleted reports whether a result has been recorded for hole n.
func (g *GameState) HoleCompleted(n int) bool {
	for _, hr := range g.History {
		if hr.HoleNumber == n {
			return true
		}
	}
	return false
}

// IsComplete reports whether all 18 holes have results.
func (g *GameState) IsComplete() bool {
	return len(g.History) >= 18
}

// Role derives the contextual label for a player on the current hole.
func (g *GameState) Role(playerID string) Role {
	switch {
	case playerID == g.Rotation.CaptainID:
		return RoleWolf
	case playerID == g.GoatID():
		return RoleGoat
	case playerID == g.AardvarkID():
		return RoleAardvark
	case g.Teams.State == Formed && g.Teams.Mode == ModeSolo && playerID == g.Teams.SoloPlayer:
		return RolePig
	default:
		return RoleNone
	}
}
