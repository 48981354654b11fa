package game

// Team formation transitions. Each method assumes the matching rule check
// has already passed; the engine is the only caller and always validates
// first. AwaitingChoice -> PendingPartner -> Formed, reset every hole.

func (g *GameState) applyRequestPartner(partnerID string) {
	g.Teams.State = PendingPartner
	g.Teams.RequestedPartner = partnerID
}

func (g *GameState) applyAcceptPartner() {
	captain := g.Rotation.CaptainID
	partner := g.Teams.RequestedPartner
	aardvark := g.AardvarkID()

	team1 := []string{captain, partner}
	team2 := make([]string, 0, g.PlayerCount()-2)
	for _, p := range g.Players {
		if p.ID == captain || p.ID == partner {
			continue
		}
		// In a 5-player game the aardvark stays out of the initial teams
		// and negotiates their way in afterwards.
		if p.ID == aardvark && partner != aardvark {
			continue
		}
		team2 = append(team2, p.ID)
	}

	g.Teams.State = Formed
	g.Teams.Mode = ModePartners
	g.Teams.Team1 = team1
	g.Teams.Team2 = team2
	g.Teams.RequestedPartner = ""

	if aardvark != "" {
		if partner == aardvark {
			// Captain picked the aardvark directly; no toss negotiation.
			g.Teams.Aardvark = AardvarkState{Phase: AardvarkJoined, PlayerID: aardvark, JoinedTeam: 1}
		} else {
			g.Teams.Aardvark = AardvarkState{Phase: AardvarkIdle, PlayerID: aardvark}
		}
	}
}

// applyDeclinePartner forces the captain solo at the standard 2x payout.
func (g *GameState) applyDeclinePartner() {
	g.Teams.RequestedPartner = ""
	g.formSolo(g.Rotation.CaptainID)
}

func (g *GameState) applyGoSolo() {
	g.formSolo(g.Rotation.CaptainID)
}

func (g *GameState) applyDuncan() {
	captain := g.Rotation.CaptainID
	g.formSolo(captain)
	g.Wager.DuncanInvoked = true
	g.Player(captain).DuncanUsed = true
}

func (g *GameState) applyTunkarri() {
	aardvark := g.AardvarkID()
	g.formSolo(aardvark)
	g.Wager.TunkarriInvoked = true
	g.Player(aardvark).TunkarriUsed = true
}

// applyBigDick forces the declarer solo against the field, overriding any
// partnership already in progress. Hole 18 only; deadline-exempt.
func (g *GameState) applyBigDick(playerID string) {
	g.formSolo(playerID)
	g.Teams.BigDickBy = playerID
	g.Wager.BigDickInvoked = true
}

func (g *GameState) applyInvokeFloat(playerID string) {
	g.Wager.FloatInvokedBy = playerID
	g.Player(playerID).FloatUsed = true
}

func (g *GameState) applyAardvarkRequest(team int) {
	g.Teams.Aardvark.Phase = AardvarkRequested
	g.Teams.Aardvark.RequestedTeam = team
}

func (g *GameState) applyAardvarkAccept() {
	g.joinAardvark(g.Teams.Aardvark.RequestedTeam)
}

// applyAardvarkToss sends the aardvark to the opposing team at a doubled
// wager. A second toss is Ping-Pong: the aardvark lands back on the
// originally requested team and the wager quadruples.
func (g *GameState) applyAardvarkToss() {
	g.Teams.Aardvark.Tosses++
	g.Wager.AardvarkTosses = g.Teams.Aardvark.Tosses
	g.Teams.Aardvark.RequestedTeam = 3 - g.Teams.Aardvark.RequestedTeam

	if g.Teams.Aardvark.Tosses >= 2 {
		g.joinAardvark(g.Teams.Aardvark.RequestedTeam)
	}
}

// AardvarkUnresolved reports a 5-player hole whose fifth player has neither
// joined a team nor been swept into a solo. Settling such a hole 2-vs-2
// would leave the aardvark out of the exchange entirely.
func (g *GameState) AardvarkUnresolved() bool {
	return g.Teams.State == Formed && g.Teams.Mode == ModePartners &&
		g.Teams.Aardvark.PlayerID != "" && g.Teams.Aardvark.Phase != AardvarkJoined
}

// PreferredAardvarkTeam picks the side a stalled aardvark is sent to: the
// requested team when a request is still pending, otherwise the side lower
// on the standings. Ties go to team 2, the side without the captain.
func (g *GameState) PreferredAardvarkTeam() int {
	if g.Teams.Aardvark.Phase == AardvarkRequested {
		return g.Teams.Aardvark.RequestedTeam
	}
	if g.teamPoints(g.Teams.Team1) < g.teamPoints(g.Teams.Team2) {
		return 1
	}
	return 2
}

func (g *GameState) teamPoints(ids []string) float64 {
	var total float64
	for _, id := range ids {
		if p := g.Player(id); p != nil {
			total += p.Points
		}
	}
	return total
}

// resolveAardvark forces the stalled aardvark onto the preferred team. A
// pending request counts as accepted; a toss that never drew a response is
// left at its doubled wager.
func (g *GameState) resolveAardvark() {
	g.joinAardvark(g.PreferredAardvarkTeam())
}

func (g *GameState) joinAardvark(team int) {
	id := g.Teams.Aardvark.PlayerID
	if team == 1 {
		g.Teams.Team1 = append(g.Teams.Team1, id)
	} else {
		g.Teams.Team2 = append(g.Teams.Team2, id)
	}
	g.Teams.Aardvark.Phase = AardvarkJoined
	g.Teams.Aardvark.JoinedTeam = team
}

func (g *GameState) formSolo(playerID string) {
	opponents := make([]string, 0, g.PlayerCount()-1)
	for _, p := range g.Players {
		if p.ID != playerID {
			opponents = append(opponents, p.ID)
		}
	}
	g.Teams.State = Formed
	g.Teams.Mode = ModeSolo
	g.Teams.SoloPlayer = playerID
	g.Teams.Opponents = opponents
	g.Teams.Team1 = nil
	g.Teams.Team2 = nil
	if g.Teams.Aardvark.PlayerID != "" && g.Teams.Aardvark.Phase != AardvarkJoined {
		g.Teams.Aardvark.Phase = AardvarkJoined
		g.Teams.Aardvark.JoinedTeam = 0
	}
}
