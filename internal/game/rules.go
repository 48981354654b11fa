package game

// Stateless rule checks. Every function here is a pure function of
// (action, GameState): nothing is mutated, and any violated precondition
// returns a structured RuleViolation so an invalid transition can never be
// persisted.

// CanRequestPartner validates a captain's partnership request.
func CanRequestPartner(g *GameState, captainID, partnerID string) *RuleViolation {
	if g.IsComplete() {
		return violation(ViolationWrongState, "the round is over")
	}
	if captainID != g.Rotation.CaptainID {
		return violation(ViolationNotCaptain, "only the captain may request a partner")
	}
	if partnerID == captainID {
		v := violation(ViolationSelfPartner, "captain cannot partner with themselves")
		v.Field = "partner_id"
		return v
	}
	if g.Player(partnerID) == nil {
		v := violation(ViolationUnknownPlayer, "player %s is not in this game", partnerID)
		v.Field = "partner_id"
		return v
	}
	if g.Teams.State != AwaitingChoice {
		return violation(ViolationWrongState, "teams are already %s", g.Teams.State)
	}
	if g.PartnershipDeadlinePassed() {
		return violation(ViolationDeadlinePassed, "all tee shots have been taken")
	}
	return nil
}

// CanRespondToPartnerRequest validates an accept or decline. Only the
// requested partner may respond.
func CanRespondToPartnerRequest(g *GameState, playerID string) *RuleViolation {
	if g.Teams.State != PendingPartner {
		return violation(ViolationWrongState, "no partnership request is pending")
	}
	if playerID != g.Teams.RequestedPartner {
		return violation(ViolationNotPartner, "only %s may respond to this request", g.Teams.RequestedPartner)
	}
	return nil
}

// CanGoSolo validates a captain's direct solo declaration.
func CanGoSolo(g *GameState, playerID string) *RuleViolation {
	if playerID != g.Rotation.CaptainID {
		return violation(ViolationNotCaptain, "only the captain may go solo")
	}
	if g.Teams.State != AwaitingChoice {
		return violation(ViolationWrongState, "teams are already %s", g.Teams.State)
	}
	if g.PartnershipDeadlinePassed() {
		return violation(ViolationDeadlinePassed, "all tee shots have been taken")
	}
	return nil
}

// CanInvokeDuncan validates the captain's pre-shot 3-for-2 solo declaration.
// It must come strictly before the captain's own tee shot, and each player
// gets at most one Duncan per round.
func CanInvokeDuncan(g *GameState, playerID string) *RuleViolation {
	if playerID != g.Rotation.CaptainID {
		return violation(ViolationNotCaptain, "only the captain may invoke the Duncan")
	}
	if g.TeeShotsComplete > 0 {
		return violation(ViolationDeadlinePassed, "the Duncan must be invoked before the captain's tee shot")
	}
	if g.Teams.State != AwaitingChoice {
		return violation(ViolationWrongState, "teams are already %s", g.Teams.State)
	}
	if p := g.Player(playerID); p != nil && p.DuncanUsed {
		return violation(ViolationAbilityUsed, "the Duncan has already been used this round")
	}
	return nil
}

// CanInvokeTunkarri validates the aardvark's counterpart of the Duncan: a
// pre-shot solo declaration by the hole's last hitter in a 5-player game.
func CanInvokeTunkarri(g *GameState, playerID string) *RuleViolation {
	if g.PlayerCount() != 5 {
		return violation(ViolationPlayerCount, "the Tunkarri exists only in 5-player games")
	}
	if playerID != g.AardvarkID() {
		return violation(ViolationWrongState, "only the aardvark may invoke the Tunkarri")
	}
	if g.TeeShotsComplete >= g.PlayerCount() {
		return violation(ViolationDeadlinePassed, "the Tunkarri must be invoked before the aardvark's tee shot")
	}
	if g.Teams.Aardvark.Phase != AardvarkIdle {
		return violation(ViolationWrongState, "the aardvark has already requested a team")
	}
	if g.Teams.State == Formed && g.Teams.Mode == ModeSolo {
		return violation(ViolationWrongState, "a solo declaration is already in effect")
	}
	if p := g.Player(playerID); p != nil && p.TunkarriUsed {
		return violation(ViolationAbilityUsed, "the Tunkarri has already been used this round")
	}
	return nil
}

// CanInvokeFloat validates the captain's once-per-round base doubling.
func CanInvokeFloat(g *GameState, playerID string) *RuleViolation {
	if playerID != g.Rotation.CaptainID {
		return violation(ViolationNotCaptain, "only the captain may invoke their float")
	}
	if g.WageringClosed {
		return violation(ViolationWageringClosed, "wagering is closed for this hole")
	}
	if g.Wager.FloatInvokedBy != "" {
		return violation(ViolationDuplicate, "the float has already been invoked this hole")
	}
	if p := g.Player(playerID); p != nil && p.FloatUsed {
		return violation(ViolationAbilityUsed, "the float has already been used this round")
	}
	return nil
}

// CanDouble validates a double offer: once per hole, only while teams are
// formed and no ball has been holed.
func CanDouble(g *GameState, playerID string) *RuleViolation {
	if g.Player(playerID) == nil {
		return violation(ViolationUnknownPlayer, "player %s is not in this game", playerID)
	}
	if g.Teams.State != Formed {
		return violation(ViolationWrongState, "teams must be formed before doubling")
	}
	if g.WageringClosed {
		return violation(ViolationWageringClosed, "wagering is closed for this hole")
	}
	if g.Wager.Doubled {
		return violation(ViolationDuplicate, "the wager has already been doubled this hole")
	}
	return nil
}

// CanRedouble validates a redouble: only after a prior double, once.
func CanRedouble(g *GameState, playerID string) *RuleViolation {
	if g.Player(playerID) == nil {
		return violation(ViolationUnknownPlayer, "player %s is not in this game", playerID)
	}
	if !g.Wager.Doubled {
		return violation(ViolationWrongState, "cannot redouble before a double")
	}
	if g.WageringClosed {
		return violation(ViolationWageringClosed, "wagering is closed for this hole")
	}
	if g.Wager.Redoubled {
		return violation(ViolationDuplicate, "the wager has already been redoubled this hole")
	}
	return nil
}

// CanRequestAardvarkTeam validates the fifth player asking to join a team.
func CanRequestAardvarkTeam(g *GameState, playerID string, team int) *RuleViolation {
	if g.PlayerCount() != 5 {
		return violation(ViolationPlayerCount, "aardvark rules apply only to 5-player games")
	}
	if playerID != g.AardvarkID() {
		return violation(ViolationWrongState, "only the aardvark may request a team")
	}
	if team != 1 && team != 2 {
		v := violation(ViolationWrongState, "team must be 1 or 2")
		v.Field = "team"
		return v
	}
	if g.Teams.State != Formed || g.Teams.Mode != ModePartners {
		return violation(ViolationWrongState, "partner teams must be formed before the aardvark joins")
	}
	if g.Teams.Aardvark.Phase != AardvarkIdle {
		return violation(ViolationDuplicate, "the aardvark has already requested a team")
	}
	if g.PartnershipDeadlinePassed() {
		return violation(ViolationDeadlinePassed, "all tee shots have been taken")
	}
	return nil
}

// CanRespondToAardvark validates an accept or toss by a member of the team
// the aardvark is currently assigned to.
func CanRespondToAardvark(g *GameState, playerID string) *RuleViolation {
	if g.Teams.Aardvark.Phase != AardvarkRequested {
		return violation(ViolationWrongState, "no aardvark request is pending")
	}
	team := g.Teams.Team1
	if g.Teams.Aardvark.RequestedTeam == 2 {
		team = g.Teams.Team2
	}
	for _, id := range team {
		if id == playerID {
			return nil
		}
	}
	return violation(ViolationWrongState, "only the requested team may respond to the aardvark")
}

// CanDeclareBigDick validates the hole-18-only unilateral solo declaration.
// Any player may declare it, and it is exempt from the partnership deadline.
func CanDeclareBigDick(g *GameState, playerID string) *RuleViolation {
	if g.CurrentHole != 18 {
		return violation(ViolationOutOfWindow, "the Big Dick may only be declared on hole 18")
	}
	if g.Player(playerID) == nil {
		return violation(ViolationUnknownPlayer, "player %s is not in this game", playerID)
	}
	if g.Teams.BigDickBy != "" {
		return violation(ViolationDuplicate, "the Big Dick has already been declared")
	}
	if g.HoleCompleted(18) {
		return violation(ViolationWrongState, "hole 18 is already complete")
	}
	return nil
}

// CanSelectRotation validates the goat's Hoepfinger position choice: only
// within the Hoepfinger window, only by the current lowest-standing player,
// once per hole, and before anyone has hit.
func CanSelectRotation(g *GameState, playerID string, position int) *RuleViolation {
	if !g.Rotation.IsHoepfinger {
		return violation(ViolationOutOfWindow, "rotation selection is only available during Hoepfinger")
	}
	if playerID != g.GoatID() {
		return violation(ViolationWrongState, "only the goat may choose their position")
	}
	if g.RotationSelected {
		return violation(ViolationDuplicate, "the rotation has already been selected this hole")
	}
	if position < 0 || position >= g.PlayerCount() {
		v := violation(ViolationWrongState, "position %d out of range", position)
		v.Field = "position"
		return v
	}
	if g.TeeShotsComplete > 0 {
		return violation(ViolationDeadlinePassed, "play has already started on this hole")
	}
	return nil
}

// ValidatePlayerTurn checks playing order: tee order until every ball is in
// play, then farthest from the hole plays first. Distances (in yards from
// the hole) come from the calling layer; when absent after the tee shots,
// order is not enforced.
func ValidatePlayerTurn(g *GameState, playerID string, distances map[string]float64) *RuleViolation {
	if g.Player(playerID) == nil {
		return violation(ViolationUnknownPlayer, "player %s is not in this game", playerID)
	}
	if g.TeeShotsComplete < g.PlayerCount() {
		expected := g.Rotation.RotationOrder[g.TeeShotsComplete]
		if playerID != expected {
			v := violation(ViolationWrongTurn, "it is %s's turn to hit", expected)
			v.Details = map[string]string{"expected": expected}
			return v
		}
		return nil
	}
	if len(distances) == 0 {
		return nil
	}
	farthest := playerID
	for id, d := range distances {
		if d > distances[farthest] {
			farthest = id
		}
	}
	if farthest != playerID {
		v := violation(ViolationWrongTurn, "%s is farthest from the hole and plays first", farthest)
		v.Details = map[string]string{"expected": farthest}
		return v
	}
	return nil
}

// ValidActions enumerates the actions currently legal for a player, for UI
// affordance and for the recovery payload attached to rejected actions.
func ValidActions(g *GameState, playerID string) []ActionType {
	if g.IsComplete() {
		return nil
	}
	actions := make([]ActionType, 0, 8)

	if CanSelectRotation(g, playerID, 0) == nil {
		actions = append(actions, ActionSelectRotation)
	}
	if CanRequestPartner(g, playerID, otherPlayerID(g, playerID)) == nil {
		actions = append(actions, ActionRequestPartner)
	}
	if CanGoSolo(g, playerID) == nil {
		actions = append(actions, ActionGoSolo)
	}
	if CanInvokeDuncan(g, playerID) == nil {
		actions = append(actions, ActionInvokeDuncan)
	}
	if CanInvokeTunkarri(g, playerID) == nil {
		actions = append(actions, ActionInvokeTunkarri)
	}
	if CanInvokeFloat(g, playerID) == nil {
		actions = append(actions, ActionInvokeFloat)
	}
	if CanRespondToPartnerRequest(g, playerID) == nil {
		actions = append(actions, ActionAcceptPartner, ActionDeclinePartner)
	}
	if CanDouble(g, playerID) == nil {
		actions = append(actions, ActionOfferDouble)
	}
	if CanRedouble(g, playerID) == nil {
		actions = append(actions, ActionOfferRedouble)
	}
	if CanRequestAardvarkTeam(g, playerID, 1) == nil {
		actions = append(actions, ActionRequestAardvarkTeam)
	}
	if CanRespondToAardvark(g, playerID) == nil {
		actions = append(actions, ActionAcceptAardvark, ActionTossAardvark)
	}
	if CanDeclareBigDick(g, playerID) == nil {
		actions = append(actions, ActionDeclareBigDick)
	}
	if ValidatePlayerTurn(g, playerID, nil) == nil && g.TeeShotsComplete < g.PlayerCount() {
		actions = append(actions, ActionRecordTeeShot)
	}
	if !g.WageringClosed && g.TeeShotsComplete >= g.PlayerCount() {
		actions = append(actions, ActionHoleOut)
	}
	return actions
}

// otherPlayerID picks an arbitrary other player, used to probe whether a
// partner request could be legal at all.
func otherPlayerID(g *GameState, playerID string) string {
	for _, p := range g.Players {
		if p.ID != playerID {
			return p.ID
		}
	}
	return ""
}
