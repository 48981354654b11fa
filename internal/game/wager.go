package game

// Wager ledger: hole-start composition of the base wager and the
// player-driven doubling chain. The wager only ever grows within a hole.

// VinniesVariationApplies reports the 4-player hole 13-16 bonus window.
func VinniesVariationApplies(playerCount, holeNumber int) bool {
	return playerCount == 4 && holeNumber >= 13 && holeNumber <= 16
}

// DoublePointsApplies reports the hole 17-18 window, independent of player
// count.
func DoublePointsApplies(holeNumber int) bool {
	return holeNumber == 17 || holeNumber == 18
}

// openWager initializes the ledger for a hole. The base starts at one
// quarter, grows by any carry-over from a pushed hole, and takes Vinnie's
// Variation as a fixed addition. The Option auto-doubles when the captain
// is the current goat.
func (g *GameState) openWager() {
	base := 1 + g.CarryOver
	g.CarryOver = 0

	vinnies := VinniesVariationApplies(g.PlayerCount(), g.CurrentHole)
	if vinnies {
		base++
	}

	g.Wager = WagerState{
		BaseWager:          base,
		OptionActive:       g.optionApplies(),
		VinniesActive:      vinnies,
		DoublePointsActive: DoublePointsApplies(g.CurrentHole),
	}
}

// optionApplies reports whether the captain is the current goat, which
// auto-doubles the hole.
func (g *GameState) optionApplies() bool {
	standings := g.Standings()
	return !standings.AllTied(g.PlayerIDs()) &&
		g.Rotation.CaptainID == standings.GoatID(g.PlayerIDs())
}

// refreshOption re-evaluates the Option after the captaincy changes within a
// hole (a Hoepfinger rotation selection). Reports whether the flag flipped.
func (g *GameState) refreshOption() bool {
	option := g.optionApplies()
	if option == g.Wager.OptionActive {
		return false
	}
	g.Wager.OptionActive = option
	return true
}

func (g *GameState) applyDouble() {
	g.Wager.Doubled = true
}

func (g *GameState) applyRedouble() {
	g.Wager.Redoubled = true
}
