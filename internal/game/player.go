package game

import "sort"

// Player is a participant in a round. Roles (Wolf, Goat, Pig, Aardvark) are
// never stored on the player; they are derived from standings and hole
// context on demand.
type Player struct {
	ID       string
	Name     string
	Handicap float64

	// Points is the cumulative quarter balance across completed holes.
	Points float64

	// One-shot abilities, consumed at most once per round.
	FloatUsed    bool
	DuncanUsed   bool
	TunkarriUsed bool
}

// Role is a contextual label computed from standings and the current hole.
type Role string

const (
	RoleWolf     Role = "wolf"
	RoleGoat     Role = "goat"
	RolePig      Role = "pig"
	RoleAardvark Role = "aardvark"
	RoleNone     Role = ""
)

// Standings is a snapshot of cumulative points keyed by player ID.
type Standings map[string]float64

// GoatID returns the player currently in last place. Ties are broken by the
// later position in the hole-1 order so the result is deterministic.
func (s Standings) GoatID(order []string) string {
	goat := ""
	lowest := 0.0
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		pts, ok := s[id]
		if !ok {
			continue
		}
		if goat == "" || pts < lowest {
			goat = id
			lowest = pts
		}
	}
	return goat
}

// RankedWorstFirst returns the given IDs ordered from lowest standing to
// highest, with the same deterministic tie-break as GoatID.
func (s Standings) RankedWorstFirst(ids []string, order []string) []string {
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	ranked := make([]string, len(ids))
	copy(ranked, ids)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if s[a] != s[b] {
			return s[a] < s[b]
		}
		return pos[a] > pos[b]
	})
	return ranked
}

// AllTied reports whether every listed player has the same point balance.
func (s Standings) AllTied(ids []string) bool {
	for _, id := range ids[1:] {
		if s[id] != s[ids[0]] {
			return false
		}
	}
	return true
}
