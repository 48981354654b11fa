package game

import (
	"errors"
	"fmt"
	"strings"
)

// ViolationKind classifies a rejected action.
type ViolationKind string

const (
	ViolationWrongTurn      ViolationKind = "wrong_turn"
	ViolationNotCaptain     ViolationKind = "not_captain"
	ViolationNotPartner     ViolationKind = "not_partner"
	ViolationSelfPartner    ViolationKind = "self_partner"
	ViolationUnknownPlayer  ViolationKind = "unknown_player"
	ViolationDeadlinePassed ViolationKind = "deadline_passed"
	ViolationWageringClosed ViolationKind = "wagering_closed"
	ViolationDuplicate      ViolationKind = "duplicate_action"
	ViolationOutOfWindow    ViolationKind = "out_of_window"
	ViolationWrongState     ViolationKind = "wrong_state"
	ViolationPlayerCount    ViolationKind = "player_count"
	ViolationAbilityUsed    ViolationKind = "ability_used"
	ViolationUnknownAction  ViolationKind = "unknown_action"
)

// RuleViolation is returned whenever an action fails validation. The game
// state is guaranteed unchanged; callers receive the violation together with
// the currently valid actions so they can recover without restarting.
type RuleViolation struct {
	Kind    ViolationKind
	Message string
	Field   string
	Details map[string]string
}

func (v *RuleViolation) Error() string {
	if v.Field != "" {
		return fmt.Sprintf("rule violation (%s, %s): %s", v.Kind, v.Field, v.Message)
	}
	return fmt.Sprintf("rule violation (%s): %s", v.Kind, v.Message)
}

func violation(kind ViolationKind, format string, args ...interface{}) *RuleViolation {
	return &RuleViolation{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewRuleViolation builds a violation for callers outside this package that
// gate their own preconditions (score feeds, session routing).
func NewRuleViolation(kind ViolationKind, format string, args ...interface{}) *RuleViolation {
	return violation(kind, format, args...)
}

// AsRuleViolation unwraps err into a RuleViolation if it is one.
func AsRuleViolation(err error) (*RuleViolation, bool) {
	var rv *RuleViolation
	if errors.As(err, &rv) {
		return rv, true
	}
	return nil, false
}

// IncompleteScoreError reports which active players are missing from a score
// feed. Recoverable: the caller resupplies the full feed.
type IncompleteScoreError struct {
	Missing []string
}

func (e *IncompleteScoreError) Error() string {
	return fmt.Sprintf("missing scores for %s", strings.Join(e.Missing, ", "))
}

// ZeroSumViolationError signals that a computed hole settlement does not sum
// to zero. It indicates an internal defect: no player action can cause or
// repair it, so it is surfaced and logged rather than swallowed.
type ZeroSumViolationError struct {
	HoleNumber int
	Sum        float64
}

func (e *ZeroSumViolationError) Error() string {
	return fmt.Sprintf("hole %d settlement sums to %+g quarters, want 0", e.HoleNumber, e.Sum)
}

// ErrHoleAlreadyComplete is returned for duplicate completion requests so a
// retried persistence write never reapplies point deltas.
var ErrHoleAlreadyComplete = errors.New("hole already completed")

// ErrGameComplete is returned for actions arriving after the 18th hole.
var ErrGameComplete = errors.New("game already complete")
