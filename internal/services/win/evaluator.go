// Package win evaluates terminal conditions after eliminations.
package win

import "github.com/avelkov/godfather/internal/model"

// Outcome is the result of a win check
type Outcome string

const (
	Continue    Outcome = "continue"
	CitizensWin Outcome = "citizens_win"
	MafiaWin    Outcome = "mafia_win"
)

// Terminal reports whether the outcome ends the game
func (o Outcome) Terminal() bool {
	return o != Continue
}

// Team returns the winning team for a terminal outcome
func (o Outcome) Team() model.Team {
	if o == MafiaWin {
		return model.TeamMafia
	}
	return model.TeamCitizens
}

// Evaluate checks the win conditions in order. The ordering is
// deliberate: eliminating the last mafia member is a citizens win even
// when the remaining headcount would also satisfy the parity rule.
func Evaluate(session *model.Session) Outcome {
	aliveMafia := session.AliveCount(model.RoleMafia)
	aliveTown := session.AliveCount() - aliveMafia

	if aliveMafia == 0 {
		return CitizensWin
	}
	if aliveMafia >= aliveTown {
		return MafiaWin
	}
	return Continue
}
