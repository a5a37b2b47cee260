package tui

import "github.com/koscakluka/innervoice/core/dialogue"

type affordance int

const (
	affordanceHidden affordance = iota
	affordanceInactive
	affordanceActive
)

type (
	checkMsg struct {
		check          dialogue.SkillCheck
		showContinue   bool
		continueActive bool
	}
	continueMsg struct {
		active bool
	}
	clearContinueMsg struct{}

	// turnDoneMsg hands the input back to the user.
	turnDoneMsg struct {
		err error
	}
)
