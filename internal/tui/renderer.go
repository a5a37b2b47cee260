package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/koscakluka/innervoice/core/dialogue"
)

type sender interface {
	Send(msg tea.Msg)
}

// Renderer shows skill checks and the continue affordance in the running
// program. It is safe for concurrent use.
type Renderer struct {
	program sender
}

func (r *Renderer) RenderEvent(check dialogue.SkillCheck, showContinue, continueActive bool) error {
	r.program.Send(checkMsg{check: check, showContinue: showContinue, continueActive: continueActive})
	return nil
}

func (r *Renderer) SetContinueActive(active bool) error {
	r.program.Send(continueMsg{active: active})
	return nil
}

func (r *Renderer) ClearContinueAffordance() error {
	r.program.Send(clearContinueMsg{})
	return nil
}
