package pacing

import (
	"context"
	"iter"

	"github.com/koscakluka/innervoice/core/dialogue"
)

// Renderer paints skill checks and the continue affordance. Every method must
// be safe to call when no affordance is shown.
type Renderer interface {
	RenderEvent(check dialogue.SkillCheck, showContinue, continueActive bool) error
	SetContinueActive(active bool) error
	ClearContinueAffordance() error
}

// AudioCue plays the sound of a skill category. Unknown categories and
// missing audio are not errors.
type AudioCue interface {
	PlayForCategory(category dialogue.Category) error
}

// Clicker is implemented by audio cues that also acknowledge a confirmation.
type Clicker interface {
	PlayClick() error
}

// NoteStore keeps facts from context updates.
type NoteStore interface {
	Append(ctx context.Context, text string) error
}

// ConfirmationSource blocks until the user asks for the next skill check.
// Returning an error means no confirmation will come, e.g. input was closed or
// the read was cancelled through ctx.
type ConfirmationSource interface {
	AwaitConfirmation(ctx context.Context) error
}

// Extractor is the upstream source drained by Flush.
type Extractor interface {
	Process(fragment string) iter.Seq[dialogue.Event]
	Clear()
}

type noopRenderer struct{}

func (noopRenderer) RenderEvent(dialogue.SkillCheck, bool, bool) error { return nil }
func (noopRenderer) SetContinueActive(bool) error                     { return nil }
func (noopRenderer) ClearContinueAffordance() error                   { return nil }

type noopAudioCue struct{}

func (noopAudioCue) PlayForCategory(dialogue.Category) error { return nil }

type noopNoteStore struct{}

func (noopNoteStore) Append(context.Context, string) error { return nil }
