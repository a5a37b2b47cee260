package orchestration

import (
	"context"
	"log/slog"

	"github.com/koscakluka/innervoice/core/dialogue"
	"github.com/koscakluka/innervoice/core/llms"
	"github.com/koscakluka/innervoice/core/pacing"
)

type OrchestratorOption func(*Orchestrator)

type LLMWithStream interface {
	PromptWithStream(ctx context.Context, prompt *string, opts ...llms.StreamingPromptOption) llms.Stream
}

// WithStreamingLLM sets the model answering the prompts. opts are applied to
// every prompt, e.g. the temperature.
func WithStreamingLLM(client LLMWithStream, opts ...llms.StreamingPromptOption) OrchestratorOption {
	return func(o *Orchestrator) {
		o.llm.client = client
		o.llm.promptOptions = append([]llms.StreamingPromptOption(nil), opts...)
	}
}

func WithRenderer(renderer pacing.Renderer) OrchestratorOption {
	return func(o *Orchestrator) { o.renderer = renderer }
}

// WithAudioCue sets the category cue player. When it also implements
// pacing.Clicker, confirmations are acknowledged with a click.
func WithAudioCue(cue pacing.AudioCue) OrchestratorOption {
	return func(o *Orchestrator) { o.cue = cue }
}

func WithNoteStore(notes pacing.NoteStore) OrchestratorOption {
	return func(o *Orchestrator) { o.notes = notes }
}

// WithConfirmationSource lets every turn read confirmations by itself.
// Without one, confirmations are delivered through Orchestrator.Confirm.
func WithConfirmationSource(source pacing.ConfirmationSource) OrchestratorOption {
	return func(o *Orchestrator) { o.confirmations = source }
}

// WithVocabulary sets how skill and difficulty names in the responses are
// recognized.
func WithVocabulary(vocabulary *dialogue.Vocabulary) OrchestratorOption {
	return func(o *Orchestrator) {
		if vocabulary != nil {
			o.vocabulary = vocabulary
		}
	}
}

func WithMemoryNotice(notice func(content string) string) OrchestratorOption {
	return func(o *Orchestrator) { o.memoryNotice = notice }
}

func WithLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSystemPrompt sets the builder of the instructions sent with each
// prompt. It is called once per turn.
func WithSystemPrompt(build func(ctx context.Context) string) OrchestratorOption {
	return func(o *Orchestrator) {
		if build != nil {
			o.systemPrompt = build
		}
	}
}

type RespondOptions struct {
	onResponse    func(string)
	onResponseEnd func()
}

type RespondOption func(*RespondOptions)

// WithResponseCallback is called with every raw chunk of the response,
// markup included.
func WithResponseCallback(callback func(chunk string)) RespondOption {
	return func(o *RespondOptions) { o.onResponse = callback }
}

// WithResponseEndCallback is called once the response was fully presented or
// the turn ended early.
func WithResponseEndCallback(callback func()) RespondOption {
	return func(o *RespondOptions) { o.onResponseEnd = callback }
}
