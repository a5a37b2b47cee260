package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/koscakluka/innervoice/core/dialogue"
	"github.com/koscakluka/innervoice/core/llms"
	"github.com/koscakluka/innervoice/core/markup"
	"github.com/koscakluka/innervoice/core/pacing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var ErrNoLLM = errors.New("no streaming LLM configured")

// Orchestrator answers prompts one turn at a time: the response is streamed
// from the model, split into skill checks and context updates, and presented
// at the user's pace.
type Orchestrator struct {
	llm   llm
	turns Turns

	// turnMu serializes turns.
	turnMu sync.Mutex

	activeMu sync.Mutex
	active   *pacing.Pacer

	renderer      pacing.Renderer
	cue           pacing.AudioCue
	notes         pacing.NoteStore
	confirmations pacing.ConfirmationSource
	memoryNotice  func(string) string
	vocabulary    *dialogue.Vocabulary
	systemPrompt  func(context.Context) string
	logger        *slog.Logger
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		vocabulary:   dialogue.NewVocabulary(),
		systemPrompt: func(context.Context) string { return BaseSystemPrompt },
		logger:       logger,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Respond runs a single turn for prompt and returns once its last skill check
// was confirmed. Turns never overlap; a second call waits for the first one.
//
// A failing stream still presents what was received before the failure, and
// the failure is returned afterwards. When ctx is cancelled or confirmations
// stop coming, the presentation is reset and the error returned right away.
func (o *Orchestrator) Respond(ctx context.Context, prompt string, opts ...RespondOption) (err error) {
	o.turnMu.Lock()
	defer o.turnMu.Unlock()

	options := RespondOptions{
		onResponse:    func(string) {},
		onResponseEnd: func() {},
	}
	for _, opt := range opts {
		opt(&options)
	}
	defer options.onResponseEnd()

	turnID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "respond to prompt",
		trace.WithAttributes(attribute.String("turn.id", turnID)))
	defer span.End()
	defer func() {
		outcome := "completed"
		if err != nil {
			outcome = "failed"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		turnsCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}()

	if o.llm.client == nil {
		return ErrNoLLM
	}

	log := o.logger.With(slog.String("turn_id", turnID))
	log.InfoContext(ctx, "turn started")

	history := o.turns.Snapshot()
	extractor := markup.NewExtractor(
		markup.WithVocabulary(o.vocabulary),
		markup.WithLogger(log),
	)
	pacer := o.newPacer(log)
	o.setActive(pacer)
	defer o.setActive(nil)

	response, streamErr := o.llm.generate(ctx, prompt, o.systemPrompt(ctx), history, func(chunk string) error {
		options.onResponse(chunk)
		for event := range extractor.Process(chunk) {
			if err := pacer.Submit(ctx, event); err != nil {
				return err
			}
		}
		return nil
	})

	o.turns.Push(llms.UserTurn(prompt))
	if response != "" {
		o.turns.Push(llms.AssistantTurn(response))
	}

	switch {
	case streamErr == nil:
	case isChunkRejected(streamErr), ctx.Err() != nil:
		extractor.Clear()
		pacer.Reset()
		return fmt.Errorf("turn %s interrupted: %w", turnID, streamErr)
	default:
		log.ErrorContext(ctx, "response stream failed", slog.String("error", streamErr.Error()))
	}

	if err := pacer.Flush(ctx, extractor); err != nil {
		return fmt.Errorf("turn %s interrupted: %w", turnID, err)
	}
	if streamErr != nil {
		return streamErr
	}

	log.InfoContext(ctx, "turn finished", slog.Int("response_length", len(response)))
	return nil
}

// Confirm delivers a confirmation to the running turn. It reports false when
// no skill check is waiting.
func (o *Orchestrator) Confirm() bool {
	o.activeMu.Lock()
	active := o.active
	o.activeMu.Unlock()

	if active == nil {
		return false
	}
	return active.Confirm()
}

// History returns the turns answered so far.
func (o *Orchestrator) History() []llms.Turn {
	return o.turns.Snapshot()
}

// ClearHistory forgets all previous turns.
func (o *Orchestrator) ClearHistory() {
	o.turns.Clear()
}

func (o *Orchestrator) newPacer(log *slog.Logger) *pacing.Pacer {
	return pacing.New(
		pacing.WithRenderer(o.renderer),
		pacing.WithAudioCue(o.cue),
		pacing.WithNoteStore(o.notes),
		pacing.WithConfirmationSource(o.confirmations),
		pacing.WithMemoryNotice(o.memoryNotice),
		pacing.WithLogger(log),
	)
}

func (o *Orchestrator) setActive(pacer *pacing.Pacer) {
	o.activeMu.Lock()
	defer o.activeMu.Unlock()
	o.active = pacer
}
