package pacing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/koscakluka/innervoice/core/dialogue"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type State int

const (
	// StateIdle has nothing on display.
	StateIdle State = iota
	// StateHolding has one skill check on display and nothing waiting.
	StateHolding
	// StateAwaitingConfirm has one skill check on display and one waiting
	// for the user to continue.
	StateAwaitingConfirm
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHolding:
		return "holding"
	case StateAwaitingConfirm:
		return "awaiting_confirm"
	default:
		return "unknown"
	}
}

// Pacer presents skill checks one at a time. It holds at most two of them:
// the one on display and the next one, which is shown once the user
// confirms. Submitting while both slots are taken blocks until the
// confirmation arrives, so nothing is ever dropped or reordered.
//
// A Pacer serves a single turn. Flush ends the turn and leaves the Pacer idle
// and ready for reuse.
type Pacer struct {
	mu      sync.Mutex
	current *dialogue.SkillCheck
	pending *dialogue.SkillCheck
	// waiting is set while pending awaits confirmation.
	waiting *confirmationWait

	renderer      Renderer
	cue           AudioCue
	notes         NoteStore
	confirmations ConfirmationSource
	memoryNotice  func(string) string
	logger        *slog.Logger
}

// confirmationWait is one stretch of time spent in StateAwaitingConfirm.
// done is closed exactly once, when the wait ends for whatever reason; err
// explains why the wait ended without a confirmation.
type confirmationWait struct {
	done   chan struct{}
	cancel context.CancelFunc
	ended  bool
	err    error
}

func (w *confirmationWait) end(err error) {
	if w.ended {
		return
	}
	w.ended = true
	w.err = err
	w.cancel()
	close(w.done)
}

func New(opts ...Option) *Pacer {
	p := &Pacer{
		renderer:     noopRenderer{},
		cue:          noopAudioCue{},
		notes:        noopNoteStore{},
		memoryNotice: defaultMemoryNotice,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pacer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.current == nil:
		return StateIdle
	case p.waiting == nil:
		return StateHolding
	default:
		return StateAwaitingConfirm
	}
}

// Submit presents event, or queues it as the next one. When a skill check is
// already waiting, Submit blocks until the user confirms, ctx is done or the
// confirmation read fails. In the last two cases the pacer is reset before the
// error is returned.
//
// ctx also bounds the confirmation read started by Submit, so it should live
// as long as the turn.
func (p *Pacer) Submit(ctx context.Context, event dialogue.Event) error {
	check, ok := p.presentable(ctx, event)
	if !ok {
		return nil
	}

	for {
		p.mu.Lock()
		if p.current == nil {
			p.display(ctx, check)
			p.mu.Unlock()
			return nil
		}
		if p.waiting == nil {
			p.hold(ctx, check)
			p.mu.Unlock()
			return nil
		}
		waiting := p.waiting
		p.mu.Unlock()

		if err := p.await(ctx, waiting); err != nil {
			return err
		}
	}
}

// Confirm promotes the waiting skill check to the display. It reports false
// when nothing was waiting.
func (p *Pacer) Confirm() bool {
	return p.confirm(context.Background(), nil)
}

// Flush pushes whatever extractor still holds through the pacer, waits for the
// last confirmation and resets. The extractor is cleared afterwards, also when
// flushing fails.
func (p *Pacer) Flush(ctx context.Context, extractor Extractor) error {
	ctx, span := tracer.Start(ctx, "flush pacer")
	defer span.End()
	defer p.Reset()

	if extractor != nil {
		defer extractor.Clear()
		for event := range extractor.Process("") {
			if err := p.Submit(ctx, event); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
		}
	}

	p.mu.Lock()
	waiting := p.waiting
	p.mu.Unlock()
	if waiting == nil {
		return nil
	}

	if err := p.await(ctx, waiting); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Reset empties both slots, abandons a confirmation in progress and removes
// the continue affordance.
func (p *Pacer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.waiting != nil {
		p.waiting.end(ErrReset)
		p.waiting = nil
	}
	p.current = nil
	p.pending = nil

	p.logIfFailed(context.Background(), "clear continue affordance", p.renderer.ClearContinueAffordance())
}

// presentable turns event into the skill check to pace. Context updates are
// stored and replaced by a memory notification; blank ones are dropped.
func (p *Pacer) presentable(ctx context.Context, event dialogue.Event) (dialogue.SkillCheck, bool) {
	switch event := event.(type) {
	case dialogue.SkillCheck:
		return event, true
	case dialogue.ContextUpdate:
		content := strings.TrimSpace(event.Content)
		if content == "" {
			return dialogue.SkillCheck{}, false
		}
		p.logIfFailed(ctx, "store context update", p.notes.Append(ctx, content))
		p.logger.InfoContext(ctx, "context updated", slog.String("content", content))
		return dialogue.NewMemoryNotification(p.memoryNotice(content)), true
	default:
		p.logger.WarnContext(ctx, "ignoring unsupported event", slog.String("kind", string(event.Kind())))
		return dialogue.SkillCheck{}, false
	}
}

// display puts check on screen as the current one. p.mu must be held.
func (p *Pacer) display(ctx context.Context, check dialogue.SkillCheck) {
	p.current = &check
	p.logIfFailed(ctx, "render skill check", p.renderer.RenderEvent(check, true, false))
	if check.HasCategory() {
		p.logIfFailed(ctx, "play category cue", p.cue.PlayForCategory(check.Category))
	}
	eventsPresented.Add(ctx, 1, metric.WithAttributes(attribute.String("skill", string(check.Skill))))
}

// hold keeps check as the next one and starts waiting for confirmation. p.mu
// must be held.
func (p *Pacer) hold(ctx context.Context, check dialogue.SkillCheck) {
	readCtx, cancel := context.WithCancel(ctx)
	waiting := &confirmationWait{done: make(chan struct{}), cancel: cancel}

	p.pending = &check
	p.waiting = waiting
	p.logIfFailed(ctx, "activate continue affordance", p.renderer.SetContinueActive(true))

	if p.confirmations != nil {
		go p.readConfirmation(readCtx, waiting)
	}
}

func (p *Pacer) readConfirmation(ctx context.Context, waiting *confirmationWait) {
	ctx, span := tracer.Start(ctx, "await confirmation")
	defer span.End()

	if err := p.confirmations.AwaitConfirmation(ctx); err != nil {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.waiting != waiting {
			return
		}
		err = fmt.Errorf("%w: %w", ErrConfirmationFailed, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		waiting.end(err)
		return
	}

	p.confirm(ctx, waiting)
}

// confirm is the only transition out of StateAwaitingConfirm other than a
// reset. A confirmation for a wait that already ended is ignored; a nil
// waiting matches whichever wait is current.
func (p *Pacer) confirm(ctx context.Context, waiting *confirmationWait) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.waiting == nil || p.waiting.ended || (waiting != nil && p.waiting != waiting) {
		return false
	}
	waiting = p.waiting

	p.logIfFailed(ctx, "clear continue affordance", p.renderer.ClearContinueAffordance())
	if clicker, ok := p.cue.(Clicker); ok {
		p.logIfFailed(ctx, "play click", clicker.PlayClick())
	}

	next := *p.pending
	p.pending = nil
	p.waiting = nil
	p.display(ctx, next)
	confirmationsHandled.Add(ctx, 1)

	waiting.end(nil)
	return true
}

// await blocks until waiting ends. Any reason other than a confirmation resets
// the pacer and is returned.
func (p *Pacer) await(ctx context.Context, waiting *confirmationWait) error {
	select {
	case <-waiting.done:
	case <-ctx.Done():
		p.Reset()
		return ctx.Err()
	}

	p.mu.Lock()
	err := waiting.err
	p.mu.Unlock()

	if err != nil {
		p.Reset()
		return err
	}
	return nil
}

func (p *Pacer) logIfFailed(ctx context.Context, action string, err error) {
	if err == nil {
		return
	}

	err = fmt.Errorf("failed to %s: %w", action, err)
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	p.logger.ErrorContext(ctx, "pacing side effect failed", slog.String("error", err.Error()))
}
