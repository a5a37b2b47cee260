package orchestration

import (
	"context"
	"errors"
	"iter"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/koscakluka/innervoice/core/dialogue"
	"github.com/koscakluka/innervoice/core/llms"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubStream struct {
	chunks []string
	err    error
}

func (s stubStream) Chunks(ctx context.Context) iter.Seq2[llms.StreamChunk, error] {
	return func(yield func(llms.StreamChunk, error) bool) {
		for _, chunk := range s.chunks {
			if !yield(llms.ContentChunk{Text: chunk}, nil) {
				return
			}
		}
		if s.err != nil {
			yield(nil, s.err)
			return
		}
		reason := "end_turn"
		yield(llms.UsageChunk{Reason: &reason, Tokens: llms.Usage{InputTokens: 3, OutputTokens: 5}}, nil)
	}
}

type stubLLM struct {
	mu        sync.Mutex
	responses []stubStream
	calls     []llms.StreamingPromptOptions
	prompts   []string
}

func (s *stubLLM) PromptWithStream(_ context.Context, prompt *string, opts ...llms.StreamingPromptOption) llms.Stream {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, llms.NewStreamingPromptOptions(llms.StreamingPromptOptions{}, opts...))
	s.prompts = append(s.prompts, *prompt)

	response := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return response
}

type recordingRenderer struct {
	mu       sync.Mutex
	rendered []dialogue.SkillCheck
	active   bool
}

func (r *recordingRenderer) RenderEvent(check dialogue.SkillCheck, _, _ bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendered = append(r.rendered, check)
	return nil
}

func (r *recordingRenderer) SetContinueActive(active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = active
	return nil
}

func (r *recordingRenderer) ClearContinueAffordance() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
	return nil
}

func (r *recordingRenderer) Rendered() []dialogue.SkillCheck {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.rendered)
}

type instantConfirmations struct{}

func (instantConfirmations) AwaitConfirmation(context.Context) error { return nil }

type recordingNotes struct {
	mu    sync.Mutex
	notes []string
}

func (n *recordingNotes) Append(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, text)
	return nil
}

func (n *recordingNotes) Contents(context.Context) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return strings.Join(n.notes, "\n"), nil
}

const threeChecks = `<skill name="Logic" difficulty="Easy" success="true">It adds up.</skill>
<skill name="Inland Empire" difficulty="Heroic" success="false">The tie speaks.</skill>
<skill name="Volition" difficulty="Medium" success="true">Get up.</skill>`

// split cuts text into chunks of n bytes, so tags span chunk boundaries.
func split(text string, n int) []string {
	var chunks []string
	for len(text) > n {
		chunks = append(chunks, text[:n])
		text = text[n:]
	}
	return append(chunks, text)
}

func skills(checks []dialogue.SkillCheck) []dialogue.Skill {
	out := make([]dialogue.Skill, len(checks))
	for i, check := range checks {
		out[i] = check.Skill
	}
	return out
}

func TestRespondPresentsEverySkillCheck(t *testing.T) {
	renderer := &recordingRenderer{}
	client := &stubLLM{responses: []stubStream{{chunks: split(threeChecks, 7)}}}
	o := NewOrchestrator(
		WithStreamingLLM(client),
		WithRenderer(renderer),
		WithConfirmationSource(instantConfirmations{}),
	)

	var received strings.Builder
	ended := 0
	err := o.Respond(context.Background(), "what now?",
		WithResponseCallback(func(chunk string) { received.WriteString(chunk) }),
		WithResponseEndCallback(func() { ended++ }),
	)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := []dialogue.Skill{dialogue.SkillLogic, dialogue.SkillInlandEmpire, dialogue.SkillVolition}
	if got := skills(renderer.Rendered()); !slices.Equal(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	if received.String() != threeChecks {
		t.Fatalf("expected the raw response in callbacks, got %q", received.String())
	}
	if ended != 1 {
		t.Fatalf("expected end callback once, got %d", ended)
	}

	history := o.History()
	expectedHistory := []llms.Turn{llms.UserTurn("what now?"), llms.AssistantTurn(threeChecks)}
	if !slices.Equal(history, expectedHistory) {
		t.Fatalf("expected %v, got %v", expectedHistory, history)
	}
}

func TestRespondSendsHistoryAndInstructions(t *testing.T) {
	client := &stubLLM{responses: []stubStream{{chunks: []string{"first"}}, {chunks: []string{"second"}}}}
	o := NewOrchestrator(
		WithStreamingLLM(client, llms.WithTemperature(0.3)),
		WithSystemPrompt(func(context.Context) string { return "be brief" }),
	)

	for _, prompt := range []string{"one", "two"} {
		if err := o.Respond(context.Background(), prompt); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	if !slices.Equal(client.prompts, []string{"one", "two"}) {
		t.Fatalf("expected prompts to be sent, got %v", client.prompts)
	}
	second := client.calls[1]
	if second.Instructions != "be brief" {
		t.Fatalf("expected instructions, got %q", second.Instructions)
	}
	if second.Temperature == nil || *second.Temperature != 0.3 {
		t.Fatalf("expected temperature 0.3, got %v", second.Temperature)
	}
	expectedTurns := []llms.Turn{llms.UserTurn("one"), llms.AssistantTurn("first")}
	if !slices.Equal(second.Turns, expectedTurns) {
		t.Fatalf("expected %v, got %v", expectedTurns, second.Turns)
	}
}

func TestRespondStreamFailureStillPresentsReceivedChecks(t *testing.T) {
	streamErr := errors.New("connection reset")
	renderer := &recordingRenderer{}
	client := &stubLLM{responses: []stubStream{{
		chunks: []string{`<skill name="Logic" difficulty="Easy" success="true">Half</skill><skill name="Drama" `},
		err:    streamErr,
	}}}
	o := NewOrchestrator(WithStreamingLLM(client), WithRenderer(renderer))

	err := o.Respond(context.Background(), "go")
	if !errors.Is(err, streamErr) {
		t.Fatalf("expected stream error, got %v", err)
	}
	if got := skills(renderer.Rendered()); !slices.Equal(got, []dialogue.Skill{dialogue.SkillLogic}) {
		t.Fatalf("expected the complete check to be shown, got %v", got)
	}
	if len(o.History()) != 2 {
		t.Fatalf("expected the partial response in history, got %v", o.History())
	}
}

func TestRespondCancellationResetsPresentation(t *testing.T) {
	renderer := &recordingRenderer{}
	client := &stubLLM{responses: []stubStream{{chunks: []string{threeChecks}}}}
	o := NewOrchestrator(WithStreamingLLM(client), WithRenderer(renderer))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := o.Respond(ctx, "go")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if got := skills(renderer.Rendered()); !slices.Equal(got, []dialogue.Skill{dialogue.SkillLogic}) {
		t.Fatalf("expected only the first check, got %v", got)
	}
	renderer.mu.Lock()
	active := renderer.active
	renderer.mu.Unlock()
	if active {
		t.Fatalf("expected continue affordance to be cleared")
	}
}

func TestConfirmDeliversToRunningTurn(t *testing.T) {
	renderer := &recordingRenderer{}
	client := &stubLLM{responses: []stubStream{{chunks: split(threeChecks, 11)}}}
	o := NewOrchestrator(WithStreamingLLM(client), WithRenderer(renderer))

	if o.Confirm() {
		t.Fatalf("expected no confirmation without a turn")
	}

	done := make(chan error, 1)
	go func() { done <- o.Respond(context.Background(), "go") }()

	deadline := time.After(time.Second)
	for confirmed := 0; confirmed < 2; {
		select {
		case err := <-done:
			t.Fatalf("turn ended after %d confirmations: %v", confirmed, err)
		case <-deadline:
			t.Fatalf("expected turn to wait for confirmations, got %d", confirmed)
		default:
		}
		if o.Confirm() {
			confirmed++
			continue
		}
		time.Sleep(time.Millisecond)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected turn to finish")
	}
	if len(renderer.Rendered()) != 3 {
		t.Fatalf("expected three checks, got %v", renderer.Rendered())
	}
}

func TestRespondStoresContextUpdates(t *testing.T) {
	notes := &recordingNotes{}
	renderer := &recordingRenderer{}
	client := &stubLLM{responses: []stubStream{{chunks: []string{"<context_update>Has a cat named Cuno.</context_update>"}}}}
	o := NewOrchestrator(
		WithStreamingLLM(client),
		WithRenderer(renderer),
		WithNoteStore(notes),
		WithMemoryNotice(func(content string) string { return "remembered: " + content }),
	)

	if err := o.Respond(context.Background(), "I have a cat"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !slices.Equal(notes.notes, []string{"Has a cat named Cuno."}) {
		t.Fatalf("expected note to be stored, got %v", notes.notes)
	}
	rendered := renderer.Rendered()
	if len(rendered) != 1 || rendered[0].Content != "remembered: Has a cat named Cuno." || rendered[0].Skill != dialogue.SkillEncyclopedia {
		t.Fatalf("expected memory notification, got %v", rendered)
	}
}

func TestRespondWithoutLLM(t *testing.T) {
	o := NewOrchestrator()

	ended := false
	err := o.Respond(context.Background(), "hello", WithResponseEndCallback(func() { ended = true }))
	if !errors.Is(err, ErrNoLLM) {
		t.Fatalf("expected ErrNoLLM, got %v", err)
	}
	if !ended {
		t.Fatalf("expected end callback even without a model")
	}
	if len(o.History()) != 0 {
		t.Fatalf("expected empty history, got %v", o.History())
	}
}

func TestTurnsIterators(t *testing.T) {
	var turns Turns
	turns.Push(llms.UserTurn("a"), llms.AssistantTurn("b"))

	var forward, backward []string
	for turn := range turns.Values {
		forward = append(forward, turn.Content)
	}
	for turn := range turns.RValues {
		backward = append(backward, turn.Content)
	}

	if !slices.Equal(forward, []string{"a", "b"}) || !slices.Equal(backward, []string{"b", "a"}) {
		t.Fatalf("expected ordered iteration, got %v and %v", forward, backward)
	}

	turns.Clear()
	if turns.Len() != 0 {
		t.Fatalf("expected no turns after clear, got %d", turns.Len())
	}
}
