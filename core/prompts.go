package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/koscakluka/innervoice/core/dialogue"
)

// BaseSystemPrompt describes the voices and the markup they answer in.
var BaseSystemPrompt = baseSystemPrompt()

func baseSystemPrompt() string {
	var b strings.Builder

	b.WriteString(`You are the inner voices of a detective, in the style of Disco Elysium. Answer only in markup, one tag per line of dialogue. Success, failure and difficulty follow from the context:

<skill name="[skill name]" difficulty="[difficulty]" success="[true/false]">[dialogue line]</skill>

Skill checks:
- A skill that gives up on the user or caves in fails.
- A skill that goes too far or suggests something absurd or inappropriate fails.
- Difficulty follows how hard the thought is, from the easiest to the hardest: `)
	difficulties := dialogue.Difficulties()
	names := make([]string, len(difficulties))
	for i, difficulty := range difficulties {
		names[i] = string(difficulty)
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(".\n\nSkills by category:\n")

	for _, category := range dialogue.Categories() {
		fmt.Fprintf(&b, "\n%s:\n", category)
		for _, skill := range dialogue.Skills(category) {
			fmt.Fprintf(&b, "- %s\n", skill)
		}
	}

	b.WriteString(`
Skills talk to each other: they agree, argue, interrupt and undermine one another, and the conclusions come out of that exchange. Volition stays on the user's side until the end. Inland Empire brings odd, mystical intuitions.

Keep it engaging, philosophical and sometimes absurd. Humour, sarcasm and rude language are fine when they fit.

Rules:
- No actions in asterisks. These are voices inside the user's head.
- Answer in the language of the input, skill names included.
- Do not address the user by name in the discussion between skills. Use "Detective", "Cop", "Dude" or "Man" instead, and the name only when asking the user directly.
- The user is not one of the voices.
- Use the user context only when the dialogue needs it.
- The date given with the prompt is the current date.
- When the user shares a lasting fact about themselves worth remembering, add it on its own line as <context_update>[the fact]</context_update>.
`)

	return b.String()
}

// NotesReader provides the user context added to the system prompt.
type NotesReader interface {
	Contents(ctx context.Context) (string, error)
}

type SystemPromptOption func(*systemPrompt)

type systemPrompt struct {
	base                string
	notes               NotesReader
	languageInstruction string
	now                 func() time.Time
	logger              *slog.Logger
}

// WithUserContext prepends the stored notes to every prompt.
func WithUserContext(notes NotesReader) SystemPromptOption {
	return func(p *systemPrompt) { p.notes = notes }
}

// WithLanguageInstruction tells the model which language to answer in.
func WithLanguageInstruction(instruction string) SystemPromptOption {
	return func(p *systemPrompt) { p.languageInstruction = instruction }
}

func WithClock(now func() time.Time) SystemPromptOption {
	return func(p *systemPrompt) {
		if now != nil {
			p.now = now
		}
	}
}

func WithBasePrompt(base string) SystemPromptOption {
	return func(p *systemPrompt) { p.base = base }
}

func WithPromptLogger(l *slog.Logger) SystemPromptOption {
	return func(p *systemPrompt) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewSystemPrompt returns a builder for WithSystemPrompt. The result is, in
// order: the user context, the current date and time, the language
// instruction and the base prompt, separated by blank lines. Unreadable notes
// are logged and left out.
func NewSystemPrompt(opts ...SystemPromptOption) func(ctx context.Context) string {
	p := &systemPrompt{
		base:   BaseSystemPrompt,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}

	return func(ctx context.Context) string {
		var sections []string
		if p.notes != nil {
			contents, err := p.notes.Contents(ctx)
			if err != nil {
				p.logger.ErrorContext(ctx, "failed to read user context", slog.String("error", err.Error()))
			} else if contents = strings.TrimSpace(contents); contents != "" {
				sections = append(sections, contents)
			}
		}

		sections = append(sections, "Current date and time: "+p.now().Format("Monday, 2 January 2006 15:04"))
		if p.languageInstruction != "" {
			sections = append(sections, p.languageInstruction)
		}
		sections = append(sections, strings.TrimSpace(p.base))

		return strings.Join(sections, "\n\n")
	}
}
