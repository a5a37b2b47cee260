package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/koscakluka/innervoice/core/dialogue"
	"github.com/koscakluka/innervoice/core/locale"
)

var logicCheck = dialogue.SkillCheck{
	Skill:      dialogue.SkillLogic,
	Difficulty: dialogue.DifficultyEasy,
	Success:    true,
	Content:    "It adds up.",
	Category:   dialogue.CategoryIntellect,
}

func newTestModel(t *testing.T, language string) (Model, *input) {
	t.Helper()
	labels, err := locale.Load(language)
	if err != nil {
		t.Fatalf("expected %s labels, got %v", language, err)
	}
	in := newInput()
	return newModel(labels, in, nil), in
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func responding(t *testing.T, m Model, in *input) Model {
	t.Helper()
	m.prompt.SetValue("who am I?")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	<-in.prompts
	return m
}

func TestSubmitPrompt(t *testing.T) {
	m, in := newTestModel(t, "en")
	m.prompt.SetValue("  who am I?  ")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case prompt := <-in.prompts:
		if prompt != "who am I?" {
			t.Fatalf("expected trimmed prompt, got %q", prompt)
		}
	default:
		t.Fatalf("expected prompt to be submitted")
	}
	if m.phase != phaseResponding {
		t.Fatalf("expected responding phase, got %v", m.phase)
	}
	if cmd == nil {
		t.Fatalf("expected the prompt to be printed")
	}
	if strings.Contains(m.View(), ">>>") {
		t.Fatalf("expected prompt to be hidden while responding, got %q", m.View())
	}
}

func TestSubmitIgnoresBlankPrompt(t *testing.T) {
	m, in := newTestModel(t, "en")
	m.prompt.SetValue("   ")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case prompt := <-in.prompts:
		t.Fatalf("expected nothing to be submitted, got %q", prompt)
	default:
	}
	if m.phase != phasePrompting {
		t.Fatalf("expected to keep prompting")
	}
}

func TestExitCommandsQuit(t *testing.T) {
	for _, text := range []string{"exit", "QUIT"} {
		m, _ := newTestModel(t, "en")
		m.prompt.SetValue(text)

		_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatalf("%s: expected quit command", text)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: expected quit message", text)
		}
	}

	m, _ := newTestModel(t, "en")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected ctrl+c to quit")
	}
}

func TestCheckIsShownWithAffordance(t *testing.T) {
	m, in := newTestModel(t, "en")
	m = responding(t, m, in)

	m, _ = update(t, m, checkMsg{check: logicCheck, showContinue: true})
	view := m.View()
	if !strings.Contains(view, "LOGIC [Easy: Success] - It adds up.") {
		t.Fatalf("expected formatted check, got %q", view)
	}
	if !strings.Contains(view, "CONTINUE ▶") {
		t.Fatalf("expected continue affordance, got %q", view)
	}

	m, _ = update(t, m, clearContinueMsg{})
	if strings.Contains(m.View(), "CONTINUE") {
		t.Fatalf("expected affordance to be hidden, got %q", m.View())
	}
}

func TestCheckUsesLocalizedLabels(t *testing.T) {
	m, _ := newTestModel(t, "ru")
	failed := logicCheck
	failed.Success = false

	formatted := m.formatCheck(failed)
	labels, _ := locale.Load("ru")
	expected := strings.ToUpper(labels.LabelFor(locale.DomainSkills, "Logic")) +
		" [" + labels.LabelFor(locale.DomainDifficulties, "Easy") + ": " +
		labels.LabelFor(locale.DomainResults, locale.KeyFailure) + "]"
	if !strings.Contains(formatted, expected) {
		t.Fatalf("expected %q in %q", expected, formatted)
	}
}

func TestNewCheckRetiresPrevious(t *testing.T) {
	m, in := newTestModel(t, "en")
	m = responding(t, m, in)

	m, cmd := update(t, m, checkMsg{check: logicCheck})
	if cmd != nil {
		t.Fatalf("expected nothing to retire for the first check")
	}

	next := logicCheck
	next.Content = "Second thought."
	m, cmd = update(t, m, checkMsg{check: next})
	if cmd == nil {
		t.Fatalf("expected previous check to be printed")
	}
	if strings.Contains(m.View(), "It adds up.") || !strings.Contains(m.View(), "Second thought.") {
		t.Fatalf("expected only the new check in view, got %q", m.View())
	}
}

func TestEnterConfirmsOnlyWhenActive(t *testing.T) {
	m, in := newTestModel(t, "en")
	m = responding(t, m, in)
	m, _ = update(t, m, checkMsg{check: logicCheck, showContinue: true})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	select {
	case <-in.confirmations:
		t.Fatalf("expected no confirmation while the affordance is inactive")
	default:
	}

	m, _ = update(t, m, continueMsg{active: true})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case <-in.confirmations:
	default:
		t.Fatalf("expected a confirmation")
	}
	select {
	case <-in.confirmations:
		t.Fatalf("expected a single confirmation for repeated presses")
	default:
	}
	if m.affordance != affordanceInactive {
		t.Fatalf("expected affordance to turn inactive after confirming")
	}
}

func TestTurnDoneReturnsPrompt(t *testing.T) {
	m, in := newTestModel(t, "en")
	m = responding(t, m, in)
	m, _ = update(t, m, checkMsg{check: logicCheck})

	m, cmd := update(t, m, turnDoneMsg{err: errors.New("stream broke")})
	if m.phase != phasePrompting {
		t.Fatalf("expected prompting phase")
	}
	if cmd == nil {
		t.Fatalf("expected error to be printed")
	}
	view := m.View()
	if !strings.Contains(view, ">>> ") || !strings.Contains(view, "It adds up.") {
		t.Fatalf("expected last check and prompt, got %q", view)
	}
}

func TestChecksWrapToWidth(t *testing.T) {
	m, _ := newTestModel(t, "en")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 24, Height: 10})

	long := logicCheck
	long.Content = "The body is a vessel and the vessel is very tired tonight."
	for _, line := range strings.Split(m.formatCheck(long), "\n") {
		if lipgloss.Width(line) > 24 {
			t.Fatalf("expected lines of at most 24 cells, got %q", line)
		}
	}
}
