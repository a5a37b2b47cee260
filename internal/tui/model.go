// Package tui is the terminal interface: the user types prompts, the inner
// voices answer one skill check at a time and Enter moves to the next one.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/koscakluka/innervoice/core/dialogue"
	"github.com/koscakluka/innervoice/core/locale"
	"github.com/muesli/reflow/wordwrap"
)

const defaultWidth = 80

// Labels translates canonical names for display. *locale.Manager implements
// it.
type Labels interface {
	LabelFor(domain, key string) string
}

type phase int

const (
	phasePrompting phase = iota
	phaseResponding
)

// Model is the bubbletea model of the interface. Only the current skill check,
// the continue affordance and the prompt are redrawn; everything before them
// is printed above the program and left in the terminal's scrollback.
type Model struct {
	labels Labels
	input  *input
	click  func()

	prompt textinput.Model
	phase  phase
	width  int

	current    *dialogue.SkillCheck
	affordance affordance
}

func newModel(labels Labels, in *input, click func()) Model {
	prompt := textinput.New()
	prompt.Prompt = ">>> "
	prompt.Placeholder = labels.LabelFor(locale.DomainUI, locale.KeyPromptPlaceholder)
	prompt.Focus()

	if click == nil {
		click = func() {}
	}

	return Model{
		labels: labels,
		input:  in,
		click:  click,
		prompt: prompt,
		phase:  phasePrompting,
		width:  defaultWidth,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prompt.Width = max(msg.Width-len(m.prompt.Prompt)-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case checkMsg:
		cmd := m.retireCurrent()
		m.current = &msg.check
		m.affordance = affordanceHidden
		if msg.showContinue {
			m.affordance = affordanceInactive
			if msg.continueActive {
				m.affordance = affordanceActive
			}
		}
		return m, cmd

	case continueMsg:
		m.affordance = affordanceInactive
		if msg.active {
			m.affordance = affordanceActive
		}
		return m, nil

	case clearContinueMsg:
		m.affordance = affordanceHidden
		return m, nil

	case turnDoneMsg:
		m.phase = phasePrompting
		m.affordance = affordanceHidden
		m.prompt.Reset()
		var cmds []tea.Cmd
		if msg.err != nil {
			cmds = append(cmds, tea.Println(m.wrap(errorStyle.Render("Check failure: "+msg.err.Error()))))
		}
		cmds = append(cmds, m.prompt.Focus())
		return m, tea.Sequence(cmds...)
	}

	if m.phase == phasePrompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		return m, tea.Quit

	case tea.KeyEnter:
		if m.phase == phaseResponding {
			if m.affordance == affordanceActive && m.input.confirm() {
				// the pacer clears the affordance itself, but a second Enter
				// must not queue another confirmation meanwhile
				m.affordance = affordanceInactive
			}
			return m, nil
		}
		return m.submit()
	}

	if m.phase == phasePrompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.prompt.Value())
	switch {
	case text == "":
		return m, nil
	case strings.EqualFold(text, "exit"), strings.EqualFold(text, "quit"):
		return m, tea.Quit
	}

	if !m.input.submit(text) {
		return m, nil
	}

	retire := m.retireCurrent()
	m.prompt.Reset()
	m.prompt.Blur()
	m.phase = phaseResponding

	you := youStyle.Render(m.labels.LabelFor(locale.DomainUI, locale.KeyYou))
	line := m.wrap(you + textStyle.Render(" - "+text))
	click := m.click
	return m, tea.Sequence(
		retire,
		tea.Println("\n"+line),
		func() tea.Msg { click(); return nil },
	)
}

// retireCurrent moves the current skill check into the scrollback.
func (m *Model) retireCurrent() tea.Cmd {
	if m.current == nil {
		return nil
	}
	block := m.formatCheck(*m.current)
	m.current = nil
	return tea.Println(block)
}

func (m Model) View() string {
	var b strings.Builder

	if m.current != nil {
		b.WriteString(m.formatCheck(*m.current))
		b.WriteString("\n")
	}

	switch m.affordance {
	case affordanceInactive:
		b.WriteString(m.continueLabel(continueInactiveStyle))
		b.WriteString("\n")
	case affordanceActive:
		b.WriteString(m.continueLabel(continueActiveStyle))
		b.WriteString("\n")
	}

	if m.phase == phasePrompting {
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
	}

	return b.String()
}

// formatCheck renders "SKILL [Difficulty: Result] - content" with localized
// labels, wrapped to the terminal width.
func (m Model) formatCheck(check dialogue.SkillCheck) string {
	skill := strings.ToUpper(m.labels.LabelFor(locale.DomainSkills, string(check.Skill)))
	difficulty := m.labels.LabelFor(locale.DomainDifficulties, string(check.Difficulty))
	result := locale.KeyFailure
	if check.Success {
		result = locale.KeySuccess
	}
	result = m.labels.LabelFor(locale.DomainResults, result)

	line := skillStyle(check.Category).Render(skill) +
		textStyle.Render(fmt.Sprintf(" [%s: %s] - %s", difficulty, result, check.Content))
	return "\n" + m.wrap(line)
}

func (m Model) continueLabel(style lipgloss.Style) string {
	return style.Render("  " + m.labels.LabelFor(locale.DomainUI, locale.KeyContinuePrompt) + " ▶  ")
}

func (m Model) wrap(text string) string {
	return wordwrap.String(text, m.width)
}
