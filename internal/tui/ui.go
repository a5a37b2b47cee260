package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// UI owns the terminal while it runs.
type UI struct {
	program *tea.Program
	input   *input
}

type Option func(*options)

type options struct {
	click       func()
	programOpts []tea.ProgramOption
}

// WithSubmitSound is played every time a prompt is submitted.
func WithSubmitSound(click func()) Option {
	return func(o *options) { o.click = click }
}

// WithProgramOptions is passed to bubbletea, e.g. to replace the terminal in
// tests.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(o *options) { o.programOpts = append(o.programOpts, opts...) }
}

func New(labels Labels, opts ...Option) *UI {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	in := newInput()
	return &UI{
		program: tea.NewProgram(newModel(labels, in, o.click), o.programOpts...),
		input:   in,
	}
}

// Run blocks until the user quits. Prompts is closed and Confirmations stop
// waiting afterwards.
func (u *UI) Run() error {
	defer u.input.close()

	if _, err := u.program.Run(); err != nil {
		return fmt.Errorf("run terminal interface: %w", err)
	}
	return nil
}

// Prompts delivers submitted prompts. The next prompt can only be submitted
// after TurnDone.
func (u *UI) Prompts() <-chan string { return u.input.prompts }

func (u *UI) Renderer() *Renderer { return &Renderer{program: u.program} }

func (u *UI) Confirmations() *Confirmations { return &Confirmations{input: u.input} }

// TurnDone gives the prompt back to the user. A non-nil err is shown.
func (u *UI) TurnDone(err error) {
	u.program.Send(turnDoneMsg{err: err})
}

func (u *UI) Quit() { u.program.Quit() }
