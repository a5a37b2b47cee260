package tui

import (
	"context"
	"errors"
	"sync"
)

// ErrInputClosed is returned by Confirmations once the interface has exited.
var ErrInputClosed = errors.New("input closed")

// input carries what the user does in the interface to the goroutines running
// the turns. Sends never block the interface.
type input struct {
	prompts       chan string
	confirmations chan struct{}
	closed        chan struct{}
	closeOnce     sync.Once
}

func newInput() *input {
	return &input{
		prompts:       make(chan string, 1),
		confirmations: make(chan struct{}, 1),
		closed:        make(chan struct{}),
	}
}

// submit queues prompt. A confirmation left over from the previous turn is
// dropped so it cannot skip a line of the next one.
func (in *input) submit(prompt string) bool {
	select {
	case <-in.confirmations:
	default:
	}

	select {
	case in.prompts <- prompt:
		return true
	default:
		return false
	}
}

func (in *input) confirm() bool {
	select {
	case in.confirmations <- struct{}{}:
		return true
	default:
		return false
	}
}

// close must only be called once nothing submits anymore.
func (in *input) close() {
	in.closeOnce.Do(func() {
		close(in.closed)
		close(in.prompts)
	})
}

// Confirmations reads the user's requests for the next skill check.
type Confirmations struct {
	input *input
}

// AwaitConfirmation blocks until the user confirms, the interface exits
// (ErrInputClosed) or ctx is done.
func (c *Confirmations) AwaitConfirmation(ctx context.Context) error {
	select {
	case <-c.input.confirmations:
		return nil
	case <-c.input.closed:
		return ErrInputClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
