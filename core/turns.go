package orchestration

import (
	"slices"
	"sync"

	"github.com/koscakluka/innervoice/core/llms"
)

type Turns struct {
	mu    sync.RWMutex
	turns []llms.Turn
}

// Push adds new turns to the stored turns
func (t *Turns) Push(turns ...llms.Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turns...)
}

// Clear removes all stored turns
func (t *Turns) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = nil
}

// Snapshot returns a copy of the stored turns from the earliest to the latest
func (t *Turns) Snapshot() []llms.Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.turns)
}

// Values is an iterator that goes over all the stored turns starting from the
// earliest towards the latest
func (t *Turns) Values(yield func(llms.Turn) bool) {
	for _, turn := range t.Snapshot() {
		if !yield(turn) {
			return
		}
	}
}

// RValues is an iterator that goes over all the stored turns starting from the
// latest towards the earliest
func (t *Turns) RValues(yield func(llms.Turn) bool) {
	for _, turn := range slices.Backward(t.Snapshot()) {
		if !yield(turn) {
			return
		}
	}
}

func (t *Turns) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}
