package llms

import (
	"context"
	"iter"
)

// Stream is a single streamed model response. Chunks starts the request, so
// it should be ranged over once.
type Stream interface {
	Chunks(context.Context) iter.Seq2[StreamChunk, error]
}

type StreamChunk interface {
	// FinishReason is set on the chunk that ended the response.
	FinishReason() *string
}

type StreamContentChunk interface {
	StreamChunk
	Content() string
}

type StreamUsageChunk interface {
	StreamChunk
	Usage() Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ContentChunk is the shared StreamContentChunk implementation of the
// clients.
type ContentChunk struct {
	Reason *string
	Text   string
}

func (c ContentChunk) FinishReason() *string { return c.Reason }
func (c ContentChunk) Content() string       { return c.Text }

// UsageChunk is the shared StreamUsageChunk implementation of the clients.
type UsageChunk struct {
	Reason *string
	Tokens Usage
}

func (c UsageChunk) FinishReason() *string { return c.Reason }
func (c UsageChunk) Usage() Usage          { return c.Tokens }

// FinishChunk carries only the reason the response ended.
type FinishChunk struct {
	Reason *string
}

func (c FinishChunk) FinishReason() *string { return c.Reason }
