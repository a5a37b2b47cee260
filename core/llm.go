package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/koscakluka/innervoice/core/llms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type llm struct {
	// client is the configured streaming LLM implementation.
	client LLMWithStream
	// promptOptions are applied to every prompt before the per-turn ones.
	promptOptions []llms.StreamingPromptOption
}

// errChunkRejected wraps errors returned by the chunk callback so they can be
// told apart from stream failures.
type errChunkRejected struct{ err error }

func (e errChunkRejected) Error() string { return e.err.Error() }
func (e errChunkRejected) Unwrap() error { return e.err }

// generate streams a response to prompt and passes every content chunk to
// onChunk. It returns everything that was received, even when the stream
// failed midway.
func (runtime *llm) generate(
	ctx context.Context,
	prompt string,
	instructions string,
	conversation []llms.Turn,
	onChunk func(string) error,
) (string, error) {
	span := trace.SpanFromContext(ctx)

	if runtime == nil || runtime.client == nil {
		return "", ErrNoLLM
	}

	opts := append([]llms.StreamingPromptOption{
		llms.WithInstructions(instructions),
		llms.WithTurns(conversation...),
	}, runtime.promptOptions...)
	stream := runtime.client.PromptWithStream(ctx, &prompt, opts...)

	var message strings.Builder
	for chunk, err := range stream.Chunks(ctx) {
		if err != nil {
			err = fmt.Errorf("failed to stream llm response: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return message.String(), err
		}

		switch chunk := chunk.(type) {
		case llms.StreamContentChunk:
			message.WriteString(chunk.Content())
			if err := onChunk(chunk.Content()); err != nil {
				return message.String(), errChunkRejected{err}
			}

		case llms.StreamUsageChunk:
			usage := chunk.Usage()
			span.SetAttributes(
				attribute.Int("response.usage.input_tokens", usage.InputTokens),
				attribute.Int("response.usage.output_tokens", usage.OutputTokens),
			)
		}

		if reason := chunk.FinishReason(); reason != nil {
			span.SetAttributes(attribute.String("response.finish_reason", *reason))
		}
	}

	return message.String(), nil
}

func isChunkRejected(err error) bool {
	var rejected errChunkRejected
	return errors.As(err, &rejected)
}
