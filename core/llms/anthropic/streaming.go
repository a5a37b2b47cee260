package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/koscakluka/innervoice/core/llms"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultURL       = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 8192

	chunkPrefix = "data:"
)

// ErrStream is returned for error events sent inside an otherwise successful
// response.
var ErrStream = errors.New("anthropic stream error")

// Client streams responses from the Anthropic Messages API.
type Client struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
	defaults   llms.StreamingPromptOptions
}

type ClientOption func(*Client)

// WithURL points the client at a different messages endpoint.
func WithURL(url string) ClientOption {
	return func(c *Client) { c.url = url }
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithDefaultPromptOptions are applied to every prompt before the per-prompt
// options.
func WithDefaultPromptOptions(opts ...llms.StreamingPromptOption) ClientOption {
	return func(c *Client) {
		c.defaults = llms.NewStreamingPromptOptions(c.defaults, opts...)
	}
}

func NewClient(apiKey, model string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey: apiKey,
		model:  model,
		url:    defaultURL,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)},
		defaults: llms.StreamingPromptOptions{MaxTokens: defaultMaxTokens},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PromptWithStream prepares a streamed message. Nothing is sent until the
// returned stream's chunks are ranged over. A nil prompt sends only the turns.
func (c *Client) PromptWithStream(_ context.Context, prompt *string, opts ...llms.StreamingPromptOption) llms.Stream {
	options := llms.NewStreamingPromptOptions(c.defaults, opts...)

	messages := toMessages(options.Turns)
	if prompt != nil {
		messages = appendMessage(messages, roleUser, *prompt)
	}

	return &Stream{
		client: c,
		body: requestBody{
			Model:       c.model,
			System:      options.Instructions,
			Messages:    messages,
			MaxTokens:   options.MaxTokens,
			Temperature: options.Temperature,
			Stream:      true,
		},
	}
}

type Stream struct {
	client *Client
	body   requestBody
}

func (s *Stream) Chunks(ctx context.Context) iter.Seq2[llms.StreamChunk, error] {
	return func(yield func(llms.StreamChunk, error) bool) {
		ctx, span := tracer.Start(ctx, "prompt llm stream")
		defer span.End()
		span.SetAttributes(
			attribute.String("request.provider", "anthropic"),
			attribute.String("request.model", s.body.Model),
		)

		fail := func(err error) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			yield(nil, err)
		}

		requestBodyBytes, err := json.Marshal(s.body)
		if err != nil {
			fail(fmt.Errorf("error marshalling JSON: %w", err))
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.url, bytes.NewReader(requestBodyBytes))
		if err != nil {
			fail(fmt.Errorf("error creating HTTP request: %w", err))
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", s.client.apiKey)
		req.Header.Set("anthropic-version", apiVersion)

		span.SetAttributes(attribute.String("request.url", req.URL.String()))
		requestStart := time.Now()
		span.AddEvent("request started")
		resp, err := s.client.httpClient.Do(req)
		if err != nil {
			fail(fmt.Errorf("error sending request: %w", err))
			return
		}
		defer resp.Body.Close()

		span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
		if resp.StatusCode != http.StatusOK {
			if errorBody, err := io.ReadAll(resp.Body); err == nil {
				span.SetAttributes(attribute.String("response.error", string(errorBody)))
			}
			fail(fmt.Errorf("non-OK HTTP status: %s", resp.Status))
			return
		}

		var usage llms.Usage
		firstDelta := true
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			// event: lines repeat the type carried by the data payload
			if !strings.HasPrefix(line, chunkPrefix) {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, chunkPrefix))
			if data == "" {
				continue
			}

			var event streamEvent
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				err = fmt.Errorf("error unmarshalling JSON: %w", err)
				span.RecordError(err)
				logger.WarnContext(ctx, "skipping unreadable event", slog.String("error", err.Error()))
				if !yield(nil, err) {
					return
				}
				continue
			}

			switch event.Type {
			case eventMessageStart:
				if event.Message != nil {
					usage.InputTokens = event.Message.Usage.InputTokens
					usage.OutputTokens = event.Message.Usage.OutputTokens
				}

			case eventContentBlockDelta:
				if event.Delta == nil || event.Delta.Type != deltaText || event.Delta.Text == "" {
					continue
				}
				if firstDelta {
					firstDelta = false
					span.SetAttributes(attribute.Float64("response.request_to_first_token_time", time.Since(requestStart).Seconds()))
					span.AddEvent("received first chunk")
				}
				if !yield(llms.ContentChunk{Text: event.Delta.Text}, nil) {
					return
				}

			case eventMessageDelta:
				if event.Usage != nil {
					usage.OutputTokens = event.Usage.OutputTokens
				}
				usage.TotalTokens = usage.InputTokens + usage.OutputTokens
				var stopReason *string
				if event.Delta != nil && event.Delta.StopReason != "" {
					reason := event.Delta.StopReason
					stopReason = &reason
					span.SetAttributes(attribute.String("response.stop_reason", reason))
				}
				span.SetAttributes(
					attribute.Int("usage.input", usage.InputTokens),
					attribute.Int("usage.output", usage.OutputTokens),
					attribute.Int("usage.total", usage.TotalTokens),
				)
				if !yield(llms.UsageChunk{Reason: stopReason, Tokens: usage}, nil) {
					return
				}

			case eventMessageStop:
				return

			case eventError:
				message := "unknown error"
				if event.Error != nil {
					message = event.Error.Type + ": " + event.Error.Message
				}
				fail(fmt.Errorf("%w: %s", ErrStream, message))
				return
			}
		}

		if err := scanner.Err(); err != nil {
			fail(fmt.Errorf("error reading streamed response: %w", err))
			return
		}
	}
}
