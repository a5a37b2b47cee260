package markup

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"log/slog"
	"sync"

	"github.com/koscakluka/innervoice/core/dialogue"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Extractor turns an arbitrarily fragmented stream of text into dialogue
// events. Text outside of known tags is discarded once a tag after it has been
// consumed; an unfinished tag stays buffered until a later fragment completes
// it.
//
// The buffer has no upper bound. A stream that opens a tag and never closes it
// keeps growing it until Clear is called.
type Extractor struct {
	mu     sync.Mutex
	buffer bytes.Buffer

	vocabulary *dialogue.Vocabulary
	logger     *slog.Logger
}

type Option func(*Extractor)

func WithVocabulary(vocabulary *dialogue.Vocabulary) Option {
	return func(e *Extractor) {
		if vocabulary != nil {
			e.vocabulary = vocabulary
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		vocabulary: dialogue.NewVocabulary(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process appends fragment to the buffer and returns the events that became
// complete. The fragment is buffered immediately; tags are only consumed while
// the returned sequence is iterated, so stopping early leaves the rest for the
// next call.
//
// Process("") yields whatever is still complete in the buffer without adding
// anything to it.
func (e *Extractor) Process(fragment string) iter.Seq[dialogue.Event] {
	if fragment != "" {
		e.mu.Lock()
		e.buffer.WriteString(fragment)
		e.mu.Unlock()
	}

	return func(yield func(dialogue.Event) bool) {
		for {
			event, ok := e.next()
			if !ok {
				return
			}
			if !yield(event) {
				return
			}
		}
	}
}

// Remaining returns the unconsumed part of the buffer.
func (e *Extractor) Remaining() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.buffer.String()
}

func (e *Extractor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.buffer.Reset()
}

// next consumes tags from the front of the buffer until one of them produces
// an event, or reports false once no complete tag is left.
func (e *Extractor) next() (dialogue.Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := context.Background()
	for {
		data := e.buffer.Bytes()
		kind, start, found := earliestOpening(data)
		if !found {
			return nil, false
		}

		closeAt := bytes.Index(data[start:], kind.closing)
		if closeAt < 0 {
			return nil, false
		}
		end := start + closeAt + len(kind.closing)

		event, err := kind.parse(e.vocabulary, data[start:end])
		if errors.Is(err, ErrIncompleteTag) {
			e.logger.Debug("partial markup received, waiting for more input",
				slog.String("tag", kind.name),
				slog.String("error", err.Error()),
			)
			return nil, false
		}
		if err != nil {
			e.logger.Error("discarding markup tag",
				slog.String("tag", kind.name),
				slog.String("markup", string(data[start:end])),
				slog.String("error", err.Error()),
			)
			tagsDiscarded.Add(ctx, 1, metric.WithAttributes(attribute.String("tag", kind.name)))
		}

		e.buffer.Next(end)
		if event == nil {
			continue
		}

		eventsExtracted.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(event.Kind()))))
		return event, true
	}
}

func earliestOpening(data []byte) (tagKind, int, bool) {
	var (
		earliest tagKind
		start    = -1
	)
	for _, kind := range tagKinds {
		i := kind.openingIndex(data)
		if i >= 0 && (start < 0 || i < start) {
			earliest, start = kind, i
		}
	}
	return earliest, start, start >= 0
}
