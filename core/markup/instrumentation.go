package markup

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/innervoice/core/markup"

var (
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	eventsExtracted, _ = meter.Int64Counter("markup.events_extracted",
		metric.WithDescription("Events extracted from streamed responses"))
	tagsDiscarded, _ = meter.Int64Counter("markup.tags_discarded",
		metric.WithDescription("Complete tags dropped because they could not be interpreted"))
)
