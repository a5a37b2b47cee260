package orchestration

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/innervoice/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var turnsCompleted, _ = meter.Int64Counter("orchestration.turns",
	metric.WithDescription("Turns answered, by outcome"),
	metric.WithUnit("{turn}"))
