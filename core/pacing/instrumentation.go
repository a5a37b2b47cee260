package pacing

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/innervoice/core/pacing"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	eventsPresented, _ = meter.Int64Counter("pacing.events_presented",
		metric.WithDescription("Skill checks put on display"))
	confirmationsHandled, _ = meter.Int64Counter("pacing.confirmations",
		metric.WithDescription("Confirmations that promoted a pending skill check"))
)
