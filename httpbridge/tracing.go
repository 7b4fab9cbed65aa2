package httpbridge

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vitalvas/strada/dispatch"
)

// Default tracer name for bridge spans.
const defaultTracerName = "strada"

type bridgeTracer struct {
	tracer trace.Tracer
}

// WithTracing wraps every dispatch in an OpenTelemetry span. Spans start out
// named "METHOD path" and are renamed to "METHOD template" once a route
// matches, keeping span names low-cardinality. Dispatch errors are recorded
// on the span and set its status.
//
// The tracer is resolved from the global tracer provider. Configure the
// provider in your main() before starting the server:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func WithTracing(tracerName string) Option {
	return func(b *Bridge) {
		if tracerName == "" {
			tracerName = defaultTracerName
		}

		b.tracer = &bridgeTracer{tracer: otel.Tracer(tracerName)}
	}
}

// dispatchSpan carries an open span across a single dispatch.
type dispatchSpan struct {
	span   trace.Span
	method string
}

func (t *bridgeTracer) start(ctx context.Context, method, path string) (context.Context, *dispatchSpan) {
	ctx, span := t.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("dispatch.method", method),
			attribute.String("dispatch.path", path),
		),
	)

	return ctx, &dispatchSpan{span: span, method: method}
}

func (s *dispatchSpan) finish(outcome dispatch.Outcome, err error) {
	if outcome.Route != nil {
		s.span.SetName(s.method + " " + outcome.Route.Template())
		s.span.SetAttributes(attribute.String("dispatch.route", outcome.Route.Template()))
	}

	s.span.SetAttributes(attribute.String("dispatch.outcome", outcome.Kind.String()))

	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}

	s.span.End()
}
