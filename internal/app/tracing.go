package app

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/amaumene/kioskarr/internal/config"
)

// logSpanProcessor writes every ended span to the debug log
type logSpanProcessor struct {
	logger zerolog.Logger
}

func (p *logSpanProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {}

func (p *logSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	event := p.logger.Debug().
		Str("span", s.Name()).
		Str("trace_id", s.SpanContext().TraceID().String()).
		Dur("duration", s.EndTime().Sub(s.StartTime())).
		Str("status", s.Status().Code.String())
	for _, attr := range s.Attributes() {
		event = event.Str(string(attr.Key), attr.Value.Emit())
	}
	event.Msg("Span ended")
}

func (p *logSpanProcessor) Shutdown(ctx context.Context) error   { return nil }
func (p *logSpanProcessor) ForceFlush(ctx context.Context) error { return nil }

// ProvideTracerProvider installs an SDK tracer provider logging spans when tracing
// is enabled, and falls back to the global no-op provider otherwise.
func ProvideTracerProvider(cfg *config.Config, logger zerolog.Logger) (trace.TracerProvider, func(), error) {
	if !cfg.TracingEnabled {
		return otel.GetTracerProvider(), func() {}, nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(&logSpanProcessor{logger: logger}),
	)
	otel.SetTracerProvider(tp)

	cleanup := func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Failed to shut down tracer provider")
		}
	}
	return tp, cleanup, nil
}
