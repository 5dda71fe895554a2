package observe

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names recorded by parlance.
const (
	SpanTranscribe           = "speech.Transcribe"
	SpanAnalyzePronunciation = "engine.AnalyzePronunciation"
	SpanAnalyzeText          = "engine.AnalyzeText"
)

const tracerName = "github.com/MrWong99/parlance"

// Tracer returns the parlance tracer from the global provider. Spans only
// leave the process once [InitProvider] or a test installs a real provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartSpan starts a span named name. The caller must end it.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// StartTranscribeSpan starts the [SpanTranscribe] span for one recognition
// pass on engine.
func StartTranscribeSpan(ctx context.Context, engine string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanTranscribe, trace.WithAttributes(attribute.String("engine", engine)))
}

// FailSpan records err on span and marks it failed with description.
func FailSpan(span trace.Span, err error, description string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, description)
}

// Pronunciation summarises one pronunciation analysis. The same summary is
// attached to the [SpanAnalyzePronunciation] span, counted by
// [Metrics.RecordPronunciation] and logged.
type Pronunciation struct {
	// Outcome is "recognized" or the fallback reason, e.g. "no_model".
	Outcome string

	// Path is "compare" or "fallback".
	Path string

	Score float64

	// Missed is the number of mispronounced words.
	Missed int
}

// Attributes returns p as span attributes.
func (p Pronunciation) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("outcome", p.Outcome),
		attribute.String("path", p.Path),
		attribute.Float64("score", p.Score),
		attribute.Int("mispronounced_words", p.Missed),
	}
}

// LogValue implements [slog.LogValuer].
func (p Pronunciation) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("outcome", p.Outcome),
		slog.String("path", p.Path),
		slog.Float64("score", p.Score),
		slog.Int("mispronounced_words", p.Missed),
	)
}

// Logger returns the default logger, tagged with trace_id and span_id when
// ctx carries a recording span so log lines can be joined with traces.
func Logger(ctx context.Context) *slog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return slog.Default()
	}
	return slog.Default().With(
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)
}
