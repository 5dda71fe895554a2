// Package observe provides observability primitives for parlance:
// OpenTelemetry metrics, distributed tracing, trace-aware structured logging
// and HTTP middleware for the diagnostic server.
//
// Metrics are recorded through the OpenTelemetry Metrics API and exposed for
// Prometheus scraping by [InitProvider]. A package-level default [Metrics]
// instance ([DefaultMetrics]) is provided for convenience; tests should use
// [NewMetrics] with a custom [metric.MeterProvider] to avoid cross-test
// pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all parlance metrics.
const meterName = "github.com/MrWong99/parlance"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use.
type Metrics struct {
	// RecognitionDuration tracks how long one transcription takes. Use with
	// attribute:
	//   attribute.String("engine", ...)
	RecognitionDuration metric.Float64Histogram

	// PronunciationAnalyses counts pronunciation analyses. Use with
	// attribute:
	//   attribute.String("outcome", ...) // "recognized" or a speech.Reason
	PronunciationAnalyses metric.Int64Counter

	// PronunciationScore records the distribution of pronunciation scores.
	// Use with attribute:
	//   attribute.String("path", ...) // "compare" or "fallback"
	PronunciationScore metric.Float64Histogram

	// TextDiagnostics counts grammar and spelling findings. Use with
	// attribute:
	//   attribute.String("kind", ...)
	TextDiagnostics metric.Int64Counter

	// HTTPRequestDuration tracks diagnostic server request time. Use with
	// attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) for offline
// recognition of short learner recordings.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// scoreBuckets splits the [0, 1] score range into tenths.
var scoreBuckets = []float64{
	0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.RecognitionDuration, err = m.Float64Histogram("parlance.recognition.duration",
		metric.WithDescription("Latency of offline speech recognition."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.PronunciationAnalyses, err = m.Int64Counter("parlance.pronunciation.analyses",
		metric.WithDescription("Total pronunciation analyses by recognition outcome."),
	); err != nil {
		return nil, err
	}
	if met.PronunciationScore, err = m.Float64Histogram("parlance.pronunciation.score",
		metric.WithDescription("Pronunciation scores by scoring path."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TextDiagnostics, err = m.Int64Counter("parlance.text.diagnostics",
		metric.WithDescription("Total grammar and spelling diagnostics by kind."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("parlance.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordRecognition records the duration of one transcription.
func (m *Metrics) RecordRecognition(ctx context.Context, engine string, d time.Duration) {
	m.RecognitionDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("engine", engine)),
	)
}

// RecordPronunciation counts one analysis by outcome and records its score by
// scoring path.
func (m *Metrics) RecordPronunciation(ctx context.Context, p Pronunciation) {
	m.PronunciationAnalyses.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", p.Outcome)),
	)
	m.PronunciationScore.Record(ctx, p.Score,
		metric.WithAttributes(attribute.String("path", p.Path)),
	)
}

// RecordDiagnostics adds n diagnostics of the given kind. Zero is not
// recorded.
func (m *Metrics) RecordDiagnostics(ctx context.Context, kind string, n int) {
	if n <= 0 {
		return
	}
	m.TextDiagnostics.Add(ctx, int64(n),
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}
