package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// installTracer replaces the global tracer provider with one recording to
// memory for the duration of the test. Tests using it must not be parallel.
func installTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	orig := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(orig)
		_ = tp.Shutdown(context.Background())
	})
	return exp
}

// captureLog points the default logger at a JSON buffer for the duration of
// the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(orig) })
	return &buf
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestStartTranscribeSpan_FailedRecognition(t *testing.T) {
	exp := installTracer(t)

	_, span := StartTranscribeSpan(context.Background(), "whisper")
	FailSpan(span, errors.New("whisper: process audio: out of memory"), "transcription failed")
	span.End()

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d; want 1", len(spans))
	}
	got := spans[0]
	if got.Name != SpanTranscribe {
		t.Errorf("name = %q; want %q", got.Name, SpanTranscribe)
	}
	if v := attrMap(got.Attributes)["engine"]; v.AsString() != "whisper" {
		t.Errorf("engine = %q; want whisper", v.AsString())
	}
	if got.Status.Code != codes.Error || got.Status.Description != "transcription failed" {
		t.Errorf("status = %+v; want error \"transcription failed\"", got.Status)
	}
	if len(got.Events) == 0 || got.Events[0].Name != "exception" {
		t.Error("recognition error not recorded as an exception event")
	}
}

func TestPronunciation_SpanAttributes(t *testing.T) {
	exp := installTracer(t)

	tests := []struct {
		name string
		p    Pronunciation
	}{
		{"compare", Pronunciation{Outcome: "recognized", Path: "compare", Score: 0.67, Missed: 1}},
		{"fallback", Pronunciation{Outcome: "audio_missing", Path: "fallback", Score: 0.8}},
	}
	for _, tt := range tests {
		exp.Reset()
		_, span := StartSpan(context.Background(), SpanAnalyzePronunciation)
		span.SetAttributes(tt.p.Attributes()...)
		span.End()

		spans := exp.GetSpans()
		if len(spans) != 1 || spans[0].Name != SpanAnalyzePronunciation {
			t.Fatalf("%s: spans = %v; want one %s span", tt.name, spans, SpanAnalyzePronunciation)
		}
		attrs := attrMap(spans[0].Attributes)
		if attrs["outcome"].AsString() != tt.p.Outcome || attrs["path"].AsString() != tt.p.Path {
			t.Errorf("%s: outcome/path = %q/%q; want %q/%q", tt.name,
				attrs["outcome"].AsString(), attrs["path"].AsString(), tt.p.Outcome, tt.p.Path)
		}
		if attrs["score"].AsFloat64() != tt.p.Score || attrs["mispronounced_words"].AsInt64() != int64(tt.p.Missed) {
			t.Errorf("%s: score/missed = %v/%v", tt.name, attrs["score"].AsFloat64(), attrs["mispronounced_words"].AsInt64())
		}
	}
}

func TestPronunciation_LogValue(t *testing.T) {
	buf := captureLog(t)

	p := Pronunciation{Outcome: "no_model", Path: "fallback", Score: 0.7}
	slog.Debug("pronunciation analysed", slog.Any("analysis", p))

	var line struct {
		Analysis struct {
			Outcome string  `json:"outcome"`
			Path    string  `json:"path"`
			Score   float64 `json:"score"`
			Missed  int     `json:"mispronounced_words"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line.Analysis.Outcome != "no_model" || line.Analysis.Path != "fallback" || line.Analysis.Score != 0.7 {
		t.Errorf("logged analysis = %+v", line.Analysis)
	}
}

func TestLogger_TagsActiveSpan(t *testing.T) {
	exp := installTracer(t)
	buf := captureLog(t)

	ctx, span := StartTranscribeSpan(context.Background(), "vosk")
	Logger(ctx).Warn("speech recognition failed")
	span.End()
	Logger(context.Background()).Info("no span")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("log lines = %d; want 2", len(lines))
	}
	var withSpan, without map[string]any
	if err := json.Unmarshal(lines[0], &withSpan); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(lines[1], &without); err != nil {
		t.Fatal(err)
	}

	recorded := exp.GetSpans()[0].SpanContext
	if withSpan["trace_id"] != recorded.TraceID().String() || withSpan["span_id"] != recorded.SpanID().String() {
		t.Errorf("ids = %v/%v; want those of the transcribe span", withSpan["trace_id"], withSpan["span_id"])
	}
	if _, ok := without["trace_id"]; ok {
		t.Errorf("line without span carries trace_id: %v", without)
	}
}
