// Package engine is the entry point to spoken and written language analysis.
//
// An [Engine] combines the pronunciation [pronounce.Scorer] with the
// heuristic text checkers of [textcheck] and instruments every call with
// OpenTelemetry spans, metrics and structured logs. None of its methods
// return an error: when speech recognition is unavailable or fails, results
// degrade to the deterministic fallback instead.
//
// An Engine holds no per-call state and is safe for concurrent use.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrWong99/parlance/internal/feedback"
	"github.com/MrWong99/parlance/internal/observe"
	"github.com/MrWong99/parlance/internal/pronounce"
	"github.com/MrWong99/parlance/pkg/speech"
	"github.com/MrWong99/parlance/pkg/textcheck"
)

const (
	pathCompare  = "compare"
	pathFallback = "fallback"
)

// Option is a functional option for configuring an [Engine].
type Option func(*Engine)

// WithMetrics sets the metrics instance. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithTextAnalyzer replaces the grammar and spelling analyzer. Default: an
// analyzer using the built-in misspelling dictionary.
func WithTextAnalyzer(a *textcheck.Analyzer) Option {
	return func(e *Engine) {
		e.text = a
	}
}

// Engine is the analysis facade. Create one with [New].
type Engine struct {
	scorer  *pronounce.Scorer
	text    *textcheck.Analyzer
	metrics *observe.Metrics
}

// New returns an Engine scoring pronunciation with scorer.
func New(scorer *pronounce.Scorer, opts ...Option) *Engine {
	e := &Engine{scorer: scorer}
	for _, o := range opts {
		o(e)
	}
	if e.text == nil {
		e.text = textcheck.NewAnalyzer(nil)
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}
	return e
}

// ModelLoaded reports whether pronunciation is scored against real
// transcripts. When false every analysis uses the fallback score.
func (e *Engine) ModelLoaded() bool { return e.scorer.ModelLoaded() }

// AnalyzePronunciation scores the recording named by audioRef against
// expected and lists the words that were not recognized.
func (e *Engine) AnalyzePronunciation(ctx context.Context, expected, audioRef string) pronounce.Analysis {
	ctx, span := observe.StartSpan(ctx, observe.SpanAnalyzePronunciation)
	defer span.End()

	a, outcome := e.analyze(ctx, expected, audioRef)

	p := observe.Pronunciation{
		Outcome: outcome.String(),
		Path:    pathCompare,
		Score:   a.Score,
		Missed:  len(a.MispronouncedWords),
	}
	if !outcome.IsRecognized() {
		p.Path = pathFallback
	}
	span.SetAttributes(p.Attributes()...)
	e.metrics.RecordPronunciation(ctx, p)
	observe.Logger(ctx).Debug("pronunciation analysed", slog.Any("analysis", p))
	return a
}

// analyze runs the scorer and converts a panic anywhere below it into a
// fallback result.
func (e *Engine) analyze(ctx context.Context, expected, audioRef string) (a pronounce.Analysis, outcome speech.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("engine: pronunciation analysis panicked: %v", r)
			observe.Logger(ctx).Error("engine: pronunciation analysis panicked, using fallback score",
				slog.String("audio_ref", audioRef),
				slog.Any("panic", r),
			)
			observe.FailSpan(trace.SpanFromContext(ctx), err, "panic")
			a = e.scorer.Fallback(expected, "")
			outcome = speech.Unavailable(speech.ReasonRecognitionError, err)
		}
	}()
	return e.scorer.Analyze(ctx, expected, audioRef)
}

// ScorePronunciation returns only the score of [Engine.AnalyzePronunciation].
func (e *Engine) ScorePronunciation(ctx context.Context, expected, audioRef string) float64 {
	return e.AnalyzePronunciation(ctx, expected, audioRef).Score
}

// CheckGrammar returns the grammar diagnostics for text in scan order.
func (e *Engine) CheckGrammar(ctx context.Context, text string) []textcheck.Diagnostic {
	d := e.text.CheckGrammar(text)
	e.metrics.RecordDiagnostics(ctx, string(textcheck.KindGrammar), len(d))
	return d
}

// CheckSpelling returns the spelling diagnostics for text in scan order.
func (e *Engine) CheckSpelling(ctx context.Context, text string) []textcheck.Diagnostic {
	d := e.text.CheckSpelling(text)
	e.metrics.RecordDiagnostics(ctx, string(textcheck.KindSpelling), len(d))
	return d
}

// AnalyzeText runs both text checkers and derives the quality score.
func (e *Engine) AnalyzeText(ctx context.Context, text string) textcheck.Report {
	ctx, span := observe.StartSpan(ctx, observe.SpanAnalyzeText)
	defer span.End()

	r := e.text.Analyze(text)
	e.metrics.RecordDiagnostics(ctx, string(textcheck.KindGrammar), r.GrammarErrorCount)
	e.metrics.RecordDiagnostics(ctx, string(textcheck.KindSpelling), r.SpellingErrorCount)
	span.SetAttributes(
		attribute.Int("word_count", r.WordCount),
		attribute.Int("errors", r.TotalErrors()),
		attribute.Float64("quality_score", r.QualityScore),
	)
	return r
}

// Review is the analysis of one learner message in a practice conversation.
type Review struct {
	// Pronunciation is set only when the message came with a recording.
	Pronunciation *pronounce.Analysis `json:"pronunciation,omitempty"`

	GrammarErrors  []textcheck.Diagnostic `json:"grammar_errors"`
	SpellingErrors []textcheck.Diagnostic `json:"spelling_errors"`

	// Feedback is the encouragement sentence shown to the learner.
	Feedback string `json:"feedback"`
}

// ReviewUtterance analyses a conversation message. Pronunciation is scored
// whenever audioRef is non-empty, with text as the expected transcript; a
// whitespace-only reference still yields a result on the no-audio fallback
// path.
func (e *Engine) ReviewUtterance(ctx context.Context, text, audioRef string) Review {
	var r Review
	var pron *float64
	if audioRef != "" {
		a := e.AnalyzePronunciation(ctx, text, audioRef)
		r.Pronunciation = &a
		pron = &a.Score
	}
	r.GrammarErrors = e.CheckGrammar(ctx, text)
	r.SpellingErrors = e.CheckSpelling(ctx, text)
	r.Feedback = feedback.Compose(pron, len(r.GrammarErrors), len(r.SpellingErrors))
	return r
}

// SpeakingAnswer is a learner's answer to a spoken exam question.
type SpeakingAnswer struct {
	// Points is what the question is worth.
	Points float64

	// QuestionText is the text the learner was asked to read.
	QuestionText string

	// Response is an optional transcript typed by the learner. When
	// non-blank it replaces QuestionText as the expected text.
	Response string

	// AudioRef names the uploaded recording.
	AudioRef string
}

// GradeSpeakingAnswer scores a spoken exam answer and scales it to the
// question's points. Answers without a recording earn nothing.
func (e *Engine) GradeSpeakingAnswer(ctx context.Context, ans SpeakingAnswer) feedback.Grade {
	if strings.TrimSpace(ans.AudioRef) == "" {
		return feedback.Unanswered()
	}
	expected := ans.QuestionText
	if strings.TrimSpace(ans.Response) != "" {
		expected = ans.Response
	}
	return feedback.GradeSpeaking(ans.Points, e.ScorePronunciation(ctx, expected, ans.AudioRef))
}
