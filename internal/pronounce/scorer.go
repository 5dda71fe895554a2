package pronounce

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/MrWong99/parlance/internal/observe"
	"github.com/MrWong99/parlance/internal/resilience"
	"github.com/MrWong99/parlance/internal/uploads"
	"github.com/MrWong99/parlance/pkg/speech"
)

// Option is a functional option for configuring a [Scorer].
type Option func(*Scorer)

// WithJitter replaces the fallback jitter source. Default: [RandomJitter].
func WithJitter(j JitterFunc) Option {
	return func(s *Scorer) {
		s.jitter = j
	}
}

// WithTranscribeOptions sets options passed to every [speech.Transcribe]
// call, e.g. the sample rate and chunk size from configuration.
func WithTranscribeOptions(opts ...speech.TranscribeOption) Option {
	return func(s *Scorer) {
		s.transcribeOpts = append(s.transcribeOpts, opts...)
	}
}

// WithMetrics sets the metrics instance used to record recognition latency.
// Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Scorer) {
		s.metrics = m
	}
}

// WithBreaker guards recognition with b. While b is open, recordings are not
// decoded and analyses take the fallback path with a recognition_error
// outcome wrapping [resilience.ErrOpen]. Build b with [IsRecognizerFault] so
// that bad uploads do not trip it.
func WithBreaker(b *resilience.Breaker) Option {
	return func(s *Scorer) {
		s.breaker = b
	}
}

// IsRecognizerFault reports whether a transcription error points at the
// recognizer rather than at the input or the caller.
func IsRecognizerFault(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, speech.ErrUnsupportedAudio),
		errors.Is(err, speech.ErrMalformedAudio),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// Scorer runs the pronunciation analysis for one recording at a time. It is
// read-only after construction and safe for concurrent use; every call opens
// its own recognition session on the shared model.
type Scorer struct {
	model          speech.Model
	resolver       *uploads.Resolver
	jitter         JitterFunc
	transcribeOpts []speech.TranscribeOption
	metrics        *observe.Metrics
	breaker        *resilience.Breaker
}

// New returns a Scorer. model may be nil, in which case every analysis takes
// the fallback path.
func New(model speech.Model, resolver *uploads.Resolver, opts ...Option) *Scorer {
	s := &Scorer{
		model:    model,
		resolver: resolver,
		jitter:   RandomJitter,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// ModelLoaded reports whether a speech model is available.
func (s *Scorer) ModelLoaded() bool { return s.model != nil }

// Analyze scores the recording named by audioRef against expected.
//
// The steps are tried in order and the first one that fails selects the
// fallback path: a model must be loaded, audioRef must be non-blank, the
// referenced file must exist and transcription must succeed. The returned
// Outcome tells which step failed, or carries the transcript when the
// comparison path was taken.
func (s *Scorer) Analyze(ctx context.Context, expected, audioRef string) (Analysis, speech.Outcome) {
	expected = strings.TrimSpace(expected)
	log := observe.Logger(ctx)

	if s.model == nil {
		log.Debug("pronounce: no speech model loaded, using fallback score")
		return s.fallback(expected, expected), speech.Unavailable(speech.ReasonNoModel, nil)
	}
	if strings.TrimSpace(audioRef) == "" {
		log.Debug("pronounce: no audio supplied, using fallback score")
		return s.fallback(expected, expected), speech.Unavailable(speech.ReasonNoAudio, nil)
	}

	text, outcome := s.transcribe(ctx, audioRef)
	if !outcome.IsRecognized() {
		switch outcome.Reason {
		case speech.ReasonAudioMissing:
			log.Debug("pronounce: audio file not found, using fallback score",
				slog.String("audio_ref", audioRef), slog.Any("err", outcome.Err))
		case speech.ReasonRecognitionError:
			level := slog.LevelWarn
			if errors.Is(outcome.Err, resilience.ErrOpen) {
				level = slog.LevelDebug
			}
			log.Log(ctx, level, "pronounce: speech recognition failed, using fallback score",
				slog.String("audio_ref", audioRef), slog.Any("err", outcome.Err))
		default:
			log.Warn("pronounce: speech recognition failed, using fallback score",
				slog.String("audio_ref", audioRef), slog.Any("err", outcome.Err))
		}
		return s.fallback(expected, ""), outcome
	}

	return Compare(expected, text), outcome
}

// Fallback returns the heuristic analysis used when no transcript is
// available. recognized is copied to the result unchanged.
func (s *Scorer) Fallback(expected, recognized string) Analysis {
	return s.fallback(strings.TrimSpace(expected), recognized)
}

func (s *Scorer) fallback(expected, recognized string) Analysis {
	return Analysis{
		Score:              FallbackScore(expected, s.jitter),
		ExpectedText:       expected,
		RecognizedText:     recognized,
		MispronouncedWords: []string{},
	}
}

// transcribe opens the referenced recording and streams it through a fresh
// recognition session.
func (s *Scorer) transcribe(ctx context.Context, audioRef string) (string, speech.Outcome) {
	f, err := s.resolver.Open(audioRef)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, uploads.ErrEmptyRef) {
			return "", speech.Unavailable(speech.ReasonAudioMissing, err)
		}
		return "", speech.Unavailable(speech.ReasonRecognitionError, err)
	}
	defer f.Close()

	engine := string(s.model.Engine())
	ctx, span := observe.StartTranscribeSpan(ctx, engine)
	defer span.End()

	var text string
	decode := func() error {
		start := time.Now()
		var err error
		text, err = speech.Transcribe(ctx, s.model, f, s.transcribeOpts...)
		s.metrics.RecordRecognition(ctx, engine, time.Since(start))
		return err
	}
	if s.breaker != nil {
		err = s.breaker.Execute(decode)
	} else {
		err = decode()
	}
	if err != nil {
		observe.FailSpan(span, err, "transcription failed")
		return "", speech.Unavailable(speech.ReasonRecognitionError, err)
	}
	return text, speech.Recognized(text)
}
