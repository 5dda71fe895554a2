// Package whisper implements [speech.Model] with the whisper.cpp CGO
// bindings. The whisper.cpp static library (libwhisper.a) and headers
// (whisper.h) must be available at link time via LIBRARY_PATH and
// C_INCLUDE_PATH.
//
// whisper.cpp is a batch engine: a [speech.Session] buffers the PCM it is fed
// and runs inference once, in Final.
package whisper

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/MrWong99/parlance/pkg/speech"
)

// Compile-time assertions.
var (
	_ speech.Model   = (*Model)(nil)
	_ speech.Session = (*session)(nil)
	_ speech.Loader  = Load
)

const defaultLanguage = "en"

// Model wraps a whisper.cpp ggml model file. The model is shared; every
// Session runs inference in its own whisper context.
type Model struct {
	model    whisperlib.Model
	language string
	once     sync.Once
}

// Option is a functional option for [New].
type Option func(*Model)

// WithLanguage sets the language code passed to whisper.cpp (e.g. "en",
// "de"). Defaults to "en".
func WithLanguage(lang string) Option {
	return func(m *Model) {
		if lang != "" {
			m.language = lang
		}
	}
}

// New loads the whisper.cpp model file at modelPath.
func New(modelPath string, opts ...Option) (*Model, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", modelPath, err)
	}
	m := &Model{model: model, language: defaultLanguage}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Load is the [speech.Loader] for [speech.EngineWhisper]. cfg.Language
// selects the recognition language.
func Load(cfg speech.LoadConfig) (speech.Model, error) {
	m, err := New(cfg.ModelPath, WithLanguage(cfg.Language))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Engine returns [speech.EngineWhisper].
func (m *Model) Engine() speech.Engine { return speech.EngineWhisper }

// NewSession returns a session that buffers PCM until Final. whisper.cpp
// resamples nothing, so sampleRate must match what the model was trained on
// (16 kHz).
func (m *Model) NewSession(sampleRate int) (speech.Session, error) {
	if sampleRate != whisperlib.SampleRate {
		return nil, fmt.Errorf("whisper: sample rate %d not supported, want %d", sampleRate, whisperlib.SampleRate)
	}
	return &session{model: m.model, language: m.language}, nil
}

// Close releases the whisper model.
func (m *Model) Close() error {
	var err error
	m.once.Do(func() {
		err = m.model.Close()
	})
	return err
}

type session struct {
	model    whisperlib.Model
	language string
	pcm      []byte
}

func (s *session) Accept(chunk []byte) error {
	s.pcm = append(s.pcm, chunk...)
	return nil
}

// Final runs inference over the buffered audio in a fresh whisper context.
// Contexts are not thread-safe, so one is created per session.
func (s *session) Final() (string, error) {
	if len(s.pcm) < 2 {
		return "", nil
	}
	samples := pcmToFloat32(s.pcm)

	wctx, err := s.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("whisper: create context: %w", err)
	}
	if err := wctx.SetLanguage(s.language); err != nil {
		slog.Warn("whisper: failed to set language, using default", "language", s.language, "err", err)
	}
	wctx.SetTranslate(false)

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whisper: process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("whisper: read segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

func (s *session) Close() error {
	s.pcm = nil
	return nil
}
