// Package vosk implements [speech.Model] on top of the Kaldi-based Vosk
// recognizer. Linking requires libvosk and vosk_api.h.
//
// Vosk decodes incrementally: each [speech.Session] feeds chunks straight into
// its own recognizer and collects every utterance the recognizer finalises,
// so pauses in a recording do not drop earlier words.
package vosk

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	voskapi "github.com/alphacep/vosk-api/go"

	"github.com/MrWong99/parlance/pkg/speech"
)

// Compile-time assertions.
var (
	_ speech.Model   = (*Model)(nil)
	_ speech.Session = (*session)(nil)
	_ speech.Loader  = Load
)

// Model wraps a Vosk model directory. The native model is thread-safe;
// recognizers created from it are not, so each Session owns its own.
type Model struct {
	model *voskapi.VoskModel
	once  sync.Once
}

// result is the JSON document produced by Result and FinalResult.
type result struct {
	Text string `json:"text"`
}

// New loads the Vosk model directory at modelPath.
func New(modelPath string) (*Model, error) {
	if modelPath == "" {
		return nil, errors.New("vosk: modelPath must not be empty")
	}
	// Kaldi logs every decoding step to stderr by default.
	voskapi.SetLogLevel(-1)

	model, err := voskapi.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("vosk: load model %q: %w", modelPath, err)
	}
	return &Model{model: model}, nil
}

// Load is the [speech.Loader] for [speech.EngineVosk].
func Load(cfg speech.LoadConfig) (speech.Model, error) {
	m, err := New(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Engine returns [speech.EngineVosk].
func (m *Model) Engine() speech.Engine { return speech.EngineVosk }

// NewSession creates a recognizer bound to the shared model.
func (m *Model) NewSession(sampleRate int) (speech.Session, error) {
	rec, err := voskapi.NewRecognizer(m.model, float64(sampleRate))
	if err != nil {
		return nil, fmt.Errorf("vosk: create recognizer: %w", err)
	}
	return &session{rec: rec}, nil
}

// Close frees the native model.
func (m *Model) Close() error {
	m.once.Do(func() {
		m.model.Free()
	})
	return nil
}

type session struct {
	rec    *voskapi.VoskRecognizer
	closed bool
	parts  []string
}

func (s *session) Accept(chunk []byte) error {
	switch s.rec.AcceptWaveform(chunk) {
	case -1:
		return errors.New("vosk: waveform rejected")
	case 1:
		// Endpoint detected: collect the utterance before the recognizer
		// moves on to the next one.
		text, err := parseResult(s.rec.Result())
		if err != nil {
			return err
		}
		s.appendText(text)
	}
	return nil
}

func (s *session) Final() (string, error) {
	text, err := parseResult(s.rec.FinalResult())
	if err != nil {
		return "", err
	}
	s.appendText(text)
	return strings.Join(s.parts, " "), nil
}

func (s *session) Close() error {
	if !s.closed {
		s.closed = true
		s.rec.Free()
	}
	return nil
}

func (s *session) appendText(text string) {
	if text = strings.TrimSpace(text); text != "" {
		s.parts = append(s.parts, text)
	}
}

func parseResult(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	var res result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return "", fmt.Errorf("vosk: decode result: %w", err)
	}
	return res.Text, nil
}
