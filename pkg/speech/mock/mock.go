// Package mock provides test doubles for the speech package interfaces.
//
// Model hands out Session values that echo a fixed Transcript and record the
// audio they received:
//
//	m := &mock.Model{Transcript: "the cat sat"}
//	text, _ := speech.Transcribe(ctx, m, audio)
//	m.Sessions()[0].Bytes() // the PCM that was streamed
package mock

import (
	"sync"

	"github.com/MrWong99/parlance/pkg/speech"
)

// Model is a mock implementation of speech.Model.
type Model struct {
	mu sync.Mutex

	// EngineName is returned by Engine. Defaults to speech.EngineVosk.
	EngineName speech.Engine

	// Transcript is returned by every session's Final.
	Transcript string

	// NewSessionErr, if non-nil, is returned by NewSession.
	NewSessionErr error

	// AcceptErr, if non-nil, is returned by every session's Accept.
	AcceptErr error

	// FinalErr, if non-nil, is returned by every session's Final.
	FinalErr error

	// Panic, if non-empty, makes NewSession panic with this message.
	Panic string

	sessions   []*Session
	sampleRate []int
	closeCalls int
}

// Engine returns EngineName or speech.EngineVosk.
func (m *Model) Engine() speech.Engine {
	if m.EngineName == "" {
		return speech.EngineVosk
	}
	return m.EngineName
}

// NewSession records the call and returns a new Session or NewSessionErr.
func (m *Model) NewSession(sampleRate int) (speech.Session, error) {
	if m.Panic != "" {
		panic(m.Panic)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sampleRate = append(m.sampleRate, sampleRate)
	if m.NewSessionErr != nil {
		return nil, m.NewSessionErr
	}
	s := &Session{
		transcript: m.Transcript,
		acceptErr:  m.AcceptErr,
		finalErr:   m.FinalErr,
	}
	m.sessions = append(m.sessions, s)
	return s, nil
}

// Close records the call.
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	return nil
}

// Sessions returns every Session handed out so far.
func (m *Model) Sessions() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// SampleRates returns the sample rate passed to each NewSession call.
func (m *Model) SampleRates() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.sampleRate))
	copy(out, m.sampleRate)
	return out
}

// CloseCalls returns how often Close was called.
func (m *Model) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

// Ensure Model implements speech.Model at compile time.
var _ speech.Model = (*Model)(nil)

// Session is a mock implementation of speech.Session.
type Session struct {
	mu sync.Mutex

	transcript string
	acceptErr  error
	finalErr   error

	chunks [][]byte
	closed int
}

// Accept records a copy of chunk.
func (s *Session) Accept(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acceptErr != nil {
		return s.acceptErr
	}
	s.chunks = append(s.chunks, append([]byte(nil), chunk...))
	return nil
}

// Final returns the configured transcript or error.
func (s *Session) Final() (string, error) {
	if s.finalErr != nil {
		return "", s.finalErr
	}
	return s.transcript, nil
}

// Close records the call.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Chunks returns copies of every accepted chunk, in order.
func (s *Session) Chunks() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// Bytes returns all accepted audio concatenated.
func (s *Session) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []byte
	for _, c := range s.chunks {
		out = append(out, c...)
	}
	return out
}

// Closed reports how often Close was called.
func (s *Session) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Ensure Session implements speech.Session at compile time.
var _ speech.Session = (*Session)(nil)
