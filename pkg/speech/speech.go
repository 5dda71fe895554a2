// Package speech adapts offline acoustic-model engines to a single,
// batch-oriented transcription call.
//
// A [Model] is the process-wide handle to a loaded acoustic model. It is
// loaded once (see [Loaders.Load]), shared read-only by every caller and
// closed at shutdown. Recognition state is never kept on the Model: each call to
// [Transcribe] opens its own [Session], streams the audio through it in
// fixed-size chunks and discards it before returning. Sessions must not be
// shared between goroutines.
//
// Audio must already be mono, signed 16-bit little-endian PCM at the
// configured sample rate (16 kHz by default). The package does not transcode;
// the only container handling it does is skipping a leading RIFF/WAVE header.
//
// The package itself has no native dependencies. Engines are implemented in
// subpackages that need their native libraries at link time:
//
//   - speech/vosk for [EngineVosk], backed by github.com/alphacep/vosk-api/go.
//   - speech/whisper for [EngineWhisper], backed by the whisper.cpp CGO
//     bindings.
//
// A binary registers the engines it links in a [Loaders] map.
package speech

import "errors"

// Engine names an acoustic-model backend.
type Engine string

const (
	// EngineVosk decodes audio incrementally with a Kaldi-based Vosk model.
	EngineVosk Engine = "vosk"

	// EngineWhisper buffers the audio and runs whisper.cpp inference at end
	// of stream.
	EngineWhisper Engine = "whisper"
)

// IsValid reports whether e is a recognised engine.
func (e Engine) IsValid() bool {
	switch e {
	case EngineVosk, EngineWhisper:
		return true
	}
	return false
}

const (
	// DefaultSampleRate is the PCM sample rate, in Hz, expected by default.
	DefaultSampleRate = 16000

	// DefaultChunkSize is the number of bytes handed to a Session per call
	// to Session.Accept.
	DefaultChunkSize = 4096

	bitsPerSample = 16
)

var (
	// ErrModelNotFound is returned by [Loaders.Load] when the model path is empty or
	// does not exist.
	ErrModelNotFound = errors.New("speech: model not found")

	// ErrUnknownEngine is returned by [Loaders.Load] for an unregistered
	// [Engine].
	ErrUnknownEngine = errors.New("speech: unknown engine")

	// ErrNoModel is returned by [Transcribe] when called with a nil Model.
	ErrNoModel = errors.New("speech: no model loaded")

	// ErrUnsupportedAudio is returned when a WAV header announces a format
	// other than mono 16-bit PCM at the session sample rate.
	ErrUnsupportedAudio = errors.New("speech: unsupported audio format")

	// ErrMalformedAudio is returned when a RIFF/WAVE header is truncated or
	// its chunks are out of order.
	ErrMalformedAudio = errors.New("speech: malformed wav header")
)

// Model is a loaded, immutable acoustic model. Implementations must be safe
// for concurrent use; the only mutable state lives in the Sessions they
// create.
type Model interface {
	// Engine reports which backend produced the model.
	Engine() Engine

	// NewSession creates a fresh recognition context for a single
	// transcription at the given sample rate. The caller owns the Session
	// and must Close it.
	NewSession(sampleRate int) (Session, error)

	// Close releases the native model. No Session may be in use when Close
	// is called.
	Close() error
}

// Session is a transient, single-use recognition context. It is not safe for
// concurrent use.
type Session interface {
	// Accept feeds one chunk of PCM audio. Implementations must not retain
	// chunk after returning.
	Accept(chunk []byte) error

	// Final flushes the recognizer and returns the transcript of everything
	// accepted so far.
	Final() (string, error)

	// Close releases the native recognition context. Calling Close more than
	// once is safe.
	Close() error
}
