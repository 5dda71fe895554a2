package speech

// Reason explains why recognition did not produce a transcript.
type Reason string

const (
	// ReasonNoModel means no acoustic model is loaded in this process.
	ReasonNoModel Reason = "no_model"

	// ReasonNoAudio means the caller supplied no audio reference.
	ReasonNoAudio Reason = "no_audio"

	// ReasonAudioMissing means the audio reference resolved to a path that
	// does not exist.
	ReasonAudioMissing Reason = "audio_missing"

	// ReasonRecognitionError means the engine or the audio stream failed
	// during transcription.
	ReasonRecognitionError Reason = "recognition_error"
)

// Outcome is the result of an attempt to recognise speech. It is either
// Recognized, carrying the transcript in Text, or Unavailable, carrying a
// Reason and, for [ReasonRecognitionError], the underlying error.
//
// The zero value is a Recognized outcome with an empty transcript.
type Outcome struct {
	Text   string
	Reason Reason
	Err    error
}

// Recognized returns a successful outcome carrying text.
func Recognized(text string) Outcome {
	return Outcome{Text: text}
}

// Unavailable returns an outcome for a recognition attempt that could not
// produce a transcript.
func Unavailable(reason Reason, err error) Outcome {
	return Outcome{Reason: reason, Err: err}
}

// IsRecognized reports whether the outcome carries a transcript.
func (o Outcome) IsRecognized() bool { return o.Reason == "" }

// String returns "recognized" or the unavailability reason. It is suitable
// as a low-cardinality metric attribute.
func (o Outcome) String() string {
	if o.IsRecognized() {
		return "recognized"
	}
	return string(o.Reason)
}
