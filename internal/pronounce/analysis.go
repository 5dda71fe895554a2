// Package pronounce scores how closely a learner's recording matches the text
// they were asked to say.
//
// When a speech model is loaded and the recording can be transcribed, the
// transcript is compared with the expected text word by word ([Compare]).
// Otherwise the [Scorer] degrades to a length-based heuristic
// ([FallbackScore]) and reports why through a [speech.Outcome]. Analysis never
// fails outward.
package pronounce

import (
	"github.com/MrWong99/parlance/pkg/align"
	"github.com/MrWong99/parlance/pkg/score"
	"github.com/MrWong99/parlance/pkg/tokenize"
)

// Analysis is the result of scoring one recording.
type Analysis struct {
	// Score is in [0, 1], rounded to two decimal places.
	Score float64 `json:"score"`

	// ExpectedText is the trimmed text the learner was asked to say.
	ExpectedText string `json:"expected_text"`

	// RecognizedText is the engine transcript. On the fallback path it is
	// the expected text when no recognition was attempted, or empty when
	// recognition was attempted and failed.
	RecognizedText string `json:"recognized_text"`

	// MispronouncedWords lists expected tokens missing from the transcript,
	// deduplicated in first-seen order. Never nil.
	MispronouncedWords []string `json:"mispronounced_words"`

	// WordFeedback pairs each mispronounced word with the closest word that
	// was actually heard. Empty when nothing was recognized.
	WordFeedback []WordFeedback `json:"word_feedback,omitempty"`
}

// Compare scores recognized against expected using the word error rate.
//
// Expected text without any words scores 1.00 and passes recognized through
// unchanged. Otherwise the score is 1 - WER, clamped to [0, 1] and rounded to
// two places.
func Compare(expected, recognized string) Analysis {
	want := tokenize.Words(expected)
	a := Analysis{
		ExpectedText:       expected,
		RecognizedText:     recognized,
		MispronouncedWords: []string{},
	}
	if len(want) == 0 {
		a.Score = 1
		return a
	}

	got := tokenize.Words(recognized)
	a.Score = score.Unit(1 - align.WordErrorRate(want, got))
	a.MispronouncedWords = missingWords(want, got)
	a.WordFeedback = wordFeedback(a.MispronouncedWords, got)
	return a
}

// missingWords returns the words of want that never occur in got, each once,
// in the order they first appear in want.
func missingWords(want, got []string) []string {
	heard := make(map[string]struct{}, len(got))
	for _, w := range got {
		heard[w] = struct{}{}
	}
	seen := make(map[string]struct{}, len(want))
	out := []string{}
	for _, w := range want {
		if _, ok := heard[w]; ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
