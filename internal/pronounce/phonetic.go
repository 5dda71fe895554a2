package pronounce

import (
	"github.com/antzucaro/matchr"

	"github.com/MrWong99/parlance/pkg/score"
)

// WordFeedback describes what the engine heard in place of an expected word.
type WordFeedback struct {
	// Word is the expected word that was not recognized.
	Word string `json:"word"`

	// HeardAs is the recognized word most similar to Word.
	HeardAs string `json:"heard_as"`

	// Similarity is the Jaro-Winkler similarity of Word and HeardAs, rounded
	// to two places.
	Similarity float64 `json:"similarity"`

	// SoundsAlike reports whether the two words share a Double Metaphone
	// code, i.e. the learner produced a similar sound with a different word.
	SoundsAlike bool `json:"sounds_alike"`
}

// wordFeedback pairs every missed word with its closest heard word.
//
// Candidates sharing a Double Metaphone code with the missed word win over
// purely orthographic matches; within a group the highest Jaro-Winkler score
// wins and ties keep the earliest heard word. Returns nil when heard is empty.
func wordFeedback(missed, heard []string) []WordFeedback {
	if len(missed) == 0 || len(heard) == 0 {
		return nil
	}

	heardCodes := make([]map[string]struct{}, len(heard))
	for i, h := range heard {
		heardCodes[i] = metaphoneCodes(h)
	}

	out := make([]WordFeedback, 0, len(missed))
	for _, word := range missed {
		codes := metaphoneCodes(word)

		best := -1
		var bestScore float64
		var bestAlike bool
		for i, h := range heard {
			alike := codesOverlap(codes, heardCodes[i])
			s := matchr.JaroWinkler(word, h, false)
			switch {
			case best < 0,
				alike && !bestAlike,
				alike == bestAlike && s > bestScore:
				best, bestScore, bestAlike = i, s, alike
			}
		}
		out = append(out, WordFeedback{
			Word:        word,
			HeardAs:     heard[best],
			Similarity:  score.Round2(bestScore),
			SoundsAlike: bestAlike,
		})
	}
	return out
}

// metaphoneCodes returns the non-empty primary and secondary Double
// Metaphone codes of word.
func metaphoneCodes(word string) map[string]struct{} {
	codes := make(map[string]struct{}, 2)
	p, s := matchr.DoubleMetaphone(word)
	if p != "" {
		codes[p] = struct{}{}
	}
	if s != "" {
		codes[s] = struct{}{}
	}
	return codes
}

func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}
