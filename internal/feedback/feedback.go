// Package feedback turns analysis results into learner-facing feedback: a
// short encouragement sentence for conversation practice and a grade for
// spoken exam answers.
package feedback

import "strings"

// Score thresholds for the pronunciation part of [Compose].
const (
	GreatThreshold = 0.8
	GoodThreshold  = 0.6
)

const (
	msgGreat      = "Great pronunciation! "
	msgGood       = "Good pronunciation, but there's room for improvement. "
	msgPractice   = "Keep practicing your pronunciation. "
	msgSpelling   = "Watch out for spelling mistakes. "
	msgGrammar    = "Check your grammar. "
	msgNoMistakes = "Excellent work! Keep it up!"
)

// Compose builds the feedback sentence for one learner message.
//
// pronunciation is nil when the message had no recording. The sentence
// comments on pronunciation first, then spelling, then grammar, and ends with
// praise when there were no text mistakes and pronunciation, if scored, was
// at least [GreatThreshold]. Trailing whitespace is kept so fragments can be
// appended.
func Compose(pronunciation *float64, grammarErrors, spellingErrors int) string {
	var b strings.Builder

	if pronunciation != nil {
		switch s := *pronunciation; {
		case s >= GreatThreshold:
			b.WriteString(msgGreat)
		case s >= GoodThreshold:
			b.WriteString(msgGood)
		default:
			b.WriteString(msgPractice)
		}
	}
	if spellingErrors > 0 {
		b.WriteString(msgSpelling)
	}
	if grammarErrors > 0 {
		b.WriteString(msgGrammar)
	}
	if grammarErrors == 0 && spellingErrors == 0 &&
		(pronunciation == nil || *pronunciation >= GreatThreshold) {
		b.WriteString(msgNoMistakes)
	}
	return b.String()
}
