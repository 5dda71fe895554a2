package feedback

import "github.com/MrWong99/parlance/pkg/score"

// PassRatio is the share of a question's points a spoken answer must earn to
// count as correct.
const PassRatio = 0.7

// Grade is the result of grading one spoken exam answer.
type Grade struct {
	// Earned is the points awarded, rounded to two places.
	Earned float64 `json:"earned"`

	// Passed reports whether Earned reaches [PassRatio] of the question's
	// points.
	Passed bool `json:"passed"`
}

// GradeSpeaking scales a pronunciation score in [0, 1] to a question worth
// points. Both the earned points and the pass mark are rounded to two places
// before they are compared.
func GradeSpeaking(points, pronunciation float64) Grade {
	earned := score.Round2(points * pronunciation)
	return Grade{
		Earned: earned,
		Passed: earned >= score.Round2(points*PassRatio),
	}
}

// Unanswered is the grade for a spoken question submitted without a
// recording.
func Unanswered() Grade { return Grade{} }
