package pronounce

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/MrWong99/parlance/pkg/score"
)

const (
	fallbackBase      = 0.70
	fallbackShortLen  = 20
	fallbackLongLen   = 50
	fallbackLengthAdj = 0.10
	maxJitter         = 0.10
)

// JitterFunc returns a perturbation in [-0.10, +0.10] added to every fallback
// score. Values outside that range are clamped.
type JitterFunc func() float64

// RandomJitter draws uniformly from [-0.10, +0.10).
func RandomJitter() float64 {
	return rand.Float64()*2*maxJitter - maxJitter
}

// NoJitter always returns 0.
func NoJitter() float64 { return 0 }

// FallbackScore estimates a pronunciation score from text length alone. It is
// used whenever no transcript is available.
//
// Blank text scores 0. Otherwise the score starts at 0.70, gains 0.10 for
// texts shorter than 20 characters and loses 0.10 for texts longer than 50,
// then jitter is added. The result is clamped to [0, 1] and rounded to two
// places. A nil jitter behaves like [NoJitter].
func FallbackScore(text string, jitter JitterFunc) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	s := fallbackBase
	switch n := utf8.RuneCountInString(text); {
	case n < fallbackShortLen:
		s += fallbackLengthAdj
	case n > fallbackLongLen:
		s -= fallbackLengthAdj
	}
	if jitter != nil {
		s += min(max(jitter(), -maxJitter), maxJitter)
	}
	return score.Unit(s)
}
