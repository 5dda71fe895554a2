package textcheck

import (
	"strings"

	"github.com/MrWong99/parlance/pkg/score"
)

// Report is the derived written-language quality summary for one text.
type Report struct {
	GrammarDiagnostics  []Diagnostic `json:"grammar_errors"`
	SpellingDiagnostics []Diagnostic `json:"spelling_errors"`
	GrammarErrorCount   int          `json:"grammar_error_count"`
	SpellingErrorCount  int          `json:"spelling_error_count"`
	WordCount           int          `json:"word_count"`
	QualityScore        float64      `json:"quality_score"`
}

// TotalErrors returns the combined number of grammar and spelling findings.
func (r Report) TotalErrors() int {
	return r.GrammarErrorCount + r.SpellingErrorCount
}

// Analyzer runs the grammar and spelling checkers and aggregates them into
// a [Report].
type Analyzer struct {
	spelling *SpellChecker
}

// NewAnalyzer returns an Analyzer that uses spelling for misspelling
// detection. A nil spelling checker selects the built-in dictionary.
func NewAnalyzer(spelling *SpellChecker) *Analyzer {
	if spelling == nil {
		spelling = NewSpellChecker(nil)
	}
	return &Analyzer{spelling: spelling}
}

// CheckGrammar is [CheckGrammar]; it exists so callers can hold a single
// Analyzer.
func (a *Analyzer) CheckGrammar(text string) []Diagnostic { return CheckGrammar(text) }

// CheckSpelling runs the analyzer's spell checker.
func (a *Analyzer) CheckSpelling(text string) []Diagnostic { return a.spelling.Check(text) }

// Analyze checks text and computes its quality score:
//
//	errorRate    = diagnostics / max(wordCount, 1)
//	qualityScore = clamp(1 - 2*errorRate, 0, 1), rounded to 2 places
func (a *Analyzer) Analyze(text string) Report {
	grammar := CheckGrammar(text)
	spelling := a.spelling.Check(text)
	words := len(strings.Fields(text))

	total := len(grammar) + len(spelling)
	errorRate := float64(total) / float64(max(words, 1))

	return Report{
		GrammarDiagnostics:  grammar,
		SpellingDiagnostics: spelling,
		GrammarErrorCount:   len(grammar),
		SpellingErrorCount:  len(spelling),
		WordCount:           words,
		QualityScore:        score.Unit(1 - 2*errorRate),
	}
}
