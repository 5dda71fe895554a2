// Package textcheck implements the small, deterministic grammar and spelling
// heuristics used to give learners written-language feedback, and folds
// their findings into a single text-quality score.
//
// The checkers are small fixed rule sets:
//
//   - [CheckGrammar] flags the article "a" in front of a word that starts
//     with a vowel letter.
//   - [SpellChecker] flags exact, whole-word hits in a dictionary of common
//     misspellings.
//   - [Analyzer] runs both and derives a [Report].
//
// Every function is pure and safe for concurrent use. Diagnostics are
// returned in left-to-right scan order.
package textcheck

// Kind classifies a [Diagnostic].
type Kind string

const (
	// KindGrammar marks a grammar-rule finding.
	KindGrammar Kind = "grammar"

	// KindSpelling marks a misspelled word.
	KindSpelling Kind = "spelling"
)

// Rule names the heuristic that produced a diagnostic.
const (
	RuleArticle     = "article"
	RuleMisspelling = "misspelling"
)

// Diagnostic is a single positioned issue found in learner text.
//
// The meaning of Offset depends on Kind: grammar diagnostics carry the
// zero-based word index of the offending token, spelling diagnostics carry a
// character offset into the whitespace-normalised text (see
// [SpellChecker.Check]).
type Diagnostic struct {
	Kind       Kind   `json:"kind"`
	Rule       string `json:"rule"`
	Message    string `json:"message"`
	Offset     int    `json:"offset"`
	Length     int    `json:"length"`
	Suggestion string `json:"suggestion"`
}
