// Package tokenize normalises raw learner text into comparable word tokens.
//
// Tokens are lowercase runs of the ASCII letters a-z. Everything else
// (digits, punctuation, apostrophes, non-ASCII letters) acts as a separator,
// so "don't" yields "don" and "t". Tokens are only compared against other
// tokens produced by Words.
package tokenize

import "strings"

// Words lowercases text, replaces every character outside [a-z] and
// whitespace with a space and splits the result on whitespace runs.
//
// The result is never nil. Empty, blank and punctuation-only input yields an
// empty slice. Words is idempotent: Words(strings.Join(Words(s), " "))
// equals Words(s).
func Words(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return ' '
	}, strings.ToLower(text))
	return append([]string{}, strings.Fields(cleaned)...)
}
