package textcheck

import (
	"strings"
	"unicode"
)

const articleMessage = "Use 'an' instead of 'a' before words starting with a vowel"

// CheckGrammar scans adjacent whitespace-separated words of text and reports
// every "a" that is followed by a word beginning with a vowel letter.
//
// Words are compared case-insensitively after removing all non-letter
// characters, so "A" and "a," both count as the article. Offset is the word
// index of the article and Length is always 1.
func CheckGrammar(text string) []Diagnostic {
	diags := []Diagnostic{}
	words := strings.Fields(text)
	for i := 0; i+1 < len(words); i++ {
		if lettersOnly(words[i]) != "a" {
			continue
		}
		if !startsWithVowel(lettersOnly(words[i+1])) {
			continue
		}
		diags = append(diags, Diagnostic{
			Kind:       KindGrammar,
			Rule:       RuleArticle,
			Message:    articleMessage,
			Offset:     i,
			Length:     1,
			Suggestion: "an",
		})
	}
	return diags
}

// lettersOnly lowercases word and drops every rune outside a-z.
func lettersOnly(word string) string {
	return strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, word)
}

func startsWithVowel(word string) bool {
	return word != "" && strings.ContainsRune("aeiou", rune(word[0]))
}
