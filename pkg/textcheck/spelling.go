package textcheck

import (
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// builtinMisspellings is the default dictionary of known misspelling →
// correction pairs.
var builtinMisspellings = map[string]string{
	"recieve":  "receive",
	"seperate": "separate",
	"occured":  "occurred",
	"teh":      "the",
	"adn":      "and",
}

// Dictionary maps a normalised misspelled word to its correction.
// A Dictionary must not be modified once it is handed to a [SpellChecker].
type Dictionary map[string]string

// DefaultDictionary returns a fresh copy of the built-in misspelling
// dictionary.
func DefaultDictionary() Dictionary {
	return maps.Clone(builtinMisspellings)
}

// LoadDictionary reads a YAML mapping of misspelling → correction from path
// and merges it over the built-in dictionary. Entries in the file win over
// built-in ones.
func LoadDictionary(path string) (Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("textcheck: open dictionary %q: %w", path, err)
	}
	defer f.Close()

	d, err := DecodeDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("textcheck: parse dictionary %q: %w", path, err)
	}
	return d, nil
}

// DecodeDictionary decodes a YAML mapping from r and merges it over the
// built-in dictionary. Keys are normalised the same way words are during a
// check; keys that normalise to the empty string and empty corrections are
// rejected.
func DecodeDictionary(r io.Reader) (Dictionary, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("textcheck: decode yaml: %w", err)
	}

	d := DefaultDictionary()
	for k, v := range raw {
		key := lettersOnly(k)
		if key == "" {
			return nil, fmt.Errorf("textcheck: dictionary key %q contains no letters", k)
		}
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("textcheck: dictionary entry %q has an empty correction", k)
		}
		d[key] = strings.TrimSpace(v)
	}
	return d, nil
}

// SpellChecker flags whole words found in its [Dictionary]. It is read-only
// after construction and safe for concurrent use.
type SpellChecker struct {
	dict Dictionary
}

// NewSpellChecker returns a SpellChecker backed by dict. A nil dict selects
// [DefaultDictionary].
func NewSpellChecker(dict Dictionary) *SpellChecker {
	if dict == nil {
		dict = DefaultDictionary()
	}
	return &SpellChecker{dict: dict}
}

// Check walks the whitespace-separated words of text left to right and
// reports each one whose letters-only, lowercase form is a dictionary key.
//
// Offset is a running character offset computed as the sum of the lengths of
// all prior words plus one separator each, which equals the rune position in
// the text once runs of whitespace are collapsed to single spaces. Length is
// the rune count of the original word, trailing punctuation included.
func (s *SpellChecker) Check(text string) []Diagnostic {
	diags := []Diagnostic{}
	offset := 0
	for _, word := range strings.Fields(text) {
		n := utf8.RuneCountInString(word)
		if correction, ok := s.dict[lettersOnly(word)]; ok {
			diags = append(diags, Diagnostic{
				Kind:       KindSpelling,
				Rule:       RuleMisspelling,
				Message:    fmt.Sprintf("Spelling error: '%s'", word),
				Offset:     offset,
				Length:     n,
				Suggestion: correction,
			})
		}
		offset += n + 1
	}
	return diags
}

// Len reports the number of dictionary entries.
func (s *SpellChecker) Len() int { return len(s.dict) }
