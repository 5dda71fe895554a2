package textcheck_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrWong99/parlance/pkg/textcheck"
)

func TestSpellChecker_LeftToRight(t *testing.T) {
	t.Parallel()

	sc := textcheck.NewSpellChecker(nil)
	diags := sc.Check("I recieve teh package")
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(diags), diags)
	}

	want := []struct {
		suggestion string
		offset     int
		length     int
	}{
		{"receive", 2, 7},
		{"the", 10, 3},
	}
	for i, w := range want {
		d := diags[i]
		if d.Kind != textcheck.KindSpelling {
			t.Errorf("diags[%d].Kind = %q; want spelling", i, d.Kind)
		}
		if d.Suggestion != w.suggestion {
			t.Errorf("diags[%d].Suggestion = %q; want %q", i, d.Suggestion, w.suggestion)
		}
		if d.Offset != w.offset {
			t.Errorf("diags[%d].Offset = %d; want %d", i, d.Offset, w.offset)
		}
		if d.Length != w.length {
			t.Errorf("diags[%d].Length = %d; want %d", i, d.Length, w.length)
		}
	}
	if diags[0].Message != "Spelling error: 'recieve'" {
		t.Errorf("Message = %q", diags[0].Message)
	}
}

func TestSpellChecker_PunctuationAndCase(t *testing.T) {
	t.Parallel()

	sc := textcheck.NewSpellChecker(nil)
	diags := sc.Check("Seperate, adn OCCURED!")
	if len(diags) != 3 {
		t.Fatalf("got %d diagnostics, want 3: %+v", len(diags), diags)
	}
	// Length includes trailing punctuation captured by the whitespace split.
	if diags[0].Length != len("Seperate,") {
		t.Errorf("Length = %d; want %d", diags[0].Length, len("Seperate,"))
	}
	if diags[2].Offset != len("Seperate, adn ") {
		t.Errorf("Offset = %d; want %d", diags[2].Offset, len("Seperate, adn "))
	}
	if diags[2].Suggestion != "occurred" {
		t.Errorf("Suggestion = %q; want occurred", diags[2].Suggestion)
	}
}

func TestSpellChecker_OffsetsCountCharacters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text       string
		wantOffset int
		wantLength int
	}{
		{"café recieve", 5, 7},
		{"naïve über recieve", 11, 7},
		{"Nguyễn   teh", 7, 3},
		{"recieve… tomorrow", 0, 8},
	}
	sc := textcheck.NewSpellChecker(nil)
	for _, tt := range tests {
		diags := sc.Check(tt.text)
		if len(diags) != 1 {
			t.Fatalf("Check(%q) = %+v; want one diagnostic", tt.text, diags)
		}
		if diags[0].Offset != tt.wantOffset || diags[0].Length != tt.wantLength {
			t.Errorf("Check(%q) offset/length = %d/%d; want %d/%d",
				tt.text, diags[0].Offset, diags[0].Length, tt.wantOffset, tt.wantLength)
		}
	}
}

func TestSpellChecker_NoFuzzyMatching(t *testing.T) {
	t.Parallel()

	sc := textcheck.NewSpellChecker(nil)
	for _, text := range []string{"", "   ", "recieved", "recieves", "thee", "the receive"} {
		if diags := sc.Check(text); len(diags) != 0 {
			t.Errorf("Check(%q) = %+v; want none", text, diags)
		}
	}
}

func TestDecodeDictionary_MergesOverBuiltin(t *testing.T) {
	t.Parallel()

	d, err := textcheck.DecodeDictionary(strings.NewReader("Definately: definitely\nteh: THE\n"))
	if err != nil {
		t.Fatalf("DecodeDictionary: %v", err)
	}
	if d["definately"] != "definitely" {
		t.Errorf("custom entry missing: %v", d)
	}
	if d["teh"] != "THE" {
		t.Errorf("file entry should override builtin, got %q", d["teh"])
	}
	if d["adn"] != "and" {
		t.Errorf("builtin entry lost: %v", d)
	}

	diags := textcheck.NewSpellChecker(d).Check("definately")
	if len(diags) != 1 || diags[0].Suggestion != "definitely" {
		t.Errorf("custom dictionary not used: %+v", diags)
	}
}

func TestDecodeDictionary_Empty(t *testing.T) {
	t.Parallel()

	d, err := textcheck.DecodeDictionary(strings.NewReader(""))
	if err != nil {
		t.Fatalf("DecodeDictionary: %v", err)
	}
	if len(d) != len(textcheck.DefaultDictionary()) {
		t.Errorf("len = %d; want builtin size %d", len(d), len(textcheck.DefaultDictionary()))
	}
}

func TestDecodeDictionary_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"not a map", "- a\n- b\n"},
		{"key without letters", "\"123\": one\n"},
		{"empty correction", "wrod: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := textcheck.DecodeDictionary(strings.NewReader(tt.yaml)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoadDictionary(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "misspellings.yaml")
	if err := os.WriteFile(path, []byte("goverment: government\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := textcheck.LoadDictionary(path)
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}
	if d["goverment"] != "government" {
		t.Errorf("entry missing: %v", d)
	}

	if _, err := textcheck.LoadDictionary(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultDictionary_IsCopy(t *testing.T) {
	t.Parallel()

	d := textcheck.DefaultDictionary()
	d["teh"] = "changed"
	if textcheck.DefaultDictionary()["teh"] != "the" {
		t.Error("DefaultDictionary must return an independent copy")
	}
}
