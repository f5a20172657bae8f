package keyword

import (
	"reflect"
	"testing"
	"unicode/utf8"
)

func TestExtract(t *testing.T) {
	e := NewExtractor(nil)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"simple", "red shoes", []string{"red", "shoes"}},
		{"lowercases", "Red SHOES", []string{"red", "shoes"}},
		{"punctuation as whitespace", "wheel-chair, cushion!", []string{"wheel", "chair", "cushion"}},
		{"drops short tokens", "a tv on xl stand", []string{"stand"}},
		{"drops stopwords", "show me the best walker for seniors", []string{"best", "walker", "seniors"}},
		{"shopping verbs", "I want to buy looking find", nil},
		{"keeps digits", "size 10 shoes 2024", []string{"size", "shoes", "2024"}},
		{"dedupes keeping order", "cane walker cane", []string{"cane", "walker"}},
		{"unicode letters", "café crème", []string{"café", "crème"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Extract(tc.query)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Extract(%q) = %#v, want %#v", tc.query, got, tc.want)
			}
		})
	}
}

func TestExtract_NoShortOrStopTokens(t *testing.T) {
	e := NewExtractor(nil)
	queries := []string{
		"Can you find me a lightweight folding wheelchair with big wheels?",
		"i'm looking for an adjustable bed, under 500",
		"THE and FOR with !!! ?? x y z",
		"show   find   buy   want   looking",
	}
	for _, q := range queries {
		for _, tok := range e.Extract(q) {
			if utf8.RuneCountInString(tok) < MinTokenLength {
				t.Errorf("Extract(%q) returned short token %q", q, tok)
			}
			if e.IsStopword(tok) {
				t.Errorf("Extract(%q) returned stopword %q", q, tok)
			}
		}
	}
}

func TestNewExtractor_CustomStopwords(t *testing.T) {
	e := NewExtractor([]string{"Shoes"})
	got := e.Extract("red shoes for running")
	want := []string{"red", "for", "running"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestStripIntent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Find red shoes", "red shoes"},
		{"show me walking sticks?", "walking sticks"},
		{"Can you show me a shower chair??", "a shower chair"},
		{"I'm looking for Knee Braces", "Knee Braces"},
		{"please, find me commode chairs", "commode chairs"},
		{"hi, do you have grab bars?", "grab bars"},
		{"Showcase cabinets", "Showcase cabinets"},
		{"wheelchair", "wheelchair"},
		{"find", ""},
		{"Hi, can you show me?", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := StripIntent(tc.in); got != tc.want {
				t.Errorf("StripIntent(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
