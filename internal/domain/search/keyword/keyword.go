// Package keyword turns free-text queries into the significant terms used for retrieval and scoring.
package keyword

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinTokenLength is the shortest token kept, in runes. Shorter tokens are noise.
const MinTokenLength = 3

// DefaultStopwords covers articles, prepositions, auxiliary and modal verbs,
// pronouns and generic shopping verbs. Tokens under MinTokenLength never reach
// the stopword check, so two-letter words are omitted.
var DefaultStopwords = []string{
	// articles, conjunctions, determiners
	"the", "and", "but", "nor", "yet", "any", "some", "all", "each", "every",
	"this", "that", "these", "those", "such", "than", "then", "also", "too",
	"very", "just", "only", "not",
	// prepositions
	"for", "with", "from", "into", "onto", "about", "above", "below", "over",
	"under", "between", "through", "during", "without", "within", "upon",
	"near", "off", "out", "via", "per", "around", "across", "along",
	// auxiliary and modal verbs
	"are", "was", "were", "been", "being", "have", "has", "had", "having",
	"does", "did", "doing", "can", "could", "will", "would", "shall", "should",
	"may", "might", "must",
	// pronouns and question words
	"you", "your", "yours", "our", "ours", "they", "them", "their", "its",
	"his", "her", "she", "him", "what", "which", "who", "whom", "where",
	"when", "why", "how", "there", "here",
	// generic shopping verbs
	"show", "find", "buy", "want", "need", "looking", "look", "search",
	"searching", "get", "give", "please", "help", "tell", "see", "like",
	"something", "anything",
}

// Extractor splits queries into lowercase keyword tokens.
type Extractor struct {
	stopwords map[string]struct{}
}

// NewExtractor builds an extractor over the given stopword list.
// A nil list selects DefaultStopwords.
func NewExtractor(stopwords []string) *Extractor {
	if stopwords == nil {
		stopwords = DefaultStopwords
	}
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Extractor{stopwords: set}
}

// Extract returns the significant tokens of query in order of first occurrence.
// An empty or all-noise query yields an empty (nil) slice.
func (e *Extractor) Extract(query string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(query), isSeparator)

	var keywords []string
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < MinTokenLength {
			continue
		}
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}

// IsStopword reports whether token is in the extractor's stopword set.
func (e *Extractor) IsStopword(token string) bool {
	_, ok := e.stopwords[strings.ToLower(token)]
	return ok
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
