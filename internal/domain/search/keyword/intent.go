package keyword

import "strings"

// intentPrefixes are conversational lead-ins removed before keyword extraction.
// Longer phrases come first so "show me" wins over "show".
var intentPrefixes = []string{
	"i am looking for",
	"i'm looking for",
	"im looking for",
	"do you have any",
	"do you have",
	"do you sell",
	"can you show me",
	"can you find me",
	"can you find",
	"could you show me",
	"could you find",
	"looking for",
	"search for",
	"i would like",
	"i'd like",
	"i want to buy",
	"i want",
	"i need",
	"show me",
	"find me",
	"get me",
	"give me",
	"can you",
	"could you",
	"please",
	"find",
	"show",
	"hey",
	"hi",
}

// StripIntent removes leading imperative phrases and trailing question marks from
// a conversational message. The remainder keeps its original casing.
func StripIntent(message string) string {
	s := strings.TrimSpace(message)
	for {
		next := stripOnePrefix(s)
		if next == s {
			break
		}
		s = next
	}
	s = strings.TrimRight(s, "?!. \t\n")
	return strings.TrimSpace(s)
}

const prefixBoundary = " ,\t\n?!."

func stripOnePrefix(s string) string {
	for _, p := range intentPrefixes {
		if len(s) < len(p) || !strings.EqualFold(s[:len(p)], p) {
			continue
		}
		rest := s[len(p):]
		// Only whole-word prefixes: "showcase" must not lose "show".
		if rest != "" && !strings.ContainsAny(rest[:1], prefixBoundary) {
			continue
		}
		return strings.TrimLeft(rest, prefixBoundary)
	}
	return s
}
