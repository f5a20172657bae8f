package relevance

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/textnorm"
)

// Product fields in scoring order.
const (
	fieldTitle = iota
	fieldShortDescription
	fieldDescription
	fieldCategories
	fieldTags
	fieldCount
)

// Scorer computes relevance scores with a fixed set of weights.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights { return s.weights }

// Score rates one product against keywords and the original query.
// Use Prepare when scoring a pool against the same query.
func (s *Scorer) Score(p *product.Product, keywords []string, query string) int {
	return s.Prepare(keywords, query).Score(p)
}

// Prepare binds the scorer to one query so the phrase is normalized once per pool.
func (s *Scorer) Prepare(keywords []string, query string) *Query {
	return &Query{
		weights:  &s.weights,
		fields:   s.weights.fields(),
		phrase:   strings.ToLower(textnorm.Normalize(query)),
		keywords: keywords,
	}
}

// Query is a scorer bound to one query and keyword set.
type Query struct {
	weights  *Weights
	fields   [fieldCount]FieldWeights
	phrase   string
	keywords []string
}

// Score returns the non-negative integer relevance of p.
func (q *Query) Score(p *product.Product) int {
	texts := fieldTexts(p)

	var score float64
	var hit [fieldCount]bool
	for i, text := range texts {
		if text == "" {
			continue
		}
		fw := q.fields[i]
		if q.phrase != "" && strings.Contains(text, q.phrase) {
			score += fw.Phrase
			hit[i] = true
		}
		for _, kw := range q.keywords {
			switch {
			case containsWord(text, kw):
				score += fw.WordMatch
				hit[i] = true
			case strings.Contains(text, kw):
				score += fw.Substring
				hit[i] = true
			}
		}
	}

	score += q.coverageBonus(hit)
	score += q.densityBonus(texts)

	if score <= 0 {
		return 0
	}
	return int(math.Round(score))
}

func (q *Query) coverageBonus(hit [fieldCount]bool) float64 {
	n := 0
	for _, h := range hit {
		if h {
			n++
		}
	}
	switch {
	case n >= 3:
		return q.weights.CoverageBroad
	case n == 2:
		return q.weights.CoverageDual
	default:
		return 0
	}
}

func (q *Query) densityBonus(texts [fieldCount]string) float64 {
	if len(q.keywords) == 0 {
		return 0
	}
	all := strings.Join(texts[:], " ")
	total := 0
	for _, kw := range q.keywords {
		if kw == "" {
			continue
		}
		total += strings.Count(all, kw)
	}
	if total <= len(q.keywords) {
		return 0
	}
	return math.Min(float64(total)*q.weights.DensityPerMatch, q.weights.DensityCap)
}

// fieldTexts returns the lowercased, markup-free text of every scored field.
func fieldTexts(p *product.Product) [fieldCount]string {
	var t [fieldCount]string
	t[fieldTitle] = lowerNorm(p.Name)
	t[fieldShortDescription] = lowerNorm(p.ShortDescription)
	t[fieldDescription] = lowerNorm(p.Description)
	t[fieldCategories] = lowerNorm(strings.Join(p.CategoryNames(), " "))
	t[fieldTags] = lowerNorm(strings.Join(p.TagNames(), " "))
	return t
}

func lowerNorm(s string) string {
	return strings.ToLower(textnorm.Normalize(s))
}

// containsWord reports whether word occurs in text delimited by non-alphanumeric runes or the text edges.
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; start < len(text); {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		if boundaryBefore(text, i) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		start = i + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
