package result

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain/search/ranking"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/textnorm"
)

// NotFoundMessage is returned when a search produced no products.
const NotFoundMessage = "Sorry, I couldn't find any products matching your search. " +
	"Try different keywords or browse our categories."

// UnavailableMessage is returned by the conversational operation when the catalog could not be reached.
const UnavailableMessage = "I'm having trouble reaching the product catalog right now. " +
	"Please try again in a moment."

// PromptMessage answers a conversational message that names no product.
const PromptMessage = "Tell me what you're looking for, for example \"folding wheelchair\" or \"shower chair\"."

// NotFoundSuggestions accompany NotFoundMessage.
var NotFoundSuggestions = []string{
	"Try using different or more general keywords",
	"Check the spelling of your search",
	"Browse products by category",
}

// maxTopCategories bounds the category suggestion.
const maxTopCategories = 3

// Summary describes a result set for message composition.
type Summary struct {
	Query      string
	Count      int
	InStock    int
	Categories []string // distinct category names, most frequent first, then first seen
	Names      []string // product names in result order
}

// Summarize collects the facts a composer may mention.
func Summarize(query string, scored []ranking.Scored) Summary {
	s := Summary{Query: query, Count: len(scored)}
	type catCount struct {
		name  string
		count int
		first int
	}
	counts := make(map[string]*catCount)
	for i := range scored {
		p := &scored[i].Product
		if p.InStock() {
			s.InStock++
		}
		s.Names = append(s.Names, textnorm.Normalize(p.Name))
		for _, c := range p.CategoryNames() {
			c = textnorm.Normalize(c)
			if cc, ok := counts[c]; ok {
				cc.count++
				continue
			}
			counts[c] = &catCount{name: c, count: 1, first: len(counts)}
		}
	}
	cats := make([]*catCount, 0, len(counts))
	for _, cc := range counts {
		cats = append(cats, cc)
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].count != cats[j].count {
			return cats[i].count > cats[j].count
		}
		return cats[i].first < cats[j].first
	})
	for _, cc := range cats {
		s.Categories = append(s.Categories, cc.name)
	}
	return s
}

// Suggestions returns up to two data-driven follow-ups: the top categories
// present and, when some items are out of stock, the in-stock count.
func Suggestions(s Summary) []string {
	if s.Count == 0 {
		return append([]string(nil), NotFoundSuggestions...)
	}
	out := make([]string, 0, 2)
	if len(s.Categories) > 0 {
		top := s.Categories[:min(len(s.Categories), maxTopCategories)]
		out = append(out, "Browse related categories: "+strings.Join(top, ", "))
	}
	if s.InStock < s.Count {
		out = append(out, fmt.Sprintf("%d of %d items are in stock", s.InStock, s.Count))
	}
	return out
}

// templates are the phrasings used for non-empty results. %[1]d is the count, %[2]s the query, quoted by the template.
var templates = []string{
	"I found %[1]d products matching “%[2]s”. Here are the best matches:",
	"Here are %[1]d products related to “%[2]s” that you might like:",
	"Great news! %[1]d products match “%[2]s”. Take a look:",
	"Based on your search for “%[2]s”, these %[1]d products look like the best fit:",
}

// singleTemplates are used when exactly one product matched.
var singleTemplates = []string{
	"I found 1 product matching “%[2]s”:",
	"Here is the best match for “%[2]s”:",
}

// TemplateComposer phrases messages from a fixed template set.
type TemplateComposer struct {
	pick func(n int) int
}

// NewTemplateComposer creates a composer. pick chooses a template index in [0, n);
// nil selects math/rand/v2.
func NewTemplateComposer(pick func(n int) int) *TemplateComposer {
	if pick == nil {
		pick = rand.IntN
	}
	return &TemplateComposer{pick: pick}
}

// Compose phrases a message for the summary.
func (c *TemplateComposer) Compose(_ context.Context, s Summary) string {
	if s.Count == 0 {
		return NotFoundMessage
	}
	set := templates
	if s.Count == 1 {
		set = singleTemplates
	}
	i := c.pick(len(set))
	if i < 0 || i >= len(set) {
		i = 0
	}
	return fmt.Sprintf(set[i], s.Count, s.Query)
}
