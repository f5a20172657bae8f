package relevance

import (
	"testing"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

func terms(names ...string) []product.Term {
	out := make([]product.Term, len(names))
	for i, n := range names {
		out[i] = product.Term{ID: int64(i + 1), Name: n}
	}
	return out
}

func TestScore_Tiers(t *testing.T) {
	s := NewScorer(DefaultWeights())

	tests := []struct {
		name     string
		product  product.Product
		keywords []string
		query    string
		want     int
	}{
		{
			name:     "word matches in title only",
			product:  product.Product{Name: "Red Running Shoes"},
			keywords: []string{"red", "shoes"},
			query:    "red shoes",
			want:     50,
		},
		{
			name: "phrase across fields with coverage and density",
			product: product.Product{
				Name:             "Folding Walking Stick",
				ShortDescription: "<p>A walking stick for daily use</p>",
				Categories:       terms("Walking Aids"),
				Tags:             terms("stick"),
			},
			keywords: []string{"walking", "stick"},
			query:    "Walking Stick",
			// title 60+25+25, short 55+22+22, categories 20, tags 20, coverage 15, density min(6*2,20)
			want: 276,
		},
		{
			name:     "substring inside longer word",
			product:  product.Product{Name: "Wheelchair Cushion"},
			keywords: []string{"chair"},
			query:    "chair",
			// phrase 60 + substring 15
			want: 75,
		},
		{
			name:     "two fields earn dual coverage",
			product:  product.Product{Name: "Cane", Tags: terms("cane")},
			keywords: []string{"cane"},
			query:    "cane",
			// title 60+25, tags 45+20, coverage 8, density min(2*2,20)
			want: 162,
		},
		{
			name:     "density capped",
			product:  product.Product{Name: "red red red red red red red red red red red"},
			keywords: []string{"red"},
			query:    "red",
			// phrase 60 + word 25 + min(11*2, 20)
			want: 105,
		},
		{
			name:     "entities in category names",
			product:  product.Product{Categories: terms("Bath &amp; Shower")},
			keywords: []string{"shower"},
			query:    "shower seat",
			want:     20,
		},
		{
			name:     "description weights",
			product:  product.Product{Description: "Removes red clay stains"},
			keywords: []string{"red", "shoes"},
			query:    "red shoes",
			want:     15,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Score(&tc.product, tc.keywords, tc.query); got != tc.want {
				t.Errorf("Score = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScore_ZeroForEmptyInputs(t *testing.T) {
	s := NewScorer(DefaultWeights())

	var empty product.Product
	if got := s.Score(&empty, nil, ""); got != 0 {
		t.Errorf("empty product, no keywords: got %d", got)
	}
	if got := s.Score(&empty, []string{"walker"}, "walker"); got != 0 {
		t.Errorf("empty product with keywords: got %d", got)
	}

	p := product.Product{Name: "Walker", Description: "Four wheels"}
	if got := s.Score(&p, nil, ""); got != 0 {
		t.Errorf("no keywords and empty query should score 0, got %d", got)
	}
}

func TestScore_NeverNegative(t *testing.T) {
	w := DefaultWeights()
	w.Title = FieldWeights{Phrase: -100, WordMatch: -50, Substring: -50}
	s := NewScorer(w)

	p := product.Product{Name: "Red Shoes"}
	if got := s.Score(&p, []string{"red"}, "red shoes"); got != 0 {
		t.Errorf("negative weights must clamp to 0, got %d", got)
	}
}

func TestScore_RoundsFractionalWeights(t *testing.T) {
	w := DefaultWeights()
	w.Title = FieldWeights{WordMatch: 2.5}
	s := NewScorer(w)

	p := product.Product{Name: "red"}
	// Empty query disables the phrase tier.
	if got := s.Score(&p, []string{"red"}, ""); got != 3 {
		t.Errorf("Score = %d, want 3", got)
	}
}

func TestPrepare_MatchesScore(t *testing.T) {
	s := NewScorer(DefaultWeights())
	keywords := []string{"knee", "brace"}
	q := s.Prepare(keywords, "knee brace")

	pool := []product.Product{
		{Name: "Knee Brace", Tags: terms("knee")},
		{Name: "Ankle Brace"},
		{Description: "no match here"},
	}
	for i := range pool {
		if a, b := q.Score(&pool[i]), s.Score(&pool[i], keywords, "knee brace"); a != b {
			t.Errorf("product %d: prepared %d != direct %d", i, a, b)
		}
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text, word string
		want       bool
	}{
		{"red running shoes", "red", true},
		{"red running shoes", "shoes", true},
		{"wheelchair cushion", "chair", false},
		{"chair, wheel", "chair", true},
		{"armchair chair", "chair", true},
		{"café crème", "café", true},
		{"cafés", "café", false},
		{"", "red", false},
		{"red", "", false},
	}
	for _, tc := range tests {
		if got := containsWord(tc.text, tc.word); got != tc.want {
			t.Errorf("containsWord(%q, %q) = %v, want %v", tc.text, tc.word, got, tc.want)
		}
	}
}

func TestThresholdFor(t *testing.T) {
	w := DefaultWeights()
	cases := map[int]int{0: 5, 1: 5, 3: 5, 4: 8, 10: 8}
	for n, want := range cases {
		if got := w.ThresholdFor(n); got != want {
			t.Errorf("ThresholdFor(%d) = %d, want %d", n, got, want)
		}
	}
}
