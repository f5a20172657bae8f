// Package relevance scores catalog products against a query and its keywords.
package relevance

// FieldWeights holds the points awarded for matches in one product field.
type FieldWeights struct {
	Phrase    float64 `yaml:"phrase"`     // whole query contained in the field
	WordMatch float64 `yaml:"word_match"` // keyword matched on word boundaries
	Substring float64 `yaml:"substring"`  // keyword matched inside a longer word
}

// Weights are the tunable constants of the scoring contract.
type Weights struct {
	Title            FieldWeights `yaml:"title"`
	ShortDescription FieldWeights `yaml:"short_description"`
	Description      FieldWeights `yaml:"description"`
	Categories       FieldWeights `yaml:"categories"`
	Tags             FieldWeights `yaml:"tags"`

	// CoverageBroad applies when matches span at least 3 fields, CoverageDual when exactly 2.
	CoverageBroad float64 `yaml:"coverage_broad"`
	CoverageDual  float64 `yaml:"coverage_dual"`

	// DensityPerMatch multiplies the raw keyword occurrence count, capped at DensityCap.
	DensityPerMatch float64 `yaml:"density_per_match"`
	DensityCap      float64 `yaml:"density_cap"`

	// Threshold is the minimum score kept by the ranker; ThresholdMany applies
	// when the keyword set is larger than ManyKeywords.
	Threshold     int `yaml:"threshold"`
	ThresholdMany int `yaml:"threshold_many"`
	ManyKeywords  int `yaml:"many_keywords"`
}

// DefaultWeights returns the tuned production weights.
func DefaultWeights() Weights {
	return Weights{
		Title:            FieldWeights{Phrase: 60, WordMatch: 25, Substring: 15},
		ShortDescription: FieldWeights{Phrase: 55, WordMatch: 22, Substring: 12},
		Description:      FieldWeights{Phrase: 50, WordMatch: 15, Substring: 8},
		Categories:       FieldWeights{Phrase: 45, WordMatch: 20, Substring: 10},
		Tags:             FieldWeights{Phrase: 45, WordMatch: 20, Substring: 10},
		CoverageBroad:    15,
		CoverageDual:     8,
		DensityPerMatch:  2,
		DensityCap:       20,
		Threshold:        5,
		ThresholdMany:    8,
		ManyKeywords:     3,
	}
}

// ThresholdFor returns the minimum kept score for a keyword set of size n.
func (w *Weights) ThresholdFor(n int) int {
	if n > w.ManyKeywords {
		return w.ThresholdMany
	}
	return w.Threshold
}

func (w *Weights) fields() [fieldCount]FieldWeights {
	return [fieldCount]FieldWeights{w.Title, w.ShortDescription, w.Description, w.Categories, w.Tags}
}
