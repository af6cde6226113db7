package extract

// KeywordRule maps merchant-name keywords to a category. Rules are
// evaluated in order; the first keyword hit wins.
type KeywordRule struct {
	CategoryID string
	Keywords   []string
	Confidence float64
}

// fallbackConfidence is reported when no keyword rule matches.
const fallbackConfidence = 0.5

// DefaultKeywordRules returns the built-in merchant keyword rules used
// when the categorization model is unavailable.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{
			CategoryID: "food",
			Keywords:   []string{"restaurant", "cafe", "food", "starbucks", "mcdonald", "pizza"},
			Confidence: 0.7,
		},
		{
			CategoryID: "transport",
			Keywords:   []string{"uber", "lyft", "gas", "shell", "chevron"},
			Confidence: 0.7,
		},
		{
			CategoryID: "shopping",
			Keywords:   []string{"amazon", "target", "walmart", "store"},
			Confidence: 0.7,
		},
	}
}
