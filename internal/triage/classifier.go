package triage

import "strings"

// Classification is the outcome of matching complaint text against the
// category taxonomy.
type Classification struct {
	CategoryID      string   `json:"category_id"`
	CategoryName    string   `json:"category_name"`
	RiskScore       int      `json:"risk_score"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// Classify maps complaint text to a fraud category by case-insensitive
// substring matching. A category's strength is the total occurrence count of
// its keyword phrases; the strictly highest strength wins and ties go to the
// earliest declared category. With no matches at all the reserved fallback
// category is returned with an empty keyword list. Classify never fails.
func (e *Engine) Classify(text string) Classification {
	lower := strings.ToLower(text)

	var (
		best         *Classification
		bestStrength int
	)
	for i := range e.tables.Taxonomy.Categories {
		cat := &e.tables.Taxonomy.Categories[i]

		strength := 0
		var matched []string
		for _, kw := range cat.Keywords {
			if n := strings.Count(lower, kw); n > 0 {
				strength += n
				matched = append(matched, kw)
			}
		}
		if strength > bestStrength {
			bestStrength = strength
			best = &Classification{
				CategoryID:      cat.ID,
				CategoryName:    cat.Name,
				RiskScore:       cat.RiskScore,
				MatchedKeywords: matched,
			}
		}
	}

	if best != nil {
		return *best
	}

	fb := e.tables.Taxonomy.Fallback()
	return Classification{
		CategoryID:      fb.ID,
		CategoryName:    fb.Name,
		RiskScore:       fb.RiskScore,
		MatchedKeywords: []string{},
	}
}
