// Package suggest generates static "AI" suggestions for a search query.
// It is a fixed keyword table evaluated in order; the first matching row
// wins and rows never accumulate.
package suggest

import "strings"

type rule struct {
	keywords    []string
	suggestions []string
}

// The table keeps both the Turkish and English keyword spellings the
// original catalog was queried with.
var rules = []rule{
	{keywords: []string{"domat", "tomato"}, suggestions: []string{"cucumber", "pepper", "eggplant"}},
	{keywords: []string{"elma", "apple"}, suggestions: []string{"pear", "orange", "banana"}},
	{keywords: []string{"sebze", "vegetable"}, suggestions: []string{"fruit", "greens"}},
}

// Suggest returns the suggestion list for the first rule whose keyword is
// contained in the query (case-insensitive), or nil when nothing matches.
func Suggest(query string) []string {
	q := strings.ToLower(query)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				out := make([]string, len(r.suggestions))
				copy(out, r.suggestions)
				return out
			}
		}
	}
	return nil
}
