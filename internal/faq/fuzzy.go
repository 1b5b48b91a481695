package faq

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// fuzzyThreshold is the minimum partial ratio (0-100) for a fuzzy FAQ hit.
const fuzzyThreshold = 65

// MatchFuzzy scores the query against every FAQ question with a partial
// fuzzy ratio and returns the answer of the best-scoring question when the
// score reaches the threshold. Ties keep the first question in sorted order.
func MatchFuzzy(query string, faqs map[string]string) (string, bool) {
	if query == "" || len(faqs) == 0 {
		return "", false
	}

	bestRatio := 0
	bestAnswer := ""
	for _, question := range sortedQuestions(faqs) {
		ratio := fuzzy.PartialRatio(query, question)
		if ratio > bestRatio {
			bestRatio = ratio
			bestAnswer = faqs[question]
		}
	}

	if bestRatio >= fuzzyThreshold {
		return bestAnswer, true
	}
	return "", false
}

// BestPartialMatch returns the candidate with the highest partial ratio
// against the query, used to rank scraped text blocks. Scoring is
// case-insensitive; ties keep the first candidate.
func BestPartialMatch(query string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	query = strings.ToLower(query)
	best := candidates[0]
	bestRatio := fuzzy.PartialRatio(query, strings.ToLower(candidates[0]))
	for _, c := range candidates[1:] {
		if ratio := fuzzy.PartialRatio(query, strings.ToLower(c)); ratio > bestRatio {
			bestRatio = ratio
			best = c
		}
	}
	return best, true
}
