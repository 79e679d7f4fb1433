package resolver

import (
	"strings"

	"github.com/azure-architect/archdiagram/internal/ontology"
)

// Matcher scores how well a candidate icon title matches a query. Scores are
// in [0, 1]; higher is better.
type Matcher interface {
	Score(query, candidate string) float64
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(query, candidate string) float64

// Score calls f(query, candidate).
func (f MatcherFunc) Score(query, candidate string) float64 { return f(query, candidate) }

// TrigramMatcher blends word overlap with character trigram similarity:
// 0.6 x tokenOverlap + 0.4 x trigramJaccard.
type TrigramMatcher struct{}

// Score implements Matcher.
func (TrigramMatcher) Score(query, candidate string) float64 {
	return 0.6*tokenOverlap(query, candidate) + 0.4*trigramJaccard(query, candidate)
}

// vendor words never count as shared tokens.
var vendorTokens = map[string]bool{"azure": true, "microsoft": true}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range ontology.Words(s) {
		if !vendorTokens[w] {
			set[w] = true
		}
	}
	return set
}

func tokenOverlap(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for w := range ta {
		if tb[w] {
			shared++
		}
	}
	return float64(shared) / float64(max(len(ta), len(tb)))
}

func trigrams(s string) map[string]bool {
	compact := []rune(strings.Join(ontology.Words(s), ""))
	set := make(map[string]bool)
	if len(compact) == 0 {
		return set
	}
	if len(compact) < 3 {
		set[string(compact)] = true
		return set
	}
	for i := 0; i+3 <= len(compact); i++ {
		set[string(compact[i:i+3])] = true
	}
	return set
}

func trigramJaccard(a, b string) float64 {
	ga, gb := trigrams(a), trigrams(b)
	if len(ga) == 0 || len(gb) == 0 {
		return 0
	}
	shared := 0
	for g := range ga {
		if gb[g] {
			shared++
		}
	}
	return float64(shared) / float64(len(ga)+len(gb)-shared)
}
