package search

import (
	"strings"
	"unicode"

	"github.com/blockgraph-io/blockgraph/internal/models"
	"github.com/blockgraph-io/blockgraph/internal/snapshot"
)

// MaxLexicalScore caps fallback scores. A degraded match can never look
// like a strong vector match; callers also get the Degraded flag.
const MaxLexicalScore = 0.5

// lexicalScan matches query tokens case-insensitively against entity label
// and description. Score is the fraction of query tokens found, scaled into
// [0, MaxLexicalScore]. MinScore is deliberately not applied here: it is
// defined on the vector similarity scale, and fallback results are already
// marked degraded.
func lexicalScan(snap *snapshot.Snapshot, candidates []int, query string) []models.SearchResult {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []models.SearchResult{}
	}

	results := make([]models.SearchResult, 0, len(candidates))
	for _, i := range candidates {
		ent := snap.EntityAt(i)
		haystack := tokenSet(ent.Label + " " + ent.Description)

		matched := 0
		for _, tok := range tokens {
			if haystack[tok] {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		results = append(results, models.SearchResult{
			EntityID: ent.ID,
			Score:    MaxLexicalScore * float64(matched) / float64(len(tokens)),
			Category: ent.Category,
			Degraded: true,
		})
	}
	return results
}

// tokenize lowercases and splits on any non-alphanumeric rune, dropping
// duplicates while preserving first-seen order.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range tokenize(s) {
		set[tok] = true
	}
	return set
}
