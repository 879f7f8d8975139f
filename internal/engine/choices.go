package engine

import "math/rand"

// DefaultChoiceCount is the answer-set size for multiple-choice mode.
const DefaultChoiceCount = 4

// GenerateChoices builds a multiple-choice answer set: the correct romaji
// exactly once plus up to count-1 distinct wrong romaji drawn from the rest
// of the catalog. Duplicate romaji are excluded from the wrong pool, so two
// characters sharing a reading (じ/ぢ) never produce identical choices. A
// tiny catalog yields fewer than count entries, never padding. The result
// order is uniformly shuffled.
func GenerateChoices(catalog []CatalogEntry, correct string, count int, rng *rand.Rand) []string {
	if count < 1 {
		count = DefaultChoiceCount
	}

	seen := map[string]bool{correct: true}
	pool := make([]string, 0, len(catalog))
	for _, e := range catalog {
		if seen[e.Romaji] {
			continue
		}
		seen[e.Romaji] = true
		pool = append(pool, e.Romaji)
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > count-1 {
		pool = pool[:count-1]
	}

	choices := append(pool, correct)
	rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}
