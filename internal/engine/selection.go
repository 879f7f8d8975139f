package engine

import "math/rand"

// WeightScale is the K in weight = max(1, (1-accuracy)*K). With K=10 every
// 0.1 of accuracy changes the weight by one step, and a fully mastered
// character keeps the floor weight of 1 so it still appears occasionally.
const WeightScale = 10.0

func weight(e CatalogEntry) float64 {
	w := (1 - e.Accuracy) * WeightScale
	if w < 1 {
		w = 1
	}
	return w
}

// SelectNext picks a character from the catalog, weighted so characters the
// learner answers less accurately surface more often. excludeID softly
// reduces immediate repeats: it is ignored when excluding it would leave no
// candidates. Pass excludeID 0 for no exclusion.
func SelectNext(catalog []CatalogEntry, rng *rand.Rand, excludeID int64) (CatalogEntry, error) {
	if len(catalog) == 0 {
		return CatalogEntry{}, ErrEmptyCatalog
	}

	candidates := catalog
	if excludeID != 0 {
		eligible := make([]CatalogEntry, 0, len(catalog))
		for _, e := range catalog {
			if e.ID != excludeID {
				eligible = append(eligible, e)
			}
		}
		if len(eligible) > 0 {
			candidates = eligible
		}
	}

	var total float64
	for _, e := range candidates {
		total += weight(e)
	}

	draw := rng.Float64() * total
	var cum float64
	for _, e := range candidates {
		cum += weight(e)
		if draw < cum {
			return e, nil
		}
	}
	// Floating-point rounding can leave the draw past the accumulated
	// total; the last entry is the answer in that case.
	return candidates[len(candidates)-1], nil
}
