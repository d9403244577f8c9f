package audit

import (
	"math/rand"
	"sort"
)

// sampleIDs deterministically selects min(size, len(ids)) document ids.
// The input is sorted before seeding: store scan order is not stable
// across calls, and reproducibility requires a fixed starting order.
func sampleIDs(ids []string, size int, seed int64) []string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	if len(sorted) <= size {
		return sorted
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(sorted), func(i, j int) {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	})
	return sorted[:size]
}
