package api

import (
	"sort"

	"alphamastery/internal/content"
)

// FromKeyCounts converts store counts into ContentCount values ordered by key.
func FromKeyCounts(counts []content.KeyCount) []ContentCount {
	out := make([]ContentCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, ContentCount{Key: c.Key, Count: c.Count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// TotalItems sums the counts.
func TotalItems(counts []ContentCount) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}
