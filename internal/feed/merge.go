package feed

import (
	"slices"

	"github.com/referralhub/partnerhub/internal/models"
)

// Merge builds the consumer view from the per-kind sets: concatenation
// in fixed kind order, soft-deleted items dropped, stable sort with the
// most recently touched item first. Pure function, empty or missing
// sets merge to an empty list.
func Merge(sets map[models.Kind][]models.StatusItem) []models.StatusItem {
	size := 0
	for _, set := range sets {
		size += len(set)
	}

	merged := make([]models.StatusItem, 0, size)
	for _, kind := range mergeOrder {
		for _, item := range sets[kind] {
			if item.SoftDeleted {
				continue
			}
			merged = append(merged, item)
		}
	}

	// Equal timestamps keep their insertion order
	slices.SortStableFunc(merged, func(x, y models.StatusItem) int {
		return y.EffectiveTime().Compare(x.EffectiveTime())
	})

	return merged
}
