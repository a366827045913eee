package feed

import (
	"strings"

	"github.com/referralhub/partnerhub/internal/models"
)

// Category tokens selecting a single kind. Any other selected category
// is treated as a literal status value.
const (
	CategoryOnlyReferrals     = "OnlyReferrals"
	CategoryOnlyOpportunities = "OnlyOpportunities"
	CategoryOnlyBatchJobs     = "OnlyBatchJobs"
)

var kindByCategory = map[string]models.Kind{
	CategoryOnlyReferrals:     models.KindReferral,
	CategoryOnlyOpportunities: models.KindOpportunity,
	CategoryOnlyBatchJobs:     models.KindBatchJob,
}

// Filter narrows items by free text search and selected categories.
//
// The search matches case insensitively as a substring of the display
// name, product or status. Categories split into two groups: kind
// selectors and status values. An item must match one of the selected
// kinds (all kinds pass when none is selected) and one of the selected
// statuses (all statuses pass when none is selected).
func Filter(items []models.StatusItem, searchText string, categories []string) []models.StatusItem {
	kinds := make(map[models.Kind]bool)
	statuses := make(map[string]bool)
	for _, c := range categories {
		if kind, ok := kindByCategory[c]; ok {
			kinds[kind] = true
		} else {
			statuses[c] = true
		}
	}

	search := strings.ToLower(strings.TrimSpace(searchText))

	result := make([]models.StatusItem, 0, len(items))
	for _, item := range items {
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		if len(kinds) > 0 && !kinds[item.Kind] {
			continue
		}
		if len(statuses) > 0 && !statuses[item.Status] {
			continue
		}

		result = append(result, item)
	}

	return result
}

func matchesSearch(item models.StatusItem, search string) bool {
	return strings.Contains(strings.ToLower(item.DisplayName), search) ||
		strings.Contains(strings.ToLower(item.Product), search) ||
		strings.Contains(strings.ToLower(item.Status), search)
}

// Rollup counts items per status value. It is meant to run over the
// full unfiltered snapshot: the counters show totals, not whatever the
// current search narrowed the view down to.
func Rollup(items []models.StatusItem) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.Status]++
	}

	return counts
}
