// Package feed merges the three per-owner record collections
// (referrals, opportunities, batch jobs) into one sorted, filterable
// status feed that refreshes whenever any source changes.
package feed

import (
	"github.com/google/uuid"

	"github.com/referralhub/partnerhub/internal/models"
)

// Source is one subscribable record collection. Implementations
// deliver the full current snapshot of the owner's normalized items on
// every change, never diffs. Stop must be safe to call more than once.
type Source interface {
	Kind() models.Kind
	Subscribe(ownerID uuid.UUID, onSnapshot func([]models.StatusItem), onError func(error)) (stop func())
}
