// Package statusfeed serves point-in-time feed snapshots for the
// request/response surface. The live push pipeline (feedsource pollers
// feeding a feed.Aggregator) shares the same normalize and merge code,
// so both views always agree.
package statusfeed

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/referralhub/partnerhub/internal/feed"
	"github.com/referralhub/partnerhub/internal/models"
	"github.com/referralhub/partnerhub/internal/repository"
)

type Service struct {
	storage repository.Storage

	// now is swappable in tests
	now func() time.Time
}

func NewService(storage repository.Storage) *Service {
	return &Service{
		storage: storage,
		now:     time.Now,
	}
}

// Snapshot reads the owner's three collections, normalizes them and
// returns the merged feed, newest first, soft-deleted items excluded
func (s *Service) Snapshot(ctx context.Context, ownerID uuid.UUID) ([]models.StatusItem, error) {
	now := s.now()
	sets := make(map[models.Kind][]models.StatusItem, 3)

	referrals, err := s.storage.Referral().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, r := range referrals {
		sets[models.KindReferral] = append(sets[models.KindReferral], feed.NormalizeReferral(r, now))
	}

	opportunities, err := s.storage.Opportunity().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, o := range opportunities {
		sets[models.KindOpportunity] = append(sets[models.KindOpportunity], feed.NormalizeOpportunity(o, now))
	}

	jobs, err := s.storage.BatchJob().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		sets[models.KindBatchJob] = append(sets[models.KindBatchJob], feed.NormalizeBatchJob(job, now))
	}

	return feed.Merge(sets), nil
}
