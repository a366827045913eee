// Package feedsource implements feed.Source on top of the repository
// layer: a ticker-driven poller that re-reads one record collection for
// an owner and pushes the full normalized snapshot on every tick.
package feedsource

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/referralhub/partnerhub/internal/feed"
	"github.com/referralhub/partnerhub/internal/logger"
	"github.com/referralhub/partnerhub/internal/models"
	"github.com/referralhub/partnerhub/internal/repository"
)

const defaultPollInterval = 5 * time.Second

type Poller struct {
	kind     models.Kind
	interval time.Duration
	logger   logger.Logger

	// list reads the owner's records and normalizes them; one closure
	// per kind, set by the constructors below
	list func(ctx context.Context, ownerID uuid.UUID) ([]models.StatusItem, error)
}

var _ feed.Source = (*Poller)(nil)

func NewReferralSource(storage repository.Storage, interval time.Duration, l logger.Logger) *Poller {
	return newPoller(models.KindReferral, interval, l, func(ctx context.Context, ownerID uuid.UUID) ([]models.StatusItem, error) {
		referrals, err := storage.Referral().ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		items := make([]models.StatusItem, 0, len(referrals))
		for _, r := range referrals {
			items = append(items, feed.NormalizeReferral(r, now))
		}
		return items, nil
	})
}

func NewOpportunitySource(storage repository.Storage, interval time.Duration, l logger.Logger) *Poller {
	return newPoller(models.KindOpportunity, interval, l, func(ctx context.Context, ownerID uuid.UUID) ([]models.StatusItem, error) {
		opportunities, err := storage.Opportunity().ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		items := make([]models.StatusItem, 0, len(opportunities))
		for _, o := range opportunities {
			items = append(items, feed.NormalizeOpportunity(o, now))
		}
		return items, nil
	})
}

func NewBatchJobSource(storage repository.Storage, interval time.Duration, l logger.Logger) *Poller {
	return newPoller(models.KindBatchJob, interval, l, func(ctx context.Context, ownerID uuid.UUID) ([]models.StatusItem, error) {
		jobs, err := storage.BatchJob().ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		items := make([]models.StatusItem, 0, len(jobs))
		for _, job := range jobs {
			items = append(items, feed.NormalizeBatchJob(job, now))
		}
		return items, nil
	})
}

func newPoller(kind models.Kind, interval time.Duration, l logger.Logger, list func(context.Context, uuid.UUID) ([]models.StatusItem, error)) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if l == nil {
		l = logger.NewNoOp()
	}

	return &Poller{
		kind:     kind,
		interval: interval,
		logger:   l,
		list:     list,
	}
}

func (p *Poller) Kind() models.Kind {
	return p.kind
}

// Subscribe starts polling for the owner. The first snapshot is
// delivered right away, then once per interval, until stop is called.
func (p *Poller) Subscribe(ownerID uuid.UUID, onSnapshot func([]models.StatusItem), onError func(error)) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.poll(ctx, ownerID, onSnapshot, onError)

		for {
			select {
			case <-ctx.Done():
				p.logger.Debug("Feed source poller stopped", "kind", p.kind, "owner_id", ownerID)
				return
			case <-ticker.C:
				p.poll(ctx, ownerID, onSnapshot, onError)
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }
}

func (p *Poller) poll(ctx context.Context, ownerID uuid.UUID, onSnapshot func([]models.StatusItem), onError func(error)) {
	items, err := p.list(ctx, ownerID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		onError(err)
		return
	}

	onSnapshot(items)
}
