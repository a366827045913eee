package feed

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/referralhub/partnerhub/internal/logger"
	"github.com/referralhub/partnerhub/internal/models"
)

// mergeOrder fixes the concatenation order of the per-kind sets so a
// recompute with unchanged inputs always yields the same output
var mergeOrder = []models.Kind{
	models.KindReferral,
	models.KindOpportunity,
	models.KindBatchJob,
}

// Aggregator keeps one in-memory set per source kind and maintains a
// sorted, soft-delete-filtered union of the three. Sources push full
// snapshots concurrently; one mutex serializes set replacement and the
// recompute, so consumers only ever observe fully merged views.
type Aggregator struct {
	logger logger.Logger

	mu       sync.Mutex
	sets     map[models.Kind][]models.StatusItem
	snapshot []models.StatusItem

	// updates holds at most the latest snapshot; stale ones are
	// dropped so a slow consumer never blocks delta ingestion
	updates chan []models.StatusItem
}

func NewAggregator(l logger.Logger) *Aggregator {
	if l == nil {
		l = logger.NewNoOp()
	}

	return &Aggregator{
		logger:   l,
		sets:     make(map[models.Kind][]models.StatusItem, len(mergeOrder)),
		snapshot: []models.StatusItem{},
		updates:  make(chan []models.StatusItem, 1),
	}
}

// OnSourceDelta replaces the whole in-memory set of one kind with the
// delivered snapshot and recomputes the merged view. Sources deliver
// full current state per notification, so no partial merging happens
// within a kind.
func (a *Aggregator) OnSourceDelta(kind models.Kind, items []models.StatusItem) {
	if !slices.Contains(mergeOrder, kind) {
		a.logger.Warn("Dropping delta for unknown source kind", "kind", kind)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.sets[kind] = slices.Clone(items)
	a.recomputeLocked()
}

// OnSourceError records a source fault. The last good snapshot of that
// kind stays in place, so the merged view degrades instead of blanking.
func (a *Aggregator) OnSourceError(kind models.Kind, err error) {
	a.logger.Error("Status feed source failed, keeping last snapshot", "kind", kind, "error", err)
}

// Recompute rebuilds and republishes the merged view from the current
// sets. Idempotent: with no intervening delta the output is identical.
func (a *Aggregator) Recompute() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.recomputeLocked()
}

func (a *Aggregator) recomputeLocked() {
	merged := Merge(a.sets)

	a.snapshot = merged
	a.publish(merged)
}

// publish offers the snapshot to the updates channel, replacing any
// stale one still waiting there
func (a *Aggregator) publish(snapshot []models.StatusItem) {
	for {
		select {
		case a.updates <- snapshot:
			return
		default:
		}

		select {
		case <-a.updates:
		default:
		}
	}
}

// Snapshot returns a copy of the last published merged view
func (a *Aggregator) Snapshot() []models.StatusItem {
	a.mu.Lock()
	defer a.mu.Unlock()

	return slices.Clone(a.snapshot)
}

// Updates exposes the coalescing stream of merged views. Only the
// latest snapshot is retained between reads.
func (a *Aggregator) Updates() <-chan []models.StatusItem {
	return a.updates
}

// Run subscribes the aggregator to the given sources for one owner and
// keeps the subscriptions alive until ctx is done. The returned channel
// closes after every source is unsubscribed.
func (a *Aggregator) Run(ctx context.Context, ownerID uuid.UUID, sources ...Source) <-chan struct{} {
	stops := make([]func(), 0, len(sources))
	for _, source := range sources {
		kind := source.Kind()
		stop := source.Subscribe(ownerID,
			func(items []models.StatusItem) { a.OnSourceDelta(kind, items) },
			func(err error) { a.OnSourceError(kind, err) },
		)
		stops = append(stops, stop)
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()

		for _, stop := range stops {
			stop()
		}
		a.logger.Debug("Status feed aggregator stopped")
	}()

	return stopped
}
