package models

import (
	"time"

	"github.com/google/uuid"
)

// Kind of the record a StatusItem was projected from. Closed set.
type Kind string

const (
	KindReferral    Kind = "referral"
	KindOpportunity Kind = "opportunity"
	KindBatchJob    Kind = "batchjob"
)

// StatusItem is the merged-feed projection of one underlying record.
// It is derived on the fly and never persisted in this shape.
type StatusItem struct {
	ID          uuid.UUID
	Kind        Kind
	DisplayName string
	Product     string
	Status      string

	CreatedAt  time.Time
	ModifiedAt time.Time

	// AgeLabel is the display string ("2 hours ago"); sorting always uses
	// the raw timestamps, never this string
	AgeLabel string

	SoftDeleted bool

	// Batch is set for KindBatchJob items only
	Batch *BatchProgress
}

// EffectiveTime is the ordering key of the merged feed: the last
// modification time, falling back to creation time. Items that carry
// neither sort by the zero time, i.e. last.
func (s StatusItem) EffectiveTime() time.Time {
	if !s.ModifiedAt.IsZero() {
		return s.ModifiedAt
	}
	return s.CreatedAt
}

type BatchProgress struct {
	TotalCount     int
	ProcessedCount int
	Items          []BatchItem
}

type BatchItem struct {
	Name  string
	Phone string
}

// PercentComplete reports batch progress in whole percents, clamped to
// [0, 100]. An empty batch reports 0.
func (p BatchProgress) PercentComplete() int {
	if p.TotalCount <= 0 {
		return 0
	}

	percent := p.ProcessedCount * 100 / p.TotalCount
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	default:
		return percent
	}
}
