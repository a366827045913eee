package feed

import (
	"time"

	"github.com/referralhub/partnerhub/internal/models"
	"github.com/referralhub/partnerhub/internal/reltime"
)

// Normalizers convert source records into the common StatusItem shape.
// They are pure: missing optional fields get defaults, nothing errors.
// The age label is derived from the raw timestamps but never replaces
// them, sorting stays timestamp based.

func NormalizeReferral(r models.Referral, now time.Time) models.StatusItem {
	status := r.Status
	if status == "" {
		status = models.ReferralStatusPending
	}

	item := models.StatusItem{
		ID:          r.ID,
		Kind:        models.KindReferral,
		DisplayName: r.Name,
		Product:     r.Product,
		Status:      status,
		CreatedAt:   r.CreatedAt,
		ModifiedAt:  r.ModifiedAt,
		SoftDeleted: r.Archived,
	}
	item.AgeLabel = reltime.FormatRelativeAge(item.EffectiveTime(), now)

	return item
}

func NormalizeOpportunity(o models.Opportunity, now time.Time) models.StatusItem {
	status := o.Status
	if status == "" {
		status = models.OpportunityStatusPending
	}

	item := models.StatusItem{
		ID:          o.ID,
		Kind:        models.KindOpportunity,
		DisplayName: o.Name,
		Product:     o.Product,
		Status:      status,
		CreatedAt:   o.CreatedAt,
		ModifiedAt:  o.ModifiedAt,
		SoftDeleted: o.Archived,
	}
	item.AgeLabel = reltime.FormatRelativeAge(item.EffectiveTime(), now)

	return item
}

func NormalizeBatchJob(b models.BatchJob, now time.Time) models.StatusItem {
	item := models.StatusItem{
		ID:          b.ID,
		Kind:        models.KindBatchJob,
		DisplayName: b.Name,
		Status:      b.Status(),
		CreatedAt:   b.CreatedAt,
		ModifiedAt:  b.ModifiedAt,
		SoftDeleted: b.Archived,
		Batch: &models.BatchProgress{
			TotalCount:     b.TotalCount,
			ProcessedCount: b.ProcessedCount,
			Items:          b.Items,
		},
	}
	item.AgeLabel = reltime.FormatRelativeAge(item.EffectiveTime(), now)

	return item
}
