package models

import (
	"time"

	"github.com/google/uuid"
)

// BatchJob statuses are synthesized from progress, not stored upstream
const (
	BatchJobStatusInProgress = "EM ANDAMENTO"
	BatchJobStatusDone       = "CONCLUIDO"
)

// BatchJob is a group of referrals submitted together and tracked as a
// single progress unit.
type BatchJob struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	TotalCount     int
	ProcessedCount int
	Items          []BatchItem
	Archived       bool
	CreatedAt      time.Time
	ModifiedAt     time.Time
}

// Status reports the synthesized progress status
func (b BatchJob) Status() string {
	if b.TotalCount > 0 && b.ProcessedCount >= b.TotalCount {
		return BatchJobStatusDone
	}
	return BatchJobStatusInProgress
}
