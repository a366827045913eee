package models

import (
	"time"

	"github.com/google/uuid"
)

// Referral statuses. Closed, referral-scoped vocabulary: the shared
// values overlap with other kinds only at the display/rollup layer.
const (
	ReferralStatusPending      = "PENDENTE CONTATO"
	ReferralStatusInContact    = "EM CONTATO"
	ReferralStatusConverted    = "CONVERTIDO"
	ReferralStatusNotConverted = "NAO CONVERTIDO"
)

type Referral struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Name       string
	Phone      string
	Product    string
	Status     string
	Archived   bool
	CreatedAt  time.Time
	ModifiedAt time.Time
}
