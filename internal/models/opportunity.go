package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Opportunity statuses. "PENDENTE CONTATO" is shared with referrals,
// the closing statuses are opportunity-only.
const (
	OpportunityStatusPending     = "PENDENTE CONTATO"
	OpportunityStatusNegotiating = "EM NEGOCIACAO"
	OpportunityStatusClosed      = "FECHADO"
	OpportunityStatusRefused     = "SEGURO RECUSADO"
)

type Opportunity struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Name    string
	Product string
	Status  string

	// Commission arrives already calculated upstream, set once the
	// opportunity closes
	Commission *decimal.Decimal

	Archived   bool
	CreatedAt  time.Time
	ModifiedAt time.Time
}
