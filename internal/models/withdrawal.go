package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Withdrawal statuses. REQUESTED is the only non-terminal state: a
// record moves to PAID or REJECTED exactly once and never back.
const (
	WithdrawalRequested = "REQUESTED"
	WithdrawalPaid      = "PAID"
	WithdrawalRejected  = "REJECTED"
)

type Withdrawal struct {
	ID      uuid.UUID
	OwnerID uuid.UUID

	// Amount in minor units, always positive
	Amount int64

	Status            string
	PayoutDestination string

	// Requester snapshot taken from the account at request time, so
	// later profile edits never rewrite withdrawal history
	DisplayName string
	Role        string
	UnitID      string
	UnitName    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AmountValue returns the amount in currency units
func (w Withdrawal) AmountValue() decimal.Decimal {
	return decimal.New(w.Amount, -2)
}
