package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the ledger account of one owner. Balance is kept in minor
// units (centavos) so money math never touches floating point.
type Account struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Balance int64

	// Owner profile snapshot maintained by the portal; copied into
	// withdrawal records at request time
	DisplayName string
	Role        string
	UnitID      string
	UnitName    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BalanceAmount returns the balance in currency units
func (a Account) BalanceAmount() decimal.Decimal {
	return decimal.New(a.Balance, -2)
}
