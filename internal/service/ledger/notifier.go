package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/referralhub/partnerhub/internal/logger"
)

// Settlement is the event delivered to the payout/notification sink on
// every settled withdrawal
type Settlement struct {
	WithdrawalID uuid.UUID
	OwnerID      uuid.UUID
	NewStatus    string
}

// Notifier receives settlement events. Delivery guarantees (retries,
// at-least-once) are the sink's responsibility, the ledger only hands
// the event over.
type Notifier interface {
	SettlementChanged(ctx context.Context, settlement Settlement) error
}

// LogNotifier is the default sink: it just logs the transition
type LogNotifier struct {
	Logger logger.Logger
}

func (n LogNotifier) SettlementChanged(_ context.Context, settlement Settlement) error {
	n.Logger.Info("Withdrawal settled",
		"withdrawal_id", settlement.WithdrawalID,
		"owner_id", settlement.OwnerID,
		"status", settlement.NewStatus,
	)
	return nil
}
