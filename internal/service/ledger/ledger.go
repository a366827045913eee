// Package ledger owns partner balances and the withdrawal lifecycle.
//
// A withdrawal decrements the balance and inserts a REQUESTED record in
// one transaction; settlement later flips the record to PAID or
// REJECTED, re-crediting the amount on rejection. At every point
// balance plus the sum of REQUESTED and PAID withdrawals equals
// everything ever credited, including under concurrent requests.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/referralhub/partnerhub/internal/apperrors"
	"github.com/referralhub/partnerhub/internal/logger"
	"github.com/referralhub/partnerhub/internal/models"
	"github.com/referralhub/partnerhub/internal/repository"
)

const (
	// Minimum withdrawal in minor units (R$ 20,00)
	defaultMinWithdrawal = 2000

	// How many times a conflicting transaction is retried before the
	// caller gets apperrors.ErrConflict
	defaultMaxRetries = 3
)

type Config struct {
	MinWithdrawal int64
	MaxRetries    uint64
}

type Service struct {
	cfg      Config
	storage  repository.Storage
	notifier Notifier
	logger   logger.Logger
}

func NewService(cfg Config, storage repository.Storage, notifier Notifier, l logger.Logger) *Service {
	if cfg.MinWithdrawal <= 0 {
		cfg.MinWithdrawal = defaultMinWithdrawal
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if l == nil {
		l = logger.NewNoOp()
	}
	if notifier == nil {
		notifier = LogNotifier{Logger: l}
	}

	return &Service{
		cfg:      cfg,
		storage:  storage,
		notifier: notifier,
		logger:   l,
	}
}

// CreateAccount opens a zero-or-seeded balance account for the owner
func (s *Service) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if account.Balance < 0 {
		return account, fmt.Errorf("initial balance must not be negative")
	}

	return s.storage.Account().Create(ctx, account)
}

// GetBalance returns the owner's current balance in minor units
func (s *Service) GetBalance(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	account, err := s.storage.Account().Get(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	return account.Balance, nil
}

// Credit adds a positive amount to the balance. This is how commission
// from closed opportunities lands on the account.
func (s *Service) Credit(ctx context.Context, ownerID uuid.UUID, amount int64) (models.Account, error) {
	if amount <= 0 {
		return models.Account{}, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	return s.storage.Account().Credit(ctx, ownerID, amount)
}

// RequestWithdrawal checks the preconditions in fixed order (payout
// destination, minimum amount, balance) and applies the withdrawal as
// one transaction: conditional balance decrement plus REQUESTED record
// insert. On failure nothing changes.
func (s *Service) RequestWithdrawal(ctx context.Context, ownerID uuid.UUID, amount int64, payoutDestination string) (models.Withdrawal, error) {
	var withdrawal models.Withdrawal

	if strings.TrimSpace(payoutDestination) == "" {
		return withdrawal, apperrors.ErrMissingPayoutDestination
	}
	if amount < s.cfg.MinWithdrawal {
		return withdrawal, apperrors.ErrBelowMinimum
	}

	err := s.inTxWithRetry(ctx, func(storage repository.Storage) error {
		account, err := storage.Account().Debit(ctx, ownerID, amount)
		if err != nil {
			return err
		}

		withdrawal, err = storage.Withdrawal().Create(ctx, models.Withdrawal{
			OwnerID:           ownerID,
			Amount:            amount,
			Status:            models.WithdrawalRequested,
			PayoutDestination: payoutDestination,
			DisplayName:       account.DisplayName,
			Role:              account.Role,
			UnitID:            account.UnitID,
			UnitName:          account.UnitName,
		})

		return err
	})
	if err != nil {
		return models.Withdrawal{}, err
	}

	s.logger.Info("Withdrawal requested", "withdrawal_id", withdrawal.ID, "owner_id", ownerID, "amount", amount)

	return withdrawal, nil
}

// SettleWithdrawal is called by the payout rail with the terminal
// outcome. PAID leaves the balance alone (it was decremented at request
// time); REJECTED re-credits the amount in the same transaction that
// flips the status. Settling a record that already left REQUESTED
// fails with apperrors.ErrAlreadySettled and changes nothing.
func (s *Service) SettleWithdrawal(ctx context.Context, withdrawalID uuid.UUID, outcome string) (models.Withdrawal, error) {
	var withdrawal models.Withdrawal

	if outcome != models.WithdrawalPaid && outcome != models.WithdrawalRejected {
		return withdrawal, fmt.Errorf("settlement outcome must be %s or %s, got %q", models.WithdrawalPaid, models.WithdrawalRejected, outcome)
	}

	err := s.inTxWithRetry(ctx, func(storage repository.Storage) error {
		settled, err := storage.Withdrawal().Settle(ctx, withdrawalID, outcome)
		if err != nil {
			return err
		}

		if outcome == models.WithdrawalRejected {
			if _, err := storage.Account().Credit(ctx, settled.OwnerID, settled.Amount); err != nil {
				return err
			}
		}

		withdrawal = settled
		return nil
	})
	if err != nil {
		return models.Withdrawal{}, err
	}

	s.notifySettled(ctx, withdrawal)

	return withdrawal, nil
}

// ListWithdrawals returns the owner's withdrawals newest first
func (s *Service) ListWithdrawals(ctx context.Context, ownerID uuid.UUID) ([]models.Withdrawal, error) {
	return s.storage.Withdrawal().ListByOwner(ctx, ownerID)
}

// notifySettled hands the settlement to the sink without blocking the
// caller; sink failures are logged, never surfaced
func (s *Service) notifySettled(ctx context.Context, withdrawal models.Withdrawal) {
	event := Settlement{
		WithdrawalID: withdrawal.ID,
		OwnerID:      withdrawal.OwnerID,
		NewStatus:    withdrawal.Status,
	}

	go func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := s.notifier.SettlementChanged(ctx, event); err != nil {
			s.logger.Error("Failed to deliver settlement notification", "error", err, "withdrawal_id", event.WithdrawalID)
		}
	}(context.WithoutCancel(ctx))
}

// inTxWithRetry runs fn in a transaction, retrying bounded times on
// commit conflicts (serialization failure, deadlock); anything else
// fails immediately. Exhausted retries surface apperrors.ErrConflict.
func (s *Service) inTxWithRetry(ctx context.Context, fn func(repository.Storage) error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.cfg.MaxRetries),
		ctx,
	)

	err := backoff.Retry(func() error {
		err := s.storage.InTx(ctx, fn)
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)

	if err != nil && isRetryable(err) {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, err)
	}

	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}

	return false
}
