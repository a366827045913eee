package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/referralhub/partnerhub/internal/models"
)

// Account repository interface
type AccountRepo interface {
	// Create account for owner with zero balance
	// Has to return apperrors.ErrAccountAlreadyExists on duplicate owner
	Create(ctx context.Context, account models.Account) (models.Account, error)

	// Get account by owner id
	// Has to return apperrors.ErrAccountNotFound if absent
	Get(ctx context.Context, ownerID uuid.UUID) (models.Account, error)

	// Credit adds amount (minor units, positive) to the balance
	Credit(ctx context.Context, ownerID uuid.UUID, amount int64) (models.Account, error)

	// Debit subtracts amount from the balance only if the balance
	// covers it, as one conditional statement. Returns
	// apperrors.ErrInsufficientBalance when it does not and
	// apperrors.ErrAccountNotFound when the account is absent.
	Debit(ctx context.Context, ownerID uuid.UUID, amount int64) (models.Account, error)
}

// Withdrawal repository interface
type WithdrawalRepo interface {
	Create(ctx context.Context, withdrawal models.Withdrawal) (models.Withdrawal, error)

	// Get withdrawal by id
	// Has to return apperrors.ErrWithdrawalNotFound if absent
	Get(ctx context.Context, id uuid.UUID) (models.Withdrawal, error)

	// List owner withdrawals newest first
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Withdrawal, error)

	// Settle flips a REQUESTED record to the given terminal status.
	// Has to return apperrors.ErrAlreadySettled when the record exists
	// in a terminal status already and apperrors.ErrWithdrawalNotFound
	// when it does not exist at all.
	Settle(ctx context.Context, id uuid.UUID, status string) (models.Withdrawal, error)
}

// Source-record repositories backing the status feed

type ReferralRepo interface {
	Create(ctx context.Context, referral models.Referral) (models.Referral, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Referral, error)

	// Archive marks the referral soft deleted; the row stays in place
	Archive(ctx context.Context, id uuid.UUID) error
}

type OpportunityRepo interface {
	Create(ctx context.Context, opportunity models.Opportunity) (models.Opportunity, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Opportunity, error)
}

type BatchJobRepo interface {
	Create(ctx context.Context, job models.BatchJob) (models.BatchJob, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.BatchJob, error)
}

// Storage aggregates every repository and runs closures transactionally
type Storage interface {
	Account() AccountRepo
	Withdrawal() WithdrawalRepo
	Referral() ReferralRepo
	Opportunity() OpportunityRepo
	BatchJob() BatchJobRepo

	// InTx runs fn inside one transaction: commit on nil, rollback
	// otherwise. The Storage given to fn operates on that transaction.
	InTx(ctx context.Context, fn func(Storage) error) error
}
