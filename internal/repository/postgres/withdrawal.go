package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/referralhub/partnerhub/internal/apperrors"
	"github.com/referralhub/partnerhub/internal/models"
)

type WithdrawalRepo struct {
	DB DBTX
}

const createWithdrawal = `-- name: CreateWithdrawal
INSERT INTO withdrawals (id, owner_id, amount, status, payout_destination, display_name, role, unit_id, unit_name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
RETURNING id, owner_id, amount, status, payout_destination, display_name, role, unit_id, unit_name, created_at, updated_at
`

func (r *WithdrawalRepo) Create(ctx context.Context, withdrawal models.Withdrawal) (models.Withdrawal, error) {
	if withdrawal.ID == uuid.Nil {
		withdrawal.ID = uuid.New()
	}
	if withdrawal.Status == "" {
		withdrawal.Status = models.WithdrawalRequested
	}

	rows, _ := r.DB.Query(ctx, createWithdrawal,
		withdrawal.ID, withdrawal.OwnerID, withdrawal.Amount,
		withdrawal.Status, withdrawal.PayoutDestination,
		withdrawal.DisplayName, withdrawal.Role, withdrawal.UnitID, withdrawal.UnitName,
		time.Now(),
	)
	created, err := pgx.CollectOneRow(rows, rowToWithdrawal)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getWithdrawal = `-- name: GetWithdrawal
SELECT id, owner_id, amount, status, payout_destination, display_name, role, unit_id, unit_name, created_at, updated_at
FROM withdrawals
WHERE id = $1
`

func (r *WithdrawalRepo) Get(ctx context.Context, id uuid.UUID) (models.Withdrawal, error) {
	rows, _ := r.DB.Query(ctx, getWithdrawal, id)
	withdrawal, err := pgx.CollectOneRow(rows, rowToWithdrawal)

	switch {
	case err == nil:
		return withdrawal, nil
	case errors.Is(err, pgx.ErrNoRows):
		return withdrawal, apperrors.ErrWithdrawalNotFound
	default:
		return withdrawal, fmt.Errorf("db error: %w", err)
	}
}

const listWithdrawals = `-- name: ListWithdrawals
SELECT id, owner_id, amount, status, payout_destination, display_name, role, unit_id, unit_name, created_at, updated_at
FROM withdrawals
WHERE owner_id = $1
ORDER BY created_at DESC
`

func (r *WithdrawalRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Withdrawal, error) {
	rows, _ := r.DB.Query(ctx, listWithdrawals, ownerID)
	withdrawals, err := pgx.CollectRows(rows, rowToWithdrawal)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return withdrawals, nil
}

// The status guard makes settlement first-write-wins: once a record
// left REQUESTED no later settle call can touch it
const settleWithdrawal = `-- name: SettleWithdrawal
UPDATE withdrawals
SET status = $2, updated_at = now()
WHERE id = $1 AND status = 'REQUESTED'
RETURNING id, owner_id, amount, status, payout_destination, display_name, role, unit_id, unit_name, created_at, updated_at
`

func (r *WithdrawalRepo) Settle(ctx context.Context, id uuid.UUID, status string) (models.Withdrawal, error) {
	rows, _ := r.DB.Query(ctx, settleWithdrawal, id, status)
	withdrawal, err := pgx.CollectOneRow(rows, rowToWithdrawal)

	switch {
	case err == nil:
		return withdrawal, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Missing row and already-settled row look the same here
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return withdrawal, getErr
		}
		return withdrawal, apperrors.ErrAlreadySettled
	default:
		return withdrawal, fmt.Errorf("db error: %w", err)
	}
}

func rowToWithdrawal(row pgx.CollectableRow) (models.Withdrawal, error) {
	var w models.Withdrawal
	err := row.Scan(&w.ID, &w.OwnerID, &w.Amount, &w.Status, &w.PayoutDestination, &w.DisplayName, &w.Role, &w.UnitID, &w.UnitName, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}
