package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/referralhub/partnerhub/internal/apperrors"
	"github.com/referralhub/partnerhub/internal/models"
)

type AccountRepo struct {
	DB DBTX
}

const createAccount = `-- name: CreateAccount
INSERT INTO accounts (id, owner_id, balance, display_name, role, unit_id, unit_name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING id, owner_id, balance, display_name, role, unit_id, unit_name, created_at, updated_at
`

func (r *AccountRepo) Create(ctx context.Context, account models.Account) (models.Account, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createAccount,
		account.ID, account.OwnerID, account.Balance,
		account.DisplayName, account.Role, account.UnitID, account.UnitName,
		time.Now(),
	)
	created, err := pgx.CollectOneRow(rows, rowToAccount)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return created, apperrors.ErrAccountAlreadyExists
		}

		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getAccount = `-- name: GetAccount
SELECT id, owner_id, balance, display_name, role, unit_id, unit_name, created_at, updated_at
FROM accounts
WHERE owner_id = $1
`

func (r *AccountRepo) Get(ctx context.Context, ownerID uuid.UUID) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccount, ownerID)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

const creditAccount = `-- name: CreditAccount
UPDATE accounts
SET balance = balance + $2, updated_at = now()
WHERE owner_id = $1
RETURNING id, owner_id, balance, display_name, role, unit_id, unit_name, created_at, updated_at
`

func (r *AccountRepo) Credit(ctx context.Context, ownerID uuid.UUID, amount int64) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, creditAccount, ownerID, amount)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

// Check and decrement in one statement, so two concurrent debits can
// never both pass on a balance that covers only one of them
const debitAccount = `-- name: DebitAccount
UPDATE accounts
SET balance = balance - $2, updated_at = now()
WHERE owner_id = $1 AND balance >= $2
RETURNING id, owner_id, balance, display_name, role, unit_id, unit_name, created_at, updated_at
`

func (r *AccountRepo) Debit(ctx context.Context, ownerID uuid.UUID, amount int64) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, debitAccount, ownerID, amount)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Either the account is missing or the balance fell short
		if _, getErr := r.Get(ctx, ownerID); getErr != nil {
			return account, getErr
		}
		return account, apperrors.ErrInsufficientBalance
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.OwnerID, &a.Balance, &a.DisplayName, &a.Role, &a.UnitID, &a.UnitName, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
