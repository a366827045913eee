package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/referralhub/partnerhub/internal/apperrors"
	"github.com/referralhub/partnerhub/internal/models"
)

type ReferralRepo struct {
	DB DBTX
}

const createReferral = `-- name: CreateReferral
INSERT INTO referrals (id, owner_id, name, phone, product, status, archived, created_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING id, owner_id, name, phone, product, status, archived, created_at, modified_at
`

func (r *ReferralRepo) Create(ctx context.Context, referral models.Referral) (models.Referral, error) {
	if referral.ID == uuid.Nil {
		referral.ID = uuid.New()
	}
	if referral.Status == "" {
		referral.Status = models.ReferralStatusPending
	}

	rows, _ := r.DB.Query(ctx, createReferral,
		referral.ID, referral.OwnerID, referral.Name, referral.Phone,
		referral.Product, referral.Status, referral.Archived, time.Now(),
	)
	created, err := pgx.CollectOneRow(rows, rowToReferral)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const listReferrals = `-- name: ListReferrals
SELECT id, owner_id, name, phone, product, status, archived, created_at, modified_at
FROM referrals
WHERE owner_id = $1
ORDER BY created_at
`

func (r *ReferralRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Referral, error) {
	rows, _ := r.DB.Query(ctx, listReferrals, ownerID)
	referrals, err := pgx.CollectRows(rows, rowToReferral)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return referrals, nil
}

const archiveReferral = `-- name: ArchiveReferral
UPDATE referrals
SET archived = true, modified_at = now()
WHERE id = $1
`

func (r *ReferralRepo) Archive(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, archiveReferral, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReferralNotFound
	}

	return nil
}

func rowToReferral(row pgx.CollectableRow) (models.Referral, error) {
	var ref models.Referral
	err := row.Scan(&ref.ID, &ref.OwnerID, &ref.Name, &ref.Phone, &ref.Product, &ref.Status, &ref.Archived, &ref.CreatedAt, &ref.ModifiedAt)
	return ref, err
}
