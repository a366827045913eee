package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/referralhub/partnerhub/internal/models"
)

type OpportunityRepo struct {
	DB DBTX
}

const createOpportunity = `-- name: CreateOpportunity
INSERT INTO opportunities (id, owner_id, name, product, status, commission, archived, created_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING id, owner_id, name, product, status, commission, archived, created_at, modified_at
`

func (r *OpportunityRepo) Create(ctx context.Context, opportunity models.Opportunity) (models.Opportunity, error) {
	if opportunity.ID == uuid.Nil {
		opportunity.ID = uuid.New()
	}
	if opportunity.Status == "" {
		opportunity.Status = models.OpportunityStatusPending
	}

	rows, _ := r.DB.Query(ctx, createOpportunity,
		opportunity.ID, opportunity.OwnerID, opportunity.Name, opportunity.Product,
		opportunity.Status, opportunity.Commission, opportunity.Archived, time.Now(),
	)
	created, err := pgx.CollectOneRow(rows, rowToOpportunity)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const listOpportunities = `-- name: ListOpportunities
SELECT id, owner_id, name, product, status, commission, archived, created_at, modified_at
FROM opportunities
WHERE owner_id = $1
ORDER BY created_at
`

func (r *OpportunityRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Opportunity, error) {
	rows, _ := r.DB.Query(ctx, listOpportunities, ownerID)
	opportunities, err := pgx.CollectRows(rows, rowToOpportunity)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return opportunities, nil
}

func rowToOpportunity(row pgx.CollectableRow) (models.Opportunity, error) {
	var o models.Opportunity
	err := row.Scan(&o.ID, &o.OwnerID, &o.Name, &o.Product, &o.Status, &o.Commission, &o.Archived, &o.CreatedAt, &o.ModifiedAt)
	return o, err
}
