package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/referralhub/partnerhub/internal/models"
)

type BatchJobRepo struct {
	DB DBTX
}

const createBatchJob = `-- name: CreateBatchJob
INSERT INTO batch_jobs (id, owner_id, name, total_count, processed_count, items, archived, created_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING id, owner_id, name, total_count, processed_count, items, archived, created_at, modified_at
`

func (r *BatchJobRepo) Create(ctx context.Context, job models.BatchJob) (models.BatchJob, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	items, err := json.Marshal(batchItemRows(job.Items))
	if err != nil {
		return job, fmt.Errorf("encoding batch items: %w", err)
	}

	rows, _ := r.DB.Query(ctx, createBatchJob,
		job.ID, job.OwnerID, job.Name, job.TotalCount, job.ProcessedCount,
		items, job.Archived, time.Now(),
	)
	created, err := pgx.CollectOneRow(rows, rowToBatchJob)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const listBatchJobs = `-- name: ListBatchJobs
SELECT id, owner_id, name, total_count, processed_count, items, archived, created_at, modified_at
FROM batch_jobs
WHERE owner_id = $1
ORDER BY created_at
`

func (r *BatchJobRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.BatchJob, error) {
	rows, _ := r.DB.Query(ctx, listBatchJobs, ownerID)
	jobs, err := pgx.CollectRows(rows, rowToBatchJob)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return jobs, nil
}

// batchItemRow is the jsonb shape of one batch child item
type batchItemRow struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func batchItemRows(items []models.BatchItem) []batchItemRow {
	rows := make([]batchItemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, batchItemRow{Name: item.Name, Phone: item.Phone})
	}
	return rows
}

func rowToBatchJob(row pgx.CollectableRow) (models.BatchJob, error) {
	var job models.BatchJob
	var rawItems []byte

	err := row.Scan(&job.ID, &job.OwnerID, &job.Name, &job.TotalCount, &job.ProcessedCount, &rawItems, &job.Archived, &job.CreatedAt, &job.ModifiedAt)
	if err != nil {
		return job, err
	}

	var items []batchItemRow
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return job, fmt.Errorf("decoding batch items: %w", err)
	}
	for _, item := range items {
		job.Items = append(job.Items, models.BatchItem{Name: item.Name, Phone: item.Phone})
	}

	return job, nil
}
