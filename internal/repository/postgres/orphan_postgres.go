package postgres

import (
	"context"
	"database/sql"

	"attachapi/internal/model"
	"attachapi/internal/repository"
)

// OrphanPostgres is a PostgreSQL implementation of repository.OrphanRepository.
type OrphanPostgres struct {
	db *sql.DB
}

// NewOrphanPostgres creates a new OrphanPostgres repository.
func NewOrphanPostgres(db *sql.DB) *OrphanPostgres {
	return &OrphanPostgres{db: db}
}

var _ repository.OrphanRepository = (*OrphanPostgres)(nil)

// Record upserts an orphan. A repeated key keeps its original created_at.
func (r *OrphanPostgres) Record(ctx context.Context, o model.OrphanedObject) error {
	const q = `
		INSERT INTO orphaned_objects (storage_key, parent_id, reason, attempts, created_at, updated_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, 1, now(), now())
		ON CONFLICT (storage_key) DO UPDATE
		SET reason = EXCLUDED.reason,
		    attempts = orphaned_objects.attempts + 1,
		    updated_at = now()
	`
	_, err := r.db.ExecContext(ctx, q, o.StorageKey, o.ParentID, o.Reason)
	return err
}

// List returns up to limit orphans, oldest first.
func (r *OrphanPostgres) List(ctx context.Context, limit int) ([]model.OrphanedObject, error) {
	const q = `
		SELECT storage_key, COALESCE(parent_id::text, ''), reason, attempts, created_at, updated_at
		FROM orphaned_objects
		ORDER BY created_at ASC, storage_key ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.OrphanedObject, 0)
	for rows.Next() {
		var o model.OrphanedObject
		if err := rows.Scan(
			&o.StorageKey,
			&o.ParentID,
			&o.Reason,
			&o.Attempts,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes an orphan row. Missing rows are not an error.
func (r *OrphanPostgres) Delete(ctx context.Context, storageKey string) error {
	const q = `DELETE FROM orphaned_objects WHERE storage_key = $1`
	_, err := r.db.ExecContext(ctx, q, storageKey)
	return err
}
