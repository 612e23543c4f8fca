package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"attachapi/internal/model"
	"attachapi/internal/repository"
)

// ParentPostgres is a PostgreSQL implementation of repository.ParentRepository.
// Fields and attachments are stored as JSONB columns on the same row.
type ParentPostgres struct {
	db *sql.DB
}

// NewParentPostgres creates a new ParentPostgres repository.
func NewParentPostgres(db *sql.DB) *ParentPostgres {
	return &ParentPostgres{db: db}
}

var _ repository.ParentRepository = (*ParentPostgres)(nil)

const parentColumns = `id, kind, owner_id, status, fields, attachments, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParent(row rowScanner) (*model.ParentRecord, error) {
	var (
		rec         model.ParentRecord
		fields      []byte
		attachments []byte
	)
	if err := row.Scan(
		&rec.ID,
		&rec.Kind,
		&rec.OwnerID,
		&rec.Status,
		&fields,
		&attachments,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fields, &rec.Fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	if err := json.Unmarshal(attachments, &rec.Attachments); err != nil {
		return nil, fmt.Errorf("decode attachments: %w", err)
	}
	if rec.Attachments == nil {
		rec.Attachments = []model.Attachment{}
	}
	return &rec, nil
}

func encodeAttachments(atts []model.Attachment) ([]byte, error) {
	if atts == nil {
		atts = []model.Attachment{}
	}
	b, err := json.Marshal(atts)
	if err != nil {
		return nil, fmt.Errorf("encode attachments: %w", err)
	}
	return b, nil
}

// Create inserts a new parent row and returns the stored record.
func (r *ParentPostgres) Create(ctx context.Context, rec *model.ParentRecord) (*model.ParentRecord, error) {
	fields := rec.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	fb, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	ab, err := encodeAttachments(rec.Attachments)
	if err != nil {
		return nil, err
	}

	const q = `
		INSERT INTO parent_records (id, kind, owner_id, status, fields, attachments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + parentColumns
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.Kind,
		rec.OwnerID,
		rec.Status,
		fb,
		ab,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return scanParent(row)
}

// FindByID fetches a single record by its ID.
func (r *ParentPostgres) FindByID(ctx context.Context, id string) (*model.ParentRecord, error) {
	const q = `SELECT ` + parentColumns + ` FROM parent_records WHERE id = $1`
	return scanParent(r.db.QueryRowContext(ctx, q, id))
}

// List returns active records of one kind using LIMIT/OFFSET pagination and a total count.
func (r *ParentPostgres) List(ctx context.Context, kind model.ParentKind, pq repository.PageQuery) (*repository.PageResult[model.ParentRecord], error) {
	const qCount = `SELECT COUNT(*) FROM parent_records WHERE kind = $1 AND status = $2`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, kind, model.StatusActive).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + parentColumns + `
		FROM parent_records
		WHERE kind = $1 AND status = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, qList, kind, model.StatusActive, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ParentRecord, 0)
	for rows.Next() {
		rec, err := scanParent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ParentRecord]{
		Items: items,
		Total: total,
	}, nil
}

// UpdateAttachments swaps the attachment list and status. Missing rows yield sql.ErrNoRows.
func (r *ParentPostgres) UpdateAttachments(ctx context.Context, id string, atts []model.Attachment, status model.Status) (*model.ParentRecord, error) {
	ab, err := encodeAttachments(atts)
	if err != nil {
		return nil, err
	}
	const q = `
		UPDATE parent_records
		SET attachments = $2, status = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + parentColumns
	return scanParent(r.db.QueryRowContext(ctx, q, id, ab, status))
}

// Delete removes a record by ID. It does not return an error if the row does not exist.
func (r *ParentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM parent_records WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
