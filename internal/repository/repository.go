// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import (
	"context"

	"attachapi/internal/model"
)

// ParentRepository persists reviews and applications together with their attachment lists.
// Lookups of missing rows return sql.ErrNoRows unwrapped.
type ParentRepository interface {
	// Create inserts a new record, normally a pending draft.
	Create(ctx context.Context, rec *model.ParentRecord) (*model.ParentRecord, error)

	// FindByID returns a record of any status.
	FindByID(ctx context.Context, id string) (*model.ParentRecord, error)

	// List returns active records of one kind, newest first.
	List(ctx context.Context, kind model.ParentKind, pq PageQuery) (*PageResult[model.ParentRecord], error)

	// UpdateAttachments replaces the attachment list and sets the status in one statement.
	UpdateAttachments(ctx context.Context, id string, atts []model.Attachment, status model.Status) (*model.ParentRecord, error)

	// Delete removes a record by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

// OrphanRepository is the dead-letter table for objects no deletion strategy could remove.
type OrphanRepository interface {
	// Record inserts the object or, if the key is already known, bumps its attempt count.
	Record(ctx context.Context, o model.OrphanedObject) error

	// List returns the oldest orphans first.
	List(ctx context.Context, limit int) ([]model.OrphanedObject, error)

	// Delete forgets an orphan once its object is gone.
	Delete(ctx context.Context, storageKey string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
