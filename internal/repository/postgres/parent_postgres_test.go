package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"attachapi/internal/model"
	"attachapi/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parentCols = []string{"id", "kind", "owner_id", "status", "fields", "attachments", "created_at", "updated_at"}

const attachmentsJSON = `[{"url":"http://store/a.png","storage_key":"reviews/u1/p1/1_a.png","filename":"1_a.png","original_name":"a.png","mime_type":"image/png","size_bytes":10,"uploaded_at":"2024-01-01T00:00:00Z"}]`

func TestParentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewParentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	rec := &model.ParentRecord{
		ID:        "p1",
		Kind:      model.KindReview,
		OwnerID:   "u1",
		Status:    model.StatusPending,
		Fields:    map[string]string{"rating": "5"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	rows := sqlmock.NewRows(parentCols).
		AddRow("p1", "review", "u1", "pending", []byte(`{"rating":"5"}`), []byte(`[]`), now, now)

	mock.ExpectQuery("INSERT INTO parent_records").
		WithArgs("p1", model.KindReview, "u1", model.StatusPending, []byte(`{"rating":"5"}`), []byte(`[]`), now, now).
		WillReturnRows(rows)

	got, err := repo.Create(ctx, rec)

	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, model.KindReview, got.Kind)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, "5", got.Fields["rating"])
	assert.NotNil(t, got.Attachments)
	assert.Empty(t, got.Attachments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewParentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(parentCols).
			AddRow("p1", "review", "u1", "active", []byte(`{}`), []byte(attachmentsJSON), now, now)

		mock.ExpectQuery("SELECT (.+) FROM parent_records WHERE id = ?").
			WithArgs("p1").
			WillReturnRows(rows)

		rec, err := repo.FindByID(ctx, "p1")

		require.NoError(t, err)
		require.Len(t, rec.Attachments, 1)
		assert.Equal(t, "reviews/u1/p1/1_a.png", rec.Attachments[0].StorageKey)
		assert.Equal(t, uint64(10), rec.Attachments[0].SizeBytes)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM parent_records WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		rec, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, rec)
	})

	t.Run("corrupt attachments", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(parentCols).
			AddRow("p2", "review", "u1", "active", []byte(`{}`), []byte(`{`), now, now)

		mock.ExpectQuery("SELECT (.+) FROM parent_records WHERE id = ?").
			WithArgs("p2").
			WillReturnRows(rows)

		_, err := repo.FindByID(ctx, "p2")

		assert.ErrorContains(t, err, "decode attachments")
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewParentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM parent_records").
			WithArgs(model.KindApplication, model.StatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		now := time.Now()
		rows := sqlmock.NewRows(parentCols).
			AddRow("p1", "application", "u1", "active", []byte(`{"service_type":"repair"}`), []byte(`[]`), now, now)

		mock.ExpectQuery("SELECT (.+) FROM parent_records WHERE kind = (.+) ORDER BY").
			WithArgs(model.KindApplication, model.StatusActive, 10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, model.KindApplication, repository.PageQuery{Limit: 10, Offset: 0})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, "repair", res.Items[0].Fields["service_type"])
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM parent_records").
			WillReturnError(errors.New("db down"))

		res, err := repo.List(ctx, model.KindReview, repository.PageQuery{Limit: 10})

		assert.Error(t, err)
		assert.Nil(t, res)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParentPostgres_UpdateAttachments(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewParentPostgres(db)
	ctx := context.Background()

	t.Run("nil list is stored as empty array", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("UPDATE parent_records").
			WithArgs("p1", []byte(`[]`), model.StatusActive).
			WillReturnRows(sqlmock.NewRows(parentCols).
				AddRow("p1", "review", "u1", "active", []byte(`{}`), []byte(`[]`), now, now))

		rec, err := repo.UpdateAttachments(ctx, "p1", nil, model.StatusActive)

		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, rec.Status)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectQuery("UPDATE parent_records").
			WithArgs("gone", sqlmock.AnyArg(), model.StatusActive).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.UpdateAttachments(ctx, "gone", []model.Attachment{{StorageKey: "k"}}, model.StatusActive)

		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewParentPostgres(db)

	mock.ExpectExec("DELETE FROM parent_records WHERE id = ?").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(context.Background(), "p1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
