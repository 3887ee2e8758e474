package artifacts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateDefaultsProvider(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := Artifact{
		ID:         "art-1",
		SessionID:  "sess-1",
		FileName:   "cat.png",
		MimeType:   "image/png",
		SizeBytes:  42,
		StorageKey: "abc/123_cat.png",
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO artifacts").
		WithArgs(a.ID, a.SessionID, a.FileName, a.MimeType, a.SizeBytes, "local", a.StorageKey, a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoLatest(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "session_id", "file_name", "mime_type", "size_bytes", "storage_provider", "storage_key", "created_at"}).
		AddRow("art-2", "sess-1", "dog.jpg", nil, int64(7), "minio", "abc/9_dog.jpg", created)
	mock.ExpectQuery("FROM artifacts").WithArgs("sess-1").WillReturnRows(rows)

	got, err := repo.Latest(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got.ID != "art-2" || got.StorageProvider != "minio" || got.MimeType != "" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected artifact: %+v", got)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM artifacts").WithArgs("sess-1", "other").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "sess-1", "other")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
