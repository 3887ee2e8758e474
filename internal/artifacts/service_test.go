package artifacts

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"a11y-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return &Service{Store: local.New(t.TempDir()), Repo: NewMemoryRepo()}
}

func TestServiceSaveLatestOpen(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Save(ctx, "sess-a", "first.txt", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := svc.Save(ctx, "sess-a", "second.txt", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("expected distinct artifact ids")
	}
	if second.StorageProvider != "local" || second.SizeBytes != 3 {
		t.Fatalf("unexpected metadata: %+v", second)
	}

	latest, err := svc.Latest(ctx, "sess-a")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != second.ID {
		t.Fatalf("expected latest %s, got %s", second.ID, latest.ID)
	}

	rc, err := svc.Open(ctx, first)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "one" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestServiceScopesBySession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Save(ctx, "sess-a", "img.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := svc.Get(ctx, "sess-b", a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign session, got %v", err)
	}
	if _, err := svc.Latest(ctx, "sess-b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty session, got %v", err)
	}
	if got, err := svc.Get(ctx, "sess-a", a.ID); err != nil || got.ID != a.ID {
		t.Fatalf("Get own artifact: %v %+v", err, got)
	}
}

func TestServiceSaveRejectsMissingInput(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Save(context.Background(), "", "a.png", strings.NewReader("x")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Save(context.Background(), "sess", " ", strings.NewReader("x")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
