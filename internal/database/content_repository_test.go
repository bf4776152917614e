package database

import (
	"path/filepath"
	"testing"
	"time"

	"gamelog/models"
)

// setupTestContentRepo creates a test database and content repository.
func setupTestContentRepo(t *testing.T) (*DB, *ContentRepository) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewContentRepository(db.Connection())
	return db, repo
}

func TestCreateContent_Success(t *testing.T) {
	_, repo := setupTestContentRepo(t)

	rec := &models.ContentRecord{
		Title:     "Hollow Knight",
		Rating:    9,
		Summary:   "A great metroidvania",
		Content:   "Full review text",
		AuthorUID: "author-1",
	}

	err := repo.Create(rec)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected non-empty ID after insert")
	}
	if rec.Date.IsZero() {
		t.Error("expected non-zero Date")
	}
}

func TestGetContent_RoundTrip(t *testing.T) {
	_, repo := setupTestContentRepo(t)

	rec := &models.ContentRecord{
		Title:        "Outer Wilds",
		Rating:       10,
		Summary:      "sum",
		Content:      "body",
		GameplayTime: "22 hours",
		AuthorUID:    "author-2",
		NSFW:         true,
	}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != rec.Title || got.Rating != rec.Rating || !got.NSFW {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.GameplayTime != "22 hours" {
		t.Errorf("expected gameplay time to persist, got %q", got.GameplayTime)
	}
}

func TestGetContent_NotFound(t *testing.T) {
	_, repo := setupTestContentRepo(t)

	if _, err := repo.Get("missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAll_OrderedNewestFirst(t *testing.T) {
	_, repo := setupTestContentRepo(t)

	older := &models.ContentRecord{Title: "Old", AuthorUID: "a", Date: time.Now().Add(-time.Hour)}
	newer := &models.ContentRecord{Title: "New", AuthorUID: "a", Date: time.Now()}
	if err := repo.Create(older); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(newer); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	records, err := repo.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "New" {
		t.Errorf("expected newest first, got %q", records[0].Title)
	}
}

func TestUpdateContent(t *testing.T) {
	_, repo := setupTestContentRepo(t)

	rec := &models.ContentRecord{Title: "Celeste", Rating: 8, AuthorUID: "a"}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rec.Rating = 9
	rec.Summary = "revised"
	if err := repo.Update(rec); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Rating != 9 || got.Summary != "revised" {
		t.Errorf("update did not persist: %+v", got)
	}
}

func TestUpdateContent_NotFound(t *testing.T) {
	_, repo := setupTestContentRepo(t)

	rec := &models.ContentRecord{ID: "missing", Title: "x", AuthorUID: "a", Date: time.Now()}
	if err := repo.Update(rec); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteContent(t *testing.T) {
	_, repo := setupTestContentRepo(t)

	rec := &models.ContentRecord{Title: "Tunic", AuthorUID: "a"}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Delete(rec.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(rec.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(rec.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestBacklogRoundTrip(t *testing.T) {
	_, repo := setupTestContentRepo(t)

	item := &models.BacklogItem{Title: "Sekiro"}
	if err := repo.CreateBacklogItem(item); err != nil {
		t.Fatalf("CreateBacklogItem failed: %v", err)
	}
	if item.ID == "" {
		t.Error("expected backlog ID to be assigned")
	}

	items, err := repo.ListBacklog()
	if err != nil {
		t.Fatalf("ListBacklog failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Sekiro" {
		t.Errorf("unexpected backlog contents: %+v", items)
	}
}
