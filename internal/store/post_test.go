package store

import (
	"testing"

	"devfolio/internal/models"
)

func TestPostStoreCreateAssignsDate(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	created, err := s.Create(&models.Post{
		Title:      "Hello",
		Excerpt:    "short",
		Content:    "<p>body</p>",
		CoverImage: "https://cover",
		Author:     "Jane",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "posts", created.ID) })

	if created.Date.IsZero() {
		t.Error("expected store-assigned publication date")
	}
}

func TestPostStoreUpdateDoesNotTouchDate(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	created, err := s.Create(&models.Post{Title: "Dated", Author: "Jane"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "posts", created.ID) })

	if err := s.Update(created.ID, models.PostPatch{Content: strPtr("<p>rewritten</p>")}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Content != "<p>rewritten</p>" {
		t.Errorf("content: got %q", got.Content)
	}
	if !got.Date.Equal(created.Date) {
		t.Error("update must not reassign the publication date")
	}
	if got.Title != "Dated" || got.Author != "Jane" {
		t.Error("unpatched fields changed")
	}
}

func TestPostStoreListNewestFirst(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	older, _ := s.Create(&models.Post{Title: "older"})
	newer, _ := s.Create(&models.Post{Title: "newer"})
	t.Cleanup(func() { cleanRows(t, db, "posts", older.ID, newer.ID) })

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	posOlder, posNewer := -1, -1
	for i, p := range items {
		if p.ID == older.ID {
			posOlder = i
		}
		if p.ID == newer.ID {
			posNewer = i
		}
	}
	if posOlder == -1 || posNewer == -1 {
		t.Fatal("created posts missing from list")
	}
	if posNewer > posOlder {
		t.Error("expected newest-first ordering by date")
	}
}
