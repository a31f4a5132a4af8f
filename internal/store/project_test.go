package store

import (
	"testing"

	"github.com/google/uuid"

	"devfolio/internal/models"
)

func strPtr(s string) *string { return &s }

func TestProjectStoreCreateAndList(t *testing.T) {
	db := testDB(t)
	s := NewProjectStore(db)

	created, err := s.Create(&models.Project{
		Title:       "X",
		Description: "Y",
		Image:       "https://img",
		TechStack:   []string{"React"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "projects", created.ID) })

	if created.ID == uuid.Nil {
		t.Error("expected store-assigned UUID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected store-assigned createdAt")
	}
	if created.GithubLink != nil || created.DemoLink != nil {
		t.Error("absent optional links must come back nil")
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	seen := 0
	for _, p := range items {
		if p.ID == created.ID {
			seen++
			if p.Title != "X" {
				t.Errorf("title: got %q, want X", p.Title)
			}
			if len(p.TechStack) != 1 || p.TechStack[0] != "React" {
				t.Errorf("techStack: got %v, want [React]", p.TechStack)
			}
		}
	}
	if seen != 1 {
		t.Errorf("created project appeared %d times in list, want exactly once", seen)
	}
}

func TestProjectStoreListNewestFirst(t *testing.T) {
	db := testDB(t)
	s := NewProjectStore(db)

	first, err := s.Create(&models.Project{Title: "older", TechStack: []string{}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := s.Create(&models.Project{Title: "newer", TechStack: []string{}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "projects", first.ID, second.ID) })

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	posFirst, posSecond := -1, -1
	for i, p := range items {
		if p.ID == first.ID {
			posFirst = i
		}
		if p.ID == second.ID {
			posSecond = i
		}
	}
	if posFirst == -1 || posSecond == -1 {
		t.Fatal("created projects missing from list")
	}
	if posSecond > posFirst {
		t.Error("expected newest-first ordering by createdAt")
	}
}

func TestProjectStoreSparsePatch(t *testing.T) {
	db := testDB(t)
	s := NewProjectStore(db)

	created, err := s.Create(&models.Project{
		Title:       "Original",
		Description: "Desc",
		Image:       "https://img",
		TechStack:   []string{"Go", "Postgres"},
		GithubLink:  strPtr("https://github.com/x"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "projects", created.ID) })

	// Patch one field; everything else must survive untouched.
	if err := s.Update(created.ID, models.ProjectPatch{Title: strPtr("Renamed")}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("title: got %q, want Renamed", got.Title)
	}
	if got.Description != "Desc" || got.Image != "https://img" {
		t.Error("unpatched fields changed")
	}
	if len(got.TechStack) != 2 {
		t.Errorf("techStack changed: %v", got.TechStack)
	}
	if got.GithubLink == nil || *got.GithubLink != "https://github.com/x" {
		t.Error("githubLink changed")
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Error("createdAt must be immutable")
	}

	// An empty patch is a no-op, not an error.
	if err := s.Update(created.ID, models.ProjectPatch{}); err != nil {
		t.Fatalf("empty Update: %v", err)
	}

	// Clearing an optional link nulls it.
	if err := s.Update(created.ID, models.ProjectPatch{GithubLink: strPtr("")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = s.FindByID(created.ID)
	if got.GithubLink != nil {
		t.Error("cleared githubLink should be null")
	}
}

func TestProjectStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewProjectStore(db)

	created, err := s.Create(&models.Project{Title: "Doomed", TechStack: []string{}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}

	items, _ := s.List()
	for _, p := range items {
		if p.ID == created.ID {
			t.Error("deleted project still in list")
		}
	}
}
