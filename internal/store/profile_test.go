package store

import (
	"reflect"
	"testing"

	"devfolio/internal/models"
)

func TestProfileStoreProvisionsOnFirstRead(t *testing.T) {
	db := testDB(t)
	s := NewProfileStore(db)

	resetProfile(t, db)
	t.Cleanup(func() { resetProfile(t, db) })

	p, err := s.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name != "Your Name" {
		t.Errorf("name: got %q, want default", p.Name)
	}
	if p.Availability != models.Available {
		t.Errorf("availability: got %q, want available", p.Availability)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM profile").Scan(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 profile row after first read, got %d", count)
	}
}

func TestProfileStoreReadIsIdempotent(t *testing.T) {
	db := testDB(t)
	s := NewProfileStore(db)

	resetProfile(t, db)
	t.Cleanup(func() { resetProfile(t, db) })

	first, err := s.Get()
	if err != nil {
		t.Fatalf("first Get: %v", err)
	}
	second, err := s.Get()
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two reads with no writes between them must be equal")
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM profile").Scan(&count)
	if count != 1 {
		t.Fatalf("second read created another row: count = %d", count)
	}
}

func TestProfileStoreSaveNeverCreatesSecondRow(t *testing.T) {
	db := testDB(t)
	s := NewProfileStore(db)

	resetProfile(t, db)
	t.Cleanup(func() { resetProfile(t, db) })

	p, _ := s.Get()
	p.Name = "Jane Dev"
	if err := s.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p.Location = "Berlin"
	if err := s.Save(p); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM profile").Scan(&count)
	if count != 1 {
		t.Fatalf("expected 1 row after repeated saves, got %d", count)
	}

	got, _ := s.Get()
	if got.Name != "Jane Dev" || got.Location != "Berlin" {
		t.Errorf("saved values lost: %q / %q", got.Name, got.Location)
	}
}

func TestProfileStoreAvailabilityRoundTrip(t *testing.T) {
	db := testDB(t)
	s := NewProfileStore(db)

	resetProfile(t, db)
	t.Cleanup(func() { resetProfile(t, db) })

	p, _ := s.Get()
	p.Availability = models.Unavailable
	if err := s.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Availability != models.Unavailable {
		t.Errorf("availability: got %q, want unavailable", got.Availability)
	}
}

func TestProfileStoreSectionsRoundTrip(t *testing.T) {
	db := testDB(t)
	s := NewProfileStore(db)

	resetProfile(t, db)
	t.Cleanup(func() { resetProfile(t, db) })

	p, _ := s.Get()
	p.Experience = []models.Experience{
		{ID: "e1", Role: "Engineer", Company: "Acme", Start: "Mar 2021", End: "Present"},
	}
	p.Skills = []models.Skill{
		{ID: "s1", Name: "Go", Level: 140}, // clamped on save
	}
	if err := s.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Experience) != 1 || got.Experience[0].Company != "Acme" {
		t.Errorf("experience lost: %+v", got.Experience)
	}
	if len(got.Skills) != 1 || got.Skills[0].Level != 100 {
		t.Errorf("skills: got %+v, want single clamped entry", got.Skills)
	}
}

func TestProfileStoreLegacyRowNormalized(t *testing.T) {
	db := testDB(t)
	s := NewProfileStore(db)

	resetProfile(t, db)
	t.Cleanup(func() { resetProfile(t, db) })

	// A row written by the pre-0002 schema: flat fields only, sections NULL.
	_, err := db.Exec(`
		INSERT INTO profile (id, name, title, bio, email)
		VALUES (1, 'Old Timer', 'Dev', 'one bio for everything', 'old@x.com')
	`)
	if err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	got, err := s.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.BioHome != "one bio for everything" || got.BioAbout != "one bio for everything" {
		t.Error("page bios must fall back to the legacy bio")
	}
	if len(got.Stats) == 0 || len(got.Skills) == 0 {
		t.Error("NULL sections must backfill to defaults")
	}
	if got.Availability != models.Available {
		t.Errorf("availability: got %q, want default", got.Availability)
	}
}
