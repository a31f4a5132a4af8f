package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"devfolio/internal/models"
)

// ProfileStore manages the singleton profile row. The table enforces a
// single row (id = 1); the store provisions it on first read, so callers
// never see "profile not found".
//
// Select-before-write is inherently racy under concurrent writers. The
// admin console is single-operator, which makes that acceptable here.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileColumns = `name, title, bio, bio_home, bio_about, profile_image,
	email, phone, location, github, linkedin, twitter, cv_url,
	experience, education, stats, skills, availability`

// Get returns the normalized profile, inserting the default record first
// if the table is still empty. Two consecutive reads with no write in
// between return equal values and never create a second row.
func (s *ProfileStore) Get() (*models.Profile, error) {
	p := &models.Profile{}
	var bioHome, bioAbout, cvURL sql.NullString
	var experience, education, stats, skills []byte
	var availability string

	err := s.db.QueryRow(`SELECT `+profileColumns+` FROM profile WHERE id = 1`).Scan(
		&p.Name, &p.Title, &p.Bio, &bioHome, &bioAbout, &p.ProfileImage,
		&p.Email, &p.Phone, &p.Location, &p.Github, &p.Linkedin, &p.Twitter, &cvURL,
		&experience, &education, &stats, &skills, &availability,
	)
	if err == sql.ErrNoRows {
		return s.provision()
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p.BioHome = bioHome.String
	p.BioAbout = bioAbout.String
	p.CVUrl = cvURL.String
	p.Availability = models.Availability(availability)

	// NULL sections are rows written before migration 0002; leave them
	// nil so Normalize backfills the defaults. Stored '[]' stays empty.
	for _, section := range []struct {
		raw  []byte
		dest any
	}{
		{experience, &p.Experience},
		{education, &p.Education},
		{stats, &p.Stats},
		{skills, &p.Skills},
	} {
		if section.raw == nil {
			continue
		}
		if err := json.Unmarshal(section.raw, section.dest); err != nil {
			return nil, fmt.Errorf("decode profile section: %w", err)
		}
	}

	p.Normalize()
	return p, nil
}

// Save persists the full profile. It updates when the singleton row
// exists and inserts otherwise, never creating a second row.
func (s *ProfileStore) Save(p *models.Profile) error {
	p.Normalize()

	args, err := profileArgs(p)
	if err != nil {
		return err
	}

	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM profile WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if exists {
		_, err = s.db.Exec(`
			UPDATE profile SET
				name = $1, title = $2, bio = $3, bio_home = $4, bio_about = $5,
				profile_image = $6, email = $7, phone = $8, location = $9,
				github = $10, linkedin = $11, twitter = $12, cv_url = $13,
				experience = $14, education = $15, stats = $16, skills = $17,
				availability = $18, updated_at = now()
			WHERE id = 1
		`, args...)
	} else {
		_, err = s.db.Exec(`
			INSERT INTO profile (`+profileColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		`, args...)
	}
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// provision inserts the default profile and returns it. Called once, on
// the first read of a fresh database.
func (s *ProfileStore) provision() (*models.Profile, error) {
	def := models.DefaultProfile()
	if err := s.Save(&def); err != nil {
		return nil, fmt.Errorf("provision profile: %w", err)
	}
	return &def, nil
}

// profileArgs flattens a profile into the argument list shared by the
// insert and update statements.
func profileArgs(p *models.Profile) ([]any, error) {
	experience, err := json.Marshal(p.Experience)
	if err != nil {
		return nil, fmt.Errorf("encode experience: %w", err)
	}
	education, err := json.Marshal(p.Education)
	if err != nil {
		return nil, fmt.Errorf("encode education: %w", err)
	}
	stats, err := json.Marshal(p.Stats)
	if err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}

	return []any{
		p.Name, p.Title, p.Bio, p.BioHome, p.BioAbout, p.ProfileImage,
		p.Email, p.Phone, p.Location, p.Github, p.Linkedin, p.Twitter,
		nilIfEmpty(&p.CVUrl),
		experience, education, stats, skills,
		string(p.Availability),
	}, nil
}
