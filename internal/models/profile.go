package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Availability is the site owner's hiring status.
type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

// Experience is one entry of the work history section.
type Experience struct {
	ID          string `json:"id"`
	Role        string `json:"role"`
	Company     string `json:"company"`
	Start       string `json:"start"`
	End         string `json:"end,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one entry of the education section.
type Education struct {
	ID          string `json:"id"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Start       string `json:"start"`
	End         string `json:"end,omitempty"`
	Description string `json:"description,omitempty"`
}

// Stat is a headline number on the home page ("50+ Projects Completed").
type Stat struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Label  string `json:"label"`
}

// Skill is a named proficiency with a 0-100 level. Category and logo
// are optional display hints.
type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Category string `json:"category,omitempty"`
	Logo     string `json:"logo,omitempty"`
}

// Profile is the singleton record describing the site owner. The table
// holds exactly one row; the store provisions it lazily on first read.
//
// Bio is the legacy single-field bio. BioHome and BioAbout were added
// later for page-specific copy and fall back to Bio when empty.
type Profile struct {
	Name         string       `json:"name"`
	Title        string       `json:"title"`
	Bio          string       `json:"bio"`
	BioHome      string       `json:"bioHome"`
	BioAbout     string       `json:"bioAbout"`
	ProfileImage string       `json:"profileImage"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Location     string       `json:"location"`
	Github       string       `json:"github"`
	Linkedin     string       `json:"linkedin"`
	Twitter      string       `json:"twitter"`
	CVUrl        string       `json:"cvUrl,omitempty"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Stats        []Stat       `json:"stats"`
	Skills       []Skill      `json:"skills"`
	Availability Availability `json:"availability"`
}

// DefaultProfile returns the profile used to provision the singleton row
// and to backfill sections that predate their columns.
func DefaultProfile() Profile {
	return Profile{
		Name:         "Your Name",
		Title:        "Full Stack Developer",
		Bio:          "With over 5 years of experience in web development, I specialize in creating elegant, efficient, and scalable solutions. My passion lies in transforming complex problems into simple, beautiful, and intuitive designs.",
		BioHome:      "With over 5 years of experience in web development, I specialize in creating elegant, efficient, and scalable solutions.",
		BioAbout:     "With over 5 years of experience in web development, I specialize in creating elegant, efficient, and scalable solutions. My passion lies in transforming complex problems into simple, beautiful, and intuitive designs.",
		ProfileImage: "https://i.pinimg.com/736x/0d/7a/c0/0d7ac03da06b6b967b4008d5b7682fd3.jpg",
		Email:        "contact@example.com",
		Phone:        "+1 (555) 123-4567",
		Location:     "San Francisco, CA",
		Github:       "https://github.com",
		Linkedin:     "https://linkedin.com",
		Twitter:      "https://twitter.com",
		Experience:   []Experience{},
		Education:    []Education{},
		Stats: []Stat{
			{ID: "stat-projects", Number: "50+", Label: "Projects Completed"},
			{ID: "stat-years", Number: "5+", Label: "Years Experience"},
			{ID: "stat-satisfaction", Number: "100%", Label: "Client Satisfaction"},
		},
		Skills: []Skill{
			{ID: "skill-react", Name: "React", Level: 95, Category: "framework", Logo: "https://cdn.jsdelivr.net/gh/devicons/devicon/icons/react/react-original.svg"},
			{ID: "skill-typescript", Name: "TypeScript", Level: 90, Category: "language", Logo: "https://cdn.jsdelivr.net/gh/devicons/devicon/icons/typescript/typescript-original.svg"},
			{ID: "skill-node", Name: "Node.js", Level: 88, Category: "framework", Logo: "https://cdn.jsdelivr.net/gh/devicons/devicon/icons/nodejs/nodejs-original.svg"},
			{ID: "skill-python", Name: "Python", Level: 85, Category: "language", Logo: "https://cdn.jsdelivr.net/gh/devicons/devicon/icons/python/python-original.svg"},
			{ID: "skill-aws", Name: "AWS", Level: 82, Category: "tool", Logo: "https://cdn.jsdelivr.net/gh/devicons/devicon/icons/amazonwebservices/amazonwebservices-original.svg"},
			{ID: "skill-docker", Name: "Docker", Level: 80, Category: "tool", Logo: "https://cdn.jsdelivr.net/gh/devicons/devicon/icons/docker/docker-original.svg"},
		},
		Availability: Available,
	}
}

// Normalize reconciles a stored profile into the current shape: the
// page-specific bios fall back to the legacy bio, sections that were
// never written fall back to the defaults, the availability defaults to
// available, and skill levels are clamped to [0, 100].
func (p *Profile) Normalize() {
	def := DefaultProfile()

	if p.BioHome == "" {
		p.BioHome = p.Bio
	}
	if p.BioAbout == "" {
		p.BioAbout = p.Bio
	}
	if p.Experience == nil {
		p.Experience = def.Experience
	}
	if p.Education == nil {
		p.Education = def.Education
	}
	if p.Stats == nil {
		p.Stats = def.Stats
	}
	if p.Skills == nil {
		p.Skills = def.Skills
	}
	if p.Availability != Available && p.Availability != Unavailable {
		p.Availability = Available
	}
	for i := range p.Skills {
		p.Skills[i].Level = ClampLevel(p.Skills[i].Level)
	}
}

// ClampLevel forces a skill level into the valid [0, 100] range.
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// yearRe matches a bare four-digit year, monthYearRe a three-letter month
// followed by one ("Mar 2021").
var (
	yearRe      = regexp.MustCompile(`^\d{4}$`)
	monthYearRe = regexp.MustCompile(`^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec) \d{4}$`)
)

// ValidSpanDate reports whether a start/end date string is acceptable.
// "Present" is only valid as an end date, and an end date may be empty.
func ValidSpanDate(s string, isEnd bool) bool {
	if isEnd && (s == "" || s == "Present") {
		return true
	}
	return yearRe.MatchString(s) || monthYearRe.MatchString(s)
}

// Validate checks the profile before any write reaches the database.
// It returns the first problem found as a user-facing message.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if p.Availability != "" && p.Availability != Available && p.Availability != Unavailable {
		return fmt.Errorf("availability must be %q or %q", Available, Unavailable)
	}
	for _, e := range p.Experience {
		if !ValidSpanDate(e.Start, false) {
			return fmt.Errorf("experience %q: start must be a year (2021), month and year (Mar 2021)", e.Role)
		}
		if !ValidSpanDate(e.End, true) {
			return fmt.Errorf("experience %q: end must be a year, month and year, or Present", e.Role)
		}
	}
	for _, e := range p.Education {
		if !ValidSpanDate(e.Start, false) {
			return fmt.Errorf("education %q: start must be a year (2021), month and year (Mar 2021)", e.Degree)
		}
		if !ValidSpanDate(e.End, true) {
			return fmt.Errorf("education %q: end must be a year, month and year, or Present", e.Degree)
		}
	}
	for _, s := range p.Skills {
		if s.Level < 0 || s.Level > 100 {
			return fmt.Errorf("skill %q: level must be between 0 and 100", s.Name)
		}
	}
	return nil
}
