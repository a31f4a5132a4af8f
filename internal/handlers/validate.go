package handlers

import (
	"fmt"
	"regexp"
	"strings"
)

// Field length caps for write endpoints. Content is rich HTML from the
// admin editor and gets the large cap.
const (
	maxNameLen    = 120
	maxEmailLen   = 254
	maxTitleLen   = 200
	maxExcerptLen = 500
	maxMessageLen = 5000
	maxContentLen = 200_000
	maxURLLen     = 2048
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// fieldErrors collects validation failures so a response can report all
// of them at once instead of one per round trip.
type fieldErrors []string

func (fe fieldErrors) Error() string {
	return strings.Join(fe, "; ")
}

func (fe *fieldErrors) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		*fe = append(*fe, field+" is required")
	}
}

func (fe *fieldErrors) maxLen(field, value string, max int) {
	if len(value) > max {
		*fe = append(*fe, fmt.Sprintf("%s exceeds %d characters", field, max))
	}
}

func (fe *fieldErrors) email(field, value string) {
	if value != "" && !emailRe.MatchString(value) {
		*fe = append(*fe, field+" is not a valid email address")
	}
}

// err returns the collected failures, or nil when everything passed.
func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
