package domain

import (
	"strings"
	"time"
)

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for names, ranks and other free-text labels.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeOptionalText applies NormalizeHumanName and maps blank values to nil.
func NormalizeOptionalText(p *string) *string {
	if p == nil {
		return nil
	}
	v := NormalizeHumanName(*p)
	if v == "" {
		return nil
	}
	return &v
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
