// Package agerel resolves ages from dates of birth and classifies the
// relation between a recorded age and a requested target age.
package agerel

import (
	"strings"
	"time"
)

// Relation between a base (recorded) age and a target age.
type Relation string

// Relations.
const (
	RelationPast   Relation = "past"
	RelationFuture Relation = "future"
	RelationSame   Relation = "same"
)

// Plausibility bounds for derived ages.
const (
	minPlausibleAge = 0
	maxPlausibleAge = 120
)

// dobLayout is the registry date-of-birth format.
const dobLayout = "2006-01-02"

// recordedLayouts are accepted recording timestamp formats, most specific
// first. RFC3339 covers the usual trailing-Z form.
var recordedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Classify returns the relation between the base and target ages.
func Classify(baseAge, targetAge int) Relation {
	switch {
	case targetAge > baseAge:
		return RelationFuture
	case targetAge < baseAge:
		return RelationPast
	default:
		return RelationSame
	}
}

// ParseRecordedUTC parses an ISO-8601 recording timestamp, e.g.
// "2026-02-01T20:22:43.386675Z". Returns false for empty or unparsable input.
func ParseRecordedUTC(recordedUTC string) (time.Time, bool) {
	s := strings.TrimSpace(recordedUTC)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range recordedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DeriveAge computes the whole-year age at the recording date from a
// YYYY-MM-DD date of birth. One year is subtracted when the recording's
// month/day precedes the birthday. Ages outside [0,120] are rejected.
func DeriveAge(dob string, recorded time.Time) (int, bool) {
	if strings.TrimSpace(dob) == "" || recorded.IsZero() {
		return 0, false
	}
	birth, err := time.Parse(dobLayout, strings.TrimSpace(dob))
	if err != nil {
		return 0, false
	}

	age := recorded.Year() - birth.Year()
	if recorded.Month() < birth.Month() ||
		(recorded.Month() == birth.Month() && recorded.Day() < birth.Day()) {
		age--
	}

	if age < minPlausibleAge || age > maxPlausibleAge {
		return 0, false
	}
	return age, true
}

// ResolveRecordedAge derives the age at a recording straight from the raw
// registry fields, combining timestamp parsing and dob arithmetic.
func ResolveRecordedAge(dob, recordedUTC string) (int, bool) {
	recorded, ok := ParseRecordedUTC(recordedUTC)
	if !ok {
		return 0, false
	}
	return DeriveAge(dob, recorded)
}
