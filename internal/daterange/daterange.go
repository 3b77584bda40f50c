// Package daterange implements the optional inclusive date window applied
// to session and performance collections.
package daterange

import (
	"strings"
	"time"
)

// ISODate is the calendar date layout used across provider exports.
const ISODate = "2006-01-02"

// Range is an optional [From, To] window. A nil bound means "no restriction
// on that side"; filtering only applies when both bounds are present.
type Range struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// Unbounded reports whether the range imposes no restriction. A partially
// specified range is treated as unbounded: the filter fails open rather
// than guessing a missing bound.
func (r Range) Unbounded() bool {
	return r.From == nil || r.To == nil
}

// Contains reports whether the given ISO calendar date falls inside the
// range, inclusive on both ends. Unparseable dates pass the filter; the
// surrounding pipeline tolerates sparse provider data.
func (r Range) Contains(date string) bool {
	if r.Unbounded() {
		return true
	}

	parsed, err := time.Parse(ISODate, strings.TrimSpace(date))
	if err != nil {
		return true
	}

	from := truncateToDay(*r.From)
	to := truncateToDay(*r.To)
	return !parsed.Before(from) && !parsed.After(to)
}

// Parse builds a Range from raw from/to query values. Blank values leave
// the bound nil. Accepts ISO dates and RFC 3339 timestamps.
func Parse(from, to string) Range {
	return Range{
		From: parseBound(from),
		To:   parseBound(to),
	}
}

func parseBound(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(ISODate, raw); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
