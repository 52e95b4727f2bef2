// Package dateparse converts the raw date strings banks put in SMS bodies
// into calendar dates.
package dateparse

import (
	"strings"
	"time"
)

type layout struct {
	format    string
	shortYear bool
}

// layouts are tried in order; the first that parses wins.
var layouts = []layout{
	{format: "2-Jan-06", shortYear: true},
	{format: "2-Jan-2006"},
	{format: "2Jan06", shortYear: true},
	{format: "2Jan2006"},
	{format: "2006-01-02"},
	{format: "02/01/2006"},
	{format: "02/01/06", shortYear: true},
	{format: "2/1/2006"},
	{format: "2/1/06", shortYear: true},
}

// Parse returns the date in raw, in UTC at midnight, and whether any known
// layout matched. Two-digit years are read as 2000-2099.
func Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, l := range layouts {
		t, err := time.Parse(l.format, raw)
		if err != nil {
			continue
		}
		if l.shortYear && t.Year() < 2000 {
			t = t.AddDate(100, 0, 0)
		}
		return t, true
	}

	return time.Time{}, false
}
