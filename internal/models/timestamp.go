package models

import (
	"time"

	"github.com/desertthunder/kedoo/internal/shared"
)

// TimestampLayout matches what the browser's Date.toISOString wrote.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", shared.DateLayout}

// Timestamp is a stored instant kept as the raw text it was written with.
//
// Documents from the browser dashboard are not guaranteed to hold RFC 3339 values, so parsing is deferred
// to [Timestamp.Time] and unparseable text survives a read/write cycle unchanged.
type Timestamp string

// NewTimestamp formats t in UTC with [TimestampLayout].
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UTC().Format(TimestampLayout))
}

// IsZero reports whether no timestamp was recorded.
func (t Timestamp) IsZero() bool { return t == "" }

// Time parses the timestamp as RFC 3339, a zone-less date-time or a calendar date.
func (t Timestamp) Time() (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, string(t)); err == nil {
			return v, true
		}
	}
	return time.Time{}, false
}

// Format renders the timestamp with layout, or returns the raw text when it cannot be parsed.
func (t Timestamp) Format(layout string) string {
	if v, ok := t.Time(); ok {
		return v.Format(layout)
	}
	return string(t)
}
